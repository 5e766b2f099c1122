package agents

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role names used by the report pipeline
const (
	RoleMarketAnalyst        = "market_analyst"
	RoleCompanyResearcher    = "company_researcher"
	RoleSecuritiesStrategist = "securities_strategist"
	RoleTeamLead             = "team_lead"
)

// RequiredRoles must all be defined for a Team
var RequiredRoles = []string{
	RoleMarketAnalyst,
	RoleCompanyResearcher,
	RoleSecuritiesStrategist,
	RoleTeamLead,
}

//go:embed roles.yaml
var defaultRoles []byte

// Role describes one agent persona
type Role struct {
	Name         string   `yaml:"-"`
	Description  string   `yaml:"description"`
	Instructions []string `yaml:"instructions"`
	Markdown     bool     `yaml:"markdown"`
}

// SystemPrompt renders the role as a system message
func (r Role) SystemPrompt() string {
	var b strings.Builder
	b.WriteString(r.Description)
	if len(r.Instructions) > 0 {
		b.WriteString("\n\nInstructions:\n")
		for _, ins := range r.Instructions {
			b.WriteString("- ")
			b.WriteString(ins)
			b.WriteString("\n")
		}
	}
	if r.Markdown {
		b.WriteString("\nFormat your response using markdown.")
	}
	return strings.TrimSpace(b.String())
}

type roleFile struct {
	Roles map[string]Role `yaml:"roles"`
}

// Roles is a set of roles keyed by name
type Roles map[string]Role

// Names returns the role names sorted
func (r Roles) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseRoles decodes a roles YAML document
func ParseRoles(data []byte) (Roles, error) {
	var f roleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roles: %w", err)
	}
	roles := make(Roles, len(f.Roles))
	for name, role := range f.Roles {
		role.Name = name
		roles[name] = role
	}
	return roles, nil
}

// DefaultRoles returns the embedded role definitions
func DefaultRoles() Roles {
	roles, err := ParseRoles(defaultRoles)
	if err != nil {
		panic(err) // embedded file is part of the build
	}
	return roles
}

// LoadRoles returns the embedded roles, overridden by any role defined in
// the YAML file at path. An empty path or a missing file keeps the defaults.
func LoadRoles(path string) (Roles, error) {
	roles := DefaultRoles()
	if path == "" {
		return roles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read roles: %w", err)
	}
	if len(data) == 0 {
		return roles, nil
	}

	overrides, err := ParseRoles(data)
	if err != nil {
		return nil, err
	}
	for name, role := range overrides {
		roles[name] = role
	}
	return roles, nil
}

// Validate checks that every required role is present and described
func (r Roles) Validate() error {
	for _, name := range RequiredRoles {
		role, ok := r[name]
		if !ok {
			return fmt.Errorf("role %q is not defined", name)
		}
		if strings.TrimSpace(role.Description) == "" {
			return fmt.Errorf("role %q has no description", name)
		}
	}
	return nil
}
