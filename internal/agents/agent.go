package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohamedkhairy/stock-analyst/internal/llm"
)

// Agent runs prompts under one role
type Agent struct {
	role Role
	gen  llm.Generator
}

// NewAgent creates an agent for role backed by gen
func NewAgent(role Role, gen llm.Generator) *Agent {
	return &Agent{role: role, gen: gen}
}

// Role returns the agent's role
func (a *Agent) Role() Role {
	return a.role
}

// Run sends input under the agent's role and returns the trimmed answer
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	out, err := a.gen.Generate(ctx, llm.Prompt{
		Role:   a.role.Name,
		System: a.role.SystemPrompt(),
		User:   input,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", a.role.Name, err)
	}
	return strings.TrimSpace(out), nil
}

// Team holds the four agents of the report pipeline
type Team struct {
	MarketAnalyst     *Agent
	CompanyResearcher *Agent
	Strategist        *Agent
	TeamLead          *Agent
}

// NewTeam builds a team from roles, all sharing gen
func NewTeam(roles Roles, gen llm.Generator) (*Team, error) {
	if err := roles.Validate(); err != nil {
		return nil, err
	}
	return &Team{
		MarketAnalyst:     NewAgent(roles[RoleMarketAnalyst], gen),
		CompanyResearcher: NewAgent(roles[RoleCompanyResearcher], gen),
		Strategist:        NewAgent(roles[RoleSecuritiesStrategist], gen),
		TeamLead:          NewAgent(roles[RoleTeamLead], gen),
	}, nil
}
