package agents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mohamedkhairy/stock-analyst/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoles(t *testing.T) {
	roles := DefaultRoles()
	require.NoError(t, roles.Validate())
	assert.Equal(t, []string{"company_researcher", "market_analyst", "securities_strategist", "team_lead"}, roles.Names())

	lead := roles[RoleTeamLead]
	assert.Equal(t, RoleTeamLead, lead.Name)
	assert.True(t, lead.Markdown)
	assert.Contains(t, lead.SystemPrompt(), "ranked list")
	assert.Contains(t, lead.SystemPrompt(), "markdown")
}

func TestLoadRoles_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
roles:
  team_lead:
    description: Writes a one-line verdict.
    instructions: [Be brief.]
    markdown: false
`), 0o644))

	roles, err := LoadRoles(path)
	require.NoError(t, err)
	require.NoError(t, roles.Validate())
	assert.Equal(t, "Writes a one-line verdict.", roles[RoleTeamLead].Description)
	assert.NotContains(t, roles[RoleTeamLead].SystemPrompt(), "markdown")
	assert.Equal(t, DefaultRoles()[RoleMarketAnalyst], roles[RoleMarketAnalyst], "other roles keep defaults")

	roles, err = LoadRoles(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Len(t, roles, 4)
}

func TestLoadRoles_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles: [not, a, map]"), 0o644))
	_, err := LoadRoles(path)
	assert.Error(t, err)

	roles := DefaultRoles()
	delete(roles, RoleSecuritiesStrategist)
	assert.Error(t, roles.Validate())
}

func TestAgent_Run(t *testing.T) {
	gen := llm.NewMockGenerator("  analysis text \n")
	team, err := NewTeam(DefaultRoles(), gen)
	require.NoError(t, err)

	out, err := team.MarketAnalyst.Run(context.Background(), "Compare these")
	require.NoError(t, err)
	assert.Equal(t, "analysis text", out)

	require.Len(t, gen.Prompts, 1)
	assert.Equal(t, RoleMarketAnalyst, gen.Prompts[0].Role)
	assert.Contains(t, gen.Prompts[0].System, "Analyzes and compares stock performance")
	assert.Equal(t, "Compare these", gen.Prompts[0].User)

	gen.Err = errors.New("down")
	_, err = team.TeamLead.Run(context.Background(), "x")
	assert.ErrorContains(t, err, RoleTeamLead)
}
