package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sla-service/internal/auth"
	"github.com/spec-kit/sla-service/internal/config"
	"github.com/spec-kit/sla-service/internal/domain"
)

const fixture = `
policies:
  - sector_id: S
    p1_hours: 24
    p3_hours: 168
tickets:
  - {id: ok-1, sector_id: S, priority: P1, status: resolved, created_at: 2025-03-03T09:00:00Z, first_in_progress_at: 2025-03-03T10:00:00Z, resolved_at: 2025-03-03T13:00:00Z}
  - {id: ok-2, sector_id: S, priority: P1, status: closed, created_at: 2025-03-03T09:00:00Z, resolved_at: 2025-03-04T08:00:00Z}
  - {id: late, sector_id: S, priority: P1, status: resolved, created_at: 2025-03-03T09:00:00Z, resolved_at: 2025-03-04T15:00:00Z}
  - {id: open, sector_id: S, priority: P1, status: open, created_at: 2025-03-03T09:00:00Z}
  - {id: prev, sector_id: S, priority: P1, status: resolved, created_at: 2025-02-25T09:00:00Z, resolved_at: 2025-02-25T10:00:00Z}
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReport_JSON(t *testing.T) {
	path := writeFixture(t)

	out, err := run(t, "report", "-i", path, "--now", "2025-03-05T09:00:00Z", "--days", "7")
	require.NoError(t, err)

	var report struct {
		Current struct {
			Total         int     `json:"total"`
			ResolvedTotal int     `json:"resolved_total"`
			OverdueCount  int     `json:"overdue_count"`
			CompliancePct float64 `json:"compliance_pct"`
		} `json:"current"`
		Previous struct {
			Total int `json:"total"`
		} `json:"previous"`
		Trends map[string]json.RawMessage `json:"trends"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 4, report.Current.Total)
	assert.Equal(t, 3, report.Current.ResolvedTotal)
	assert.Equal(t, 1, report.Current.OverdueCount)
	assert.InDelta(t, 66.67, report.Current.CompliancePct, 0.01)
	assert.Equal(t, 1, report.Previous.Total)
	assert.Contains(t, report.Trends, "total")
	assert.Contains(t, report.Trends, "compliance_pct")
	assert.NotContains(t, report.Trends, "overdue_count")
}

func TestReport_CSV(t *testing.T) {
	path := writeFixture(t)

	out, err := run(t, "report", "-i", path, "--from", "2025-03-01T00:00:00Z", "--to", "2025-03-08T00:00:00Z",
		"--now", "2025-03-05T09:00:00Z", "--sector", "S", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "metric,value,ticket_count,period,sector", lines[0])
	assert.Equal(t, "total_tickets,4,4,2025-03-01..2025-03-08,S", lines[1])
	assert.Contains(t, lines, "sla_compliance,66.7%,3,2025-03-01..2025-03-08,S")
	assert.Contains(t, lines, "sla_compliance_P1,66.7%,3,2025-03-01..2025-03-08,S")
}

func TestReport_Errors(t *testing.T) {
	path := writeFixture(t)

	cases := map[string][]string{
		"missing input":  {"report"},
		"unknown format": {"report", "-i", path, "--format", "xml"},
		"inverted range": {"report", "-i", path, "--from", "2025-03-08T00:00:00Z", "--to", "2025-03-01T00:00:00Z"},
		"bad now":        {"report", "-i", path, "--now", "tomorrow"},
		"missing file":   {"report", "-i", filepath.Join(t.TempDir(), "nope.yaml")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestResolution(t *testing.T) {
	path := writeFixture(t)

	out, err := run(t, "resolution", "-i", path, "--now", "2025-03-05T09:00:00Z", "--days", "7")
	require.NoError(t, err)

	var report struct {
		Count   int    `json:"count"`
		Average string `json:"average"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, "3h", report.Average)
}

func TestTicket(t *testing.T) {
	path := writeFixture(t)

	out, err := run(t, "ticket", "-i", path, "--id", "open", "--now", "2025-03-04T21:00:00Z")
	require.NoError(t, err)

	var resp struct {
		PolicyHours  float64  `json:"policy_hours"`
		IsOverdue    bool     `json:"is_overdue"`
		IsCompliant  *bool    `json:"is_compliant"`
		SlackSeconds *float64 `json:"slack_seconds"`
		Slack        string   `json:"slack"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 24.0, resp.PolicyHours)
	assert.True(t, resp.IsOverdue)
	assert.Nil(t, resp.IsCompliant)
	require.NotNil(t, resp.SlackSeconds)
	assert.Equal(t, -12*3600.0, *resp.SlackSeconds)
	assert.Equal(t, "-12h", resp.Slack)

	_, err = run(t, "ticket", "-i", path, "--id", "ghost")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")
	t.Setenv("AUTH_JWT_ISSUER", "identity")

	out, err := run(t, "token", "--subject-id", "ops-1", "--role", "team_lead")
	require.NoError(t, err)

	tm := auth.NewTokenManager(config.AuthConfig{JWTSecret: "cli-secret", Issuer: "identity"})
	claims, err := tm.ParseToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops-1", claims.SubjectID())
	assert.Equal(t, domain.SubjectTypeStaff, claims.Subject)
	require.NotNil(t, claims.Role)
	assert.Equal(t, domain.StaffRoleTeamLead, *claims.Role)

	cases := map[string][]string{
		"missing subject": {"token"},
		"unknown role":    {"token", "--subject-id", "x", "--role", "owner"},
		"unknown type":    {"token", "--subject-id", "x", "--type", "robot"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "slactl dev (commit none, built unknown)\n", out)
}
