package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

func run(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	return &out, cmd.Execute()
}

func TestExpandRoutine_DryRun(t *testing.T) {
	out, err := run(t, "todos", "expand-routine",
		"--title", "Check fire extinguishers",
		"--category", "security",
		"--start", "2025-01-06",
		"--interval", "1",
		"--unit", "week",
		"--days", "1,4",
		"--count", "3",
	)
	require.NoError(t, err)

	var got expandOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "Check fire extinguishers", got.Title)
	require.Equal(t, []string{"2025-01-06", "2025-01-09", "2025-01-13"}, got.Dates)
}

func TestExpandRoutine_RejectsInvalidDefinition(t *testing.T) {
	_, err := run(t, "todos", "expand-routine", "--title", "Sweep", "--start", "2025-01-06")
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = run(t, "todos", "expand-routine", "--title", "Sweep", "--users", "1", "--tz", "Mars/Olympus")
	require.Error(t, err)
}

func TestNextCode_RequiresCategory(t *testing.T) {
	_, err := run(t, "assets", "next-code")
	require.Error(t, err)
}

func TestAuthzCheck(t *testing.T) {
	out, err := run(t, "authz", "check", "--role", "ga", "--object", "requests", "--action", "approve")
	require.NoError(t, err)
	var got authzCheckOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.True(t, got.Allowed)
	require.Equal(t, "role:ga", got.Subject)
	require.Equal(t, []string{"role:ga", "requests", "approve"}, got.Matched)

	out, err = run(t, "authz", "check", "--role", "user", "--object", "assets", "--action", "cleanup")
	require.NoError(t, err)
	got = authzCheckOutput{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.False(t, got.Allowed)
}
