package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXNPVCommand_Evaluate(t *testing.T) {
	out, _, err := runCmd(t, "", "xnpv", "--flow=-100@0", "--flow=110@365", "--rate", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "XNPV at 10.0000%: 0.00")
}

func TestXNPVCommand_Solve(t *testing.T) {
	out, _, err := runCmd(t, "", "xnpv", "--flow=-98000@0,100000@60", "--solve", "--config", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "IRR (%): 13.08")
}

func TestXNPVCommand_SolveFailurePrintsErrorToken(t *testing.T) {
	out, _, err := runCmd(t, "", "xnpv", "--flow=0@0,100@60", "--solve", "--config", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "IRR (%): Error")
}

func TestXNPVCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no flows", []string{"xnpv", "--rate", "0.1"}, "--flow"},
		{"no rate", []string{"xnpv", "--flow=-100@0"}, "--rate"},
		{"bad flow", []string{"xnpv", "--flow=abc", "--rate", "0.1"}, "amount@day"},
		{"rate out of domain", []string{"xnpv", "--flow=-100@0", "--rate", "-1"}, "rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCmd(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
