package calcjob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessSpecs(t *testing.T) {
	mx := OpenMXSpec()
	assert.Equal(t, "openmx", mx.Name)
	requirePort(t, mx.Inputs, "structure")
	requirePort(t, mx.Inputs, "parameters")
	requirePort(t, mx.Outputs, "output_parameters")
	assertExit(t, mx.ExitCodes, ExitOutputMissing)
	assertExit(t, mx.ExitCodes, ExitOutputIncomplete)

	dm := DosMainSpec()
	assert.Equal(t, "dosmain", dm.Name)
	requirePort(t, dm.Inputs, "method")
	assertExit(t, dm.ExitCodes, ExitDosMissing)
	assertExit(t, dm.ExitCodes, ExitFeatureNotAvailable)
}

func TestExitCodesDisjoint(t *testing.T) {
	seen := map[int]string{}
	for _, spec := range []ProcessSpec{OpenMXSpec(), DosMainSpec()} {
		for _, e := range spec.ExitCodes {
			if prev, dup := seen[e.Code]; dup && prev != spec.Name {
				t.Errorf("exit code %d declared by both %s and %s", e.Code, prev, spec.Name)
			}
			seen[e.Code] = spec.Name
		}
	}
}

func requirePort(t *testing.T, ports []Port, name string) {
	t.Helper()
	for _, p := range ports {
		if p.Name == name {
			require.True(t, p.Required, "port %s should be required", name)
			return
		}
	}
	t.Fatalf("port %s not declared", name)
}

func assertExit(t *testing.T, codes []ExitSpec, code int) {
	t.Helper()
	for _, e := range codes {
		if e.Code == code {
			return
		}
	}
	t.Errorf("exit code %d not declared", code)
}
