package loader

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileOne(t *testing.T, src, path string) (cue.Value, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return v.LookupPath(cue.ParsePath(path)), nil
}

func TestCompileRequirementBasic(t *testing.T) {
	v, _ := compileOne(t, `
		requirement: auth_mfa: {
			title:       "Multi-factor authentication"
			description: "Second factor on login"
			priority:    200
		}
	`, "requirement.auth_mfa")

	r, err := CompileRequirement(v)
	require.NoError(t, err)

	assert.Equal(t, "auth_mfa", r.ID)
	assert.Equal(t, "Multi-factor authentication", r.Title)
	assert.Equal(t, "Second factor on login", r.Description)
	assert.Equal(t, uint8(200), r.Priority)
}

func TestCompileRequirementDefaultsPriority(t *testing.T) {
	v, _ := compileOne(t, `
		requirement: logging: {
			title: "Structured logging"
		}
	`, "requirement.logging")

	r, err := CompileRequirement(v)
	require.NoError(t, err)
	assert.Equal(t, uint8(128), r.Priority)
	assert.Empty(t, r.Description)
}

func TestCompileRequirementExplicitIDOverridesLabel(t *testing.T) {
	v, _ := compileOne(t, `
		requirement: scratch: {
			id:    "REQ-0042"
			title: "Renamed"
		}
	`, "requirement.scratch")

	r, err := CompileRequirement(v)
	require.NoError(t, err)
	assert.Equal(t, "REQ-0042", r.ID)
}

func TestCompileRequirementNormalizesID(t *testing.T) {
	// U+0065 U+0301 (e + combining acute) must compose to U+00E9
	v, _ := compileOne(t, `
		requirement: scratch: {
			id:    "café"
			title: "NFC"
		}
	`, "requirement.scratch")

	r, err := CompileRequirement(v)
	require.NoError(t, err)
	assert.Equal(t, "café", r.ID)
}

func TestCompileRequirementMissingTitle(t *testing.T) {
	v, _ := compileOne(t, `
		requirement: untitled: {
			priority: 10
		}
	`, "requirement.untitled")

	_, err := CompileRequirement(v)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "title", compileErr.Field)
}

func TestCompileRequirementPriorityOutOfRange(t *testing.T) {
	v, _ := compileOne(t, `
		requirement: huge: {
			title:    "Too big"
			priority: 300
		}
	`, "requirement.huge")

	_, err := CompileRequirement(v)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "priority", compileErr.Field)
	assert.Contains(t, compileErr.Message, "300")
}
