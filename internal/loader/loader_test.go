package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCUE(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDir_Basic(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "reqs.cue", `
requirement: {
	auth_mfa: {
		title:    "Multi-factor authentication"
		priority: 200
	}
	audit_log: {
		title: "Audit logging"
	}
}
`)

	result, errs := LoadDir(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Requirements, 2)

	// ID order regardless of file layout
	assert.Equal(t, "audit_log", result.Requirements[0].ID)
	assert.Equal(t, uint8(128), result.Requirements[0].Priority)
	assert.Equal(t, "auth_mfa", result.Requirements[1].ID)
	assert.Equal(t, uint8(200), result.Requirements[1].Priority)
}

func TestLoadDir_MergesMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "a.cue", `
requirement: first: { title: "First" }
`)
	writeCUE(t, dir, "b.cue", `
requirement: second: { title: "Second", priority: 42 }
`)

	result, errs := LoadDir(dir, LoadModeFailFast)
	require.Empty(t, errs)
	assert.Equal(t, 2, result.FileCount)
	require.Len(t, result.Requirements, 2)
	assert.Equal(t, "first", result.Requirements[0].ID)
	assert.Equal(t, "second", result.Requirements[1].ID)
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, errs := LoadDir(filepath.Join(t.TempDir(), "nope"), LoadModeFailFast)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadDir_NoCUEFiles(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "readme.txt", "not cue")

	_, errs := LoadDir(dir, LoadModeFailFast)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadDir_CollectAllGathersEveryError(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "reqs.cue", `
requirement: {
	no_title: { priority: 10 }
	too_big: {
		title:    "Out of range"
		priority: 999
	}
	fine: { title: "Valid" }
}
`)

	result, errs := LoadDir(dir, LoadModeCollectAll)
	require.Len(t, errs, 2)
	require.Len(t, result.Requirements, 1)
	assert.Equal(t, "fine", result.Requirements[0].ID)

	codes := make(map[string]bool)
	for _, err := range errs {
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		codes[loadErr.Code] = true
	}
	assert.True(t, codes[ErrCodeMissingTitle])
	assert.True(t, codes[ErrCodeInvalidPriority])
}

func TestLoadDir_FailFastStopsEarly(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "reqs.cue", `
requirement: {
	aa_bad: { priority: 5 }
	bb_bad: { priority: 6 }
}
`)

	_, errs := LoadDir(dir, LoadModeFailFast)
	assert.Len(t, errs, 1)
}
