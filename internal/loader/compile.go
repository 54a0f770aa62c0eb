// Package loader reads requirement definitions from CUE files so batch
// inserts can be driven from version-controlled definition directories.
package loader

import (
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/reqrank/internal/req"
)

// CompileError reports a malformed requirement definition.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileRequirement parses a CUE value into a requirement.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the requirement struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`requirement: auth_mfa: { title: "MFA", priority: 200 }`)
//	r, err := CompileRequirement(v.LookupPath(cue.ParsePath("requirement.auth_mfa")))
//
// The struct label becomes the ID unless an explicit id field overrides
// it. IDs are NFC-normalized. A missing priority defaults to 128.
func CompileRequirement(v cue.Value) (*req.Requirement, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	r := &req.Requirement{Priority: req.DefaultPriority}

	// ID defaults to the struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		r.ID = labels[len(labels)-1].String()
	}

	idVal := v.LookupPath(cue.ParsePath("id"))
	if idVal.Exists() {
		id, err := idVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		r.ID = id
	}
	r.ID = req.NormalizeID(r.ID)
	if r.ID == "" {
		return nil, &CompileError{
			Field:   "id",
			Message: "requirement id is empty",
			Pos:     v.Pos(),
		}
	}

	// Parse title (required)
	titleVal := v.LookupPath(cue.ParsePath("title"))
	if !titleVal.Exists() {
		return nil, &CompileError{
			Field:   "title",
			Message: "title is required",
			Pos:     v.Pos(),
		}
	}
	title, err := titleVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	r.Title = title

	// Parse description (optional)
	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		r.Description = desc
	}

	// Parse priority (optional, 0-255)
	prioVal := v.LookupPath(cue.ParsePath("priority"))
	if prioVal.Exists() {
		prio, err := prioVal.Int64()
		if err != nil {
			return nil, &CompileError{
				Field:   "priority",
				Message: fmt.Sprintf("priority must be an integer: %v", err),
				Pos:     prioVal.Pos(),
			}
		}
		if prio < int64(req.MinPriority) || prio > int64(req.MaxPriority) {
			return nil, &CompileError{
				Field:   "priority",
				Message: fmt.Sprintf("priority %d outside [0,255]", prio),
				Pos:     prioVal.Pos(),
			}
		}
		r.Priority = uint8(prio)
	}

	return r, nil
}

// formatCUEError converts a CUE error into a CompileError with position info.
func formatCUEError(err error) *CompileError {
	var pos token.Pos
	if cueErr, ok := err.(cueerrors.Error); ok {
		pos = cueErr.Position()
	}
	return &CompileError{
		Field:   "cue",
		Message: err.Error(),
		Pos:     pos,
	}
}
