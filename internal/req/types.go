// Package req defines the requirement entity shared by the store,
// the rebalancing engine, and the loaders.
//
// A requirement carries an 8-bit priority: 0 is the lowest rank,
// 255 the highest. Priorities are not unique across requirements;
// two requirements sharing a value is a collision that the
// rebalancing engine resolves on demand.
package req

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Priority bounds and defaults for the uint8 priority scale.
const (
	MinPriority     uint8 = 0
	MaxPriority     uint8 = 255
	DefaultPriority uint8 = 128
)

// Requirement is a single entry in the requirement set.
// The engine only ever mutates Priority; identity and text fields
// are owned by external callers.
type Requirement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    uint8  `json:"priority"`
}

// Update records a priority change produced by a rebalancing operation.
type Update struct {
	ID          string `json:"id"`
	OldPriority uint8  `json:"old_priority"`
	NewPriority uint8  `json:"new_priority"`
}

// NormalizeID returns the Unicode NFC form of an identifier.
// Visually identical IDs with different codepoint sequences must not
// produce distinct rows, so every ingest path normalizes first.
func NormalizeID(id string) string {
	return norm.NFC.String(id)
}

// Validate checks that a requirement is well-formed for insertion.
func (r Requirement) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("requirement has empty id")
	}
	return nil
}
