package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// NewPrefixedID creates a short prefixed identifier such as "hyp-1a2b3c4d".
// The prefix keeps identifiers human-scannable in reports and branch names.
// The short form is taken from the trailing random section of the UUID;
// the leading hex of a v7 UUID is a millisecond timestamp and is shared
// by every ID minted in the same window.
func NewPrefixedID(prefix string) ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	hex := strings.ReplaceAll(id.String(), "-", "")
	return ID(fmt.Sprintf("%s-%s", prefix, hex[24:]))
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	HypothesisID ID
	ExperimentID ID
	EvidenceID   ID
	QueryID      ID
	SchemaID     ID
	SessionID    ID
)

// ID constructors with the conventional prefixes
func NewHypothesisID() HypothesisID { return HypothesisID(NewPrefixedID("hyp")) }
func NewExperimentID() ExperimentID { return ExperimentID(NewPrefixedID("exp")) }
func NewEvidenceID() EvidenceID     { return EvidenceID(NewPrefixedID("evi")) }
func NewSchemaID() SchemaID         { return SchemaID(NewPrefixedID("wts")) }
func NewSessionID() SessionID       { return SessionID(NewPrefixedID("ses")) }

// String conversions for domain IDs
func (id HypothesisID) String() string { return ID(id).String() }
func (id ExperimentID) String() string { return ID(id).String() }
func (id EvidenceID) String() string   { return ID(id).String() }
func (id QueryID) String() string      { return ID(id).String() }
func (id SchemaID) String() string     { return ID(id).String() }
func (id SessionID) String() string    { return ID(id).String() }

// ParseHypothesisID parses a string into HypothesisID
func ParseHypothesisID(s string) (HypothesisID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("hypothesis ID cannot be empty")
	}
	return HypothesisID(s), nil
}

// ParseExperimentID parses a string into ExperimentID
func ParseExperimentID(s string) (ExperimentID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("experiment ID cannot be empty")
	}
	return ExperimentID(s), nil
}

// ParseEvidenceID parses a string into EvidenceID
func ParseEvidenceID(s string) (EvidenceID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("evidence ID cannot be empty")
	}
	return EvidenceID(s), nil
}

// ParseSessionID parses a string into SessionID
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	return SessionID(s), nil
}
