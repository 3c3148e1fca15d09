package models

import "fmt"

// Participant is a person taking part in a split.
type Participant struct {
	// ID is the unique, session-stable identifier (UUID format).
	ID string `json:"id" yaml:"id"`

	// Name is the display name. It is also used to auto-assign receipt items.
	Name string `json:"name" yaml:"name"`
}

// DefaultParticipantName is the placeholder name given to the n-th participant
// (1-based) when participants are created by count.
func DefaultParticipantName(n int) string {
	return fmt.Sprintf("Person %d", n)
}

// ParticipantIDs returns the ids of participants in their original order.
func ParticipantIDs(participants []Participant) []string {
	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	return ids
}
