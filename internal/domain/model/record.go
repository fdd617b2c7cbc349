// Package model contains domain models passed between layers.
package model

import "strconv"

// Tag is a categorical outcome code attached to an event, e.g. accurate,
// inaccurate, duel won.
type Tag struct {
	ID int `json:"id"`
}

// Record is a raw item from the match event stream. Player events carry an
// event-type code and a subject player; records without an event-type code
// are match-level records and mark a match boundary.
type Record struct {
	// RecordID is an optional unique id used for idempotency. Records
	// without one are never deduplicated.
	RecordID string `json:"recordId,omitempty"`

	// EventType is the event-type code (1 duel, 2 foul, 3 free kick,
	// 8 pass, 10 shot). nil means this is a match-level record.
	EventType *int `json:"eventId,omitempty"`

	// PlayerID identifies the subject player of a player event.
	PlayerID int64 `json:"playerId,omitempty"`

	// MatchID identifies the match the event belongs to.
	MatchID string `json:"matchId,omitempty"`

	// Tags refine the event outcome.
	Tags []Tag `json:"tags,omitempty"`

	// EventSec is the offset of the event within the match period.
	EventSec float64 `json:"eventSec,omitempty"`
}

// IsMatchRecord reports whether the record is a match-level record rather
// than a player event.
func (r Record) IsMatchRecord() bool {
	return r.EventType == nil
}

// Key returns the store key for the record's subject player.
func (r Record) Key() string {
	return strconv.FormatInt(r.PlayerID, 10)
}

// HasTag reports whether a tag with the given code is present.
func (r Record) HasTag(id int) bool {
	for _, t := range r.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
