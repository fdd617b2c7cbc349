package model

// Profile holds the static reference row for a player. Counters and rating
// live in the state store; the profile is attached when reference data is
// seeded and is empty for players first seen through the event stream.
type Profile struct {
	ID           int64
	Name         string
	BirthArea    string
	BirthDate    string
	Foot         string
	Role         string
	Height       int
	PassportArea string
	Weight       int
}

// Team holds the static reference row for a team.
type Team struct {
	ID   int64
	Name string
}
