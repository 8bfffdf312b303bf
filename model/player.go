package model

// PlayerID is the player ID type
type PlayerID string

// Player of a match
type Player struct {
	ID   PlayerID
	Name string
}
