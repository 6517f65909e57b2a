package usecase

import (
	"context"
	"encoding/json"
)

// GamesProvider returns the current game board plus the raw response body.
type GamesProvider interface {
	FetchGames(ctx context.Context) ([]ExternalGame, []byte, error)
}

// SportsProvider returns the sport/category taxonomy plus the raw response body.
type SportsProvider interface {
	FetchSports(ctx context.Context) ([]ExternalSport, []byte, error)
}

type ExternalGame struct {
	ID          string
	Opponents   []ExternalOpponent
	League      *ExternalLeague
	ScheduledAt json.RawMessage
}

type ExternalOpponent struct {
	Designation string
	Team        ExternalTeam
}

type ExternalTeam struct {
	Abbreviation string
	Name         string
}

// ExternalLeague fields are empty when the provider omitted them.
type ExternalLeague struct {
	Name    string
	SportID string
}

type ExternalSport struct {
	ID         string
	Name       string
	Categories []ExternalCategory
}

type ExternalCategory struct {
	ID        string
	Name      string
	GroupName string
}
