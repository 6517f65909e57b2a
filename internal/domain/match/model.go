package match

import "encoding/json"

// StartTimeLayout is the human readable start time written by the combiner.
const StartTimeLayout = "2006-01-02 15:04:05"

// Match is one game as captured from the provider, before enrichment.
type Match struct {
	SportID   string          `json:"sport_id"`
	ID        string          `json:"id"`
	HomeTeam  string          `json:"home_team"`
	AwayTeam  string          `json:"away_team"`
	StartTime json.RawMessage `json:"start_time"`
	League    string          `json:"league"`
	OddsCount []string        `json:"odds_count"`
}

// Enriched is a match joined with the category names of its sport.
// It deliberately has no sport id: the id only exists to drive the join.
type Enriched struct {
	ID        string          `json:"id"`
	HomeTeam  string          `json:"home_team"`
	AwayTeam  string          `json:"away_team"`
	StartTime json.RawMessage `json:"start_time"`
	League    string          `json:"league"`
	OddsCount []string        `json:"odds_count"`
}

func (m Match) Enrich(categoryNames []string) Enriched {
	if categoryNames == nil {
		categoryNames = []string{}
	}
	return Enriched{
		ID:        m.ID,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		StartTime: m.StartTime,
		League:    m.League,
		OddsCount: categoryNames,
	}
}
