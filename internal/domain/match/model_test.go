package match

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEnrich_DropsSportIDAndNeverNullsNames(t *testing.T) {
	m := Match{
		SportID:   "5",
		ID:        "1",
		HomeTeam:  "A",
		AwayTeam:  "B",
		StartTime: json.RawMessage(`"2023-11-14 22:13:20"`),
		League:    "X",
		OddsCount: []string{},
	}

	got := m.Enrich(nil)
	if got.OddsCount == nil || len(got.OddsCount) != 0 {
		t.Fatalf("expected empty odds_count, got %#v", got.OddsCount)
	}

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal enriched: %v", err)
	}
	if strings.Contains(string(raw), "sport_id") {
		t.Fatalf("sport_id leaked into output: %s", raw)
	}
	if !strings.Contains(string(raw), `"odds_count":[]`) {
		t.Fatalf("expected odds_count list in output: %s", raw)
	}

	withNames := m.Enrich([]string{"Moneyline", "Spread"})
	if len(withNames.OddsCount) != 2 || withNames.OddsCount[1] != "Spread" {
		t.Fatalf("unexpected names: %v", withNames.OddsCount)
	}
	if withNames.ID != m.ID || withNames.League != m.League || string(withNames.StartTime) != string(m.StartTime) {
		t.Fatalf("fields not carried over: %+v", withNames)
	}
}
