package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/rawdata"
)

func TestRawPayloadRows_LastDuplicateWins(t *testing.T) {
	fetchedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []rawdata.Payload{
		rawdata.NewPayload(rawdata.EntityGames, "2024-03-01_09-00-00", []byte(`{"v":1}`), fetchedAt),
		rawdata.NewPayload(rawdata.EntitySports, "2024-03-01_09-00-00", []byte(`{"v":2}`), fetchedAt),
		rawdata.NewPayload(rawdata.EntityGames, "2024-03-01_09-00-00", []byte(`{"v":3}`), fetchedAt),
	}

	rows := rawPayloadRows(items)
	if len(rows) != 2 {
		t.Fatalf("unexpected row count: %d", len(rows))
	}
	if rows[0].EntityType != rawdata.EntityGames || rows[0].Payload != `{"v":3}` {
		t.Fatalf("expected last games payload to win, got %+v", rows[0])
	}
	if rows[1].EntityType != rawdata.EntitySports {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if rows[0].PayloadHash == rows[1].PayloadHash {
		t.Fatalf("expected distinct payload hashes")
	}
}

func TestRawDataRepository_UpsertManyEmptyIsNoop(t *testing.T) {
	repo := NewRawDataRepository(nil)
	if err := repo.UpsertMany(context.Background(), nil); err != nil {
		t.Fatalf("upsert empty: %v", err)
	}
}
