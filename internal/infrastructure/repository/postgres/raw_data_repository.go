package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/rawdata"
	qb "github.com/riskibarqy/hotstreak-pipeline/internal/platform/querybuilder"
)

const rawDataPayloadsTable = "raw_data_payloads"

const upsertRawPayloadSuffix = `ON CONFLICT (source, entity_type, entity_key)
DO UPDATE SET
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at,
    ingested_at = NOW()`

type RawDataRepository struct {
	db *sqlx.DB
}

var _ rawdata.Repository = (*RawDataRepository)(nil)

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

// UpsertMany stores payloads in a single statement keyed by
// (source, entity_type, entity_key). Later items win over earlier duplicates.
func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	rows := rawPayloadRows(items)
	if len(rows) == 0 {
		return nil
	}

	query, args, err := qb.InsertModels(rawDataPayloadsTable, rows, upsertRawPayloadSuffix)
	if err != nil {
		return fmt.Errorf("build upsert raw payload query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %d raw payload(s): %w", len(rows), err)
	}

	return nil
}

// rawPayloadRows drops duplicate keys, since postgres rejects an upsert that
// touches the same row twice.
func rawPayloadRows(items []rawdata.Payload) []rawDataPayloadInsertModel {
	type key struct {
		source, entityType, entityKey string
	}

	positions := make(map[key]int, len(items))
	rows := make([]rawDataPayloadInsertModel, 0, len(items))
	for _, item := range items {
		row := rawDataPayloadInsertModel{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   item.FetchedAt,
		}
		k := key{item.Source, item.EntityType, item.EntityKey}
		if idx, ok := positions[k]; ok {
			rows[idx] = row
			continue
		}
		positions[k] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

type rawDataPayloadInsertModel struct {
	Source      string    `db:"source"`
	EntityType  string    `db:"entity_type"`
	EntityKey   string    `db:"entity_key"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}
