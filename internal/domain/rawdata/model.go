package rawdata

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const SourceHotStreak = "hotstreak"

const (
	EntityGames  = "games"
	EntitySports = "sports"
)

// Payload is a raw provider response kept next to the run that produced it.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}

// NewPayload builds a payload keyed by the fetch run name and hashes the body.
func NewPayload(entityType, runKey string, raw []byte, fetchedAt time.Time) Payload {
	sum := sha256.Sum256(raw)
	return Payload{
		Source:      SourceHotStreak,
		EntityType:  entityType,
		EntityKey:   runKey,
		PayloadJSON: string(raw),
		PayloadHash: hex.EncodeToString(sum[:]),
		FetchedAt:   fetchedAt.UTC(),
	}
}
