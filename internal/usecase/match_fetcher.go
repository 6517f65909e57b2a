package usecase

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/match"
	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/rawdata"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/rawstore"
)

const (
	MatchesRawFile = "matches_raw.json"

	designationHome = "home"
	designationAway = "away"
	unknownValue    = "Unknown"
)

type MatchFetcher struct {
	provider GamesProvider
	rawRoot  string
	archive  rawdata.Repository
	logger   *logging.Logger
	now      func() time.Time
}

// NewMatchFetcher wires the fetcher. archive may be nil.
func NewMatchFetcher(provider GamesProvider, rawRoot string, archive rawdata.Repository, logger *logging.Logger) *MatchFetcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchFetcher{
		provider: provider,
		rawRoot:  rawRoot,
		archive:  archive,
		logger:   logger,
		now:      time.Now,
	}
}

// Fetch pulls the game board and stores it under a new run directory.
// Provider and storage failures are logged and reflected in the result, never returned.
func (f *MatchFetcher) Fetch(ctx context.Context) FetchResult[match.Match] {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFetcher.Fetch")
	defer span.End()

	games, raw, err := f.provider.FetchGames(ctx)
	if err != nil {
		f.logger.ErrorContext(ctx, "fetch matches failed", "error", err)
		recordSpanError(span, err)
		return emptyFetch[match.Match](FetchStatusFailed, err)
	}
	if len(games) == 0 {
		f.logger.WarnContext(ctx, "no game data found in provider response")
		return emptyFetch[match.Match](FetchStatusEmpty, nil)
	}

	records := make([]match.Match, 0, len(games))
	for _, game := range games {
		records = append(records, mapGameToMatch(game))
	}
	span.SetAttributes(attribute.Int("matches.count", len(records)))

	result := FetchResult[match.Match]{
		Records: records,
		Status:  FetchStatusOK,
	}

	fetchedAt := f.now()
	runDir, err := rawstore.NewRunDir(f.rawRoot, fetchedAt)
	if err != nil {
		f.logger.ErrorContext(ctx, "failed to save matches json", "root", f.rawRoot, "error", err)
		result.WriteErr = err
		return result
	}
	result.RunDir = runDir

	path := filepath.Join(runDir, MatchesRawFile)
	if err := rawstore.WriteJSON(path, records); err != nil {
		f.logger.ErrorContext(ctx, "failed to save matches json", "path", path, "error", err)
		result.WriteErr = err
		return result
	}
	result.Path = path
	f.logger.InfoContext(ctx, "matches saved", "count", len(records), "path", path)

	archiveRaw(ctx, f.archive, f.logger, rawdata.NewPayload(rawdata.EntityGames, filepath.Base(runDir), raw, fetchedAt))
	return result
}

func mapGameToMatch(game ExternalGame) match.Match {
	homeTeam, awayTeam := unknownValue, unknownValue
	for _, opponent := range game.Opponents {
		name := teamDisplayName(opponent.Team)
		switch opponent.Designation {
		case designationHome:
			homeTeam = name
		case designationAway:
			awayTeam = name
		}
	}

	sportID, league := unknownValue, unknownValue
	if game.League != nil {
		sportID = valueOrUnknown(game.League.SportID)
		league = valueOrUnknown(game.League.Name)
	}

	return match.Match{
		SportID:   sportID,
		ID:        game.ID,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		StartTime: game.ScheduledAt,
		League:    league,
		OddsCount: []string{},
	}
}

// teamDisplayName is "<abbreviation> <name>"; blank parts collapse, so a team
// with neither yields "" rather than "Unknown".
func teamDisplayName(team ExternalTeam) string {
	return strings.TrimSpace(strings.TrimSpace(team.Abbreviation) + " " + strings.TrimSpace(team.Name))
}

func valueOrUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return unknownValue
	}
	return v
}

func archiveRaw(ctx context.Context, archive rawdata.Repository, logger *logging.Logger, payload rawdata.Payload) {
	if archive == nil || payload.PayloadJSON == "" {
		return
	}
	if err := archive.UpsertMany(ctx, []rawdata.Payload{payload}); err != nil {
		logger.WarnContext(ctx, "archive raw payload failed",
			"entity_type", payload.EntityType,
			"entity_key", payload.EntityKey,
			"error", err,
		)
	}
}
