package app

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hotstreak-pipeline/external/hotstreak"
	"github.com/riskibarqy/hotstreak-pipeline/internal/config"
	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/rawdata"
	"github.com/riskibarqy/hotstreak-pipeline/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
	"github.com/riskibarqy/hotstreak-pipeline/internal/usecase"
)

// App holds the wired pipeline components for one process run.
type App struct {
	MatchFetcher    *usecase.MatchFetcher
	CategoryFetcher *usecase.CategoryFetcher
	Combiner        *usecase.Combiner
	Pipeline        *usecase.Pipeline

	db     *sqlx.DB
	logger *logging.Logger
}

// New wires the HotStreak client, the optional archive and the pipeline steps.
// An unreachable archive is logged and skipped; it never blocks the pipeline.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	client := hotstreak.NewClient(hotstreak.ClientConfig{
		APIURL:        cfg.HotStreak.APIURL,
		Origin:        cfg.HotStreak.Origin,
		Referer:       cfg.HotStreak.Referer,
		UserAgent:     cfg.HotStreak.UserAgent,
		Version:       cfg.HotStreak.Version,
		RequestedWith: cfg.HotStreak.RequestedWith,
		IDToken:       cfg.HotStreak.IDToken,
		Timeout:       cfg.HotStreak.Timeout,
		Logger:        logger,
	})

	var (
		archive rawdata.Repository
		db      *sqlx.DB
	)
	if cfg.ArchiveEnabled {
		opened, err := openArchiveDB(ctx, cfg)
		if err != nil {
			logger.WarnContext(ctx, "raw payload archive unavailable, continuing without it", "error", err)
		} else {
			db = opened
			archive = postgres.NewRawDataRepository(db)
			logger.InfoContext(ctx, "raw payload archive enabled", "db", dbNameFromURL(cfg.DBURL))
		}
	}

	matchFetcher := usecase.NewMatchFetcher(client, cfg.MatchesRawDir, archive, logger)
	categoryFetcher := usecase.NewCategoryFetcher(client, cfg.CategoriesRawDir, archive, logger)
	combiner := usecase.NewCombiner(usecase.CombinerConfig{
		MatchesRawDir:    cfg.MatchesRawDir,
		CategoriesRawDir: cfg.CategoriesRawDir,
		ProcessedDir:     cfg.ProcessedDir,
	}, logger)

	pipeline := usecase.NewPipeline(logger,
		usecase.NewFetchStep(usecase.StepFetchMatches, matchFetcher.Fetch, cfg.PipelineStrict),
		usecase.NewFetchStep(usecase.StepFetchCategories, categoryFetcher.Fetch, cfg.PipelineStrict),
		usecase.NewCombineStep(usecase.StepCombine, combiner.Combine),
	)

	return &App{
		MatchFetcher:    matchFetcher,
		CategoryFetcher: categoryFetcher,
		Combiner:        combiner,
		Pipeline:        pipeline,
		db:              db,
		logger:          logger,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
