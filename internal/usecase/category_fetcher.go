package usecase

import (
	"context"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/category"
	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/rawdata"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/rawstore"
)

const CategoriesRawFile = "categories_raw.json"

type CategoryFetcher struct {
	provider SportsProvider
	rawRoot  string
	archive  rawdata.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewCategoryFetcher(provider SportsProvider, rawRoot string, archive rawdata.Repository, logger *logging.Logger) *CategoryFetcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &CategoryFetcher{
		provider: provider,
		rawRoot:  rawRoot,
		archive:  archive,
		logger:   logger,
		now:      time.Now,
	}
}

// Fetch flattens the sport taxonomy into one record per (sport, category).
func (f *CategoryFetcher) Fetch(ctx context.Context) FetchResult[category.Category] {
	ctx, span := startUsecaseSpan(ctx, "usecase.CategoryFetcher.Fetch")
	defer span.End()

	sports, raw, err := f.provider.FetchSports(ctx)
	if err != nil {
		f.logger.ErrorContext(ctx, "fetch categories failed", "error", err)
		recordSpanError(span, err)
		return emptyFetch[category.Category](FetchStatusFailed, err)
	}
	if len(sports) == 0 {
		f.logger.WarnContext(ctx, "no sports data found in provider response")
		return emptyFetch[category.Category](FetchStatusEmpty, nil)
	}

	records := flattenSports(sports)
	span.SetAttributes(
		attribute.Int("sports.count", len(sports)),
		attribute.Int("categories.count", len(records)),
	)

	result := FetchResult[category.Category]{
		Records: records,
		Status:  FetchStatusOK,
	}

	fetchedAt := f.now()
	runDir, err := rawstore.NewRunDir(f.rawRoot, fetchedAt)
	if err != nil {
		f.logger.ErrorContext(ctx, "failed to save categories json", "root", f.rawRoot, "error", err)
		result.WriteErr = err
		return result
	}
	result.RunDir = runDir

	path := filepath.Join(runDir, CategoriesRawFile)
	if err := rawstore.WriteJSON(path, records); err != nil {
		f.logger.ErrorContext(ctx, "failed to save categories json", "path", path, "error", err)
		result.WriteErr = err
		return result
	}
	result.Path = path
	f.logger.InfoContext(ctx, "categories saved", "count", len(records), "path", path)

	archiveRaw(ctx, f.archive, f.logger, rawdata.NewPayload(rawdata.EntitySports, filepath.Base(runDir), raw, fetchedAt))
	return result
}

func flattenSports(sports []ExternalSport) []category.Category {
	out := make([]category.Category, 0, len(sports)*4)
	for _, sport := range sports {
		for _, item := range sport.Categories {
			out = append(out, category.Category{
				SportID:      sport.ID,
				SportName:    sport.Name,
				CategoryID:   item.ID,
				CategoryName: item.Name,
				GroupName:    item.GroupName,
			})
		}
	}
	return out
}
