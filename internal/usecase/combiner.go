package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"strconv"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/category"
	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/match"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/rawstore"
)

const CombinedFilePrefix = "matches_with_odds_"

type CombineStatus string

const (
	CombineStatusWritten     CombineStatus = "written"
	CombineStatusWriteFailed CombineStatus = "write_failed"
	CombineStatusSkipped     CombineStatus = "skipped"
)

const (
	SkipMissingRawDir     = "missing_raw_dir"
	SkipMissingRawFile    = "missing_raw_file"
	SkipUnreadableRawFile = "unreadable_raw_file"
	SkipEmptyDataset      = "empty_dataset"
)

type CombineResult struct {
	Records    []match.Enriched
	Status     CombineStatus
	Reason     string
	OutputPath string
	WriteErr   error
}

type CombinerConfig struct {
	MatchesRawDir    string
	CategoriesRawDir string
	ProcessedDir     string
}

type Combiner struct {
	cfg    CombinerConfig
	logger *logging.Logger
	now    func() time.Time
}

func NewCombiner(cfg CombinerConfig, logger *logging.Logger) *Combiner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Combiner{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Combine joins the newest raw matches with the newest raw categories and
// writes the result under the processed dir. Missing or empty inputs make it a
// logged no-op; nothing is written in that case.
func (c *Combiner) Combine(ctx context.Context) CombineResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.Combiner.Combine")
	defer span.End()

	matchesDir, okMatches := rawstore.LatestSubdir(c.cfg.MatchesRawDir)
	categoriesDir, okCategories := rawstore.LatestSubdir(c.cfg.CategoriesRawDir)
	if !okMatches || !okCategories {
		c.logger.ErrorContext(ctx, "missing data folders, run fetch steps first",
			"matches_root", c.cfg.MatchesRawDir,
			"categories_root", c.cfg.CategoriesRawDir,
		)
		return skipped(SkipMissingRawDir)
	}

	matchesFile := filepath.Join(matchesDir, MatchesRawFile)
	categoriesFile := filepath.Join(categoriesDir, CategoriesRawFile)
	if !rawstore.FileExists(matchesFile) || !rawstore.FileExists(categoriesFile) {
		c.logger.ErrorContext(ctx, "missing one or both raw json files",
			"matches_file", matchesFile,
			"categories_file", categoriesFile,
		)
		return skipped(SkipMissingRawFile)
	}

	var matches []match.Match
	if err := rawstore.ReadJSON(matchesFile, &matches); err != nil {
		c.logger.ErrorContext(ctx, "error reading raw json", "path", matchesFile, "error", err)
		return skipped(SkipUnreadableRawFile)
	}
	var categories []category.Category
	if err := rawstore.ReadJSON(categoriesFile, &categories); err != nil {
		c.logger.ErrorContext(ctx, "error reading raw json", "path", categoriesFile, "error", err)
		return skipped(SkipUnreadableRawFile)
	}

	if len(matches) == 0 || len(categories) == 0 {
		c.logger.WarnContext(ctx, "one of the datasets is empty, skipping merge",
			"matches", len(matches),
			"categories", len(categories),
		)
		return skipped(SkipEmptyDataset)
	}

	c.formatStartTimes(ctx, matches)

	index := category.BuildIndex(categories)
	records := make([]match.Enriched, 0, len(matches))
	for _, item := range matches {
		records = append(records, item.Enrich(index.Names(item.SportID)))
	}
	span.SetAttributes(
		attribute.Int("matches.count", len(matches)),
		attribute.Int("sports.indexed", len(index)),
	)

	result := CombineResult{
		Records: records,
		Status:  CombineStatusWritten,
	}

	path, err := rawstore.CreateFile(c.cfg.ProcessedDir, CombinedFilePrefix, c.now())
	if err == nil {
		err = rawstore.WriteJSON(path, records)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to save combined json", "dir", c.cfg.ProcessedDir, "error", err)
		recordSpanError(span, err)
		result.Status = CombineStatusWriteFailed
		result.WriteErr = err
		return result
	}

	result.OutputPath = path
	c.logger.InfoContext(ctx, "combined file saved", "count", len(records), "path", path)
	return result
}

// formatStartTimes rewrites epoch-millisecond start times in place. Values that
// do not parse are kept as they are and reported once.
func (c *Combiner) formatStartTimes(ctx context.Context, matches []match.Match) {
	failed := 0
	var firstBad string
	for i := range matches {
		formatted, ok, err := formatStartTime(matches[i].StartTime)
		if err != nil {
			if failed == 0 {
				firstBad = string(matches[i].StartTime)
			}
			failed++
			continue
		}
		if ok {
			matches[i].StartTime = formatted
		}
	}
	if failed > 0 {
		c.logger.WarnContext(ctx, "could not convert start_time format",
			"failed", failed,
			"total", len(matches),
			"example", firstBad,
		)
	}
}

// formatStartTime returns ok=false for absent or null values, which are left alone.
func formatStartTime(raw json.RawMessage) (json.RawMessage, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return raw, false, nil
	}

	text := string(trimmed)
	if trimmed[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return raw, false, err
		}
		text = unquoted
	}

	millis, err := parseEpochMillis(text)
	if err != nil {
		return raw, false, err
	}

	formatted := time.UnixMilli(millis).UTC().Format(match.StartTimeLayout)
	return json.RawMessage(strconv.Quote(formatted)), true, nil
}

func parseEpochMillis(text string) (int64, error) {
	if millis, err := strconv.ParseInt(text, 10, 64); err == nil {
		return millis, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, crerr.Newf("start time %q is not a finite number", text)
	}
	return int64(value), nil
}

func skipped(reason string) CombineResult {
	return CombineResult{
		Records: []match.Enriched{},
		Status:  CombineStatusSkipped,
		Reason:  reason,
	}
}
