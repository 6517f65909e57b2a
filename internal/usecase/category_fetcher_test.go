package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/category"
	"github.com/riskibarqy/hotstreak-pipeline/internal/domain/rawdata"
	rawdatamock "github.com/riskibarqy/hotstreak-pipeline/internal/mocks/domain/rawdata"
	usecasemock "github.com/riskibarqy/hotstreak-pipeline/internal/mocks/usecase"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/rawstore"
	"github.com/riskibarqy/hotstreak-pipeline/internal/usecase"
)

func TestCategoryFetcher_Fetch_FlattensSports(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewSportsProvider(t)
	provider.
		On("FetchSports", mock.Anything).
		Return([]usecase.ExternalSport{
			{
				ID:   "s1",
				Name: "Basketball",
				Categories: []usecase.ExternalCategory{
					{ID: "c1", Name: "Points", GroupName: "Player"},
					{ID: "c2", Name: "Rebounds", GroupName: "Player"},
				},
			},
			{ID: "s2", Name: "Curling"},
			{
				ID:         "s3",
				Name:       "Soccer",
				Categories: []usecase.ExternalCategory{{ID: "c9", Name: "Goals", GroupName: "Team"}},
			},
		}, []byte(`{}`), nil).
		Once()

	result := usecase.NewCategoryFetcher(provider, t.TempDir(), nil, logging.NewNop()).Fetch(context.Background())

	require.Equal(t, usecase.FetchStatusOK, result.Status)
	require.NoError(t, result.WriteErr)
	require.Equal(t, []category.Category{
		{SportID: "s1", SportName: "Basketball", CategoryID: "c1", CategoryName: "Points", GroupName: "Player"},
		{SportID: "s1", SportName: "Basketball", CategoryID: "c2", CategoryName: "Rebounds", GroupName: "Player"},
		{SportID: "s3", SportName: "Soccer", CategoryID: "c9", CategoryName: "Goals", GroupName: "Team"},
	}, result.Records)

	var stored []category.Category
	require.NoError(t, rawstore.ReadJSON(result.Path, &stored))
	require.Equal(t, result.Records, stored)
}

func TestCategoryFetcher_Fetch_SportsWithoutCategoriesStillWritesFile(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewSportsProvider(t)
	provider.
		On("FetchSports", mock.Anything).
		Return([]usecase.ExternalSport{{ID: "s2", Name: "Curling"}}, []byte(`{}`), nil).
		Once()

	result := usecase.NewCategoryFetcher(provider, t.TempDir(), nil, logging.NewNop()).Fetch(context.Background())

	require.Equal(t, usecase.FetchStatusOK, result.Status)
	require.Empty(t, result.Records)
	require.True(t, rawstore.FileExists(result.Path))

	var stored []category.Category
	require.NoError(t, rawstore.ReadJSON(result.Path, &stored))
	require.Empty(t, stored)
}

func TestCategoryFetcher_Fetch_ProviderFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	provider := usecasemock.NewSportsProvider(t)
	provider.On("FetchSports", mock.Anything).Return(nil, nil, errors.New("status 503")).Once()

	result := usecase.NewCategoryFetcher(provider, root, nil, logging.NewNop()).Fetch(context.Background())

	require.True(t, result.Failed())
	require.Error(t, result.Err)
	require.Empty(t, result.Records)
	requireEmptyDir(t, root)
}

func TestCategoryFetcher_Fetch_NoSports(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	provider := usecasemock.NewSportsProvider(t)
	provider.On("FetchSports", mock.Anything).Return([]usecase.ExternalSport{}, []byte(`{}`), nil).Once()

	result := usecase.NewCategoryFetcher(provider, root, nil, logging.NewNop()).Fetch(context.Background())

	require.Equal(t, usecase.FetchStatusEmpty, result.Status)
	require.Empty(t, result.Records)
	requireEmptyDir(t, root)
}

func TestCategoryFetcher_Fetch_ArchivesSportsPayload(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewSportsProvider(t)
	provider.
		On("FetchSports", mock.Anything).
		Return([]usecase.ExternalSport{{ID: "s1", Name: "Basketball"}}, []byte(`{"data":{}}`), nil).
		Once()

	archive := rawdatamock.NewRepository(t)
	archive.
		On("UpsertMany", mock.Anything, mock.MatchedBy(func(items []rawdata.Payload) bool {
			return len(items) == 1 && items[0].EntityType == rawdata.EntitySports
		})).
		Return(nil).
		Once()

	result := usecase.NewCategoryFetcher(provider, t.TempDir(), archive, logging.NewNop()).Fetch(context.Background())
	require.Equal(t, usecase.FetchStatusOK, result.Status)
}
