package service

import (
	"context"
	"testing"

	"hikari/internal/models"
	"hikari/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// episodeRepoStub is a stub for repository.EpisodeRepository.
type episodeRepoStub struct {
	getByIDFn   func(ctx context.Context, id string) (*models.Episode, error)
	setStatusFn func(ctx context.Context, id, status string) error
}

func (s *episodeRepoStub) Create(ctx context.Context, episode *models.Episode) error { return nil }

func (s *episodeRepoStub) GetByID(ctx context.Context, id string) (*models.Episode, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Episode", id)
}

func (s *episodeRepoStub) Update(ctx context.Context, episode *models.Episode) error { return nil }

func (s *episodeRepoStub) Delete(ctx context.Context, id string) error { return nil }

func (s *episodeRepoStub) ListByShow(ctx context.Context, showID string) ([]models.Episode, error) {
	return nil, nil
}

func (s *episodeRepoStub) ListPage(ctx context.Context, showID string, after pagination.Cursor, limit int) ([]models.Episode, pagination.Cursor, error) {
	return nil, "", nil
}

func (s *episodeRepoStub) ExistsByShowAndNumber(ctx context.Context, showID string, number float64, excludeID string) (bool, error) {
	return false, nil
}

func (s *episodeRepoStub) MaxNumber(ctx context.Context, showID string) (float64, bool, error) {
	return 0, false, nil
}

func (s *episodeRepoStub) CountByShow(ctx context.Context, showID string) (int64, error) {
	return 0, nil
}

func (s *episodeRepoStub) SetStatus(ctx context.Context, id, status string) error {
	if s.setStatusFn != nil {
		return s.setStatusFn(ctx, id, status)
	}
	return nil
}

func (s *episodeRepoStub) Count(ctx context.Context) (int64, error) { return 0, nil }

// reportRepoStub is a stub for repository.ReportRepository.
type reportRepoStub struct {
	createFn          func(ctx context.Context, report *models.Report) error
	getByIDFn         func(ctx context.Context, id string) (*models.Report, error)
	deleteFn          func(ctx context.Context, id string) error
	deleteByEpisodeFn func(ctx context.Context, episodeID string) error
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) error {
	if s.createFn != nil {
		return s.createFn(ctx, report)
	}
	return nil
}

func (s *reportRepoStub) GetByID(ctx context.Context, id string) (*models.Report, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Report", id)
}

func (s *reportRepoStub) List(ctx context.Context, limit int) ([]models.Report, error) {
	return nil, nil
}

func (s *reportRepoStub) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *reportRepoStub) DeleteByEpisode(ctx context.Context, episodeID string) error {
	if s.deleteByEpisodeFn != nil {
		return s.deleteByEpisodeFn(ctx, episodeID)
	}
	return nil
}

func (s *reportRepoStub) Count(ctx context.Context) (int64, error) { return 0, nil }

func TestReportServiceCreateFlagsEpisode(t *testing.T) {
	var flagged []string
	episodes := &episodeRepoStub{
		getByIDFn: func(ctx context.Context, id string) (*models.Episode, error) {
			return &models.Episode{ID: id, ShowID: "show-1", Status: models.EpisodeStatusNormal}, nil
		},
		setStatusFn: func(ctx context.Context, id, status string) error {
			flagged = append(flagged, id+":"+status)
			return nil
		},
	}
	var created *models.Report
	reports := &reportRepoStub{
		createFn: func(ctx context.Context, report *models.Report) error {
			created = report
			return nil
		},
	}
	svc := NewReportService(reports, episodes)

	report, err := svc.CreateReport(context.Background(), CreateReportInput{
		EpisodeID: "ep-1", Reason: "  video stalls at 04:12  ",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "show-1", report.ShowID)
	assert.Equal(t, "ep-1", report.EpisodeID)
	assert.Equal(t, "video stalls at 04:12", report.Reason)
	assert.Equal(t, []string{"ep-1:" + models.EpisodeStatusUserReported}, flagged)
}

func TestReportServiceCreateKeepsBrokenStatus(t *testing.T) {
	episodes := &episodeRepoStub{
		getByIDFn: func(ctx context.Context, id string) (*models.Episode, error) {
			return &models.Episode{ID: id, ShowID: "show-1", Status: models.EpisodeStatusBroken}, nil
		},
		setStatusFn: func(ctx context.Context, id, status string) error {
			t.Fatalf("status of an already-broken episode must not change")
			return nil
		},
	}
	svc := NewReportService(&reportRepoStub{}, episodes)

	_, err := svc.CreateReport(context.Background(), CreateReportInput{EpisodeID: "ep-1"})
	require.NoError(t, err)
}

func TestReportServiceResolveFixed(t *testing.T) {
	var statuses []string
	var clearedEpisode string
	episodes := &episodeRepoStub{
		setStatusFn: func(ctx context.Context, id, status string) error {
			statuses = append(statuses, status)
			return nil
		},
	}
	reports := &reportRepoStub{
		getByIDFn: func(ctx context.Context, id string) (*models.Report, error) {
			return &models.Report{ID: id, EpisodeID: "ep-1"}, nil
		},
		deleteByEpisodeFn: func(ctx context.Context, episodeID string) error {
			clearedEpisode = episodeID
			return nil
		},
	}
	svc := NewReportService(reports, episodes)

	require.NoError(t, svc.ResolveReport(context.Background(), "r-1", true))
	assert.Equal(t, []string{models.EpisodeStatusNormal}, statuses)
	assert.Equal(t, "ep-1", clearedEpisode, "fixing an episode clears all its reports")
}

func TestReportServiceResolveFixedEpisodeGone(t *testing.T) {
	episodes := &episodeRepoStub{
		setStatusFn: func(ctx context.Context, id, status string) error {
			return models.NewNotFoundError("Episode", id)
		},
	}
	cleared := false
	reports := &reportRepoStub{
		getByIDFn: func(ctx context.Context, id string) (*models.Report, error) {
			return &models.Report{ID: id, EpisodeID: "ep-1"}, nil
		},
		deleteByEpisodeFn: func(ctx context.Context, episodeID string) error {
			cleared = true
			return nil
		},
	}
	svc := NewReportService(reports, episodes)

	require.NoError(t, svc.ResolveReport(context.Background(), "r-1", true))
	assert.True(t, cleared, "stale reports still get cleared when the episode is gone")
}

func TestReportServiceResolveBroken(t *testing.T) {
	var statuses []string
	episodes := &episodeRepoStub{
		setStatusFn: func(ctx context.Context, id, status string) error {
			statuses = append(statuses, status)
			return nil
		},
	}
	var deleted string
	reports := &reportRepoStub{
		getByIDFn: func(ctx context.Context, id string) (*models.Report, error) {
			return &models.Report{ID: id, EpisodeID: "ep-1"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewReportService(reports, episodes)

	require.NoError(t, svc.ResolveReport(context.Background(), "r-1", false))
	assert.Equal(t, []string{models.EpisodeStatusBroken}, statuses)
	assert.Equal(t, "r-1", deleted, "only the resolved report is removed")
}
