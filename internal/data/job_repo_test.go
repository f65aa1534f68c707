package data

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codevox/codevox-go/internal/domain/model"
)

func newMockRepo(t *testing.T, now time.Time) (*JobRepo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewJobRepo(db, RepoConfig{TimeProvider: NewFixedTimeProvider(now)})
	return repo, mock
}

func TestJobRepo_MarkRunning(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jobID := "6f1c9c48-9f6f-4a3a-8b59-0a34ad2b6c3e"

	t.Run("claims pending job", func(t *testing.T) {
		repo, mock := newMockRepo(t, now)

		mock.ExpectExec(`UPDATE jobs`).
			WithArgs(jobID, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.MarkRunning(context.Background(), jobID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("misses when job is terminal", func(t *testing.T) {
		repo, mock := newMockRepo(t, now)

		mock.ExpectExec(`UPDATE jobs`).
			WithArgs(jobID, now).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.MarkRunning(context.Background(), jobID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestJobRepo_ApplyReport(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jobID := "6f1c9c48-9f6f-4a3a-8b59-0a34ad2b6c3e"

	testsPassed := true
	lintPassed := true
	report := &model.CallbackReport{
		JobID:        jobID,
		Status:       model.JobStatusAutoMerged,
		CommitSHA:    "a1b2c3d",
		LOCDelta:     12,
		FilesTouched: []string{"api/handlers.py"},
		TestsPassed:  &testsPassed,
		LintPassed:   &lintPassed,
		TokIn:        1200,
		TokOut:       450,
		DurationMS:   90000,
	}

	t.Run("cas hit writes outcome", func(t *testing.T) {
		repo, mock := newMockRepo(t, now)

		mock.ExpectExec(`UPDATE jobs`).
			WithArgs(
				jobID,
				model.JobStatusRunning,
				model.JobStatusAutoMerged,
				"a1b2c3d",
				"",
				12,
				[]byte(`["api/handlers.py"]`),
				&testsPassed,
				&lintPassed,
				int64(1200),
				int64(450),
				int64(90000),
				"",
				now,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.ApplyReport(context.Background(), report, model.JobStatusRunning)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cas miss on concurrent writer", func(t *testing.T) {
		repo, mock := newMockRepo(t, now)

		mock.ExpectExec(`UPDATE jobs`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.ApplyReport(context.Background(), report, model.JobStatusRunning)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("nil report rejected", func(t *testing.T) {
		repo, _ := newMockRepo(t, now)

		_, err := repo.ApplyReport(context.Background(), nil, model.JobStatusRunning)
		assert.Error(t, err)
	})
}

func TestJobRepo_ClaimMerge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jobID := "6f1c9c48-9f6f-4a3a-8b59-0a34ad2b6c3e"

	t.Run("winner claims pr_opened", func(t *testing.T) {
		repo, mock := newMockRepo(t, now)

		mock.ExpectExec(`UPDATE jobs`).
			WithArgs(jobID, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.ClaimMerge(context.Background(), jobID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("loser sees zero rows", func(t *testing.T) {
		repo, mock := newMockRepo(t, now)

		mock.ExpectExec(`UPDATE jobs`).
			WithArgs(jobID, now).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.ClaimMerge(context.Background(), jobID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestJobRepo_ReleaseMergeClaim(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jobID := "6f1c9c48-9f6f-4a3a-8b59-0a34ad2b6c3e"

	repo, mock := newMockRepo(t, now)

	mock.ExpectExec(`UPDATE jobs`).
		WithArgs(jobID, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.ReleaseMergeClaim(context.Background(), jobID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepo_RecordMergeCommit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	jobID := "6f1c9c48-9f6f-4a3a-8b59-0a34ad2b6c3e"

	repo, mock := newMockRepo(t, now)

	mock.ExpectExec(`UPDATE jobs`).
		WithArgs(jobID, "deadbee", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RecordMergeCommit(context.Background(), jobID, "deadbee"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepo_ListStaleRunning(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	maxAge := 30 * time.Minute

	repo, mock := newMockRepo(t, now)

	rows := sqlmock.NewRows([]string{"id"}).
		AddRow("11111111-1111-4111-8111-111111111111").
		AddRow("22222222-2222-4222-8222-222222222222")

	mock.ExpectQuery(`SELECT id FROM jobs`).
		WithArgs(now.Add(-maxAge), 100).
		WillReturnRows(rows)

	ids, err := repo.ListStaleRunning(context.Background(), maxAge, 100)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, "11111111-1111-4111-8111-111111111111", ids[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepo_Stats(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo, mock := newMockRepo(t, now)

	rows := sqlmock.NewRows([]string{"pending", "running", "auto_merged", "pr_opened", "merged", "failed"}).
		AddRow(3, 1, 10, 2, 5, 4)

	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 1, stats.Running)
	assert.Equal(t, 10, stats.AutoMerged)
	assert.Equal(t, 2, stats.PROpened)
	assert.Equal(t, 5, stats.Merged)
	assert.Equal(t, 4, stats.Failed)
}

func TestJobRepo_AggregateUsage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo, mock := newMockRepo(t, now)

	rows := sqlmock.NewRows([]string{
		"job_count", "tok_in", "tok_out", "duration_ms", "merged", "auto_merged", "failed",
	}).AddRow(7, int64(42000), int64(9100), int64(600000), 2, 3, 1)

	mock.ExpectQuery(`SELECT`).
		WithArgs("user-1").
		WillReturnRows(rows)

	usage, err := repo.AggregateUsage(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", usage.UserID)
	assert.Equal(t, 7, usage.JobCount)
	assert.Equal(t, int64(42000), usage.TokIn)
	assert.Equal(t, int64(9100), usage.TokOut)
	assert.Equal(t, 3, usage.AutoMerged)
	assert.NoError(t, mock.ExpectationsWereMet())
}
