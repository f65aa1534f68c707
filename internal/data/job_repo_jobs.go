package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codevox/codevox-go/internal/data/pgxutil"
	"github.com/codevox/codevox-go/internal/domain/model"
	apperrors "github.com/codevox/codevox-go/internal/errors"
)

// Create creates a new pending job record. A caller-supplied id is kept so
// intake retries stay idempotent; duplicates surface as Conflict.
func (r *JobRepo) Create(
	ctx context.Context,
	req *model.SubmitJobRequest,
) (*model.JobRecord, error) {
	if req == nil {
		return nil, errors.New("submit job request is required")
	}

	if validateErr := req.Validate(); validateErr != nil {
		return nil, apperrors.Wrap(validateErr, apperrors.ErrCodeValidation, "invalid job submission")
	}

	id := req.JobID
	if id == "" {
		id = uuid.NewString()
	}

	heuristics, err := json.Marshal(req.Heuristics)
	if err != nil {
		return nil, fmt.Errorf("marshal heuristics: %w", err)
	}

	query := `
      INSERT INTO jobs(id, user_id, repo, branch, task_text, style_guide, heuristics, status, created_at, updated_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7,'pending',$8,$8)
      RETURNING ` + jobColumns

	now := r.timeProvider.Now().UTC()

	var record *model.JobRecord
	if txErr := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			rows, qerr := tx.Query(ctx, query,
				id, req.UserID, req.Repo, req.Branch, req.TaskText, req.StyleGuide, heuristics, now)
			if qerr != nil {
				return fmt.Errorf("insert job: %w", qerr)
			}
			var collectErr error
			record, collectErr = collectJobFromRows(rows)
			rows.Close()
			if collectErr != nil {
				return fmt.Errorf("collect job: %w", collectErr)
			}
			return nil
		},
	}); txErr != nil {
		return nil, apperrors.MapDBError(txErr)
	}

	return record, nil
}

// GetByID retrieves a job record by its id.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.JobRecord, error) {
	var record *model.JobRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, qerr := pgxConn.Query(ctx, `
			SELECT `+jobColumns+`
			FROM jobs
			WHERE id = $1
		`, id)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		var collectErr error
		record, collectErr = collectJobFromRows(rows)
		return collectErr
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return record, nil
}

// MarkRunning transitions pending→running. Re-claiming a job that is
// already running succeeds: an expired queue lease hands the same job to a
// second worker and the record must not bounce it.
func (r *JobRepo) MarkRunning(ctx context.Context, id string) (bool, error) {
	now := r.timeProvider.Now().UTC()

	res, err := r.DB.ExecContext(ctx, `
		UPDATE jobs
		SET status = 'running',
		    updated_at = $2
		WHERE id = $1 AND status IN ('pending', 'running')
	`, id, now)
	if err != nil {
		return false, fmt.Errorf("mark job running: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark running rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// ApplyReport writes the executor outcome fields and transitions the job
// to the report's terminal status, keyed on the observed previous status.
// A false return means another writer moved the job first.
func (r *JobRepo) ApplyReport(
	ctx context.Context,
	report *model.CallbackReport,
	observed model.JobStatus,
) (bool, error) {
	if report == nil {
		return false, errors.New("callback report is required")
	}

	filesTouched, err := json.Marshal(report.FilesTouched)
	if err != nil {
		return false, fmt.Errorf("marshal files_touched: %w", err)
	}

	now := r.timeProvider.Now().UTC()

	query := `
      UPDATE jobs
      SET
        status = $3,
        commit_sha = NULLIF($4, ''),
        pr_url = NULLIF($5, ''),
        loc_delta = $6,
        files_touched = $7,
        tests_passed = $8,
        lint_passed = $9,
        tok_in = $10,
        tok_out = $11,
        duration_ms = $12,
        notes = NULLIF($13, ''),
        updated_at = $14
      WHERE id = $1 AND status = $2
    `

	res, err := r.DB.ExecContext(ctx, query,
		report.JobID,
		observed,
		report.Status,
		report.CommitSHA,
		report.PRURL,
		report.LOCDelta,
		filesTouched,
		report.TestsPassed,
		report.LintPassed,
		report.TokIn,
		report.TokOut,
		report.DurationMS,
		report.Notes,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("apply report: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("apply report rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// ClaimMerge transitions pr_opened→merged. Exactly one of any set of
// concurrent approvals wins this CAS.
func (r *JobRepo) ClaimMerge(ctx context.Context, id string) (bool, error) {
	now := r.timeProvider.Now().UTC()

	res, err := r.DB.ExecContext(ctx, `
		UPDATE jobs
		SET status = 'merged',
		    updated_at = $2
		WHERE id = $1 AND status = 'pr_opened'
	`, id, now)
	if err != nil {
		return false, fmt.Errorf("claim merge: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim merge rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// ReleaseMergeClaim compensates a failed forge merge back to pr_opened so
// a later approval can retry.
func (r *JobRepo) ReleaseMergeClaim(ctx context.Context, id string) (bool, error) {
	now := r.timeProvider.Now().UTC()

	res, err := r.DB.ExecContext(ctx, `
		UPDATE jobs
		SET status = 'pr_opened',
		    updated_at = $2
		WHERE id = $1 AND status = 'merged'
	`, id, now)
	if err != nil {
		return false, fmt.Errorf("release merge claim: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("release merge claim rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// RecordMergeCommit stores the forge merge SHA on a job the caller already
// claimed. A no-op when the job left merged in the meantime.
func (r *JobRepo) RecordMergeCommit(ctx context.Context, id, sha string) error {
	now := r.timeProvider.Now().UTC()

	_, err := r.DB.ExecContext(ctx, `
		UPDATE jobs
		SET commit_sha = $2,
		    updated_at = $3
		WHERE id = $1 AND status = 'merged'
	`, id, sha, now)
	if err != nil {
		return fmt.Errorf("record merge commit: %w", err)
	}
	return nil
}

// ListStaleRunning returns ids of running jobs whose last update is older
// than maxAge. Oldest first so repeated ticks drain the backlog.
func (r *JobRepo) ListStaleRunning(
	ctx context.Context,
	maxAge time.Duration,
	batchSize int,
) ([]string, error) {
	cutoff := r.timeProvider.Now().Add(-maxAge).UTC()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id FROM jobs
		WHERE status = 'running' AND updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2
	`, cutoff, batchSize)
	if err != nil {
		return nil, fmt.Errorf("list stale running jobs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("scan stale job id: %w", scanErr)
		}
		ids = append(ids, id)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate stale job ids: %w", rowsErr)
	}
	return ids, nil
}

// Stats returns counts of jobs in each lifecycle status.
func (r *JobRepo) Stats(ctx context.Context) (*model.JobStats, error) {
	var s model.JobStats
	err := r.DB.QueryRowContext(ctx, `
  SELECT
    count(*) FILTER (WHERE status = 'pending')     AS pending,
    count(*) FILTER (WHERE status = 'running')     AS running,
    count(*) FILTER (WHERE status = 'auto_merged') AS auto_merged,
    count(*) FILTER (WHERE status = 'pr_opened')   AS pr_opened,
    count(*) FILTER (WHERE status = 'merged')      AS merged,
    count(*) FILTER (WHERE status = 'failed')      AS failed
  FROM jobs
  `).Scan(
		&s.Pending,
		&s.Running,
		&s.AutoMerged,
		&s.PROpened,
		&s.Merged,
		&s.Failed,
	)
	if err != nil {
		return nil, fmt.Errorf("get job stats: %w", err)
	}
	return &s, nil
}

// AggregateUsage aggregates token and outcome accounting for one user.
func (r *JobRepo) AggregateUsage(ctx context.Context, userID string) (*model.UsageSummary, error) {
	summary := model.UsageSummary{UserID: userID}
	err := r.DB.QueryRowContext(ctx, `
  SELECT
    count(*)                                         AS job_count,
    COALESCE(sum(tok_in), 0)                         AS tok_in,
    COALESCE(sum(tok_out), 0)                        AS tok_out,
    COALESCE(sum(duration_ms), 0)                    AS duration_ms,
    count(*) FILTER (WHERE status = 'merged')        AS merged,
    count(*) FILTER (WHERE status = 'auto_merged')   AS auto_merged,
    count(*) FILTER (WHERE status = 'failed')        AS failed
  FROM jobs
  WHERE user_id = $1
  `, userID).Scan(
		&summary.JobCount,
		&summary.TokIn,
		&summary.TokOut,
		&summary.DurationMS,
		&summary.Merged,
		&summary.AutoMerged,
		&summary.Failed,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage: %w", err)
	}
	return &summary, nil
}

// collectJobFromRows collects a single job record from pgx rows.
func collectJobFromRows(rows pgx.Rows) (*model.JobRecord, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}

	record, err := scanJobFromRow(rows)
	if err != nil {
		return nil, err
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}

	return record, nil
}

type jobRowScanner interface {
	Scan(dest ...any) error
}

type jobRowData struct {
	heuristics, filesTouched       []byte
	commitSHA, prURL, notes        sql.NullString
	locDelta, tokIn, tokOut, durMS sql.NullInt64
	testsPassed, lintPassed        sql.NullBool
}

func (d *jobRowData) scanInto(scanner jobRowScanner, record *model.JobRecord) error {
	return scanner.Scan(
		&record.ID,
		&record.UserID,
		&record.Repo,
		&record.Branch,
		&record.TaskText,
		&record.StyleGuide,
		&d.heuristics,
		&record.Status,
		&d.commitSHA,
		&d.prURL,
		&d.locDelta,
		&d.filesTouched,
		&d.testsPassed,
		&d.lintPassed,
		&d.tokIn,
		&d.tokOut,
		&d.durMS,
		&d.notes,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
}

func (d *jobRowData) apply(record *model.JobRecord) error {
	if len(d.heuristics) > 0 {
		if err := json.Unmarshal(d.heuristics, &record.Heuristics); err != nil {
			return fmt.Errorf("unmarshal heuristics: %w", err)
		}
	}
	if len(d.filesTouched) > 0 {
		if err := json.Unmarshal(d.filesTouched, &record.FilesTouched); err != nil {
			return fmt.Errorf("unmarshal files_touched: %w", err)
		}
	}

	record.CommitSHA = cloneNullableString(d.commitSHA)
	record.PRURL = cloneNullableString(d.prURL)
	record.Notes = cloneNullableString(d.notes)
	record.LOCDelta = cloneNullableInt(d.locDelta)
	record.TokIn = cloneNullableInt64(d.tokIn)
	record.TokOut = cloneNullableInt64(d.tokOut)
	record.DurationMS = cloneNullableInt64(d.durMS)
	record.TestsPassed = cloneNullableBool(d.testsPassed)
	record.LintPassed = cloneNullableBool(d.lintPassed)
	return nil
}

func scanJobFromRow(scanner jobRowScanner) (*model.JobRecord, error) {
	record := &model.JobRecord{}
	var data jobRowData
	if err := data.scanInto(scanner, record); err != nil {
		return nil, err
	}

	if err := data.apply(record); err != nil {
		return nil, err
	}
	return record, nil
}

func cloneNullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func cloneNullableInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func cloneNullableInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func cloneNullableBool(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	b := nb.Bool
	return &b
}
