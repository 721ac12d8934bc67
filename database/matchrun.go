package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/lodgetix/reconcile/model"
)

// RecordMatchRun inserts a new match-run record into the database.
func (d Datasource) RecordMatchRun(ctx context.Context, run *model.MatchRun) error {
	ctx, span := otel.Tracer("MatchRun").Start(ctx, "Saving match run to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO match_runs(
			match_run_id, status, started_at, completed_at, total_payments,
			matched_payments, unmatched_payments, valid_matches
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.MatchRunID, run.Status, run.StartedAt, run.CompletedAt,
		run.TotalPayments, run.MatchedPayments, run.UnmatchedPayments,
		run.ValidMatches,
	)
	if err != nil {
		return errors.Wrap(err, "failed to record match run")
	}
	return nil
}

// UpdateMatchRunStatus updates the status and counts of a match run.
// The completion timestamp is set when the run reaches a terminal status.
func (d Datasource) UpdateMatchRunStatus(ctx context.Context, id string, status string, matched, unmatched, valid int) error {
	ctx, span := otel.Tracer("MatchRun").Start(ctx, "Updating match run status")
	defer span.End()

	completedAt := sql.NullTime{
		Time:  time.Now(),
		Valid: status == model.StatusCompleted || status == model.StatusFailed,
	}

	_, err := d.Conn.ExecContext(ctx, `
		UPDATE match_runs
		SET status = $2, matched_payments = $3, unmatched_payments = $4,
			valid_matches = $5, completed_at = $6
		WHERE match_run_id = $1
	`, id, status, matched, unmatched, valid, completedAt)
	if err != nil {
		return errors.Wrap(err, "failed to update match run")
	}
	return nil
}

// GetMatchRun retrieves a match-run record by its ID.
func (d Datasource) GetMatchRun(ctx context.Context, id string) (*model.MatchRun, error) {
	ctx, span := otel.Tracer("MatchRun").Start(ctx, "Fetching match run from db")
	defer span.End()

	run := &model.MatchRun{}
	var completedAt sql.NullTime
	err := d.Conn.QueryRowContext(ctx, `
		SELECT match_run_id, status, started_at, completed_at, total_payments,
			matched_payments, unmatched_payments, valid_matches
		FROM match_runs
		WHERE match_run_id = $1
	`, id).Scan(
		&run.MatchRunID, &run.Status, &run.StartedAt, &completedAt,
		&run.TotalPayments, &run.MatchedPayments, &run.UnmatchedPayments,
		&run.ValidMatches,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch match run")
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return run, nil
}
