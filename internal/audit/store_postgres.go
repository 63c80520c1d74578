package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore persists audit events in PostgreSQL. Schema:
//
//	CREATE TABLE analysis_audit (
//	    analysis_id        UUID PRIMARY KEY,
//	    request_id         TEXT,
//	    procedure_code     TEXT NOT NULL,
//	    policy_id          TEXT NOT NULL,
//	    score              DOUBLE PRECISION NOT NULL,
//	    recommendation     TEXT NOT NULL,
//	    criterion_statuses JSONB NOT NULL,
//	    created_at         TIMESTAMPTZ NOT NULL
//	)
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	statuses, err := json.Marshal(event.CriterionStatuses)
	if err != nil {
		return fmt.Errorf("marshal criterion statuses: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_audit
			(analysis_id, request_id, procedure_code, policy_id, score,
			 recommendation, criterion_statuses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (analysis_id) DO NOTHING`,
		event.AnalysisID,
		event.RequestID,
		event.ProcedureCode,
		event.PolicyID,
		event.Score,
		event.Recommendation,
		statuses,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
