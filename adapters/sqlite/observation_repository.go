package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"patternstudy/domain/core"
	"patternstudy/domain/run"
	"patternstudy/domain/survey"
)

// ObservationRepository persists reshaped observations in an embedded
// SQLite file, keyed by run. File-local with no server process, so the
// reproducibility package stays self-contained.
type ObservationRepository struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the store at path. ":memory:" gives an
// ephemeral store for tests.
func Open(path string) (*ObservationRepository, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open observation store: %w", err)
	}

	repo := &ObservationRepository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// Close releases the underlying database handle.
func (r *ObservationRepository) Close() error {
	return r.db.Close()
}

func (r *ObservationRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id          TEXT PRIMARY KEY,
		survey_path     TEXT NOT NULL,
		survey_hash     TEXT NOT NULL,
		exclusions_path TEXT NOT NULL DEFAULT '',
		exclusions_hash TEXT NOT NULL DEFAULT '',
		raw_rows        INTEGER NOT NULL,
		excluded        INTEGER NOT NULL,
		respondents     INTEGER NOT NULL,
		observations    INTEGER NOT NULL,
		dropped_cells   INTEGER NOT NULL,
		code_version    TEXT NOT NULL,
		created_at      TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS observations (
		run_id           TEXT NOT NULL REFERENCES runs(run_id),
		seq              INTEGER NOT NULL,
		response_id      TEXT NOT NULL,
		participant_id   TEXT NOT NULL,
		interface        INTEGER NOT NULL,
		condition        TEXT NOT NULL,
		tendency         TEXT NOT NULL,
		"release"        TEXT NOT NULL,
		tendency_numeric REAL NOT NULL,
		release_binary   INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	);`

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate observation store: %w", err)
	}
	return nil
}

// SaveRun records a manifest and its observations atomically, replacing any
// prior data for the same run.
func (r *ObservationRepository) SaveRun(ctx context.Context, manifest *run.Manifest, observations []survey.Observation) error {
	if err := manifest.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM observations WHERE run_id = ?`, manifest.RunID.String()); err != nil {
		return fmt.Errorf("failed to clear prior observations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, manifest.RunID.String()); err != nil {
		return fmt.Errorf("failed to clear prior run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (
		run_id, survey_path, survey_hash, exclusions_path, exclusions_hash,
		raw_rows, excluded, respondents, observations, dropped_cells,
		code_version, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		manifest.RunID.String(), manifest.SurveyPath, manifest.SurveyHash.String(),
		manifest.ExclusionsPath, manifest.ExclusionsHash.String(),
		manifest.Counts.RawRows, manifest.Counts.Excluded, manifest.Counts.Respondents,
		manifest.Counts.Observations, manifest.Counts.DroppedCells,
		manifest.CodeVersion, manifest.CreatedAt.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO observations (
		run_id, seq, response_id, participant_id, interface, condition,
		tendency, "release", tendency_numeric, release_binary
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare observation insert: %w", err)
	}
	defer stmt.Close()

	for seq, obs := range observations {
		_, err := stmt.ExecContext(ctx,
			manifest.RunID.String(), seq, obs.ResponseID.String(), obs.ParticipantID.String(),
			int(obs.Interface), obs.Condition, obs.Tendency, obs.Release,
			obs.TendencyNumeric, boolToInt(obs.ReleaseBinary),
		)
		if err != nil {
			return fmt.Errorf("failed to insert observation %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// LoadObservations returns a run's observations in insertion order.
func (r *ObservationRepository) LoadObservations(ctx context.Context, runID core.RunID) ([]survey.Observation, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT
		response_id, participant_id, interface, condition,
		tendency, "release", tendency_numeric, release_binary
	FROM observations WHERE run_id = ? ORDER BY seq`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var observations []survey.Observation
	for rows.Next() {
		var (
			obs           survey.Observation
			responseID    string
			participantID string
			iface         int
			release       int
		)
		if err := rows.Scan(&responseID, &participantID, &iface, &obs.Condition,
			&obs.Tendency, &obs.Release, &obs.TendencyNumeric, &release); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		obs.ResponseID = core.ResponseID(responseID)
		obs.ParticipantID = core.ParticipantID(participantID)
		obs.Interface = survey.Interface(iface)
		obs.ReleaseBinary = release != 0
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read observations: %w", err)
	}
	return observations, nil
}

// ListRuns returns stored run IDs, newest first.
func (r *ObservationRepository) ListRuns(ctx context.Context) ([]core.RunID, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT run_id FROM runs ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	out := make([]core.RunID, len(ids))
	for i, id := range ids {
		out[i] = core.RunID(id)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
