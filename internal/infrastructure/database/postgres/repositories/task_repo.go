// Package repositories implements the PostgreSQL-backed task and thermo
// stores.  Task documents and reaction records keep their nested structure in
// JSONB columns; only the fields used for matching are promoted to real
// columns.
package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moltherm/moltherm/internal/domain/reaction"
	"github.com/moltherm/moltherm/internal/infrastructure/monitoring/logging"
	"github.com/moltherm/moltherm/pkg/errors"
)

// TaskRepository reads workflow task documents.  It implements
// reaction.TaskSource.
type TaskRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewTaskRepository constructs a ready-to-use TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool, logger logging.Logger) *TaskRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &TaskRepository{pool: pool, logger: logger.Named("task_repo")}
}

// TasksFor returns the task documents matching either the reaction directory
// or one of its molecule ids.
func (r *TaskRepository) TasksFor(ctx context.Context, dirName string, moleculeIDs []string) ([]reaction.TaskDocument, error) {
	r.logger.Debug("querying task documents",
		logging.String("dir_name", dirName),
		logging.Int("molecule_ids", len(moleculeIDs)),
	)

	rows, err := r.pool.Query(ctx, `
		SELECT id, task_label, dir_name, calcs_reversed
		FROM tasks
		WHERE dir_name = $1 OR molecule_id = ANY($2)
		ORDER BY created_at`,
		dirName, moleculeIDs,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQuery, "failed to query tasks")
	}
	defer rows.Close()

	var tasks []reaction.TaskDocument
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQuery, "failed to iterate task rows")
	}
	return tasks, nil
}

// SaveTask inserts one task document.  The molecule id is derived by the
// caller from the task label so that TasksFor can match on it directly.
func (r *TaskRepository) SaveTask(ctx context.Context, task reaction.TaskDocument, moleculeID string) error {
	calcsJSON, err := json.Marshal(task.CalcsReversed)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode task calculations")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO tasks (id, task_label, dir_name, molecule_id, calcs_reversed)
		VALUES ($1, $2, $3, $4, $5)`,
		task.ID, task.TaskLabel, task.DirName, moleculeID, calcsJSON,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreInsert, "failed to insert task document")
	}
	return nil
}

func scanTask(row pgx.Row) (reaction.TaskDocument, error) {
	var (
		task      reaction.TaskDocument
		calcsJSON []byte
	)
	if err := row.Scan(&task.ID, &task.TaskLabel, &task.DirName, &calcsJSON); err != nil {
		return reaction.TaskDocument{}, errors.Wrap(err, errors.ErrCodeStoreQuery, "failed to scan task row")
	}
	if err := json.Unmarshal(calcsJSON, &task.CalcsReversed); err != nil {
		return reaction.TaskDocument{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode task calculations")
	}
	return task, nil
}
