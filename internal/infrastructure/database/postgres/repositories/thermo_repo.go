package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moltherm/moltherm/internal/domain/reaction"
	"github.com/moltherm/moltherm/internal/infrastructure/monitoring/logging"
	"github.com/moltherm/moltherm/pkg/errors"
)

// ThermoRepository persists aggregated reaction records.  It implements
// reaction.ThermoSink.  Records are append-only: re-running an analysis adds
// a new row rather than rewriting history.
type ThermoRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewThermoRepository constructs a ready-to-use ThermoRepository.
func NewThermoRepository(pool *pgxpool.Pool, logger logging.Logger) *ThermoRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &ThermoRepository{pool: pool, logger: logger.Named("thermo_repo")}
}

// SaveRecord appends one reaction record.
func (r *ThermoRepository) SaveRecord(ctx context.Context, rec *reaction.ReactionRecord) error {
	inputsJSON, err := json.Marshal(rec.Inputs)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode calculation inputs")
	}
	thermoJSON, err := json.Marshal(rec.Thermo)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode thermo result")
	}

	id := uuid.New()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO thermo (id, directory, reactant_ids, product_ids, inputs, thermo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, rec.Directory, rec.ReactantIDs, rec.ProductIDs, inputsJSON, thermoJSON, time.Now().UTC(),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreInsert, "failed to insert reaction record")
	}

	r.logger.Debug("inserted reaction record",
		logging.String("id", id.String()),
		logging.String("directory", rec.Directory),
	)
	return nil
}

// RecordsForDirectory returns all records stored for one reaction directory,
// oldest first.
func (r *ThermoRepository) RecordsForDirectory(ctx context.Context, directory string) ([]reaction.ReactionRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT directory, reactant_ids, product_ids, inputs, thermo
		FROM thermo
		WHERE directory = $1
		ORDER BY created_at`,
		directory,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQuery, "failed to query reaction records")
	}
	defer rows.Close()

	var recs []reaction.ReactionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreQuery, "failed to iterate record rows")
	}
	return recs, nil
}

func scanRecord(row pgx.Row) (reaction.ReactionRecord, error) {
	var (
		rec        reaction.ReactionRecord
		inputsJSON []byte
		thermoJSON []byte
	)
	if err := row.Scan(&rec.Directory, &rec.ReactantIDs, &rec.ProductIDs, &inputsJSON, &thermoJSON); err != nil {
		return reaction.ReactionRecord{}, errors.Wrap(err, errors.ErrCodeStoreQuery, "failed to scan record row")
	}
	if err := json.Unmarshal(inputsJSON, &rec.Inputs); err != nil {
		return reaction.ReactionRecord{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode calculation inputs")
	}
	if err := json.Unmarshal(thermoJSON, &rec.Thermo); err != nil {
		return reaction.ReactionRecord{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode thermo result")
	}
	return rec, nil
}
