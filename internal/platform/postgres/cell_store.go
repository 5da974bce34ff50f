package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/platform/logger"
	"github.com/hivelog/hivelog-api/internal/redact"
	"github.com/hivelog/hivelog-api/internal/store"
)

const cellColumns = `c.id, c.batch_id, c.label, c.status, c.failed_from, c.stage_times, c.created_at, c.updated_at`

// PostgresCellStore implements the store.CellStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCellStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCellStore creates a new PostgreSQL implementation of the CellStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCellStore(db store.DBTX, logger *slog.Logger) *PostgresCellStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCellStore{
		db:     db,
		logger: logger.With(slog.String("component", "cell_store")),
	}
}

// Ensure PostgresCellStore implements store.CellStore interface
var _ store.CellStore = (*PostgresCellStore)(nil)

// WithTx implements store.CellStore.WithTx
func (s *PostgresCellStore) WithTx(tx *sql.Tx) store.CellStore {
	return &PostgresCellStore{db: tx, logger: s.logger}
}

func encodeStageTimes(times map[domain.Stage]time.Time) ([]byte, error) {
	if times == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(times)
}

func nullableStage(s domain.Stage) sql.NullString {
	return sql.NullString{String: string(s), Valid: s != ""}
}

// CreateMultiple implements store.CellStore.CreateMultiple
func (s *PostgresCellStore) CreateMultiple(ctx context.Context, cells []*domain.Cell) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, c := range cells {
		if err := c.Validate(); err != nil {
			log.Warn("cell validation failed during create",
				redact.ErrorAttr(err),
				slog.String("cell_id", c.ID.String()))
			return err
		}
	}

	for _, c := range cells {
		stageTimes, err := encodeStageTimes(c.StageTimes)
		if err != nil {
			return fmt.Errorf("failed to encode stage times for cell %s: %w", c.ID, err)
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO cells (id, batch_id, label, status, failed_from, stage_times, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			c.ID,
			c.BatchID,
			c.Label,
			string(c.Status),
			nullableStage(c.FailedFrom),
			string(stageTimes),
			c.CreatedAt,
			c.UpdatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("%w: %q in batch %s", store.ErrCellLabelExists, c.Label, c.BatchID)
			}
			log.Error("failed to create cell",
				redact.ErrorAttr(err),
				slog.String("cell_id", c.ID.String()),
				slog.String("batch_id", c.BatchID.String()))
			return store.NewStoreError("cell", "create", "insert failed", MapError(err))
		}
	}

	log.Info("cells created", slog.Int("count", len(cells)))
	return nil
}

func scanCell(row rowScanner) (*domain.Cell, error) {
	var (
		c          domain.Cell
		status     string
		failedFrom sql.NullString
		stageTimes []byte
	)
	if err := row.Scan(
		&c.ID,
		&c.BatchID,
		&c.Label,
		&status,
		&failedFrom,
		&stageTimes,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Status = domain.Stage(status)
	if failedFrom.Valid {
		c.FailedFrom = domain.Stage(failedFrom.String)
	}
	if len(stageTimes) > 0 {
		if err := json.Unmarshal(stageTimes, &c.StageTimes); err != nil {
			return nil, fmt.Errorf("failed to decode stage times for cell %s: %w", c.ID, err)
		}
	}
	return &c, nil
}

// GetByID implements store.CellStore.GetByID
func (s *PostgresCellStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cell, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cell, err := scanCell(s.db.QueryRowContext(ctx,
		`SELECT `+cellColumns+` FROM cells c WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("cell not found", slog.String("cell_id", id.String()))
			return nil, store.ErrCellNotFound
		}
		log.Error("failed to get cell by ID",
			redact.ErrorAttr(err),
			slog.String("cell_id", id.String()))
		return nil, store.NewStoreError("cell", "get", "query failed", MapError(err))
	}
	return cell, nil
}

func (s *PostgresCellStore) list(ctx context.Context, op, query string, arg uuid.UUID) ([]*domain.Cell, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list cells",
			redact.ErrorAttr(err),
			slog.String("operation", op))
		return nil, store.NewStoreError("cell", op, "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	cells := make([]*domain.Cell, 0)
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, store.NewStoreError("cell", op, "scan failed", err)
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("cell", op, "iteration failed", err)
	}
	return cells, nil
}

// ListByBatch implements store.CellStore.ListByBatch
func (s *PostgresCellStore) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*domain.Cell, error) {
	return s.list(ctx, "list_by_batch", `
		SELECT `+cellColumns+`
		FROM cells c
		WHERE c.batch_id = $1
		ORDER BY c.label, c.created_at, c.id
	`, batchID)
}

// ListByUser implements store.CellStore.ListByUser
func (s *PostgresCellStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Cell, error) {
	return s.list(ctx, "list_by_user", `
		SELECT `+cellColumns+`
		FROM cells c
		JOIN batches b ON b.id = c.batch_id
		WHERE b.user_id = $1
		ORDER BY c.batch_id, c.label, c.created_at, c.id
	`, userID)
}

// UpdateStatus implements store.CellStore.UpdateStatus
func (s *PostgresCellStore) UpdateStatus(ctx context.Context, cell *domain.Cell) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cell.Validate(); err != nil {
		log.Warn("cell validation failed during status update",
			redact.ErrorAttr(err),
			slog.String("cell_id", cell.ID.String()))
		return err
	}

	stageTimes, err := encodeStageTimes(cell.StageTimes)
	if err != nil {
		return fmt.Errorf("failed to encode stage times for cell %s: %w", cell.ID, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cells
		SET status = $1, failed_from = $2, stage_times = $3, updated_at = $4
		WHERE id = $5
	`, string(cell.Status), nullableStage(cell.FailedFrom), string(stageTimes), cell.UpdatedAt, cell.ID)
	if err != nil {
		log.Error("failed to update cell status",
			redact.ErrorAttr(err),
			slog.String("cell_id", cell.ID.String()))
		return store.NewStoreError("cell", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrCellNotFound); err != nil {
		return err
	}

	log.Debug("cell status updated",
		slog.String("cell_id", cell.ID.String()),
		slog.String("status", string(cell.Status)))
	return nil
}
