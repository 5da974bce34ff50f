package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/platform/logger"
	"github.com/hivelog/hivelog-api/internal/redact"
	"github.com/hivelog/hivelog-api/internal/store"
)

const batchColumns = `id, user_id, name, notes, declared_start_count, grafted_at, created_at, updated_at`

// PostgresBatchStore implements the store.BatchStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBatchStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBatchStore creates a new PostgreSQL implementation of the BatchStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresBatchStore(db store.DBTX, logger *slog.Logger) *PostgresBatchStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBatchStore{
		db:     db,
		logger: logger.With(slog.String("component", "batch_store")),
	}
}

// Ensure PostgresBatchStore implements store.BatchStore interface
var _ store.BatchStore = (*PostgresBatchStore)(nil)

// WithTx implements store.BatchStore.WithTx
func (s *PostgresBatchStore) WithTx(tx *sql.Tx) store.BatchStore {
	return &PostgresBatchStore{db: tx, logger: s.logger}
}

// Create implements store.BatchStore.Create
// Returns store.ErrForeignKey if the owning user does not exist.
func (s *PostgresBatchStore) Create(ctx context.Context, batch *domain.Batch) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := batch.Validate(); err != nil {
		log.Warn("batch validation failed during create",
			redact.ErrorAttr(err),
			slog.String("batch_id", batch.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batches (`+batchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		batch.ID,
		batch.UserID,
		batch.Name,
		batch.Notes,
		batch.DeclaredStartCount,
		batch.GraftedAt,
		batch.CreatedAt,
		batch.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create batch",
			redact.ErrorAttr(err),
			slog.String("batch_id", batch.ID.String()),
			slog.String("user_id", batch.UserID.String()))
		return store.NewStoreError("batch", "create", "insert failed", MapError(err))
	}

	log.Info("batch created",
		slog.String("batch_id", batch.ID.String()),
		slog.Int("declared_start_count", batch.DeclaredStartCount))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*domain.Batch, error) {
	var b domain.Batch
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&b.Notes,
		&b.DeclaredStartCount,
		&b.GraftedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID implements store.BatchStore.GetByID
func (s *PostgresBatchStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	batch, err := scanBatch(s.db.QueryRowContext(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("batch not found", slog.String("batch_id", id.String()))
			return nil, store.ErrBatchNotFound
		}
		log.Error("failed to get batch by ID",
			redact.ErrorAttr(err),
			slog.String("batch_id", id.String()))
		return nil, store.NewStoreError("batch", "get", "query failed", MapError(err))
	}
	return batch, nil
}

// ListByUser implements store.BatchStore.ListByUser
func (s *PostgresBatchStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Batch, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+batchColumns+`
		FROM batches
		WHERE user_id = $1
		ORDER BY grafted_at DESC, id
	`, userID)
	if err != nil {
		log.Error("failed to list batches",
			redact.ErrorAttr(err),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("batch", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	batches := make([]*domain.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, store.NewStoreError("batch", "list", "scan failed", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("batch", "list", "iteration failed", err)
	}

	log.Debug("batches listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(batches)))
	return batches, nil
}

// Update implements store.BatchStore.Update
func (s *PostgresBatchStore) Update(ctx context.Context, batch *domain.Batch) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := batch.Validate(); err != nil {
		log.Warn("batch validation failed during update", redact.ErrorAttr(err))
		return err
	}
	batch.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE batches
		SET name = $1, notes = $2, updated_at = $3
		WHERE id = $4
	`, batch.Name, batch.Notes, batch.UpdatedAt, batch.ID)
	if err != nil {
		log.Error("failed to update batch",
			redact.ErrorAttr(err),
			slog.String("batch_id", batch.ID.String()))
		return store.NewStoreError("batch", "update", "update failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrBatchNotFound)
}

// Delete implements store.BatchStore.Delete
func (s *PostgresBatchStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete batch",
			redact.ErrorAttr(err),
			slog.String("batch_id", id.String()))
		return store.NewStoreError("batch", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrBatchNotFound); err != nil {
		return err
	}
	log.Info("batch deleted", slog.String("batch_id", id.String()))
	return nil
}
