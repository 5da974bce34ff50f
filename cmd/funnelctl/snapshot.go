package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"gopkg.in/yaml.v3"
)

var (
	errUnknownFormat = errors.New("unknown snapshot format")
	errInvalidRecord = errors.New("invalid snapshot record")
)

// snapshotFile is the on-disk form of a point-in-time export.
type snapshotFile struct {
	Batches []snapshotBatch `json:"batches" yaml:"batches"`
	Cells   []snapshotCell  `json:"cells"   yaml:"cells"`
}

type snapshotBatch struct {
	ID                 string    `json:"id"                   yaml:"id"`
	Name               string    `json:"name"                 yaml:"name"`
	DeclaredStartCount int       `json:"declared_start_count" yaml:"declared_start_count"`
	GraftedAt          time.Time `json:"grafted_at"           yaml:"grafted_at"`
}

type snapshotCell struct {
	ID         string `json:"id"          yaml:"id"`
	BatchID    string `json:"batch_id"    yaml:"batch_id"`
	Label      string `json:"label"       yaml:"label"`
	Status     string `json:"status"      yaml:"status"`
	FailedFrom string `json:"failed_from" yaml:"failed_from"`
}

// snapshot is a decoded snapshotFile.
type snapshot struct {
	Batches []*domain.Batch
	Cells   []*domain.Cell
}

// batch returns the batch with the given ID, or nil.
func (s *snapshot) batch(id uuid.UUID) *domain.Batch {
	for _, b := range s.Batches {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// loadSnapshot reads path, or stdin when path is "-". format is "json",
// "yaml" or "auto", which picks YAML for .yaml and .yml files.
func loadSnapshot(path, format string, stdin io.Reader) (*snapshot, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if format == "auto" {
		format = "json"
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		}
	}

	var file snapshotFile
	switch format {
	case "json":
		err = json.Unmarshal(raw, &file)
	case "yaml":
		err = yaml.Unmarshal(raw, &file)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s snapshot: %w", format, err)
	}
	return file.decode()
}

func (f snapshotFile) decode() (*snapshot, error) {
	s := &snapshot{
		Batches: make([]*domain.Batch, 0, len(f.Batches)),
		Cells:   make([]*domain.Cell, 0, len(f.Cells)),
	}

	for i, b := range f.Batches {
		id, err := uuid.Parse(b.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: batch %d id %q", errInvalidRecord, i, b.ID)
		}
		s.Batches = append(s.Batches, &domain.Batch{
			ID:                 id,
			Name:               b.Name,
			DeclaredStartCount: b.DeclaredStartCount,
			GraftedAt:          b.GraftedAt,
		})
	}

	for i, c := range f.Cells {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d id %q", errInvalidRecord, i, c.ID)
		}
		batchID, err := uuid.Parse(c.BatchID)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d batch_id %q", errInvalidRecord, i, c.BatchID)
		}
		status, err := domain.ParseStage(c.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %w", errInvalidRecord, i, err)
		}
		cell := &domain.Cell{ID: id, BatchID: batchID, Label: c.Label, Status: status}
		if c.FailedFrom != "" {
			if cell.FailedFrom, err = domain.ParseStage(c.FailedFrom); err != nil {
				return nil, fmt.Errorf("%w: cell %d failed_from: %w", errInvalidRecord, i, err)
			}
		}
		s.Cells = append(s.Cells, cell)
	}
	return s, nil
}
