package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/hivelog/hivelog-api/internal/domain/funnel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	batchA = "6f1c2b7e-1d9a-4c52-9a57-0c3b8f1e2a10"
	batchB = "0b8e54c3-6a2d-4f3e-8d1b-7e9f2c4a5b61"
)

const yamlSnapshot = `
batches:
  - id: ` + batchA + `
    name: June cup kit
    declared_start_count: 4
    grafted_at: 2026-06-01T08:00:00Z
  - id: ` + batchB + `
    name: July cup kit
    declared_start_count: 2
    grafted_at: 2026-07-01T08:00:00Z
cells:
  - {id: 11111111-1111-4111-8111-111111111111, batch_id: ` + batchA + `, status: laying}
  - {id: 22222222-2222-4222-8222-222222222222, batch_id: ` + batchA + `, status: emerged}
  - {id: 33333333-3333-4333-8333-333333333333, batch_id: ` + batchA + `, status: failed, failed_from: capped}
  - {id: 44444444-4444-4444-8444-444444444444, batch_id: ` + batchB + `, status: accepted}
`

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBatchCommand(t *testing.T) {
	path := writeSnapshot(t, "snap.yaml", yamlSnapshot)

	out, err := execute(t, "", "batch", "--snapshot", path, "--batch", batchA, "--alpha", "0")
	require.NoError(t, err)

	var metrics funnel.BatchMetrics
	require.NoError(t, json.Unmarshal([]byte(out), &metrics))
	assert.Equal(t, 3, metrics.TrackedCells)
	assert.Equal(t, 4, metrics.DeclaredStartCount)
	assert.Equal(t, 3, metrics.Counts.Accepted)
	assert.Equal(t, 2, metrics.Counts.Emerged)
	assert.Equal(t, 1, metrics.Counts.Completed)
	assert.InDelta(t, 0.0, metrics.Params.SmoothingAlpha, 1e-12)
}

func TestBatchCommandErrors(t *testing.T) {
	path := writeSnapshot(t, "snap.yml", yamlSnapshot)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown batch", args: []string{"--batch", "9d5a8b1c-0000-4000-8000-000000000000"}, want: "not found"},
		{name: "malformed batch id", args: []string{"--batch", "june"}, want: "invalid --batch"},
		{name: "negative alpha", args: []string{"--batch", batchA, "--alpha", "-1"}, want: "alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"batch", "--snapshot", path}, tt.args...)
			_, err := execute(t, "", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFleetCommandFromStdinJSON(t *testing.T) {
	snapshot := `{
		"batches": [{"id": "` + batchA + `", "name": "A", "declared_start_count": 1}],
		"cells": [
			{"id": "11111111-1111-4111-8111-111111111111", "batch_id": "` + batchA + `", "status": "laying"},
			{"id": "22222222-2222-4222-8222-222222222222", "batch_id": "` + batchB + `", "status": "grafted"}
		]
	}`

	out, err := execute(t, snapshot, "fleet", "--snapshot", "-")
	require.NoError(t, err)

	var fleet funnel.FleetAnalytics
	require.NoError(t, json.Unmarshal([]byte(out), &fleet))
	assert.Equal(t, 2, fleet.TotalGrafted)
	assert.Equal(t, 1, fleet.Consistency.OrphanCells)
	assert.Equal(t, 1, fleet.CellStatusDistribution[domain.StageLaying])
	assert.Equal(t, 1, fleet.CellStatusDistribution[domain.StageGrafted])
}

func TestLoadSnapshot(t *testing.T) {
	t.Run("yaml by extension", func(t *testing.T) {
		snap, err := loadSnapshot(writeSnapshot(t, "snap.yaml", yamlSnapshot), "auto", nil)
		require.NoError(t, err)
		assert.Len(t, snap.Batches, 2)
		require.Len(t, snap.Cells, 4)
		assert.Equal(t, domain.StageCapped, snap.Cells[2].FailedFrom)
	})

	t.Run("unknown stage", func(t *testing.T) {
		bad := strings.Replace(yamlSnapshot, "status: emerged", "status: hatched", 1)
		_, err := loadSnapshot(writeSnapshot(t, "snap.yaml", bad), "auto", nil)
		require.ErrorIs(t, err, errInvalidRecord)
		assert.ErrorIs(t, err, domain.ErrInvalidStage)
	})

	t.Run("failed from laying rejected by batch", func(t *testing.T) {
		bad := strings.Replace(yamlSnapshot, "failed_from: capped", "failed_from: laying", 1)
		path := writeSnapshot(t, "snap.yaml", bad)
		_, err := execute(t, "", "batch", "--snapshot", path, "--batch", batchA)
		assert.ErrorIs(t, err, funnel.ErrInvalidInput)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := loadSnapshot(writeSnapshot(t, "snap.toml", "x"), "toml", nil)
		assert.ErrorIs(t, err, errUnknownFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadSnapshot(filepath.Join(t.TempDir(), "missing.json"), "auto", nil)
		assert.Error(t, err)
	})
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeSnapshot(t, "snap.yaml", yamlSnapshot)
	_, err := execute(t, "", "--log-level", "loud", "fleet", "--snapshot", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
