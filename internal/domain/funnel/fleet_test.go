package funnel

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFleetAnalytics_Empty(t *testing.T) {
	t.Parallel()

	fa, err := ComputeFleetAnalytics(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, fa.TotalGrafted)
	assert.Equal(t, 0.0, fa.OverallSuccessRate)
	for _, sp := range []StagePerformance{fa.Acceptance, fa.Capping, fa.Emergence, fa.Mating} {
		assert.Equal(t, 0.0, sp.SuccessRate)
	}
	assert.Len(t, fa.CellStatusDistribution, len(domain.AllStages()))
	assert.True(t, fa.Consistency.Consistent())
}

func TestComputeFleetAnalytics_BatchesWithoutCells(t *testing.T) {
	t.Parallel()

	fa, err := ComputeFleetAnalytics([]*domain.Batch{testBatch(10), testBatch(20)}, nil)
	require.NoError(t, err)

	assert.Equal(t, 30, fa.TotalGrafted)
	assert.Equal(t, StagePerformance{StartingCount: 30}, fa.Acceptance)
	assert.Equal(t, 0.0, fa.OverallSuccessRate)
}

func TestComputeFleetAnalytics_Funnel(t *testing.T) {
	t.Parallel()

	a := testBatch(10)
	b := testBatch(10)
	cells := concat(
		cellsAt(a.ID, domain.StageLaying, 2),
		cellsAt(a.ID, domain.StageCapped, 3),
		failedCells(a.ID, domain.StageAccepted, 1),
		failedCells(a.ID, domain.StageGrafted, 4),
		cellsAt(b.ID, domain.StageMating, 2),
		cellsAt(b.ID, domain.StageEmerged, 1),
		cellsAt(b.ID, domain.StageAccepted, 1),
		failedCells(b.ID, domain.StageCapped, 2),
	)

	fa, err := ComputeFleetAnalytics([]*domain.Batch{a, b}, cells)
	require.NoError(t, err)

	assert.Equal(t, 20, fa.TotalGrafted)
	// accepted: 2+3+1 in a, 2+1+1+2 in b
	assertPerformance(t, fa.Acceptance, 20, 12, 60)
	// capped: 2+3 in a, 2+1+2 in b
	assertPerformance(t, fa.Capping, 12, 10, 100.0*10/12)
	// emerged: 2 in a, 3 in b
	assertPerformance(t, fa.Emergence, 10, 5, 50)
	assertPerformance(t, fa.Mating, 5, 2, 40)
	assert.InDelta(t, 10.0, fa.OverallSuccessRate, 1e-9)

	assert.Equal(t, 2, fa.CellStatusDistribution[domain.StageLaying])
	assert.Equal(t, 7, fa.CellStatusDistribution[domain.StageFailed])
	assert.Equal(t, 0, fa.CellStatusDistribution[domain.StageGrafted])
	assert.True(t, fa.Consistency.Consistent())
	assert.Equal(t, 20, fa.Consistency.DeclaredStartTotal)
	assert.Equal(t, 16, fa.Consistency.TrackedCells)
}

func TestComputeFleetAnalytics_Consistency(t *testing.T) {
	t.Parallel()

	small := testBatch(1)
	orphanBatch := uuid.New()
	cells := concat(
		cellsAt(small.ID, domain.StageAccepted, 3),
		cellsAt(orphanBatch, domain.StageGrafted, 2),
	)

	fa, err := ComputeFleetAnalytics([]*domain.Batch{small, small}, cells)
	require.NoError(t, err)

	assert.False(t, fa.Consistency.Consistent())
	assert.Equal(t, 1, fa.Consistency.DeclaredStartTotal, "duplicate batch counted once")
	assert.Equal(t, 5, fa.Consistency.TrackedCells)
	assert.Equal(t, 2, fa.Consistency.OrphanCells)
	assert.Equal(t, []uuid.UUID{orphanBatch}, fa.Consistency.OrphanBatchIDs)
	assert.Equal(t, []uuid.UUID{small.ID}, fa.Consistency.OverTrackedBatches)

	// 3 tracked in the over-tracked batch plus 2 orphans
	assert.Equal(t, 5, fa.TotalGrafted)
	assert.InDelta(t, 60.0, fa.Acceptance.SuccessRate, 1e-9)
}

func TestComputeFleetAnalytics_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := ComputeFleetAnalytics([]*domain.Batch{testBatch(-2)}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	b := testBatch(1)
	_, err = ComputeFleetAnalytics([]*domain.Batch{b}, cellsAt(b.ID, domain.Stage("sold"), 1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	fa, err := ComputeFleetAnalytics([]*domain.Batch{b}, failedCells(b.ID, domain.StageLaying, 1))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, fa)

	live := []*domain.Cell{{ID: uuid.New(), BatchID: b.ID, Status: domain.StageEmerged, FailedFrom: domain.StageCapped}}
	_, err = ComputeFleetAnalytics([]*domain.Batch{b}, live)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeFleetAnalytics_RepeatedCellCountsOnce(t *testing.T) {
	t.Parallel()

	b := testBatch(2)
	laying := cellsAt(b.ID, domain.StageLaying, 1)

	fa, err := ComputeFleetAnalytics([]*domain.Batch{b}, concat(laying, laying))
	require.NoError(t, err)
	assert.Equal(t, 2, fa.TotalGrafted)
	assert.Equal(t, 1, fa.Consistency.TrackedCells)
	assert.Equal(t, 1, fa.CellStatusDistribution[domain.StageLaying])
	assert.InDelta(t, 50.0, fa.OverallSuccessRate, 1e-9)
	assert.True(t, fa.Consistency.Consistent())
}

func assertPerformance(t *testing.T, sp StagePerformance, starting, success int, rate float64) {
	t.Helper()
	assert.Equal(t, starting, sp.StartingCount)
	assert.Equal(t, success, sp.SuccessCount)
	assert.InDelta(t, rate, sp.SuccessRate, 1e-9)
}
