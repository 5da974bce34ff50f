package funnel

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
)

// StagePerformance is one conditional step of the fleet-wide funnel.
// SuccessRate is a percentage, 0 when StartingCount is 0.
type StagePerformance struct {
	StartingCount int     `json:"starting_count"`
	SuccessCount  int     `json:"success_count"`
	SuccessRate   float64 `json:"success_rate"`
}

// ConsistencyReport lists discrepancies between declared batch sizes and the
// tracked cell records. It is informational; the metrics are computed either way.
type ConsistencyReport struct {
	DeclaredStartTotal int         `json:"declared_start_total"`
	TrackedCells       int         `json:"tracked_cells"`
	OrphanCells        int         `json:"orphan_cells"`
	OrphanBatchIDs     []uuid.UUID `json:"orphan_batch_ids"`
	OverTrackedBatches []uuid.UUID `json:"over_tracked_batches"`
}

// Consistent reports whether every cell belongs to a known batch and no batch
// has more cells than it declared.
func (r ConsistencyReport) Consistent() bool {
	return r.OrphanCells == 0 && len(r.OverTrackedBatches) == 0
}

// FleetAnalytics is the funnel report across every batch in a snapshot.
type FleetAnalytics struct {
	TotalGrafted int `json:"total_grafted"`

	// Acceptance is accepted/grafted, Capping capped/accepted, Emergence
	// emerged/capped and Mating laying/emerged.
	Acceptance StagePerformance `json:"acceptance"`
	Capping    StagePerformance `json:"capping"`
	Emergence  StagePerformance `json:"emergence"`
	Mating     StagePerformance `json:"mating"`

	// OverallSuccessRate is laying/TotalGrafted, in percent.
	OverallSuccessRate float64 `json:"overall_success_rate"`

	// CellStatusDistribution counts tracked cells by current status. Every
	// stage is present, including those with zero cells.
	CellStatusDistribution map[domain.Stage]int `json:"cell_status_distribution"`

	Consistency ConsistencyReport `json:"consistency"`
}

// ComputeFleetAnalytics aggregates every batch and cell in the snapshot.
//
// TotalGrafted sums the start population of each batch, which is its declared
// start count or its tracked cell count when that is larger. Cells whose batch
// is not in the snapshot contribute their own count as start population and
// are reported in the consistency diagnostic. Repeated batch or cell IDs are
// counted once.
func ComputeFleetAnalytics(batches []*domain.Batch, cells []*domain.Cell) (*FleetAnalytics, error) {
	tracked := make(map[uuid.UUID]int, len(batches))
	known := make(map[uuid.UUID]bool, len(batches))
	for _, b := range batches {
		if b == nil {
			continue
		}
		if b.DeclaredStartCount < 0 {
			return nil, fmt.Errorf("%w: batch %s has negative declared start count %d",
				ErrInvalidInput, b.ID, b.DeclaredStartCount)
		}
		known[b.ID] = true
	}

	fa := &FleetAnalytics{
		CellStatusDistribution: make(map[domain.Stage]int, len(domain.AllStages())),
	}
	for _, s := range domain.AllStages() {
		fa.CellStatusDistribution[s] = 0
	}

	var live []*domain.Cell
	orphans := make(map[uuid.UUID]bool)
	seenCells := make(map[uuid.UUID]bool, len(cells))
	for _, c := range cells {
		if c == nil || seenCells[c.ID] {
			continue
		}
		if err := checkCellStage(c); err != nil {
			return nil, err
		}
		seenCells[c.ID] = true
		live = append(live, c)
		tracked[c.BatchID]++
		fa.CellStatusDistribution[c.Status]++
		if !known[c.BatchID] {
			orphans[c.BatchID] = true
			fa.Consistency.OrphanCells++
		}
	}

	seen := make(map[uuid.UUID]bool, len(batches))
	for _, b := range batches {
		if b == nil || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		fa.Consistency.DeclaredStartTotal += b.DeclaredStartCount
		fa.TotalGrafted += startPopulation(b.DeclaredStartCount, tracked[b.ID])
		if tracked[b.ID] > b.DeclaredStartCount {
			fa.Consistency.OverTrackedBatches = append(fa.Consistency.OverTrackedBatches, b.ID)
		}
	}
	fa.TotalGrafted += fa.Consistency.OrphanCells
	fa.Consistency.TrackedCells = len(live)
	fa.Consistency.OrphanBatchIDs = sortedIDs(orphans)

	counts := countCheckpoints(live)
	fa.Acceptance = performance(counts.Accepted, fa.TotalGrafted)
	fa.Capping = performance(counts.Capped, counts.Accepted)
	fa.Emergence = performance(counts.Emerged, counts.Capped)
	fa.Mating = performance(counts.Completed, counts.Emerged)
	fa.OverallSuccessRate = percent(rawRate(counts.Completed, fa.TotalGrafted))

	return fa, nil
}

func performance(success, starting int) StagePerformance {
	return StagePerformance{
		StartingCount: starting,
		SuccessCount:  success,
		SuccessRate:   percent(rawRate(success, starting)),
	}
}

func sortedIDs(set map[uuid.UUID]bool) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
