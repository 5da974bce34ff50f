package funnel

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain"
)

// Interval is a confidence interval expressed in percent.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// RateEstimate describes one conditional transition of the funnel: how many of
// the cells that reached the previous checkpoint went on to reach this one.
// Rates and bounds are percentages.
type RateEstimate struct {
	Successes    int      `json:"successes"`
	Trials       int      `json:"trials"`
	Rate         float64  `json:"rate"`
	SmoothedRate float64  `json:"smoothed_rate"`
	Confidence   Interval `json:"confidence_interval"`
}

// Yield is the product of consecutive conditional rates, in percent.
type Yield struct {
	Raw      float64 `json:"raw"`
	Smoothed float64 `json:"smoothed"`
}

// StageCounts holds how many cells of a batch reached or passed each
// checkpoint. Grafted is the start population.
type StageCounts struct {
	Grafted   int `json:"grafted"`
	Accepted  int `json:"accepted"`
	Capped    int `json:"capped"`
	Emerged   int `json:"emerged"`
	Completed int `json:"completed"`
}

// BatchMetrics is the funnel report for a single batch.
type BatchMetrics struct {
	BatchID            uuid.UUID `json:"batch_id"`
	BatchName          string    `json:"batch_name"`
	DeclaredStartCount int       `json:"declared_start_count"`
	TrackedCells       int       `json:"tracked_cells"`

	Counts StageCounts `json:"counts"`

	// Acceptance is accepted/grafted, Emergence emerged/accepted and Mating
	// completed/emerged. Grafted is the start population, which exceeds
	// DeclaredStartCount when more cells were tracked than declared.
	Acceptance RateEstimate `json:"acceptance"`
	Emergence  RateEstimate `json:"emergence"`
	Mating     RateEstimate `json:"mating"`

	YieldToEmergence  Yield `json:"yield_to_emergence"`
	YieldToCompletion Yield `json:"yield_to_completion"`

	Params Params `json:"params"`
}

// ComputeBatchMetrics computes the funnel report for batch from the cells in
// the snapshot. Cells belonging to other batches are ignored, so passing the
// full fleet snapshot and passing only this batch's cells give the same result.
// A cell ID that appears more than once is counted once.
//
// The start population is the declared start count, raised to the number of
// tracked cells when more cells were recorded than declared.
func ComputeBatchMetrics(batch *domain.Batch, cells []*domain.Cell, params Params) (*BatchMetrics, error) {
	if batch == nil {
		return nil, fmt.Errorf("%w: batch is nil", ErrInvalidInput)
	}
	if batch.DeclaredStartCount < 0 {
		return nil, fmt.Errorf("%w: batch %s has negative declared start count %d",
			ErrInvalidInput, batch.ID, batch.DeclaredStartCount)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	own, err := cellsOfBatch(batch.ID, cells)
	if err != nil {
		return nil, err
	}

	counts := countCheckpoints(own)
	counts.Grafted = startPopulation(batch.DeclaredStartCount, len(own))

	m := &BatchMetrics{
		BatchID:            batch.ID,
		BatchName:          batch.Name,
		DeclaredStartCount: batch.DeclaredStartCount,
		TrackedCells:       len(own),
		Counts:             counts,
		Acceptance:         estimate(counts.Accepted, counts.Grafted, params),
		Emergence:          estimate(counts.Emerged, counts.Accepted, params),
		Mating:             estimate(counts.Completed, counts.Emerged, params),
		Params:             params,
	}

	acc := rawRate(counts.Accepted, counts.Grafted)
	emg := rawRate(counts.Emerged, counts.Accepted)
	mat := rawRate(counts.Completed, counts.Emerged)

	sAcc := smoothedRate(counts.Accepted, counts.Grafted, params.SmoothingAlpha)
	sEmg := smoothedRate(counts.Emerged, counts.Accepted, params.SmoothingAlpha)
	sMat := smoothedRate(counts.Completed, counts.Emerged, params.SmoothingAlpha)

	m.YieldToEmergence = Yield{
		Raw:      percent(acc * emg),
		Smoothed: percent(sAcc * sEmg),
	}
	m.YieldToCompletion = Yield{
		Raw:      percent(acc * emg * mat),
		Smoothed: percent(sAcc * sEmg * sMat),
	}

	return m, nil
}

func estimate(k, n int, params Params) RateEstimate {
	lo, hi := wilsonInterval(k, n, params.ConfidenceZ)
	return RateEstimate{
		Successes:    k,
		Trials:       n,
		Rate:         percent(rawRate(k, n)),
		SmoothedRate: percent(smoothedRate(k, n, params.SmoothingAlpha)),
		Confidence:   Interval{Lower: percent(lo), Upper: percent(hi)},
	}
}

// cellsOfBatch returns the cells belonging to batchID, rejecting any with an
// invalid stage. Repeated cell IDs count once.
func cellsOfBatch(batchID uuid.UUID, cells []*domain.Cell) ([]*domain.Cell, error) {
	var own []*domain.Cell
	seen := make(map[uuid.UUID]bool)
	for _, c := range cells {
		if c == nil || c.BatchID != batchID || seen[c.ID] {
			continue
		}
		if err := checkCellStage(c); err != nil {
			return nil, err
		}
		seen[c.ID] = true
		own = append(own, c)
	}
	return own, nil
}

func checkCellStage(c *domain.Cell) error {
	if !c.Status.IsValid() {
		return fmt.Errorf("%w: cell %s has unknown status %q", ErrInvalidInput, c.ID, c.Status)
	}
	if c.FailedFrom == "" {
		return nil
	}
	if c.Status != domain.StageFailed {
		return fmt.Errorf("%w: cell %s has failed-from stage %q but status %q",
			ErrInvalidInput, c.ID, c.FailedFrom, c.Status)
	}
	if !c.FailedFrom.IsForward() || c.FailedFrom.IsTerminal() {
		return fmt.Errorf("%w: cell %s has invalid failed-from stage %q", ErrInvalidInput, c.ID, c.FailedFrom)
	}
	return nil
}

// countCheckpoints counts cells at or beyond each checkpoint after grafting.
// The Grafted field is left to the caller.
func countCheckpoints(cells []*domain.Cell) StageCounts {
	var counts StageCounts
	for _, c := range cells {
		if c.ReachedOrPassed(domain.StageAccepted) {
			counts.Accepted++
		}
		if c.ReachedOrPassed(domain.StageCapped) {
			counts.Capped++
		}
		if c.ReachedOrPassed(domain.StageEmerged) {
			counts.Emerged++
		}
		if c.ReachedOrPassed(domain.StageLaying) {
			counts.Completed++
		}
	}
	return counts
}

func startPopulation(declared, tracked int) int {
	if tracked > declared {
		return tracked
	}
	return declared
}
