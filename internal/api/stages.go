package api

import "github.com/hivelog/hivelog-api/internal/domain"

// StageLabels maps stages to the names shown to beekeepers. Handlers receive
// it at construction so deployments can localise or rename stages without
// touching the domain.
type StageLabels map[domain.Stage]string

// DefaultStageLabels returns the English labels.
func DefaultStageLabels() StageLabels {
	return StageLabels{
		domain.StageGrafted:  "Grafted",
		domain.StageAccepted: "Accepted",
		domain.StageCapped:   "Capped",
		domain.StageEmerged:  "Emerged",
		domain.StageMating:   "Mating flight",
		domain.StageLaying:   "Laying",
		domain.StageFailed:   "Failed",
	}
}

// Label returns the display label for stage, falling back to its raw value.
func (l StageLabels) Label(stage domain.Stage) string {
	if label, ok := l[stage]; ok && label != "" {
		return label
	}
	return string(stage)
}
