package funnel

import "github.com/hivelog/hivelog-api/internal/domain"

// Service defines the funnel analytics operations.
type Service interface {
	// Params returns the parameters used when none are given explicitly.
	Params() Params

	// BatchMetrics computes a batch report using the service's parameters.
	BatchMetrics(batch *domain.Batch, cells []*domain.Cell) (*BatchMetrics, error)

	// BatchMetricsWithParams computes a batch report using params instead.
	BatchMetricsWithParams(batch *domain.Batch, cells []*domain.Cell, params Params) (*BatchMetrics, error)

	// FleetAnalytics aggregates every batch and cell in the snapshot.
	FleetAnalytics(batches []*domain.Batch, cells []*domain.Cell) (*FleetAnalytics, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params Params
}

// NewDefaultService creates a service with α = 1 and z = 1.96.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a service with custom default parameters.
func NewServiceWithParams(params Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

func (s *defaultService) Params() Params {
	return s.params
}

func (s *defaultService) BatchMetrics(batch *domain.Batch, cells []*domain.Cell) (*BatchMetrics, error) {
	return ComputeBatchMetrics(batch, cells, s.params)
}

func (s *defaultService) BatchMetricsWithParams(
	batch *domain.Batch,
	cells []*domain.Cell,
	params Params,
) (*BatchMetrics, error) {
	return ComputeBatchMetrics(batch, cells, params)
}

func (s *defaultService) FleetAnalytics(batches []*domain.Batch, cells []*domain.Cell) (*FleetAnalytics, error) {
	return ComputeFleetAnalytics(batches, cells)
}
