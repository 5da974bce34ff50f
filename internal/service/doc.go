// Package service contains the application use cases. It coordinates domain
// entities, the store interfaces and the funnel calculator, and owns the
// transactional and ownership rules that sit above a single store call.
//
// BatchService manages grafting batches and their queen cells, enforcing
// stage transitions and publishing a CellStageChanged event after each one.
// AnalyticsService loads a snapshot of a beekeeper's records and hands it to
// the funnel package. Nothing derived is cached or persisted; every request
// recomputes from the current records.
//
// Services depend on store interfaces only, never on a concrete database
// implementation.
package service
