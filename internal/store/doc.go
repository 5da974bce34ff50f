// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Store implementations persist raw observations only (batches, cells and
// users). Funnel metrics are always derived on read.
package store
