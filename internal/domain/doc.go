// Package domain contains the core business entities, value objects, and
// domain logic of the application: queen-rearing batches, the cells tracked
// inside them, the lifecycle stages a cell moves through, and the beekeepers
// who own the records. It is independent of any storage or delivery mechanism.
package domain
