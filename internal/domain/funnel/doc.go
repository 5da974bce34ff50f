// Package funnel turns a snapshot of queen-rearing batches and the stages of
// their cells into funnel performance metrics.
//
// The funnel runs grafted → accepted → capped → emerged → mating → laying,
// with failed as an absorbing state. Every rate is conditional: it divides the
// cells that reached a checkpoint by the cells that reached the previous one,
// not by the original cohort size.
//
// Small cohorts are the norm (a bar of 10–30 cells), so each conditional rate
// is reported three ways:
//
//   - raw: k/n, defined as 0 when n is 0
//   - Laplace-smoothed: (k+α)/(n+2α), which never reports exactly 0% or 100%
//   - a Wilson score interval at the configured z, which stays well-behaved
//     for n in the single digits
//
// All functions here are pure. They read the supplied slices, allocate new
// results and hold no state, so they are safe for concurrent use and two calls
// with identical inputs return identical output.
package funnel
