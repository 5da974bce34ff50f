// Package events provides a small in-process publish/subscribe layer.
//
// Services emit events without knowing which handlers will process them.
// The application currently publishes CellStageChanged events whenever a
// queen cell moves to a new stage; the transition counter in this package is
// the main subscriber.
package events
