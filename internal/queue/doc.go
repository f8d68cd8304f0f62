// Package queue persists per-file pipeline state in SQLite.
//
// Every file discovered by a run becomes an Item that moves through the
// lifecycle pending -> detecting -> detected -> assembling -> assembled
// -> matching -> completed, or to failed at any point. Single-episode
// files skip detection and assembly by enqueueing directly at assembled.
//
// The Store wraps a WAL-mode SQLite database and exposes the item
// operations the workflow needs: enqueue, claim-next, update, and the
// aggregate views used by the CLI.
package queue
