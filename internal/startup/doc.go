// Package startup runs the bootstrap sequence and publishes its progress.
//
// A Sequencer drives the components in a fixed order on one goroutine:
//
//	initializing → qdrant → qdrant_wait → unpacking → backend_starting → backend_wait → ready | timeout
//
// No step failure aborts the sequence. Each failure becomes a status log
// line and the next phase is entered regardless, so the UI always becomes
// interactive for whatever subset of services came up.
//
// Progress is published through a Publisher: a mutex-guarded record of the
// current phase, message and timestamped log lines. Consumers poll
// Publisher.Snapshot on their own schedule; there is no notification
// channel. Snapshot only holds the lock long enough to copy.
package startup
