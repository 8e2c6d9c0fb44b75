// Package tui provides the terminal loading screen for launchpad.
//
// The screen is a Bubble Tea program that polls the startup status snapshot
// on a fixed tick (400ms by default) instead of subscribing to events. Each
// tick compares the snapshot version with the last one rendered and only
// rebuilds the log viewport when something changed.
//
// # Layout
//
//   - Header: product name and version
//   - Steps: one line per startup phase, marked done, active or pending
//   - Message: the current status message and elapsed time
//   - Log: the timestamped startup log in a scrollable viewport
//   - Footer: key help and transient notices
//
// # Keys
//
//   - q / ctrl+c: quit (services are torn down by the caller)
//   - y: copy the startup log to the clipboard
//   - d: switch the log pane to the application debug log
//   - ↑/↓, pgup/pgdown: scroll the log
//
// While the program runs, pkg/logging is in channel mode; the model drains
// that channel so application log lines never reach the terminal directly.
package tui
