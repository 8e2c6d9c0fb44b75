// Package supervisor discovers a working runtime executable, spawns the
// backend server under it and owns the child's lifetime.
//
// Discovery validates every candidate by running it with a version flag, so a
// stale file or a broken shim is skipped rather than trusted. The spawned
// child's handle lives in a Registry shared by the startup goroutine and the
// exit path; the registry lock is only held to read or swap the handle,
// never while killing or waiting.
//
// There is no restart on crash: a backend that dies stays down until the
// next launch.
package supervisor
