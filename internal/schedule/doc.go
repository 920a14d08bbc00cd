// Package schedule implements the daily task scheduler.
//
// A single polling loop checks wall-clock time against each task's local
// trigger window. On entering a window the scheduler consults the task
// marker for (kind, day): present means the day already fired and the tick
// is a no-op. Absent means the marker is committed first, then the task
// runs. Commit-before-work trades "never miss" for "never duplicate": a
// crash after commit skips the day, a runner failure does not reset the
// marker, and a marker-store failure aborts the tick uncommitted so the
// next poll retries.
package schedule
