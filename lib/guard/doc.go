// Package guard enforces the reboot cooldown. The permit decision is a pure
// predicate over the persisted last-reboot timestamp, and the record store
// keeps that timestamp durable and monotonically non-decreasing across
// process restarts so a reboot storm cannot develop even if the watchdog
// itself is what keeps crashing.
package guard
