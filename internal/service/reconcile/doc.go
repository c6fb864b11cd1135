// Package reconcile turns raw attendance scans and approved leaves into
// per-day statuses and per-employee summaries.
//
// The pipeline is: build a Window of calendar days, index the approved leaves
// into per-day lookups, match each day to at most one attendance record,
// classify the day, then fold the classified days into a Summary. Leave
// balances are computed independently from the leave ledger.
//
// Nothing in this package performs I/O. Callers load the records and pass
// them in; every function is deterministic for a given input.
package reconcile
