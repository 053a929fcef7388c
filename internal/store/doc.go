// Package store provides durable SQLite-backed storage for saved events.
//
// The store is the local half of the local/remote pair: the remote calendar
// service is the system of record for event existence, while this table is
// the system of record for lifecycle status (scheduled, completed, archived,
// deleted-from-calendar).
//
// All timestamps are persisted as epoch milliseconds in UTC and converted to
// time.Time at the boundary.
package store
