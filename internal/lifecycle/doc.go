// Package lifecycle owns the status state machine for saved events and the
// ordering contract between the local store and the remote calendar.
//
// The one rule every multi-step operation follows: the remote call happens
// first and must fully succeed before any local write is attempted. A remote
// failure therefore leaves local state exactly as it was. The only
// inconsistency this permits is "remote changed, local write pending", which
// the sync pass recovers; the reverse (local record of remote state that was
// never created) can never occur.
package lifecycle
