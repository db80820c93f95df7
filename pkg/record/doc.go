// Package record captures host-tree mutation traces.
//
// A Recorder wraps any host.Adapter and logs every operation flowing
// through it as an Event, without changing behavior. Traces feed the
// development server's live event stream and can be exported to S3 for
// offline analysis of reconciliation behavior.
package record
