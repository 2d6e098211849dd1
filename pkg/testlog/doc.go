// Package testlog keeps a journal of automated test results and saves it as
// an xlsx document, optionally with a screenshot per entry.
//
// Invariants:
// - Rows appear in the document in the order entries were recorded.
// - SUCCESS entries never carry a message; other severities always do.
// - A failed screenshot never drops the entry; it surfaces as a non-fatal
//   *record.CaptureError.
// - Every linked screenshot lives under the session directory.
//
// Usage:
//
//	log, _ := testlog.Create("/tmp/autotests/run-1")
//	_ = log.Info("Case #1", "hello")
//	_ = log.Success("Case #1")
//	if err := log.Error("Case #3", "mismatch", true); err != nil && !record.IsCaptureError(err) {
//		return err
//	}
//	_ = log.Save(ctx, false)
package testlog
