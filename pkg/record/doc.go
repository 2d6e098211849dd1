// Package record defines the test log entry, its severity classification and
// the error taxonomy shared by the capture, spreadsheet and testlog packages.
//
// Invariants:
// - Entries of severity SUCCESS never carry a message.
// - INFO, WARNING and ERROR entries always carry a non-blank message.
// - CaptureError is non-fatal; ValidationError and IOError are not.
package record
