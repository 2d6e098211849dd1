// Package spreadsheet renders test log entries into an xlsx document and
// reads such documents back.
//
// Layout: sheet "Log", header row 1 (frozen), one row per entry from row 2
// in insertion order. Rows are bordered and filled by severity; the
// Screenshot column holds an external hyperlink to the image, relative to
// the document directory.
package spreadsheet
