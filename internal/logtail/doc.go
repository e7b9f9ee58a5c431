// Package logtail reads the end of the huntsched log file and turns its
// zerolog JSON lines into one-line summaries for the log view.
//
// Read keeps a ring buffer of maxLines entries, so memory stays
// O(maxLines) regardless of file size and the file is scanned once. A
// missing file is not an error: nothing has been logged yet.
//
// Parse never fails; lines that are not JSON objects are passed through
// unchanged in Entry.Raw.
package logtail
