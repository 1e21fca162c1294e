// Package logtail reads the tail of the monarchctl log file for display.
//
// Read keeps a ring buffer of the last N lines, so memory stays O(N) however
// large the file grows. Each line is decoded as logfmt, the format the
// logrus text formatter writes to files, so the panel can colour lines by
// level and show the message apart from its fields.
package logtail
