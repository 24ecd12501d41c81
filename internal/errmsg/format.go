// Package errmsg formats errors for the command line.
package errmsg

import (
	"context"
	"errors"
	"fmt"
)

// Op names what the user asked lyricbar to do.
type Op string

const (
	OpResolve       Op = "resolve lyrics"
	OpEmbedLyrics   Op = "embed lyrics"
	OpCacheList     Op = "list lyrics cache"
	OpReadTags      Op = "read file tags"
	OpConnectPlayer Op = "connect to media player"
	OpLoadConfig    Op = "load configuration"
	OpOpenLog       Op = "open log file"
)

// Format returns a one-line message for a failed operation, or "" when err
// is nil. Cancellation reads as an interruption rather than a failure.
func Format(op Op, err error) string {
	return FormatWith(op, "", err)
}

// FormatWith is Format with the subject of the operation, usually a path.
func FormatWith(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}

	what := string(op)
	if subject != "" {
		what += fmt.Sprintf(" '%s'", subject)
	}
	if errors.Is(err, context.Canceled) {
		return "Interrupted while trying to " + what
	}
	return fmt.Sprintf("Failed to %s: %v", what, err)
}
