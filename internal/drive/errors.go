package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"

	"google.golang.org/api/googleapi"
)

// Sentinel errors for matching with errors.Is.
var (
	// ErrNotFound indicates a path segment or file ID has no remote object
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousPath indicates more than one remote child matched a
	// path segment; resolution never guesses among duplicates
	ErrAmbiguousPath = errors.New("ambiguous path")
)

// NotFoundError reports which segment of a path could not be resolved
// and the prefix that had been consumed up to that point.
type NotFoundError struct {
	// Segment is the path component that had no match
	Segment string

	// Prefix is the part of the path resolved before the failure
	Prefix string

	// ParentID is the folder the segment was looked up in
	ParentID string
}

func (e *NotFoundError) Error() string {
	if e.Prefix == "" {
		return fmt.Sprintf("no file or folder named %q", e.Segment)
	}
	return fmt.Sprintf("no file or folder named %q under %q", e.Segment, e.Prefix)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AmbiguousPathError reports a path segment matched by more than one
// child of the same parent.
type AmbiguousPathError struct {
	// Segment is the duplicated name
	Segment string

	// ParentID is the folder containing the duplicates
	ParentID string

	// Matches is how many children matched
	Matches int
}

func (e *AmbiguousPathError) Error() string {
	return fmt.Sprintf("%d entries named %q in folder %s", e.Matches, e.Segment, e.ParentID)
}

func (e *AmbiguousPathError) Is(target error) bool { return target == ErrAmbiguousPath }

// RetryExhaustedError wraps the last transient failure after the retry
// budget has been spent, carrying the cumulative attempt count.
type RetryExhaustedError struct {
	// Attempts is the total number of invocations, including the first
	Attempts int

	// Err is the failure from the final attempt
	Err error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }

// IsTransient classifies a failure as worth retrying. Rate limiting,
// quota pressure, server-side 5xx responses and transport-level errors
// are transient; everything else (authorization, not-found, validation)
// is deterministic for the same input and is not retried.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code >= 500 && gerr.Code < 600 {
			return true
		}
		if gerr.Code == 429 {
			return true
		}
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "rateLimitExceeded", "userRateLimitExceeded":
				return true
			}
		}
		return false
	}

	// Transport-level failures surface as net or url errors, or as a
	// truncated body.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return false
}

// isAPINotFound reports whether err is a Drive 404 for a file ID.
func isAPINotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 404
}
