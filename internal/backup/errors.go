package backup

import (
	"errors"
	"fmt"
)

// ErrItemLevelRecoveryNotSupported is returned by providers whose workload
// has no file-level mount mechanism.
var ErrItemLevelRecoveryNotSupported = errors.New("item level recovery is not supported for this workload")

// RemoteOperationError wraps a failure reported by the remote resource client.
// It is never retried here.
type RemoteOperationError struct {
	Op         string
	StatusCode int
	Code       string
	Err        error
}

func (e *RemoteOperationError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Code != "":
		return fmt.Sprintf("%s: status %d (%s): %v", e.Op, e.StatusCode, e.Code, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }

// LocalIOError reports a failure writing a downloaded artifact.
type LocalIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error { return e.Err }
