package txparse

import (
	"errors"
	"fmt"
)

var (
	// ErrGrammarMismatch means a line is not "value;date[;description]".
	ErrGrammarMismatch = errors.New("line does not match value;date;description")
	// ErrBatchTooLarge means a message holds more lines than the batch ceiling.
	ErrBatchTooLarge = errors.New("too many lines in message")
)

// BatchTooLargeError rejects a whole message before any line is parsed.
type BatchTooLargeError struct {
	Lines int
	Max   int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d lines, limit is %d", ErrBatchTooLarge, e.Lines, e.Max)
}

// Is matches ErrBatchTooLarge.
func (e *BatchTooLargeError) Is(target error) bool {
	return target == ErrBatchTooLarge
}
