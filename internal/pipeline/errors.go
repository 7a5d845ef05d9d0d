package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrLicensedTableNotFound = errors.New("licensed games table not found")
	ErrNoTitleColumn         = errors.New("no column maps to title")
)

// FatalConsoleError aborts processing of one console. Other consoles in
// the batch are unaffected.
type FatalConsoleError struct {
	Console string
	File    string
	Err     error
}

func (e *FatalConsoleError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("console %s (%s): %v", e.Console, e.File, e.Err)
	}
	return fmt.Sprintf("console %s: %v", e.Console, e.Err)
}

func (e *FatalConsoleError) Unwrap() error {
	return e.Err
}
