package gainmap

import "fmt"

// ErrMalformedRecord is returned when an event line does not match its own
// length prefixes or carries tokens that are not numbers.
type ErrMalformedRecord struct {
	Position int
	NTokens  int
	Reason   string
}

func (e *ErrMalformedRecord) Error() string {
	return fmt.Sprintf("malformed record: %s (token %d of %d)", e.Reason, e.Position, e.NTokens)
}

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error {
	return e.Err
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error {
	return e.Err
}

// ErrLineTooLong is reported for event lines above the reader limit. The
// line is skipped and the following ones are still read.
type ErrLineTooLong struct {
	Length int
	Limit  int
}

func (e *ErrLineTooLong) Error() string {
	return fmt.Sprintf("line of %d bytes exceeds the limit of %d", e.Length, e.Limit)
}
