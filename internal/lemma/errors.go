package lemma

import "fmt"

// ValidationError reports a required field missing or empty at creation or
// update time (e.g. a blank statement).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnknownRecordError reports an operation referencing an id that does not
// exist in the store.
type UnknownRecordError struct {
	ID string
}

func (e *UnknownRecordError) Error() string {
	return fmt.Sprintf("unknown record: %s", e.ID)
}

// SelfLoopError reports an attempted dependency edge from a record to itself.
type SelfLoopError struct {
	ID string
}

func (e *SelfLoopError) Error() string {
	return fmt.Sprintf("record %s cannot depend on itself", e.ID)
}

// PatternError reports a malformed search pattern in regex mode.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("bad search pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// PersistenceError reports a failure loading or saving the record set.
type PersistenceError struct {
	Op   string // "load", "save", "import"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
