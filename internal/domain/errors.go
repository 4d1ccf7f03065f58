package domain

import "fmt"

// LoadError reports a failed fetch of the required primary source. It is
// fatal to the load: no partial record set is produced.
type LoadError struct {
	Path   string
	Status string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("load %s: %s", e.Path, e.Status)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError reports malformed delimited text in a source. Parse failures
// are fatal for the source they occur in.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReconciliationError wraps any source failure encountered during a load.
// Callers see a single error; the previously installed record set stays.
type ReconciliationError struct {
	Err error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed: %v", e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }
