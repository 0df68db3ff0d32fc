package sandbox

import "fmt"

// DisallowedImportError reports a script requiring a library that is
// neither the dataset library nor whitelisted. It is fatal: a policy
// violation never earns a correction cycle.
type DisallowedImportError struct {
	Library string
}

func (e *DisallowedImportError) Error() string {
	return fmt.Sprintf("generated script requires non-whitelisted library %q", e.Library)
}

// SyntaxError reports a script that failed to parse. Unlike a disallowed
// import it is treated as a script-logic failure and fed back into the
// self-correction cycle.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("generated script does not parse: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// DependencyLoadError reports a whitelisted module that could not be
// resolved by the registry. Fatal, not retried.
type DependencyLoadError struct {
	Module string
}

func (e *DependencyLoadError) Error() string {
	return fmt.Sprintf("whitelisted module %q is not registered", e.Module)
}

// ExhaustedError reports that every execution attempt within the retry
// budget failed. It wraps the error of the last attempt.
type ExhaustedError struct {
	Corrections int
	LastErr     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no script succeeded after %d correction(s): %v", e.Corrections, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }
