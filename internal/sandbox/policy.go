// Package sandbox turns a model-generated script into an answer: it
// statically sanitizes the script, builds the restricted goja context the
// script runs inside, drives the retry/self-correction loop and extracts
// the final value.
package sandbox

import "regexp"

// DatasetLibrary is the module name scripts may require to no effect;
// the dataframe bindings are always injected by the context builder.
const DatasetLibrary = "dataframe"

// Policy is the static rule set applied to every generated script.
// It is read-only after construction and safe to share.
type Policy struct {
	// AllowedLibraries are the module names scripts may require.
	AllowedLibraries []string

	// AllowedBuiltins are the global names kept in the execution context.
	// Every other global is deleted before the script runs.
	AllowedBuiltins []string

	// ReservedBinding matches dataframe binding names that scripts must
	// not overwrite at top level.
	ReservedBinding *regexp.Regexp
}

// DefaultPolicy returns the rule set used for production runs.
func DefaultPolicy() Policy {
	return Policy{
		AllowedLibraries: []string{"stats", "re"},
		AllowedBuiltins: []string{
			"Object", "Array", "String", "Number", "Boolean",
			"Math", "JSON", "Date", "RegExp", "Map", "Set",
			"parseInt", "parseFloat", "isNaN", "isFinite",
			"Error", "TypeError", "RangeError",
			"Infinity", "NaN", "undefined",
		},
		ReservedBinding: regexp.MustCompile(`^df\d{0,2}$`),
	}
}

func (p Policy) libraryAllowed(library string, custom []string) bool {
	for _, l := range p.AllowedLibraries {
		if l == library {
			return true
		}
	}
	for _, l := range custom {
		if l == library {
			return true
		}
	}
	return false
}

func (p Policy) isReservedBinding(name string) bool {
	return p.ReservedBinding != nil && p.ReservedBinding.MatchString(name)
}
