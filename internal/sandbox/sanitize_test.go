package sandbox

import (
	"errors"
	"testing"
)

func TestSanitize_DatasetLibraryImportRemoved(t *testing.T) {
	script := "const pd = require('dataframe')\nprint(df.numRows)"

	cleaned, deps, err := Sanitize(script, DefaultPolicy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("expected no dependencies, got %v", deps)
	}
	if cleaned != "print(df.numRows)" {
		t.Errorf("expected require removed, got: %q", cleaned)
	}
}

func TestSanitize_WhitelistedAlias(t *testing.T) {
	script := "const st = require('stats')\nst.mean(df.col('x'))"

	cleaned, deps, err := Sanitize(script, DefaultPolicy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("expected 1 dependency, got %d", len(deps))
	}
	if deps[0].Module != "stats" || deps[0].Name != "stats" || deps[0].Alias != "st" {
		t.Errorf("unexpected dependency: %+v", deps[0])
	}
	if cleaned != "st.mean(df.col('x'))" {
		t.Errorf("expected require removed, got: %q", cleaned)
	}
}

func TestSanitize_DestructuredRequire(t *testing.T) {
	script := "const {mean, median: med} = require('stats')\nmean(df.col('x'))"

	_, deps, err := Sanitize(script, DefaultPolicy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 2 {
		t.Fatalf("expected 2 dependencies, got %d: %v", len(deps), deps)
	}
	if deps[0].Name != "mean" || deps[0].Alias != "mean" {
		t.Errorf("unexpected first dependency: %+v", deps[0])
	}
	if deps[1].Name != "median" || deps[1].Alias != "med" {
		t.Errorf("unexpected second dependency: %+v", deps[1])
	}
}

func TestSanitize_BareRequire(t *testing.T) {
	script := "require('stats')\nstats.sum(df.col('x'))"

	_, deps, err := Sanitize(script, DefaultPolicy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 || deps[0].Alias != "stats" {
		t.Errorf("expected whole-module binding named stats, got %v", deps)
	}
}

func TestSanitize_DisallowedImport(t *testing.T) {
	script := "const fs = require('fs')\nfs.readFile('/etc/passwd')"

	_, deps, err := Sanitize(script, DefaultPolicy(), nil)
	var disallowed *DisallowedImportError
	if !errors.As(err, &disallowed) {
		t.Fatalf("expected DisallowedImportError, got: %v", err)
	}
	if disallowed.Library != "fs" {
		t.Errorf("expected library fs, got %q", disallowed.Library)
	}
	if deps != nil {
		t.Errorf("expected no partial dependency list, got %v", deps)
	}
}

func TestSanitize_CustomLibraries(t *testing.T) {
	script := "const geo = require('geo')\ngeo.distance(1, 2)"

	_, deps, err := Sanitize(script, DefaultPolicy(), []string{"geo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 || deps[0].Module != "geo" {
		t.Errorf("expected geo dependency, got %v", deps)
	}
}

func TestSanitize_ReservedBindingOverwrites(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "bare assignment",
			script: "df = 1\nprint(df.numRows)",
			want:   "print(df.numRows)",
		},
		{
			name:   "two digit suffix",
			script: "df7 = 2\nprint(1)",
			want:   "print(1)",
		},
		{
			name:   "three digits not reserved",
			script: "df77 = 3\nprint(1)",
			want:   "df77 = 3\nprint(1)",
		},
		{
			name:   "var declaration",
			script: "var df = 1\nlet a = 2",
			want:   "let a = 2",
		},
		{
			name:   "const declaration",
			script: "const df2 = df.col('x')\nprint(1)",
			want:   "print(1)",
		},
		{
			name:   "non reserved name kept",
			script: "dfx = 1\nprint(1)",
			want:   "dfx = 1\nprint(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, _, err := Sanitize(tt.script, DefaultPolicy(), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cleaned != tt.want {
				t.Errorf("expected %q, got %q", tt.want, cleaned)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	script := "const st = require('stats')\ndf3 = 1\nvar total = st.sum(df.col('x'))\nprint(total)"

	once, _, err := Sanitize(script, DefaultPolicy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, deps, err := Sanitize(once, DefaultPolicy(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if twice != once {
		t.Errorf("sanitizing a sanitized script changed it:\nfirst:  %q\nsecond: %q", once, twice)
	}
	if len(deps) != 0 {
		t.Errorf("expected no dependencies on second pass, got %v", deps)
	}
}

func TestSanitize_SyntaxError(t *testing.T) {
	_, _, err := Sanitize("const = (", DefaultPolicy(), nil)

	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got: %v", err)
	}
}

func TestSanitize_DependenciesRecomputedPerCall(t *testing.T) {
	policy := DefaultPolicy()

	_, first, err := Sanitize("const st = require('stats')\nst.sum([1])", policy, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 dependency, got %d", len(first))
	}

	_, second, err := Sanitize("print(1)", policy, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("expected fresh empty dependency list, got %v", second)
	}
}
