package sandbox

import (
	"regexp"
	"strings"

	"github.com/dop251/goja"
)

// printCallPattern matches a line that is a single print/console.log call
// wrapping one expression.
var printCallPattern = regexp.MustCompile(`^(?:print|console\.log)\((.*)\)$`)

// Extract determines the value to hand back to the caller after a
// successful run. It takes the last non-empty line of the executed
// script, unwraps a trailing print call to its inner expression, and
// evaluates that expression against the final context. If evaluation
// fails, the captured console output is the answer instead. Scripts can
// therefore communicate their result either by leaving a trailing bare
// expression or by printing it.
func Extract(executedScript string, ectx *Context, capturedOutput string) any {
	line := lastNonEmptyLine(executedScript)
	if line == "" {
		return capturedOutput
	}
	line = strings.TrimSuffix(line, ";")

	if m := printCallPattern.FindStringSubmatch(line); m != nil {
		line = m[1]
	}

	val, err := ectx.Eval(line)
	if err != nil || val == nil || goja.IsUndefined(val) {
		return capturedOutput
	}
	return val.Export()
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
