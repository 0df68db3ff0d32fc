package sandbox

import (
	"testing"

	"github.com/tabletalk-ai/tabletalk/internal/dataframe"
)

func runScript(t *testing.T, script string) *Context {
	t.Helper()
	ectx, err := BuildContext(nil, []*dataframe.Frame{testFrame(t)}, DefaultPolicy(), NewRegistry())
	if err != nil {
		t.Fatalf("failed to build context: %v", err)
	}
	if err := ectx.Run(script); err != nil {
		t.Fatalf("unexpected execution error: %v", err)
	}
	return ectx
}

func TestExtract_UnwrapsTrailingPrint(t *testing.T) {
	script := "var x = 2\nvar y = 3\nprint(x + y)"
	ectx := runScript(t, script)

	got := Extract(script, ectx, ectx.Output())
	if got != int64(5) {
		t.Errorf("expected the evaluated value 5, got %v (%T)", got, got)
	}
}

func TestExtract_UnwrapsConsoleLogWithSemicolon(t *testing.T) {
	script := "var x = 7\nconsole.log(x * 2);"
	ectx := runScript(t, script)

	got := Extract(script, ectx, ectx.Output())
	if got != int64(14) {
		t.Errorf("expected 14, got %v (%T)", got, got)
	}
}

func TestExtract_TrailingBareExpression(t *testing.T) {
	script := "var total = df.numRows * 10\ntotal"
	ectx := runScript(t, script)

	got := Extract(script, ectx, ectx.Output())
	if got != int64(30) {
		t.Errorf("expected 30, got %v (%T)", got, got)
	}
}

func TestExtract_FallsBackToCapturedOutput(t *testing.T) {
	script := "for (var i = 0; i < 2; i++) {\nprint('row ' + i)\n}"
	ectx := runScript(t, script)

	got := Extract(script, ectx, ectx.Output())
	if got != "row 0\nrow 1\n" {
		t.Errorf("expected captured output fallback, got %v (%T)", got, got)
	}
}

func TestExtract_EmptyScriptReturnsCapturedOutput(t *testing.T) {
	ectx := runScript(t, "print('only output')")

	got := Extract("", ectx, ectx.Output())
	if got != "only output\n" {
		t.Errorf("expected captured output, got %v", got)
	}
}
