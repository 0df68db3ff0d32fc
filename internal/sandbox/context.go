package sandbox

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/tabletalk-ai/tabletalk/internal/dataframe"
)

// Context is the restricted namespace one sanitized script runs inside.
// It is built fresh for every execution attempt and discarded afterwards;
// only the dataframe objects are shared across attempts.
type Context struct {
	vm     *goja.Runtime
	output strings.Builder
}

// pruneGlobals removes every global not named in the whitelist before any
// binding is installed, leaving an explicit capability map instead of the
// ambient builtin surface. Non-configurable globals are skipped silently.
const pruneGlobals = `
(function (allowed) {
	var keep = {};
	for (var i = 0; i < allowed.length; i++) { keep[allowed[i]] = true; }
	var names = Object.getOwnPropertyNames(this);
	for (var j = 0; j < names.length; j++) {
		if (!keep[names[j]]) { try { delete this[names[j]]; } catch (e) {} }
	}
}).call(this, __allowed__);
`

// BuildContext assembles the execution context for one attempt: the
// whitelisted builtins, the approved dependency bindings, the dataframe
// binding(s) and the console-print capture.
//
// A single frame is bound as df; multiple frames as df1..dfN in order.
// Dataset bindings are installed last so no dependency alias can shadow
// them.
func BuildContext(deps []Dependency, frames []*dataframe.Frame, policy Policy, registry *Registry) (*Context, error) {
	c := &Context{vm: goja.New()}
	vm := c.vm

	if err := vm.Set("__allowed__", policy.AllowedBuiltins); err != nil {
		return nil, fmt.Errorf("failed to stage builtin whitelist: %w", err)
	}
	if _, err := vm.RunString(pruneGlobals); err != nil {
		return nil, fmt.Errorf("failed to prune builtins: %w", err)
	}

	for _, dep := range deps {
		module, err := registry.Load(dep.Module)
		if err != nil {
			return nil, err
		}
		var value any = map[string]any(module)
		if export, ok := module[dep.Name]; ok && dep.Name != dep.Module {
			value = export
		}
		if err := vm.Set(dep.Alias, value); err != nil {
			return nil, fmt.Errorf("failed to bind dependency %s: %w", dep.Alias, err)
		}
	}

	if len(frames) == 1 {
		if err := vm.Set("df", frameObject(vm, frames[0])); err != nil {
			return nil, fmt.Errorf("failed to bind df: %w", err)
		}
	} else {
		for i, f := range frames {
			name := fmt.Sprintf("df%d", i+1)
			if err := vm.Set(name, frameObject(vm, f)); err != nil {
				return nil, fmt.Errorf("failed to bind %s: %w", name, err)
			}
		}
	}

	printFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		c.output.WriteString(strings.Join(args, " "))
		c.output.WriteString("\n")
		return goja.Undefined()
	}
	if err := vm.Set("print", printFunc); err != nil {
		return nil, fmt.Errorf("failed to set print: %w", err)
	}
	console := vm.NewObject()
	if err := console.Set("log", printFunc); err != nil {
		return nil, fmt.Errorf("failed to set console.log: %w", err)
	}
	if err := vm.Set("console", console); err != nil {
		return nil, fmt.Errorf("failed to set console: %w", err)
	}

	return c, nil
}

// Run executes a sanitized script against the context, appending anything
// it prints to the capture buffer.
func (c *Context) Run(code string) error {
	_, err := c.vm.RunString(code)
	return err
}

// Eval evaluates a single expression against the context.
func (c *Context) Eval(expr string) (goja.Value, error) {
	return c.vm.RunString(expr)
}

// Output returns everything the script printed so far.
func (c *Context) Output() string {
	return c.output.String()
}

// frameObject wraps a dataframe for script access. Errors raised by the
// accessors surface as script exceptions and feed the correction cycle.
func frameObject(vm *goja.Runtime, f *dataframe.Frame) *goja.Object {
	obj := vm.NewObject()

	_ = obj.Set("name", f.Name())
	_ = obj.Set("numRows", f.NumRows())
	_ = obj.Set("numColumns", f.NumColumns())
	_ = obj.Set("columns", f.Columns())

	_ = obj.Set("col", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("col requires a column name"))
		}
		values, err := f.Column(call.Arguments[0].String())
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return vm.ToValue(values)
	})

	_ = obj.Set("records", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(f.Records())
	})

	_ = obj.Set("head", func(call goja.FunctionCall) goja.Value {
		n := 5
		if len(call.Arguments) >= 1 {
			n = int(call.Arguments[0].ToInteger())
		}
		return vm.ToValue(f.Head(n).String())
	})

	return obj
}
