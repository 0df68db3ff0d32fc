package sandbox

import (
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"
)

// Dependency is one approved binding produced from a whitelisted require.
type Dependency struct {
	// Module is the name passed to require().
	Module string
	// Name is the export requested from the module. For whole-module
	// requires it equals Module.
	Name string
	// Alias is the binding name the execution context installs.
	Alias string
}

// Sanitize parses a generated script into a statement-level syntax tree,
// drops every top-level require and every top-level overwrite of a
// reserved dataframe binding, and returns the cleaned script together
// with the dependencies approved for the execution context.
//
// The dependency list is rebuilt from scratch on every call; nothing is
// carried over between sanitization passes. Sanitizing an already
// sanitized script is a no-op.
func Sanitize(script string, policy Policy, customLibraries []string) (string, []Dependency, error) {
	prog, err := parser.ParseFile(nil, "", script, 0)
	if err != nil {
		return "", nil, &SyntaxError{Err: err}
	}

	var deps []Dependency
	var kept []string

	for _, stmt := range prog.Body {
		switch s := stmt.(type) {
		case *ast.ExpressionStatement:
			if module, ok := requireCall(s.Expression); ok {
				d, err := approveRequire(module, nil, policy, customLibraries)
				if err != nil {
					return "", nil, err
				}
				deps = append(deps, d...)
				continue
			}
			if assign, ok := s.Expression.(*ast.AssignExpression); ok && assign.Operator == token.ASSIGN {
				if id, ok := assign.Left.(*ast.Identifier); ok && policy.isReservedBinding(id.Name.String()) {
					continue
				}
			}

		case *ast.VariableStatement:
			drop, d, err := declaredRequires(s.List, policy, customLibraries)
			if err != nil {
				return "", nil, err
			}
			if drop {
				deps = append(deps, d...)
				continue
			}
			if reservedDeclaration(s.List, policy) {
				continue
			}

		case *ast.LexicalDeclaration:
			drop, d, err := declaredRequires(s.List, policy, customLibraries)
			if err != nil {
				return "", nil, err
			}
			if drop {
				deps = append(deps, d...)
				continue
			}
			if reservedDeclaration(s.List, policy) {
				continue
			}
		}

		kept = append(kept, statementText(script, stmt))
	}

	return strings.Join(kept, "\n"), deps, nil
}

// requireCall returns the module name if expr is require("name").
func requireCall(expr ast.Expression) (string, bool) {
	call, ok := expr.(*ast.CallExpression)
	if !ok || len(call.ArgumentList) != 1 {
		return "", false
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || callee.Name.String() != "require" {
		return "", false
	}
	lit, ok := call.ArgumentList[0].(*ast.StringLiteral)
	if !ok {
		return "", false
	}
	return lit.Value.String(), true
}

// declaredRequires inspects a var/let/const declaration. When every
// binding is initialized by a require call the whole statement is an
// import: drop reports that, and the approved dependencies are returned.
func declaredRequires(bindings []*ast.Binding, policy Policy, customLibraries []string) (drop bool, deps []Dependency, err error) {
	if len(bindings) == 0 {
		return false, nil, nil
	}
	for _, b := range bindings {
		if b.Initializer == nil {
			return false, nil, nil
		}
		if _, ok := requireCall(b.Initializer); !ok {
			return false, nil, nil
		}
	}
	for _, b := range bindings {
		module, _ := requireCall(b.Initializer)
		d, err := approveRequire(module, b.Target, policy, customLibraries)
		if err != nil {
			return false, nil, err
		}
		deps = append(deps, d...)
	}
	return true, deps, nil
}

// approveRequire checks a required module against the whitelist and maps
// its binding target onto dependency entries. The dataset library is
// dropped without recording anything: its bindings are always injected.
func approveRequire(module string, target ast.BindingTarget, policy Policy, customLibraries []string) ([]Dependency, error) {
	if libraryRoot(module) == DatasetLibrary {
		return nil, nil
	}
	if !policy.libraryAllowed(libraryRoot(module), customLibraries) {
		return nil, &DisallowedImportError{Library: libraryRoot(module)}
	}

	switch t := target.(type) {
	case nil:
		return []Dependency{{Module: module, Name: module, Alias: moduleBase(module)}}, nil
	case *ast.Identifier:
		return []Dependency{{Module: module, Name: module, Alias: t.Name.String()}}, nil
	case *ast.ObjectPattern:
		var deps []Dependency
		for _, prop := range t.Properties {
			name, alias, ok := destructuredNames(prop)
			if !ok {
				continue
			}
			deps = append(deps, Dependency{Module: module, Name: name, Alias: alias})
		}
		return deps, nil
	default:
		return []Dependency{{Module: module, Name: module, Alias: moduleBase(module)}}, nil
	}
}

// destructuredNames maps one property of `const {x, y: z} = require(...)`
// to its export name and binding alias.
func destructuredNames(prop ast.Property) (name, alias string, ok bool) {
	switch p := prop.(type) {
	case *ast.PropertyShort:
		n := p.Name.Name.String()
		return n, n, true
	case *ast.PropertyKeyed:
		switch k := p.Key.(type) {
		case *ast.Identifier:
			name = k.Name.String()
		case *ast.StringLiteral:
			name = k.Value.String()
		default:
			return "", "", false
		}
		if id, idOK := p.Value.(*ast.Identifier); idOK {
			return name, id.Name.String(), true
		}
		return "", "", false
	default:
		return "", "", false
	}
}

// reservedDeclaration reports a single-binding declaration whose target
// is a bare name matching the reserved dataframe pattern.
func reservedDeclaration(bindings []*ast.Binding, policy Policy) bool {
	if len(bindings) != 1 {
		return false
	}
	id, ok := bindings[0].Target.(*ast.Identifier)
	return ok && policy.isReservedBinding(id.Name.String())
}

func statementText(src string, stmt ast.Statement) string {
	from := int(stmt.Idx0()) - 1
	to := int(stmt.Idx1()) - 1
	if from < 0 || to > len(src) || from > to {
		return ""
	}
	return strings.TrimSpace(src[from:to])
}

// libraryRoot maps "lib/subpath" to "lib", mirroring how the whitelist
// names libraries rather than their subpaths.
func libraryRoot(module string) string {
	if i := strings.IndexByte(module, '/'); i >= 0 {
		return module[:i]
	}
	return module
}

func moduleBase(module string) string {
	if i := strings.LastIndexByte(module, '/'); i >= 0 {
		return module[i+1:]
	}
	return module
}
