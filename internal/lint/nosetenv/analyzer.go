// Package nosetenv reports environment mutation in test files.
package nosetenv

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const doc = `nosetenv: prevent os.Setenv and t.Setenv usage in test files

Configuration is built once and passed explicitly. Tests must not change
process environment; they build a viper.Viper, set the keys they need and
pass it to config.FromViper. Setenv mutates global state and races with
parallel tests.
`

const message = " is forbidden in test files: build a viper.Viper, set keys on it and pass it to config.FromViper"

var Analyzer = &analysis.Analyzer{
	Name:     "nosetenv",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.File)(nil),
		(*ast.CallExpr)(nil),
	}

	inspect.Nodes(nodeFilter, func(n ast.Node, push bool) bool {
		if !push {
			return true
		}
		switch n := n.(type) {
		case *ast.File:
			// only descend into _test.go files
			return strings.HasSuffix(pass.Fset.Position(n.Package).Filename, "_test.go")
		case *ast.CallExpr:
			if name, ok := setenvCall(pass, n); ok {
				pass.Reportf(n.Pos(), "%s%s", name, message)
			}
		}
		return true
	})

	return nil, nil
}

// setenvCall reports whether call is os.Setenv or Setenv on a testing.T/B/F.
func setenvCall(pass *analysis.Pass, call *ast.CallExpr) (string, bool) {
	fun, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || fun.Sel.Name != "Setenv" {
		return "", false
	}

	fn, ok := pass.TypesInfo.Uses[fun.Sel].(*types.Func)
	if !ok {
		return "", false
	}

	if fn.Pkg() != nil && fn.Pkg().Path() == "os" && fn.Type().(*types.Signature).Recv() == nil {
		return "os.Setenv", true
	}

	recv := fn.Type().(*types.Signature).Recv()
	if recv == nil {
		return "", false
	}
	if isTestingType(recv.Type()) {
		return "t.Setenv", true
	}
	return "", false
}

func isTestingType(t types.Type) bool {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}
	return named.Obj().Pkg().Path() == "testing"
}
