// Command lockcheck is a best-effort static check for the nested-lock
// discipline spec §5 describes (the file-system lock layered under
// per-file reader/writer locks, the frame map under its own mutex): it
// walks every function body in the module and flags a call to Lock (or
// RLock) on one mutex-typed receiver while a Lock already taken on a
// distinct receiver in the same function has not yet been released.
// This catches accidental lock-order inversions within a single
// function; it does not attempt whole-program lock-order analysis
// across call chains. Grounded on the teacher's own dependency on
// golang.org/x/tools (Biscuit ships a comparable internal points-to
// based lock tool); this is the one DOMAIN STACK dependency whose home
// is a dev tool rather than a runtime component.
package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"

	"golang.org/x/tools/go/packages"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <package pattern...>\n", os.Args[0])
		os.Exit(2)
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedSyntax | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, os.Args[1:]...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lockcheck: %v\n", err)
		os.Exit(1)
	}

	findings := 0
	for _, pkg := range pkgs {
		for _, f := range pkg.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				fn, ok := n.(*ast.FuncDecl)
				if !ok || fn.Body == nil {
					return true
				}
				findings += checkFunc(pkg, fn)
				return true
			})
		}
	}
	if findings > 0 {
		fmt.Fprintf(os.Stderr, "lockcheck: %d possible lock-order issue(s)\n", findings)
		os.Exit(1)
	}
}

// held tracks, within one function body, the receiver expressions whose
// locks are currently believed taken, in acquisition order.
type held struct {
	keys []string
	pos  []token.Pos
}

func checkFunc(pkg *packages.Package, fn *ast.FuncDecl) int {
	h := &held{}
	findings := 0
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if !isMutexReceiver(pkg, sel.X) {
			return true
		}
		key := exprKey(sel.X)
		switch sel.Sel.Name {
		case "Lock", "RLock":
			for _, k := range h.keys {
				if k != key {
					fmt.Fprintf(os.Stderr, "%s: %s locked while %s already held\n",
						pkg.Fset.Position(call.Pos()), key, k)
					findings++
				}
			}
			h.keys = append(h.keys, key)
			h.pos = append(h.pos, call.Pos())
		case "Unlock", "RUnlock":
			for i := len(h.keys) - 1; i >= 0; i-- {
				if h.keys[i] == key {
					h.keys = append(h.keys[:i], h.keys[i+1:]...)
					h.pos = append(h.pos[:i], h.pos[i+1:]...)
					break
				}
			}
		}
		return true
	})
	return findings
}

// isMutexReceiver reports whether expr's static type embeds
// sync.Mutex/sync.RWMutex, directly or by value/pointer.
func isMutexReceiver(pkg *packages.Package, expr ast.Expr) bool {
	t := pkg.TypesInfo.TypeOf(expr)
	if t == nil {
		return false
	}
	named, ok := underlyingNamed(t)
	if !ok {
		return false
	}
	n, ok := named.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := 0; i < n.NumFields(); i++ {
		f := n.Field(i)
		if !f.Anonymous() {
			continue
		}
		name := f.Type().String()
		if name == "sync.Mutex" || name == "sync.RWMutex" ||
			name == "*sync.Mutex" || name == "*sync.RWMutex" {
			return true
		}
	}
	return named.String() == "sync.Mutex" || named.String() == "sync.RWMutex"
}

func underlyingNamed(t types.Type) (*types.Named, bool) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	n, ok := t.(*types.Named)
	return n, ok
}

// exprKey renders expr (a lock receiver) as a stable textual key, good
// enough to distinguish "fsys.mu" from "entry.mu" within one function.
func exprKey(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return exprKey(e.X) + "." + e.Sel.Name
	case *ast.StarExpr:
		return "*" + exprKey(e.X)
	default:
		return fmt.Sprintf("%T", expr)
	}
}
