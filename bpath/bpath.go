// Package bpath normalizes slash-separated guest paths. It performs no
// I/O: Merge/GetPath/Split operate purely on an in-memory component list,
// matching the reference Nachos Path class (filesys/path.cc).
package bpath

import (
	"golang.org/x/text/cases"

	"nachos/ustr"
)

// folder case-folds path components so that directory lookups in fs are
// insensitive to case the way the skeleton trees mkfs copies in from a
// host filesystem often are.
var folder = cases.Fold()

// FoldKey returns the case-folded form of a single path component, for
// use as a directory lookup key.
func FoldKey(component ustr.Ustr) ustr.Ustr {
	return ustr.Ustr(folder.Bytes(component))
}

// Path_t accumulates path components as successive fragments are merged
// in. The zero value is the root ("/").
type Path_t struct {
	parts []ustr.Ustr
}

// Mk returns an empty Path_t rooted at "/".
func Mk() *Path_t {
	return &Path_t{}
}

// Merge splits sub on '/' and folds the resulting components into the
// path. A leading '/' in sub resets the path to root first. "." is
// ignored; ".." pops the last component, if any.
func (p *Path_t) Merge(sub ustr.Ustr) {
	if sub.IsAbsolute() {
		p.parts = nil
	}
	for _, tok := range split(sub) {
		switch {
		case tok.Isdot():
			// same directory, nothing to do
		case tok.Isdotdot():
			if len(p.parts) > 0 {
				p.parts = p.parts[:len(p.parts)-1]
			}
		case len(tok) > 0:
			p.parts = append(p.parts, tok)
		}
	}
}

// MergeStr is a convenience wrapper around Merge for string literals.
func (p *Path_t) MergeStr(sub string) {
	p.Merge(ustr.Ustr(sub))
}

// List exposes the current component list.
func (p *Path_t) List() []ustr.Ustr {
	return p.parts
}

// GetPath joins the accumulated components with a leading '/'. The root
// path renders as "/".
func (p *Path_t) GetPath() ustr.Ustr {
	if len(p.parts) == 0 {
		return ustr.MkUstrRoot()
	}
	ret := make(ustr.Ustr, 0, 1)
	for _, c := range p.parts {
		ret = append(ret, '/')
		ret = append(ret, c...)
	}
	return ret
}

// Split removes and returns the last path component, separating the leaf
// name from its containing directory. It panics if the path is empty —
// callers are expected to check List() or GetPath() first, matching the
// reference implementation's unchecked path.back().
func (p *Path_t) Split() ustr.Ustr {
	if len(p.parts) == 0 {
		panic("bpath: split of empty path")
	}
	last := p.parts[len(p.parts)-1]
	p.parts = p.parts[:len(p.parts)-1]
	return last
}

// split tokenizes sub on '/', dropping empty fragments (consecutive or
// leading slashes collapse, as with strtok in the reference).
func split(sub ustr.Ustr) []ustr.Ustr {
	var toks []ustr.Ustr
	start := -1
	for i := 0; i <= len(sub); i++ {
		if i < len(sub) && sub[i] != '/' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			toks = append(toks, sub[start:i])
			start = -1
		}
	}
	return toks
}
