package sema

import (
	"fmt"

	"minicc.dev/compiler/pkg/ast"
	"minicc.dev/compiler/pkg/utils"
)

// Symbol is one entry of the symbol table: a declared name, its resolved
// Type, and the label of the scope it was declared in (used only for
// diagnostics, the way original_source/semantic_analyzer.py's Symbol
// carries its owning scope for print_symbol_table).
type Symbol struct {
	Name  string
	Type  ast.Type
	Scope string
}

// ----------------------------------------------------------------------------
// Scope Table

// ScopeTable is a stack of frames, one utils.Stack[Symbol] per nesting
// level currently open. Unlike pkg/jack's ScopeTable (which has four
// fixed, named frame kinds because Jack only ever nests one level deep)
// this language can nest blocks arbitrarily (a while inside an if inside a
// for, …) so frames are pushed and popped dynamically as the analyzer
// walks into and out of each construct.
type ScopeTable struct {
	frames []utils.Stack[Symbol]
	labels []string // parallel to frames, the scope label for diagnostics
}

// Initializes and returns to the caller a brand new ScopeTable, seeded
// with the one frame that always exists: the global scope.
func NewScopeTable() *ScopeTable {
	return &ScopeTable{
		frames: []utils.Stack[Symbol]{{}},
		labels: []string{"global"},
	}
}

// PushScope opens a new frame labeled name, becoming the innermost scope
// until the matching PopScope.
func (st *ScopeTable) PushScope(name string) {
	st.frames = append(st.frames, utils.Stack[Symbol]{})
	st.labels = append(st.labels, name)
}

// PopScope closes the innermost frame. Popping the global frame is a
// programming error in the analyzer (every PushScope is matched by one
// PopScope via defer) so it is a no-op guarded against here rather than
// surfaced as a runtime panic.
func (st *ScopeTable) PopScope() {
	if len(st.frames) > 1 {
		st.frames = st.frames[:len(st.frames)-1]
		st.labels = st.labels[:len(st.labels)-1]
	}
}

// CurrentScope returns the label of the innermost open frame.
func (st *ScopeTable) CurrentScope() string {
	return st.labels[len(st.labels)-1]
}

// Declare registers a new Symbol in the innermost frame. Redeclaring a
// name already present in that same frame is an error; shadowing a name
// declared in an outer frame is allowed (the parameter 'for' and 'block'
// scopes may freely reuse an outer name, matching original_source/
// semantic_analyzer.py's declare(), which only checks self.scopes[-1]).
func (st *ScopeTable) Declare(name string, typ ast.Type, scope string) error {
	innermost := &st.frames[len(st.frames)-1]
	for entry := range innermost.Iterator() {
		if entry.Name == name {
			return fmt.Errorf("variable '%s' already declared in this scope", name)
		}
	}
	innermost.Push(Symbol{Name: name, Type: typ, Scope: scope})
	return nil
}

// Resolve looks up name from the innermost frame outward, so an inner
// declaration shadows an outer one of the same name.
func (st *ScopeTable) Resolve(name string) (Symbol, bool) {
	for i := len(st.frames) - 1; i >= 0; i-- {
		frame := st.frames[i]
		for entry := range frame.Iterator() {
			if entry.Name == name {
				return entry, true
			}
		}
	}
	return Symbol{}, false
}

// AllSymbols flattens every frame into one slice, outermost first, for
// diagnostic dumps (mirroring original_source/semantic_analyzer.py's
// get_all_symbols / print_symbol_table).
func (st *ScopeTable) AllSymbols() []Symbol {
	var all []Symbol
	for _, frame := range st.frames {
		for entry := range frame.Iterator() {
			all = append(all, entry)
		}
	}
	return all
}
