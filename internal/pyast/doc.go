// Package pyast defines the syntax-tree model the checkers consume.
//
// # Overview
//
// The model is deliberately small: it covers the statement and expression
// shapes the rule set actually inspects (definitions, assignments, calls,
// string forms, exception handlers) and collapses everything else into the
// nearest covered shape. Nodes carry a source [Position] and, after
// [Link] has run, a lexical parent pointer.
//
// # Traversal and dispatch
//
// A file is checked in a single [Inspect] pass. Checkers do not walk the
// tree themselves; they register interest in node [Kind]s and are handed
// matching nodes by the dispatch registry:
//
//	Inspect(mod, func(n Node) bool {
//	    for _, check := range registry[KindOf(n)] {
//	        check(pass, n)
//	    }
//	    return true
//	})
//
// # Scope lookups
//
// Parent links substitute for a full symbol table. [EnclosingFunc] bounds
// best-effort name resolution to one lexical scope, and [EnclosingSymbol]
// produces the dotted symbol name attached to finding locations.
package pyast
