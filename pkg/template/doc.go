// Package template resolves placeholder directives embedded in project
// template sources.
//
// # Overview
//
// A template is ordinary text with directives wrapped in sentinel markers.
// With the default syntax a directive looks like:
//
//	«name»                 plain substitution
//	«name:upper»           substitution through one modifier
//	«name:trim,snake»      modifiers run left to right
//
// The Xcode-style syntax uses triple underscores instead:
//
//	___PROJECTNAME:identifier___
//
// # Pipeline
//
// Processing is strictly linear:
//
//  1. Tokenize splits the source into Text and Directive tokens. It is
//     lossless: Reconstruct(tokens) returns the original source.
//  2. Process folds over the tokens left to right. Text passes through,
//     directives are resolved through a Context.
//  3. The first error aborts the fold. No partial output is returned.
//
// # Bindings and the cache
//
// A Context holds Bindings supplied by the caller. A binding is either a
// Literal value or a Generated tag (for example "uuid"). Generated values are
// produced on first use and cached for the lifetime of the Context, so
//
//	id=«uuid» again=«uuid:lower»
//
// resolves both occurrences from the same raw value. Modifiers are applied
// at each call site and never stored in the cache.
//
// Each call to NewContext starts with an empty cache. A *Context is not safe
// for concurrent use; concurrent callers each construct their own. Reusing one
// Context across several Process calls is how a caller asks for values that
// stay stable across files (pkg/bundle does this for one instantiation).
//
// # Limitations
//
// Sentinel matching is purely lexical. Text that happens to contain the
// opening marker is read as a directive, so templates must avoid incidental
// sentinel collisions. Directives do not nest.
//
// # Errors
//
// All failures are *errors.ScaffError values. Syntax failures carry the byte
// offset of the opening sentinel in the "offset" detail; resolution failures
// carry the symbol in the "name" detail.
package template
