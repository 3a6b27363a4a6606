// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package clienterr

// A Rule maps native transport errors matching a predicate onto a
// taxonomy class.
type Rule struct {
	// Class is the taxonomy class assigned to matching errors.
	Class Class
	// Match reports whether a native transport error belongs to this
	// rule. Match is never called with a nil error.
	Match func(err error) bool
}

// A Table is one transport's translation table: an ordered list of
// rules evaluated most-specific-first. Each transport adapter owns an
// independent table; tables share nothing with one another.
//
// A Table is immutable after construction and safe for concurrent use
// by multiple goroutines.
type Table struct {
	rules []Rule
}

// NewTable constructs a translation table from the given rules. The
// rules are evaluated in the order given, so list the most specific
// rule first.
func NewTable(rules ...Rule) *Table {
	for _, r := range rules {
		if r.Match == nil {
			panic("clienterr: rule with nil match predicate")
		}
	}
	rules2 := make([]Rule, len(rules))
	copy(rules2, rules)
	return &Table{rules: rules2}
}

// Translate maps a native transport error into the taxonomy. The first
// matching rule decides the class; an error matching no rule translates
// to Base. A nil error translates to nil, and an error that is already
// translated is returned unchanged.
func (t *Table) Translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := ClassOf(err); ok {
		return err
	}
	for _, r := range t.rules {
		if r.Match(err) {
			return &Error{Class: r.Class, Cause: err}
		}
	}
	return &Error{Class: Base, Cause: err}
}
