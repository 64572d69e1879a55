package vm

import (
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/quant"
)

// Machine runs one compiled pattern against CBOR trees. It is grounded on
// coregex's nfa/pikevm.go: a single-node predicate check stands in for a
// byte-range transition, array/map/tagged descent stands in for stepping
// the input forward, and captureStore plays cowCaptures' role of letting a
// failed branch undo what it recorded.
type Machine struct {
	captures *captureStore
	steps    int
	maxSteps int
}

// NewMachine builds a Machine tuned by cfg.
func NewMachine(cfg Config) *Machine {
	max := cfg.MaxSteps
	if max <= 0 {
		max = DefaultConfig().MaxSteps
	}
	return &Machine{captures: newCaptureStore(), maxSteps: max}
}

// tick charges one unit of the step budget to a sequence/repeat decision
// point; it returns false once the budget is exhausted, which unwinds the
// current branch as a plain match failure (see Config.MaxSteps).
func (m *Machine) tick() bool {
	m.steps++
	return m.steps <= m.maxSteps
}

// matchAtNode evaluates p against node, with path the root-to-node chain
// accumulated so far. Unlike pattern.Pattern.Matches, this threads capture
// recording and gives search/repeat/sequence/capture their real,
// multi-node semantics.
func (m *Machine) matchAtNode(p pattern.Pattern, node cbor.Value, path Path) bool {
	switch v := p.(type) {
	case pattern.And:
		for _, s := range v.Subs {
			if !m.matchAtNode(s, node, path) {
				return false
			}
		}
		return true

	case pattern.Or:
		for _, s := range v.Subs {
			mk := m.captures.mark()
			if m.matchAtNode(s, node, path) {
				return true
			}
			m.captures.rollback(mk)
		}
		return false

	case pattern.Not:
		mk := m.captures.mark()
		ok := m.matchAtNode(v.Sub, node, path)
		m.captures.rollback(mk)
		return !ok

	case pattern.Capture:
		mk := m.captures.mark()
		if m.matchAtNode(v.Sub, node, path) {
			m.captures.record(v.Name, path)
			return true
		}
		m.captures.rollback(mk)
		return false

	case pattern.Search:
		return m.searchFirst(v.Sub, node, path)

	case pattern.Array:
		return m.matchArray(v, node, path)

	case pattern.Map:
		return m.matchMap(v, node, path)

	case pattern.Tagged:
		return m.matchTagged(v, node, path)

	case pattern.Repeat, pattern.Sequence:
		// Both are matched only through an array's element cursor
		// (matchArray normalizes and dispatches to matchSequence directly).
		// One reached here has no cursor to drive and reports no match:
		// Compile still accepts a Sequence at the root or directly under a
		// root capture, and a Repeat anywhere.
		return false

	default:
		// Value leaves (Bool, Number, Text, ByteString, Date, Digest,
		// KnownValue, Null, Any, None) are single-node predicates with no
		// capture/search/repeat semantics of their own.
		return p.Matches(node)
	}
}

func (m *Machine) matchArray(a pattern.Array, node cbor.Value, path Path) bool {
	if node.Kind() != cbor.KindArray {
		return false
	}
	if a.Any {
		return true
	}
	if a.HasCount {
		return a.Matches(node)
	}
	if a.Element == nil {
		return false
	}
	seq := normalizeElementPattern(a.Element)
	return m.matchSequence(seq.Subs, 0, node.Array(), 0, path)
}

// normalizeElementPattern implements the decided reading of a bare
// (non-sequence, non-repeat) array element pattern: `[P]` matches an
// array every one of whose elements satisfies P, i.e. it is shorthand for
// `[repeat(P, *)]`. A
// Repeat on its own is likewise promoted to a one-element Sequence so
// matchSequence has a single uniform entry point.
func normalizeElementPattern(p pattern.Pattern) pattern.Sequence {
	switch v := p.(type) {
	case pattern.Sequence:
		return v
	case pattern.Repeat:
		return pattern.Sequence{Subs: []pattern.Pattern{v}}
	default:
		return pattern.Sequence{Subs: []pattern.Pattern{
			pattern.Repeat{Sub: p, Quant: quant.Star()},
		}}
	}
}

func (m *Machine) matchMap(mp pattern.Map, node cbor.Value, path Path) bool {
	if node.Kind() != cbor.KindMap {
		return false
	}
	entries := node.MapEntries()
	if mp.Any {
		return true
	}
	if mp.HasCount {
		return mp.Matches(node)
	}
	for _, c := range mp.Constraints {
		if !m.tick() {
			return false
		}
		satisfied := false
		for _, e := range entries {
			mk := m.captures.mark()
			keyPath := path.extend(e.Key)
			valPath := path.extend(e.Value)
			if m.matchAtNode(c.Key, e.Key, keyPath) && m.matchAtNode(c.Value, e.Value, valPath) {
				satisfied = true
				break
			}
			m.captures.rollback(mk)
		}
		if !satisfied {
			return false
		}
	}
	return true
}

func (m *Machine) matchTagged(t pattern.Tagged, node cbor.Value, path Path) bool {
	if node.Kind() != cbor.KindTagged {
		return false
	}
	switch {
	case t.Any:
		// no tag-number filtering
	case t.HasTag:
		if node.Tag() != t.Tag {
			return false
		}
	case t.TagNameRegex != nil:
		if pattern.TagResolver == nil {
			return false
		}
		name, ok := pattern.TagResolver(node.Tag())
		if !ok || !t.TagNameRegex.MatchString(name) {
			return false
		}
	}
	if t.Content == nil {
		return true
	}
	content := node.TagContent()
	return m.matchAtNode(t.Content, content, path.extend(content))
}

// searchFirst implements search(P) used as a boolean sub-predicate
// (nested under and/or/not/capture/etc): the first matching descendant in
// pre-order (root included) wins, per the decided reading of —
// search never needs to explore alternatives once one candidate succeeds,
// because every caller of searchFirst only wants to know pass/fail for
// the *ambient* node, not collect the descendant's own path.
func (m *Machine) searchFirst(sub pattern.Pattern, node cbor.Value, path Path) bool {
	found := false
	walkPreorder(node, path, func(d cbor.Value, pd Path) bool {
		if !m.tick() {
			return true
		}
		mk := m.captures.mark()
		if m.matchAtNode(sub, d, pd) {
			found = true
			return true
		}
		m.captures.rollback(mk)
		return false
	})
	return found
}

// searchAll is used only when search(P) is the program's literal
// top-level pattern: every distinct matching descendant contributes its
// own path, instead of search acting as a single boolean check.
func (m *Machine) searchAll(sub pattern.Pattern, node cbor.Value, path Path) []Path {
	var out orderedPaths
	walkPreorder(node, path, func(d cbor.Value, pd Path) bool {
		if !m.tick() {
			return true
		}
		mk := m.captures.mark()
		if m.matchAtNode(sub, d, pd) {
			out.add(pd)
		} else {
			m.captures.rollback(mk)
		}
		return false
	})
	return out.items
}

// walkPreorder visits node and then its children (array elements in
// index order; map entries as key then value, in entry order; tagged
// content) depth-first, pre-order, root included — four
// axes (ArrayElement, MapKey, MapValue, TagContent) in traversal form.
// yield returning true stops the walk early.
func walkPreorder(node cbor.Value, path Path, yield func(cbor.Value, Path) bool) bool {
	if yield(node, path) {
		return true
	}
	switch node.Kind() {
	case cbor.KindArray:
		for _, e := range node.Array() {
			if walkPreorder(e, path.extend(e), yield) {
				return true
			}
		}
	case cbor.KindMap:
		for _, entry := range node.MapEntries() {
			if walkPreorder(entry.Key, path.extend(entry.Key), yield) {
				return true
			}
			if walkPreorder(entry.Value, path.extend(entry.Value), yield) {
				return true
			}
		}
	case cbor.KindTagged:
		c := node.TagContent()
		if walkPreorder(c, path.extend(c), yield) {
			return true
		}
	}
	return false
}
