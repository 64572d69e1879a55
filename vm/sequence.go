package vm

import (
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/cbor"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
	"github.com/BlockchainCommons/bc-dcbor-pattern-go/quant"
)

// matchSequence drives an array's element cursor against subs[si:], the
// way coregex's pikevm.Search drives a byte cursor against the program
// from a given state: si is "which sub-pattern we're on" and ei is "which
// array index we're at". A Repeat sub is handed off to matchRepeatFrom,
// everything else consumes exactly one element before recursing.
func (m *Machine) matchSequence(subs []pattern.Pattern, si int, elems []cbor.Value, ei int, arrPath Path) bool {
	if !m.tick() {
		return false
	}
	if si == len(subs) {
		return ei == len(elems)
	}
	sub := subs[si]
	if rep, ok := sub.(pattern.Repeat); ok {
		mk := m.captures.mark()
		if m.matchRepeatFrom(rep, subs, si, elems, ei, arrPath, 0) {
			return true
		}
		m.captures.rollback(mk)
		return false
	}
	if ei >= len(elems) {
		return false
	}
	elemPath := arrPath.extend(elems[ei])
	mk := m.captures.mark()
	if m.matchAtNode(sub, elems[ei], elemPath) && m.matchSequence(subs, si+1, elems, ei+1, arrPath) {
		return true
	}
	m.captures.rollback(mk)
	return false
}

// matchRepeatFrom tries to satisfy rep (having already consumed count
// repetitions) and then the rest of subs, honoring rep's reluctance:
// greedy tries consuming one more element before giving up the slot to
// the remainder, lazy tries the opposite order, and possessive commits to
// the maximal consumption with no way back in — mirroring the three
// reluctance modes coregex's NFA construction builds into a Split's
// branch order (prefer-more vs prefer-less), except possessive, which
// coregex doesn't model as a split at all because it never backtracks.
func (m *Machine) matchRepeatFrom(rep pattern.Repeat, subs []pattern.Pattern, si int, elems []cbor.Value, ei int, arrPath Path, count int) bool {
	if !m.tick() {
		return false
	}
	if rep.Quant.Reluctance == quant.Possessive {
		return m.matchPossessive(rep, subs, si, elems, ei, arrPath, count)
	}
	tryMore := func() bool {
		if !rep.Quant.AllowsMore(count) || ei >= len(elems) {
			return false
		}
		elemPath := arrPath.extend(elems[ei])
		mk := m.captures.mark()
		if m.matchAtNode(rep.Sub, elems[ei], elemPath) && m.matchRepeatFrom(rep, subs, si, elems, ei+1, arrPath, count+1) {
			return true
		}
		m.captures.rollback(mk)
		return false
	}
	tryStop := func() bool {
		if !rep.Quant.Satisfied(count) {
			return false
		}
		return m.matchSequence(subs, si+1, elems, ei, arrPath)
	}
	if rep.Quant.Reluctance == quant.Lazy {
		if tryStop() {
			return true
		}
		return tryMore()
	}
	if tryMore() {
		return true
	}
	return tryStop()
}

// matchPossessive consumes the maximum width rep's quantifier allows,
// without ever reconsidering that choice: if the remainder fails to
// match from the resulting position, the whole repeat fails rather than
// giving back elements one at a time.
func (m *Machine) matchPossessive(rep pattern.Repeat, subs []pattern.Pattern, si int, elems []cbor.Value, ei int, arrPath Path, count int) bool {
	for rep.Quant.AllowsMore(count) && ei < len(elems) {
		if !m.tick() {
			return false
		}
		elemPath := arrPath.extend(elems[ei])
		mk := m.captures.mark()
		if !m.matchAtNode(rep.Sub, elems[ei], elemPath) {
			m.captures.rollback(mk)
			break
		}
		ei++
		count++
	}
	if !rep.Quant.Satisfied(count) {
		return false
	}
	return m.matchSequence(subs, si+1, elems, ei, arrPath)
}
