package compile

import (
	"errors"
	"fmt"

	"github.com/BlockchainCommons/bc-dcbor-pattern-go/pattern"
)

// ErrSequenceOutsideArray is returned when a sequence pattern appears
// somewhere Compile cannot place an element cursor — anywhere other than
// an array's element-pattern slot, inside a capture wrapping one, or at
// the pattern tree's root.
var ErrSequenceOutsideArray = errors.New("compile: sequence pattern used outside of an array context")

// Compile lowers a pattern tree into a Program: it validates quantifiers
// and sequence placement, and interns value-predicate and capture-name
// pools in first-encounter order.
func Compile(p pattern.Pattern) (*Program, error) {
	c := &compiler{}
	if err := c.validate(p, false, true); err != nil {
		return nil, err
	}
	c.emit(p)
	return &Program{
		Root:         p,
		Literals:     c.lits.items,
		CaptureNames: c.names.items,
		Code:         c.code,
	}, nil
}

type compiler struct {
	lits  literalPool
	names namePool
	code  []Instr
}

// validate walks the tree checking quantifier bounds and sequence
// placement. inSeqSlot is true while walking an array's element pattern
// (or a capture directly wrapping one); atRoot is true only for the very
// first call, honoring top-level sequence allowance.
func (c *compiler) validate(p pattern.Pattern, inSeqSlot, atRoot bool) error {
	switch v := p.(type) {
	case pattern.Sequence:
		if !inSeqSlot && !atRoot {
			return ErrSequenceOutsideArray
		}
		for _, s := range v.Subs {
			if err := c.validate(s, true, false); err != nil {
				return err
			}
		}
	case pattern.Repeat:
		if err := v.Quant.Validate(); err != nil {
			return fmt.Errorf("compile: %w", err)
		}
		if err := c.validate(v.Sub, inSeqSlot, false); err != nil {
			return err
		}
	case pattern.Capture:
		if err := c.validate(v.Sub, inSeqSlot || atRoot, false); err != nil {
			return err
		}
	case pattern.Search:
		if err := c.validate(v.Sub, false, false); err != nil {
			return err
		}
	case pattern.Not:
		if err := c.validate(v.Sub, false, false); err != nil {
			return err
		}
	case pattern.And:
		for _, s := range v.Subs {
			if err := c.validate(s, false, false); err != nil {
				return err
			}
		}
	case pattern.Or:
		for _, s := range v.Subs {
			if err := c.validate(s, false, false); err != nil {
				return err
			}
		}
	case pattern.Array:
		if v.Element != nil {
			if err := c.validate(v.Element, true, false); err != nil {
				return err
			}
		}
	case pattern.Map:
		for _, kv := range v.Constraints {
			if err := c.validate(kv.Key, false, false); err != nil {
				return err
			}
			if err := c.validate(kv.Value, false, false); err != nil {
				return err
			}
		}
	case pattern.Tagged:
		if v.Content != nil {
			if err := c.validate(v.Content, false, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// emit produces the introspection-only Code outline (see program.go's doc
// comment) and interns literal/name pools.
func (c *compiler) emit(p pattern.Pattern) {
	switch v := p.(type) {
	case pattern.And, pattern.Or:
		c.code = append(c.code, Instr{Op: OpSplit, Pattern: p})
		for _, s := range subsOf(p) {
			c.emit(s)
		}
	case pattern.Not:
		c.code = append(c.code, Instr{Op: OpSplit, Pattern: p})
		c.emit(v.Sub)
	case pattern.Repeat:
		c.code = append(c.code, Instr{Op: OpSplit, Pattern: p})
		c.emit(v.Sub)
	case pattern.Capture:
		idx := c.names.intern(v.Name)
		_ = idx
		c.code = append(c.code, Instr{Op: OpCaptureStartEnd, Pattern: p})
		c.emit(v.Sub)
	case pattern.Search:
		c.code = append(c.code, Instr{Op: OpSearchHeader, Pattern: p})
		c.emit(v.Sub)
	case pattern.Sequence:
		c.code = append(c.code, Instr{Op: OpSeqConcat, Pattern: p})
		for _, s := range v.Subs {
			c.emit(s)
		}
	case pattern.Array:
		c.code = append(c.code, Instr{Op: OpPushAxis, Pattern: p})
		if v.Element != nil {
			c.emit(v.Element)
		}
		c.code = append(c.code, Instr{Op: OpPop, Pattern: p})
	case pattern.Map:
		c.code = append(c.code, Instr{Op: OpPushAxis, Pattern: p})
		for _, kv := range v.Constraints {
			c.emit(kv.Key)
			c.emit(kv.Value)
		}
		c.code = append(c.code, Instr{Op: OpPop, Pattern: p})
	case pattern.Tagged:
		c.code = append(c.code, Instr{Op: OpPushAxis, Pattern: p})
		if v.Content != nil {
			c.emit(v.Content)
		}
		c.code = append(c.code, Instr{Op: OpPop, Pattern: p})
	default:
		idx := c.lits.intern(p)
		_ = idx
		c.code = append(c.code, Instr{Op: OpMatchPredicate, Pattern: p})
	}
}

func subsOf(p pattern.Pattern) []pattern.Pattern {
	switch v := p.(type) {
	case pattern.And:
		return v.Subs
	case pattern.Or:
		return v.Subs
	default:
		return nil
	}
}
