package kami

import "fmt"

// EffectOp selects what an Effect does when its rule fires.
type EffectOp uint8

const (
	EffectCreate EffectOp = iota // spawn a new widget of Kind at a random position
	EffectDelete                 // despawn the combining widget whose kind is Kind
)

// String returns "create" or "delete".
func (op EffectOp) String() string {
	switch op {
	case EffectCreate:
		return "create"
	case EffectDelete:
		return "delete"
	default:
		return fmt.Sprintf("EffectOp(%d)", uint8(op))
	}
}

// Effect is one step of a combination rule.
//
// A delete effect whose Kind is the dragged widget's kind despawns the
// dragged widget; any other Kind despawns the widget it was dropped on, even
// a Kind that names neither of the two.
type Effect struct {
	Op   EffectOp
	Kind string
}

// Create returns a create effect for kind.
func Create(kind string) Effect { return Effect{Op: EffectCreate, Kind: kind} }

// Delete returns a delete effect for kind.
func Delete(kind string) Effect { return Effect{Op: EffectDelete, Kind: kind} }

// Pair is an unordered pair of kinds. Construct it with MakePair so that
// (a, b) and (b, a) produce the same key.
type Pair struct {
	A, B string
}

// MakePair returns the canonical pair for a and b, with A <= B.
func MakePair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Has reports whether kind is one of the two kinds in the pair.
func (p Pair) Has(kind string) bool {
	return p.A == kind || p.B == kind
}

// Rule maps a pair of kinds to the effects applied, in order, when two
// widgets of those kinds are combined.
type Rule struct {
	Pair    Pair
	Effects []Effect
}

// RuleTable is an immutable lookup from unordered kind pairs to effects.
type RuleTable struct {
	rules map[Pair][]Effect
}

// NewRuleTable builds a table from rules. Each Pair is canonicalised; two
// rules naming the same pair in either order are rejected.
func NewRuleTable(rules []Rule) (*RuleTable, error) {
	t := &RuleTable{rules: make(map[Pair][]Effect, len(rules))}
	for i, r := range rules {
		p := MakePair(r.Pair.A, r.Pair.B)
		if _, dup := t.rules[p]; dup {
			return nil, fmt.Errorf("rule %d: duplicate rule for (%s, %s)", i, p.A, p.B)
		}
		effects := make([]Effect, len(r.Effects))
		copy(effects, r.Effects)
		t.rules[p] = effects
	}
	return t, nil
}

// Lookup returns the effects for combining kinds a and b. The result is the
// same for (a, b) and (b, a). The returned slice MUST NOT be mutated.
func (t *RuleTable) Lookup(a, b string) ([]Effect, bool) {
	if t == nil {
		return nil, false
	}
	effects, ok := t.rules[MakePair(a, b)]
	return effects, ok
}

// Len returns the number of rules.
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Pairs returns every pair that has a rule, in no particular order.
func (t *RuleTable) Pairs() []Pair {
	if t == nil {
		return nil
	}
	out := make([]Pair, 0, len(t.rules))
	for p := range t.rules {
		out = append(out, p)
	}
	return out
}
