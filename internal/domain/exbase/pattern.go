package exbase

import (
	"strings"
)

// ItemKind classifies one field of a Pattern.
type ItemKind uint8

const (
	Fixed ItemKind = iota + 1 // literal, exact match
	Any                       // the bare wildcard, matches every value
	Glob                      // literal text with embedded wildcards
)

func (k ItemKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Any:
		return "any"
	case Glob:
		return "glob"
	}
	return "invalid"
}

// Item is one field of a Pattern. Glob items keep their text split on the
// wildcard: segs[0] is the anchored prefix, segs[len-1] the anchored suffix
// and everything between must appear in order.
type Item struct {
	kind ItemKind
	text string
	segs []string
}

// ParseItem classifies raw field text.
func ParseItem(text string) Item {
	switch {
	case text == TokenAny:
		return Item{kind: Any, text: TokenAny}
	case strings.ContainsRune(text, Wildcard):
		return Item{kind: Glob, text: text, segs: strings.Split(text, TokenAny)}
	default:
		return Item{kind: Fixed, text: text}
	}
}

// FixedItem returns a literal item. The caller guarantees s has no wildcard.
func FixedItem(s string) Item { return Item{kind: Fixed, text: s} }

// AnyItem returns the bare wildcard item.
func AnyItem() Item { return Item{kind: Any, text: TokenAny} }

func (it Item) Kind() ItemKind { return it.kind }
func (it Item) Text() string   { return it.text }
func (it Item) IsFixed() bool  { return it.kind == Fixed }

// Segments returns a copy of the literal runs of a Glob item; nil otherwise.
func (it Item) Segments() []string {
	if it.kind != Glob {
		return nil
	}
	out := make([]string, len(it.segs))
	copy(out, it.segs)
	return out
}

// Matches tests one field value.
func (it Item) Matches(v string) bool {
	switch it.kind {
	case Any:
		return true
	case Fixed:
		return it.text == v
	case Glob:
		return globMatch(it.segs, v)
	}
	return false
}

// globMatch is an anchored single-wildcard matcher: prefix and suffix are
// pinned first, then interior runs are found leftmost in order, which is
// exact for '*' as the only metacharacter.
func globMatch(segs []string, v string) bool {
	first, last := segs[0], segs[len(segs)-1]
	if len(v) < len(first)+len(last) {
		return false
	}
	if !strings.HasPrefix(v, first) || !strings.HasSuffix(v, last) {
		return false
	}
	v = v[len(first) : len(v)-len(last)]
	for _, mid := range segs[1 : len(segs)-1] {
		i := strings.Index(v, mid)
		if i < 0 {
			return false
		}
		v = v[i+len(mid):]
	}
	return true
}

// Pattern is an immutable five-slot wildcard query over Keys. Patterns are
// compared structurally through their canonical text form; use Equal or the
// String form as a map key, never ==.
type Pattern struct {
	items [NumFields]Item
	hat   HatFlag
	text  string
}

// NewPattern classifies and validates raw field text. An empty unit, period
// or subject is treated as Omitted, as for keys.
func NewPattern(name string, hat HatFlag, unit, period, subject string) (Pattern, error) {
	if hat != NoHat && hat != Hat && hat != AnyHat {
		return Pattern{}, &FieldError{Field: "hat", Value: hat.String(), Msg: "unknown polarity"}
	}
	if name == "" {
		return Pattern{}, &FieldError{Field: "name", Value: name, Msg: "name is required"}
	}
	p := Pattern{hat: hat}
	p.items[FieldName] = ParseItem(name)
	p.items[FieldUnit] = ParseItem(orOmitted(unit))
	p.items[FieldPeriod] = ParseItem(orOmitted(period))
	p.items[FieldSubject] = ParseItem(orOmitted(subject))
	p.text = p.render()
	return p, nil
}

// MustNewPattern is NewPattern that panics on error.
func MustNewPattern(name string, hat HatFlag, unit, period, subject string) Pattern {
	p, err := NewPattern(name, hat, unit, period, subject)
	if err != nil {
		panic(err)
	}
	return p
}

// PatternOf returns the all-Fixed pattern matching exactly k.
func PatternOf(k Key) Pattern {
	p := Pattern{hat: k.hat}
	for _, f := range Fields {
		p.items[f] = FixedItem(k.Field(f))
	}
	p.text = p.render()
	return p
}

// ParsePattern parses the canonical text form of a Pattern.
func ParsePattern(s string) (Pattern, error) {
	parts, err := splitFields(s)
	if err != nil {
		return Pattern{}, err
	}
	hat, err := ParseHat(parts[1], true)
	if err != nil {
		return Pattern{}, err
	}
	return NewPattern(parts[0], hat, parts[2], parts[3], parts[4])
}

// MustParsePattern is ParsePattern that panics on error.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) render() string {
	return joinFields(p.items[FieldName].text, p.hat.String(),
		p.items[FieldUnit].text, p.items[FieldPeriod].text, p.items[FieldSubject].text)
}

func (p Pattern) Item(f Field) Item { return p.items[f] }
func (p Pattern) Hat() HatFlag      { return p.hat }

// IsZero reports whether p was never constructed.
func (p Pattern) IsZero() bool { return p.hat == 0 }

// String returns the canonical text form, which is also the pattern identity.
func (p Pattern) String() string { return p.text }

// Equal reports structural equality.
func (p Pattern) Equal(o Pattern) bool { return p.text == o.text }

// FixedFields lists the fields classified as Fixed, in canonical order.
func (p Pattern) FixedFields() []Field {
	var out []Field
	for _, f := range Fields {
		if p.items[f].kind == Fixed {
			out = append(out, f)
		}
	}
	return out
}

// IsAllWildcard reports whether no string field is Fixed.
func (p Pattern) IsAllWildcard() bool {
	for _, f := range Fields {
		if p.items[f].kind == Fixed {
			return false
		}
	}
	return true
}

// Matches is the AND of the five per-field tests.
func (p Pattern) Matches(k Key) bool {
	if p.hat != AnyHat && p.hat != k.hat {
		return false
	}
	for _, f := range Fields {
		if !p.items[f].Matches(k.Field(f)) {
			return false
		}
	}
	return true
}

// Rewrite maps k through p used as a target: Fixed fields and a concrete hat
// overwrite, Any and Glob fields pass k's value through.
func (p Pattern) Rewrite(k Key) Key {
	out := k.WithHat(p.hat)
	for _, f := range Fields {
		it := p.items[f]
		if it.kind != Fixed {
			continue
		}
		switch f {
		case FieldName:
			out.name = it.text
		case FieldUnit:
			out.unit = it.text
		case FieldPeriod:
			out.period = it.text
		case FieldSubject:
			out.subject = it.text
		}
	}
	return out
}
