// Package exbase defines the composite key of exchange algebra and the
// wildcard pattern language used to select and rewrite keys.
//
// A Key has five ordered fields: name, hat, unit, period and subject. Its
// canonical text form joins them with '-', e.g.
//
//	りんご-HAT-円-Y2009M03-果物
//
// A Pattern has the same five slots, but every string slot may hold the
// wildcard '*' on its own (matches anything) or embedded in literal text
// (anchored glob). The hat slot is NO_HAT, HAT or '*'.
package exbase

import (
	"errors"
	"fmt"
	"strings"
)

// Text form constants.
const (
	Delimiter  = '-'
	Wildcard   = '*'
	Omitted    = "#" // unspecified unit/period/subject
	TokenHat   = "HAT"
	TokenNoHat = "NO_HAT"
	TokenAny   = "*"
)

// ErrInvalidArgument is returned for absent or malformed keys, patterns and
// field values. Callers test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// FieldError attributes an invalid-argument failure to one named field.
type FieldError struct {
	Field string // "name", "hat", "unit", "period" or "subject"
	Value string
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Msg)
}

// Unwrap makes every FieldError match ErrInvalidArgument.
func (e *FieldError) Unwrap() error { return ErrInvalidArgument }

// HatFlag is the polarity of a key. The zero value is invalid so that an
// unset Key or Pattern can be told apart from a constructed one.
type HatFlag uint8

const (
	NoHat  HatFlag = iota + 1 // plus side
	Hat                       // minus side
	AnyHat                    // patterns only
)

func (h HatFlag) String() string {
	switch h {
	case NoHat:
		return TokenNoHat
	case Hat:
		return TokenHat
	case AnyHat:
		return TokenAny
	default:
		return fmt.Sprintf("HatFlag(%d)", uint8(h))
	}
}

// ParseHat parses a polarity token. AnyHat is accepted only when allowAny is set.
func ParseHat(tok string, allowAny bool) (HatFlag, error) {
	switch {
	case strings.EqualFold(tok, TokenNoHat):
		return NoHat, nil
	case strings.EqualFold(tok, TokenHat):
		return Hat, nil
	case tok == TokenAny && allowAny:
		return AnyHat, nil
	}
	return 0, &FieldError{Field: "hat", Value: tok, Msg: "unknown polarity token"}
}

// Field names one of the four string fields of a key. The hat slot is not a
// Field because it is never indexed.
type Field int

const (
	FieldName Field = iota
	FieldUnit
	FieldPeriod
	FieldSubject

	NumFields = 4
)

// Fields lists the string fields in canonical order.
var Fields = [NumFields]Field{FieldName, FieldUnit, FieldPeriod, FieldSubject}

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldUnit:
		return "unit"
	case FieldPeriod:
		return "period"
	case FieldSubject:
		return "subject"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Key is an immutable exchange-algebra base. Keys are comparable with ==
// and usable as map keys.
type Key struct {
	name    string
	hat     HatFlag
	unit    string
	period  string
	subject string
}

// NewKey validates and builds a Key. An empty unit, period or subject is
// stored as Omitted; the name must be non-empty and no field may contain
// the wildcard.
func NewKey(name string, hat HatFlag, unit, period, subject string) (Key, error) {
	if hat != NoHat && hat != Hat {
		return Key{}, &FieldError{Field: "hat", Value: hat.String(), Msg: "key polarity must be NO_HAT or HAT"}
	}
	if name == "" {
		return Key{}, &FieldError{Field: "name", Value: name, Msg: "name is required"}
	}
	k := Key{
		name:    name,
		hat:     hat,
		unit:    orOmitted(unit),
		period:  orOmitted(period),
		subject: orOmitted(subject),
	}
	for _, f := range Fields {
		if v := k.Field(f); strings.ContainsRune(v, Wildcard) {
			return Key{}, &FieldError{Field: f.String(), Value: v, Msg: "wildcard not allowed in a key"}
		}
	}
	return k, nil
}

// MustNewKey is NewKey that panics on error. For literals in tests and tables.
func MustNewKey(name string, hat HatFlag, unit, period, subject string) Key {
	k, err := NewKey(name, hat, unit, period, subject)
	if err != nil {
		panic(err)
	}
	return k
}

func orOmitted(s string) string {
	if s == "" {
		return Omitted
	}
	return s
}

func (k Key) Name() string    { return k.name }
func (k Key) Hat() HatFlag    { return k.hat }
func (k Key) Unit() string    { return k.unit }
func (k Key) Period() string  { return k.period }
func (k Key) Subject() string { return k.subject }

// IsHat reports whether the key is on the minus side.
func (k Key) IsHat() bool { return k.hat == Hat }

// IsZero reports whether k was never constructed.
func (k Key) IsZero() bool { return k.hat == 0 }

// Field returns the value of one string field.
func (k Key) Field(f Field) string {
	switch f {
	case FieldName:
		return k.name
	case FieldUnit:
		return k.unit
	case FieldPeriod:
		return k.period
	case FieldSubject:
		return k.subject
	}
	return ""
}

// WithHat returns a copy of k with the given polarity. AnyHat leaves k unchanged.
func (k Key) WithHat(h HatFlag) Key {
	if h == NoHat || h == Hat {
		k.hat = h
	}
	return k
}

// Flip returns the key with the opposite polarity.
func (k Key) Flip() Key {
	switch k.hat {
	case NoHat:
		k.hat = Hat
	case Hat:
		k.hat = NoHat
	}
	return k
}

// String returns the canonical text form.
func (k Key) String() string {
	return joinFields(k.name, k.hat.String(), k.unit, k.period, k.subject)
}

// ParseKey parses the canonical text form of a Key.
func ParseKey(s string) (Key, error) {
	parts, err := splitFields(s)
	if err != nil {
		return Key{}, err
	}
	hat, err := ParseHat(parts[1], false)
	if err != nil {
		return Key{}, err
	}
	return NewKey(parts[0], hat, parts[2], parts[3], parts[4])
}

// MustParseKey is ParseKey that panics on error.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}
