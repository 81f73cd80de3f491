package ktchn

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type numberState uint8

const (
	absent numberState = iota
	defined
	undefined
)

// Number is an optional quantity, in grams or grams per gram.
//
// The zero Number is absent: the user has not supplied a value. A Number can
// also be undefined, the result of a derivation without a value (a division
// by a zero density). Undefined numbers render as empty text and can never be
// stored or encoded.
type Number struct {
	value float64
	state numberState
}

// N returns a defined Number. Non finite values give an undefined Number.
func N(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Number{value: v, state: defined}
}

// Undefined returns the undefined Number.
func Undefined() Number { return Number{state: undefined} }

// ParseNumber parses a form input. A blank input is absent, anything else
// must be a decimal number.
func ParseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidNumber, s)
	}
	v, _ := d.Float64()
	return N(v), nil
}

// MustParseNumber is like ParseNumber but panics on error.
func MustParseNumber(s string) Number {
	n, err := ParseNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Value returns the value and whether it is defined.
func (n Number) Value() (float64, bool) { return n.value, n.state == defined }

// Or returns the value if defined, def otherwise.
func (n Number) Or(def float64) float64 {
	if n.state != defined {
		return def
	}
	return n.value
}

func (n Number) IsAbsent() bool    { return n.state == absent }
func (n Number) IsDefined() bool   { return n.state == defined }
func (n Number) IsUndefined() bool { return n.state == undefined }

// Mul returns n*k, keeping absent and undefined as they are.
func (n Number) Mul(k float64) Number {
	if n.state != defined {
		return n
	}
	return N(n.value * k)
}

// Div returns n/k, keeping absent and undefined as they are. Dividing by zero
// is undefined.
func (n Number) Div(k float64) Number {
	if n.state != defined {
		return n
	}
	if k == 0 {
		return Undefined()
	}
	return N(n.value / k)
}

// Equal reports whether both numbers are in the same state with the same
// value.
func (n Number) Equal(o Number) bool { return n == o }

// Validate checks that n can be stored in a record: absent, or defined and
// not negative.
func (n Number) Validate() error {
	switch {
	case n.state == undefined:
		return fmt.Errorf("%w: %w", ErrInvalidNumber, ErrUndefined)
	case n.state == defined && n.value < 0:
		return fmt.Errorf("%w: %v is negative", ErrInvalidNumber, n.value)
	}
	return nil
}

// String returns the display form of n: rounded to two decimal digits with
// trailing zeros trimmed. Absent and undefined numbers display as "".
func (n Number) String() string {
	if n.state != defined {
		return ""
	}
	return FormatAmount(n.value)
}

// FormatAmount rounds v to two decimal digits for display. Non finite values
// display as "".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).Round(2).String()
}

// MarshalJSON encodes an absent number as null. Undefined numbers cannot be
// encoded.
func (n Number) MarshalJSON() ([]byte, error) {
	switch n.state {
	case absent:
		return []byte("null"), nil
	case undefined:
		return nil, ErrUndefined
	}
	return json.Marshal(n.value)
}

// UnmarshalJSON decodes null as absent.
func (n *Number) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*n = Number{}
		return nil
	}
	*n = N(*v)
	return nil
}
