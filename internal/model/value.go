package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is a single indicator reading that may be undefined.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a defined Value.
func Some(f float64) Value { return Value{Float: f, Valid: true} }

// None is the undefined marker.
var None = Value{}

var nullJSON = []byte("null")

// MarshalJSON encodes undefined values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return nullJSON, nil
	}
	return strconv.AppendFloat(nil, v.Float, 'f', -1, 64), nil
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullJSON) {
		*v = None
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// String renders the value with two decimals, or "n/a".
func (v Value) String() string {
	if !v.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(v.Float, 'f', 2, 64)
}

// Line is an indicator series aligned to its input bars.
type Line []Value

// NewLine returns an all-undefined line of length n.
func NewLine(n int) Line {
	return make(Line, n)
}

// LeadingUndefined counts the undefined positions before the first defined one.
func (l Line) LeadingUndefined() int {
	for i, v := range l {
		if v.Valid {
			return i
		}
	}
	return len(l)
}

// Last returns the most recent value, or None for an empty line.
func (l Line) Last() Value {
	if len(l) == 0 {
		return None
	}
	return l[len(l)-1]
}
