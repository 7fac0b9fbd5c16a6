package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Kind is the variant tag of a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "absent"
	}
}

// Value is a scalar field value of a Record: a number, a text or nothing.
// The zero Value is Absent. Values are comparable with == and two values are
// equal only when both the kind and the payload match ("1" != 1).
type Value struct {
	kind Kind
	num  float64
	text string
}

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func Text(s string) Value { return Value{kind: KindText, text: s} }

func Absent() Value { return Value{} }

// ValueOf converts a decoded Go value into a Value. Booleans become the texts
// "true"/"false", maps and slices become their JSON text.
func ValueOf(x any) Value {
	switch v := x.(type) {
	case nil:
		return Absent()
	case Value:
		return v
	case string:
		return Text(v)
	case bool:
		return Text(strconv.FormatBool(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Text(v.String())
		}
		return Number(f)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Number(cast.ToFloat64(v))
	case map[string]any, []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return Text(fmt.Sprint(v))
		}
		return Text(string(raw))
	default:
		return Text(cast.ToString(v))
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Num returns the number payload and whether the value is a Number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Str returns the text payload and whether the value is a Text.
func (v Value) Str() (string, bool) { return v.text, v.kind == KindText }

// FloatE coerces the value to a number. Absent and non-numeric texts fail
// with ErrInvalidFieldValue.
func (v Value) FloatE() (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindText:
		f, err := cast.ToFloat64E(strings.TrimSpace(v.text))
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidFieldValue, v.text)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: absent", ErrInvalidFieldValue)
	}
}

// Float coerces leniently: anything that is not a number reads as 0.
func (v Value) Float() float64 {
	f, err := v.FloatE()
	if err != nil {
		return 0
	}
	return f
}

// String renders the value for display. Absent renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var x any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&x); err != nil {
		return err
	}
	*v = ValueOf(x)
	return nil
}
