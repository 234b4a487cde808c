package numeric

import (
	"bytes"
	"encoding/json"
)

// Loose holds a JSON scalar that may arrive either as a number or as a
// formatted string. The raw value is kept so that display formatting can
// tell a "-" placeholder apart from zero.
type Loose struct {
	v any
}

// LooseOf wraps an arbitrary value.
func LooseOf(v any) Loose {
	return Loose{v: v}
}

func (l *Loose) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	l.v = v
	return nil
}

func (l Loose) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.v)
}

// Raw returns the value as decoded.
func (l Loose) Raw() any {
	return l.v
}

// Float is Number applied to the raw value.
func (l Loose) Float() float64 {
	return Number(l.v)
}

// Percent is Percent applied to the raw value.
func (l Loose) Percent() float64 {
	return Percent(l.v)
}
