package gtype

import "io"

// Chaperon pairs a run-time value with its resolved descriptor for the
// duration of a marshaling step. Chaperons are never persisted.
type Chaperon struct {
	Value any
	Desc  *Descriptor
}

// Chaperone binds a value to the descriptor for the given tag, checking that
// the value's runtime type actually matches.
func Chaperone(tag Tag, v any) (*Chaperon, error) {
	if err := Matches(tag, v); err != nil {
		return nil, err
	}
	d, err := Describe(tag)
	if err != nil {
		return nil, err
	}
	return &Chaperon{Value: v, Desc: d}, nil
}

// Line renders the chaperoned value in its canonical single-line form.
func (c *Chaperon) Line() (string, error) {
	return ToLine(c.Desc.Tag, c.Value)
}

// WriteTo renders the chaperoned value in its file form.
func (c *Chaperon) WriteTo(w io.Writer) error {
	return Write(c.Desc.Tag, c.Value, w)
}
