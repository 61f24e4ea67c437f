package gtype

import "github.com/gactlab/gaction/internal/textio"

// FromFile converts the full contents of a file into a native value of the
// given type, reading through the text-stream provider so gzip input is
// handled transparently.
func FromFile(tag Tag, path string) (any, error) {
	if _, err := Describe(tag); err != nil {
		return nil, err
	}
	r, err := textio.NewReader(path)
	if err != nil {
		return nil, conversionErr(tag, path, err)
	}
	defer r.Close()
	return Read(tag, r)
}

// ToFile converts a native value of the given type into its file form and
// writes it to the given path through the text-stream provider.
func ToFile(tag Tag, v any, path string) error {
	if _, err := Describe(tag); err != nil {
		return err
	}
	w, err := textio.NewWriter(path)
	if err != nil {
		return conversionErr(tag, path, err)
	}
	if err := Write(tag, v, w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
