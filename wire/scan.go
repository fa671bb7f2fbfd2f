package wire

import "iter"

// Fields returns a sequence of the fields between the cursor and the end
// bound. The sequence advances the decoder; it stops after the first decode
// error, which is yielded with a zero Field.
func (d *Decoder) Fields() iter.Seq2[Field, error] {
	return func(yield func(Field, error) bool) {
		for !d.EOF() {
			f, err := d.ReadField()
			if err != nil {
				yield(Field{}, err)
				return
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// Scan returns a sequence of the top-level fields in b. Each range over the
// returned sequence starts from offset 0 with its own cursor.
func Scan(b []byte) iter.Seq2[Field, error] {
	return func(yield func(Field, error) bool) {
		NewDecoder(b).Fields()(yield)
	}
}

// Collect scans every top-level field in b. On a decode error it returns the
// fields read before the failure together with the error.
func Collect(b []byte) ([]Field, error) {
	var fields []Field
	for f, err := range Scan(b) {
		if err != nil {
			return fields, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Find returns the index-th (1-based) occurrence of number among the
// top-level fields of b. Occurrences after a decode error are not seen.
func Find(b []byte, number FieldNumber, index int) (Field, bool, error) {
	if index < 1 {
		index = 1
	}
	seen := 0
	for f, err := range Scan(b) {
		if err != nil {
			return Field{}, false, err
		}
		if f.Tag.Number != number {
			continue
		}
		seen++
		if seen == index {
			return f, true, nil
		}
	}
	return Field{}, false, nil
}
