// Package protoscan reads fields out of protobuf-framed byte blobs without a
// schema. Fields are addressed by number and 1-based occurrence, or by a
// fieldpath.Path descending through nested length-delimited messages.
//
// Lookups never fail loudly: malformed varints, unknown wire types and
// truncated payloads all read as "not found". Use the wire package directly
// when the decode error itself matters.
package protoscan

import (
	"errors"
	"unicode/utf8"

	"github.com/anirudhraja/protoscan/fieldpath"
	"github.com/anirudhraja/protoscan/wire"
)

// ErrFieldNotFound is reported by Resolve when a path step has no match.
var ErrFieldNotFound = errors.New("field not found")

// Reader answers lookups over an immutable byte source. Every lookup opens
// its own cursor, so a Reader may be shared between goroutines as long as
// nobody modifies the underlying bytes.
type Reader struct {
	buf []byte
}

// NewReader creates a reader over data
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Bytes returns the underlying buffer
func (r *Reader) Bytes() []byte {
	return r.buf
}

func (r *Reader) find(number wire.FieldNumber, index int) (wire.Field, bool) {
	f, ok, err := wire.Find(r.buf, number, index)
	if err != nil {
		return wire.Field{}, false
	}
	return f, ok
}

// GetBytes returns the raw payload of the index-th occurrence of a field
func (r *Reader) GetBytes(number wire.FieldNumber, index int) ([]byte, bool) {
	f, ok := r.find(number, index)
	if !ok {
		return nil, false
	}
	return f.Payload, true
}

// GetString returns the index-th occurrence of a length-delimited field as a
// string. Payloads that are not valid UTF-8 read as absent.
func (r *Reader) GetString(number wire.FieldNumber, index int) (string, bool) {
	f, ok := r.find(number, index)
	if !ok || f.Tag.WireType != wire.WireBytes || !utf8.Valid(f.Payload) {
		return "", false
	}
	return string(f.Payload), true
}

// GetVarint returns the index-th occurrence of a varint field
func (r *Reader) GetVarint(number wire.FieldNumber, index int) (uint64, bool) {
	f, ok := r.find(number, index)
	if !ok {
		return 0, false
	}
	v, err := f.Varint()
	return v, err == nil
}

// GetFixed32 returns the index-th occurrence of a fixed32 field
func (r *Reader) GetFixed32(number wire.FieldNumber, index int) (uint32, bool) {
	f, ok := r.find(number, index)
	if !ok {
		return 0, false
	}
	v, err := f.Fixed32()
	return v, err == nil
}

// GetFixed64 returns the index-th occurrence of a fixed64 field
func (r *Reader) GetFixed64(number wire.FieldNumber, index int) (uint64, bool) {
	f, ok := r.find(number, index)
	if !ok {
		return 0, false
	}
	v, err := f.Fixed64()
	return v, err == nil
}

// Exists reports whether the field occurs at least once at the top level
func (r *Reader) Exists(number wire.FieldNumber) bool {
	_, ok := r.find(number, 1)
	return ok
}

// Count returns how many times the field occurs before the end of the
// buffer or the first decode error
func (r *Reader) Count(number wire.FieldNumber) int {
	d := wire.NewDecoder(r.buf)
	count := 0
	for !d.EOF() {
		tag, err := d.ReadTag()
		if err != nil {
			break
		}
		if err := d.SkipField(tag); err != nil {
			break
		}
		if tag.Number == number {
			count++
		}
	}
	return count
}

// Each calls fn with a nested reader for every length-delimited occurrence
// of the field, stopping early when fn returns false
func (r *Reader) Each(number wire.FieldNumber, fn func(*Reader) bool) {
	for f, err := range wire.Scan(r.buf) {
		if err != nil {
			return
		}
		if f.Tag.Number != number || f.Tag.WireType != wire.WireBytes {
			continue
		}
		if !fn(NewReader(f.Payload)) {
			return
		}
	}
}

// ReadPath returns the raw payload at the end of the path. Every step but
// the last must land on a length-delimited field. An empty path returns the
// whole buffer.
func (r *Reader) ReadPath(path fieldpath.Path) ([]byte, bool) {
	b, err := r.Resolve(path)
	return b, err == nil
}

// FollowPath returns a reader over the payload at the end of the path
func (r *Reader) FollowPath(path fieldpath.Path) (*Reader, bool) {
	b, ok := r.ReadPath(path)
	if !ok {
		return nil, false
	}
	return NewReader(b), true
}

// Resolve is ReadPath with the reason for a miss. Errors are *wire.FieldError
// values labelled with the path up to the failing step, wrapping
// ErrFieldNotFound, wire.ErrWireTypeMismatch or a decode error kind.
func (r *Reader) Resolve(path fieldpath.Path) ([]byte, error) {
	if len(path) == 0 {
		return r.buf, nil
	}
	f, err := r.ResolveField(path)
	if err != nil {
		return nil, err
	}
	return f.Payload, nil
}

// ResolveField is Resolve returning the final field, so callers can check
// its wire type. An empty path reports ErrFieldNotFound.
func (r *Reader) ResolveField(path fieldpath.Path) (wire.Field, error) {
	if len(path) == 0 {
		return wire.Field{}, &wire.FieldError{Err: ErrFieldNotFound}
	}
	current := r.buf
	var f wire.Field
	for i, step := range path {
		var (
			ok  bool
			err error
		)
		f, ok, err = wire.Find(current, step.Field, step.Occurrence())
		if err == nil && !ok {
			err = ErrFieldNotFound
		}
		if err == nil && i < len(path)-1 && f.Tag.WireType != wire.WireBytes {
			err = wire.ErrWireTypeMismatch
		}
		if err != nil {
			return wire.Field{}, &wire.FieldError{FieldPath: path[:i+1].Segments(), Err: err}
		}
		current = f.Payload
	}
	return f, nil
}
