package wire

import (
	"fmt"
)

func (f Field) expect(w WireType) error {
	if f.Tag.WireType != w {
		return fmt.Errorf("field %d is %s, want %s: %w", f.Tag.Number, f.Tag.WireType, w, ErrWireTypeMismatch)
	}
	return nil
}

// payload returns a decoder over the field payload after checking its wire type
func (f Field) payload(w WireType) (*Decoder, error) {
	if err := f.expect(w); err != nil {
		return nil, err
	}
	return NewDecoder(f.Payload), nil
}

// Varint decodes the payload of a varint field. The payload must hold
// exactly one varint.
func (f Field) Varint() (uint64, error) {
	d, err := f.payload(WireVarint)
	if err != nil {
		return 0, err
	}
	v, _, err := d.ReadVarint()
	if err != nil {
		return 0, err
	}
	if !d.EOF() {
		return 0, decodeErr("varint", d.Pos(), ErrMalformedVarint)
	}
	return v, nil
}

// Sint64 decodes the payload of a zigzag varint field
func (f Field) Sint64() (int64, error) {
	d, err := f.payload(WireVarint)
	if err != nil {
		return 0, err
	}
	return NewVarintDecoder(d).DecodeSint64()
}

// Bool decodes the payload of a varint field as bool
func (f Field) Bool() (bool, error) {
	d, err := f.payload(WireVarint)
	if err != nil {
		return false, err
	}
	return NewVarintDecoder(d).DecodeBool()
}

// Fixed32 decodes the payload of a fixed32 field
func (f Field) Fixed32() (uint32, error) {
	d, err := f.payload(WireFixed32)
	if err != nil {
		return 0, err
	}
	return d.DecodeFixed32()
}

// Fixed64 decodes the payload of a fixed64 field
func (f Field) Fixed64() (uint64, error) {
	d, err := f.payload(WireFixed64)
	if err != nil {
		return 0, err
	}
	return d.DecodeFixed64()
}

// Float32 decodes the payload of a fixed32 field as float
func (f Field) Float32() (float32, error) {
	d, err := f.payload(WireFixed32)
	if err != nil {
		return 0, err
	}
	return NewFixedDecoder(d).DecodeFloat32()
}

// Float64 decodes the payload of a fixed64 field as double
func (f Field) Float64() (float64, error) {
	d, err := f.payload(WireFixed64)
	if err != nil {
		return 0, err
	}
	return NewFixedDecoder(d).DecodeFloat64()
}

// Bytes returns the payload of a length-delimited field
func (f Field) Bytes() ([]byte, error) {
	if err := f.expect(WireBytes); err != nil {
		return nil, err
	}
	return f.Payload, nil
}
