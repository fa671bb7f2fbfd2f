package wire

import "google.golang.org/protobuf/encoding/protowire"

// Encoder handles low-level protobuf wire format encoding. It is used to
// build fixtures and to re-frame extracted payloads.
type Encoder struct {
	buf []byte
}

// NewEncoder creates a new wire format encoder
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0),
	}
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder buffer
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// ENCODER METHODS

// AppendVarint appends a bare varint
func (e *Encoder) AppendVarint(v uint64) *Encoder {
	e.buf = protowire.AppendVarint(e.buf, v)
	return e
}

// AppendTag appends a field tag
func (e *Encoder) AppendTag(number FieldNumber, wireType WireType) *Encoder {
	e.buf = protowire.AppendTag(e.buf, protowire.Number(number), protowire.Type(wireType))
	return e
}

// AppendRaw appends bytes with no framing
func (e *Encoder) AppendRaw(data []byte) *Encoder {
	e.buf = append(e.buf, data...)
	return e
}

// VarintField appends a varint field
func (e *Encoder) VarintField(number FieldNumber, v uint64) *Encoder {
	e.AppendTag(number, WireVarint)
	return e.AppendVarint(v)
}

// SintField appends a zigzag encoded varint field
func (e *Encoder) SintField(number FieldNumber, v int64) *Encoder {
	return e.VarintField(number, protowire.EncodeZigZag(v))
}

// BytesField appends a length-delimited field
func (e *Encoder) BytesField(number FieldNumber, data []byte) *Encoder {
	e.AppendTag(number, WireBytes)
	e.buf = protowire.AppendBytes(e.buf, data)
	return e
}

// StringField appends a length-delimited string field
func (e *Encoder) StringField(number FieldNumber, s string) *Encoder {
	e.AppendTag(number, WireBytes)
	e.buf = protowire.AppendString(e.buf, s)
	return e
}

// Fixed32Field appends a fixed32 field
func (e *Encoder) Fixed32Field(number FieldNumber, v uint32) *Encoder {
	e.AppendTag(number, WireFixed32)
	e.buf = protowire.AppendFixed32(e.buf, v)
	return e
}

// Fixed64Field appends a fixed64 field
func (e *Encoder) Fixed64Field(number FieldNumber, v uint64) *Encoder {
	e.AppendTag(number, WireFixed64)
	e.buf = protowire.AppendFixed64(e.buf, v)
	return e
}

// MessageField appends a nested message built by fn
func (e *Encoder) MessageField(number FieldNumber, fn func(*Encoder)) *Encoder {
	nested := NewEncoder()
	fn(nested)
	return e.BytesField(number, nested.Bytes())
}

// UTILITY FUNCTIONS

// VarintSize returns the number of bytes needed to encode the given varint
func VarintSize(v uint64) int {
	return protowire.SizeVarint(v)
}
