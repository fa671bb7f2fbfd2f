package wire

// Decoder is a read cursor over an immutable byte buffer. The cursor never
// moves past the logical end bound. A Decoder is not safe for concurrent use;
// concurrent readers of the same bytes each need their own Decoder.
type Decoder struct {
	buf []byte
	pos int
	end int
}

// NewDecoder creates a new wire format decoder
func NewDecoder(data []byte) *Decoder {
	return &Decoder{
		buf: data,
		pos: 0,
		end: len(data),
	}
}

// NewDecoderRange creates a decoder over data[start:end]. Offsets reported by
// the decoder stay relative to data. Out of range bounds are clamped.
func NewDecoderRange(data []byte, start, end int) *Decoder {
	if end > len(data) || end < 0 {
		end = len(data)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	return &Decoder{
		buf: data,
		pos: start,
		end: end,
	}
}

// Pos returns the cursor offset
func (d *Decoder) Pos() int { return d.pos }

// Remaining returns the number of bytes left before the end bound
func (d *Decoder) Remaining() int { return d.end - d.pos }

// EOF reports whether the cursor reached the end bound
func (d *Decoder) EOF() bool { return d.pos >= d.end }

// ReadTag reads a field tag. On failure the cursor stays at the tag start.
func (d *Decoder) ReadTag() (FieldTag, error) {
	start := d.pos
	v, _, err := d.ReadVarint()
	if err != nil {
		return FieldTag{}, err
	}

	number := v >> 3
	wireType := WireType(v & 0x7)
	if !wireType.Known() {
		d.pos = start
		return FieldTag{}, decodeErr("tag", start, ErrUnknownWireType)
	}
	if number == 0 || number > uint64(MaxFieldNumber) {
		d.pos = start
		return FieldTag{}, decodeErr("tag", start, ErrInvalidFieldNumber)
	}

	return FieldTag{Number: FieldNumber(number), WireType: wireType}, nil
}

// ReadFieldPayload consumes exactly the payload described by tag and returns
// its raw bytes. Varint payloads include their continuation bytes, and
// length-delimited payloads exclude the length prefix.
func (d *Decoder) ReadFieldPayload(tag FieldTag) ([]byte, error) {
	switch tag.WireType {
	case WireVarint:
		start := d.pos
		if _, _, err := d.ReadVarint(); err != nil {
			return nil, err
		}
		return d.buf[start:d.pos:d.pos], nil
	case WireFixed64:
		return NewFixedDecoder(d).DecodeRawFixed(8)
	case WireBytes:
		return NewBytesDecoder(d).DecodeRawBytes()
	case WireFixed32:
		return NewFixedDecoder(d).DecodeRawFixed(4)
	default:
		return nil, decodeErr("payload", d.pos, ErrUnknownWireType)
	}
}

// SkipField consumes the payload described by tag without returning it.
// On failure the cursor stays at the payload start.
func (d *Decoder) SkipField(tag FieldTag) error {
	switch tag.WireType {
	case WireVarint:
		return NewVarintDecoder(d).SkipVarint()
	case WireFixed64:
		_, err := NewFixedDecoder(d).DecodeRawFixed(8)
		return err
	case WireBytes:
		return NewBytesDecoder(d).SkipBytes()
	case WireFixed32:
		_, err := NewFixedDecoder(d).DecodeRawFixed(4)
		return err
	default:
		return decodeErr("payload", d.pos, ErrUnknownWireType)
	}
}

// ReadField decodes a single tag and payload from the current position
func (d *Decoder) ReadField() (Field, error) {
	offset := d.pos
	tag, err := d.ReadTag()
	if err != nil {
		return Field{}, err
	}

	payload, err := d.ReadFieldPayload(tag)
	if err != nil {
		d.pos = offset
		return Field{}, err
	}

	return Field{Tag: tag, Payload: payload, Offset: offset}, nil
}
