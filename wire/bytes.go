package wire

// BytesDecoder handles length-delimited bytes decoding operations
type BytesDecoder struct {
	decoder *Decoder
}

// NewBytesDecoder creates a new bytes decoder
func NewBytesDecoder(d *Decoder) *BytesDecoder {
	return &BytesDecoder{decoder: d}
}

// DECODER METHODS

// DecodeRawBytes decodes a length-delimited payload without copying (shares buffer).
// The cursor does not move if the declared length exceeds the bytes left before the end bound.
func (bd *BytesDecoder) DecodeRawBytes() ([]byte, error) {
	d := bd.decoder
	start := d.pos

	// First decode the length as a varint
	length, _, err := d.ReadVarint()
	if err != nil {
		return nil, err
	}

	if length > uint64(d.end-d.pos) {
		d.pos = start
		return nil, decodeErr("payload", start, ErrTruncatedBuffer)
	}

	n := int(length)
	data := d.buf[d.pos : d.pos+n : d.pos+n]
	d.pos += n

	return data, nil
}

// SkipBytes skips over a length-delimited byte array
func (bd *BytesDecoder) SkipBytes() error {
	_, err := bd.DecodeRawBytes()
	return err
}
