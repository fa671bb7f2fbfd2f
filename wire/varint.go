package wire

// MaxVarintLen is the longest encoding of a 64-bit varint.
const MaxVarintLen = 10

// VarintDecoder handles varint decoding operations
type VarintDecoder struct {
	decoder *Decoder
}

// NewVarintDecoder creates a new varint decoder
func NewVarintDecoder(d *Decoder) *VarintDecoder {
	return &VarintDecoder{decoder: d}
}

// DECODER METHODS

// DecodeVarint decodes a varint from the current position and returns the
// value along with the number of bytes consumed. On failure the cursor is left
// where the varint started.
func (vd *VarintDecoder) DecodeVarint() (uint64, int, error) {
	d := vd.decoder
	v, n, err := DecodeVarint(d.buf[d.pos:d.end])
	if err != nil {
		return 0, 0, decodeErr("varint", d.pos, err)
	}
	d.pos += n
	return v, n, nil
}

// DecodeSint64 decodes a zigzag-encoded signed varint as int64
func (vd *VarintDecoder) DecodeSint64() (int64, error) {
	v, _, err := vd.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return DecodeZigZag64(v), nil
}

// DecodeBool decodes a varint as bool
func (vd *VarintDecoder) DecodeBool() (bool, error) {
	v, _, err := vd.DecodeVarint()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// SkipVarint skips over a varint without decoding it
func (vd *VarintDecoder) SkipVarint() error {
	_, _, err := vd.DecodeVarint()
	return err
}

// DecodeVarint decodes a varint from the start of b. It returns
// ErrTruncatedBuffer if b ends before the varint terminates and
// ErrMalformedVarint if the encoding runs past MaxVarintLen bytes or
// overflows 64 bits.
func DecodeVarint(b []byte) (uint64, int, error) {
	var result uint64
	var shift uint

	for i := 0; i < MaxVarintLen; i++ {
		if i >= len(b) {
			return 0, 0, ErrTruncatedBuffer
		}

		c := b[i]

		// The tenth byte may only carry the single remaining bit
		if i == MaxVarintLen-1 && c > 1 {
			return 0, 0, ErrMalformedVarint
		}

		// Add the lower 7 bits to result
		result |= uint64(c&0x7F) << shift

		// If MSB is not set, we're done
		if c&0x80 == 0 {
			return result, i + 1, nil
		}

		shift += 7
	}

	return 0, 0, ErrMalformedVarint
}

// UTILITY FUNCTIONS

// DecodeZigZag32 decodes a zigzag-encoded 32-bit integer
func DecodeZigZag32(encoded uint64) int32 {
	return int32((uint32(encoded) >> 1) ^ uint32(-int32(encoded&1)))
}

// DecodeZigZag64 decodes a zigzag-encoded 64-bit integer
func DecodeZigZag64(encoded uint64) int64 {
	return int64((encoded >> 1) ^ uint64(-int64(encoded&1)))
}

// EncodeZigZag32 encodes a signed 32-bit integer using zigzag encoding
func EncodeZigZag32(v int32) uint64 {
	return uint64((uint32(v) << 1) ^ uint32(v>>31))
}

// EncodeZigZag64 encodes a signed 64-bit integer using zigzag encoding
func EncodeZigZag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// ReadVarint - convenience method for main decoder
func (d *Decoder) ReadVarint() (uint64, int, error) {
	vd := NewVarintDecoder(d)
	return vd.DecodeVarint()
}
