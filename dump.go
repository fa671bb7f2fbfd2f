package protoscan

import (
	"encoding/hex"
	"encoding/json"
	"unicode"
	"unicode/utf8"

	"github.com/anirudhraja/protoscan/wire"
)

// Node kinds reported by Dump.
const (
	KindVarint  = "varint"
	KindFixed32 = "fixed32"
	KindFixed64 = "fixed64"
	KindString  = "string"
	KindBytes   = "bytes"
	KindMessage = "message"
)

// DefaultMaxDepth bounds how deep Dump guesses nested messages.
const DefaultMaxDepth = 16

// DumpOptions controls schema-less decoding
type DumpOptions struct {
	// MaxDepth is the deepest nesting level tried as a sub-message. Zero
	// means DefaultMaxDepth, a negative value disables nesting.
	MaxDepth int
}

// Node is one decoded field. Offset is the offset of the field's tag in the
// dumped buffer and Length is the payload length.
type Node struct {
	Field    wire.FieldNumber `json:"field"`
	WireType string           `json:"wire_type"`
	Kind     string           `json:"kind"`
	Offset   int              `json:"offset"`
	Length   int              `json:"length"`
	Value    any              `json:"value,omitempty"`
	Children []*Node          `json:"children,omitempty"`
}

// Dump decodes every field of data without a schema, guessing which
// length-delimited payloads are strings and which are nested messages. On a
// decode error the nodes read before the failure are returned with the error.
func Dump(data []byte, opts DumpOptions) ([]*Node, error) {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return dumpRange(data, 0, len(data), 0, opts)
}

// DumpJSON is Dump rendered as indented JSON. Partial output is still
// rendered when the buffer is corrupt.
func DumpJSON(data []byte, opts DumpOptions) ([]byte, error) {
	nodes, decodeErr := Dump(data, opts)
	if nodes == nil {
		nodes = []*Node{}
	}
	out, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return nil, err
	}
	return out, decodeErr
}

func dumpRange(data []byte, start, end, depth int, opts DumpOptions) ([]*Node, error) {
	d := wire.NewDecoderRange(data, start, end)
	var nodes []*Node
	for !d.EOF() {
		f, err := d.ReadField()
		if err != nil {
			return nodes, err
		}

		n := &Node{
			Field:    f.Tag.Number,
			WireType: f.Tag.WireType.String(),
			Offset:   f.Offset,
			Length:   len(f.Payload),
		}
		switch f.Tag.WireType {
		case wire.WireVarint:
			n.Kind = KindVarint
			n.Value, _ = f.Varint()
		case wire.WireFixed32:
			n.Kind = KindFixed32
			n.Value, _ = f.Fixed32()
		case wire.WireFixed64:
			n.Kind = KindFixed64
			n.Value, _ = f.Fixed64()
		case wire.WireBytes:
			payloadEnd := d.Pos()
			classifyBytes(n, data, payloadEnd-len(f.Payload), payloadEnd, depth, opts)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func classifyBytes(n *Node, data []byte, start, end, depth int, opts DumpOptions) {
	payload := data[start:end]
	if isPrintable(payload) {
		n.Kind = KindString
		n.Value = string(payload)
		return
	}

	if opts.MaxDepth > 0 && depth < opts.MaxDepth {
		children, err := dumpRange(data, start, end, depth+1, opts)
		if err == nil && len(children) > 0 {
			n.Kind = KindMessage
			n.Children = children
			return
		}
	}

	n.Kind = KindBytes
	n.Value = hex.EncodeToString(payload)
}

func isPrintable(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
