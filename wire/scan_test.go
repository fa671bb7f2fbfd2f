package wire

import (
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestScan_Empty(t *testing.T) {
	count := 0
	for range Scan(nil) {
		count++
	}
	if count != 0 {
		t.Fatalf("expected empty sequence, got %d items", count)
	}
}

func TestScan_Fields(t *testing.T) {
	data := NewEncoder().
		VarintField(1, 42).
		StringField(2, "a").
		StringField(2, "b").
		Fixed32Field(3, 9).
		MessageField(4, func(e *Encoder) { e.StringField(1, "nested") }).
		Bytes()

	var numbers []FieldNumber
	var offsets []int
	for f, err := range Scan(data) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		numbers = append(numbers, f.Tag.Number)
		offsets = append(offsets, f.Offset)
	}

	want := []FieldNumber{1, 2, 2, 3, 4}
	if len(numbers) != len(want) {
		t.Fatalf("expected %v, got %v", want, numbers)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Errorf("field %d: expected %d, got %d", i, want[i], numbers[i])
		}
	}

	// Offsets must line up with the reference tag parser
	for i, off := range offsets {
		num, _, n := protowire.ConsumeTag(data[off:])
		if n < 0 || FieldNumber(num) != numbers[i] {
			t.Errorf("offset %d does not point at a tag for field %d", off, numbers[i])
		}
	}
}

func TestScan_RestartsFromFreshCursor(t *testing.T) {
	data := NewEncoder().VarintField(1, 1).VarintField(2, 2).Bytes()
	seq := Scan(data)

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	if first != 2 || second != 2 {
		t.Fatalf("expected both passes to see 2 fields, got %d and %d", first, second)
	}
}

func TestScan_StopsAtCorruption(t *testing.T) {
	data := NewEncoder().VarintField(1, 1).Bytes()
	data = append(data, 0x12, 0x09, 'x') // field 2 claims 9 bytes, has 1

	var seen int
	var scanErr error
	for f, err := range Scan(data) {
		if err != nil {
			scanErr = err
			continue
		}
		if f.Tag.Number != 1 {
			t.Errorf("unexpected field %d", f.Tag.Number)
		}
		seen++
	}
	if seen != 1 {
		t.Errorf("expected 1 good field, got %d", seen)
	}
	if !errors.Is(scanErr, ErrTruncatedBuffer) {
		t.Fatalf("expected truncated buffer, got %v", scanErr)
	}
	var de *DecodeError
	if !errors.As(scanErr, &de) || de.Offset != 3 {
		t.Errorf("expected DecodeError at the length prefix, got %v", scanErr)
	}
}

func TestScan_EarlyBreak(t *testing.T) {
	data := NewEncoder().VarintField(1, 1).VarintField(2, 2).VarintField(3, 3).Bytes()
	d := NewDecoder(data)
	for f, err := range d.Fields() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Tag.Number == 2 {
			break
		}
	}
	// The decoder resumes after the field it stopped on
	f, err := d.ReadField()
	if err != nil || f.Tag.Number != 3 {
		t.Fatalf("expected field 3, got %v, %v", f.Tag, err)
	}
}

func TestCollect_PartialResult(t *testing.T) {
	data := NewEncoder().StringField(1, "ok").Bytes()
	data = append(data, 0x0f) // reserved wire type 7

	fields, err := Collect(data)
	if !errors.Is(err, ErrUnknownWireType) {
		t.Fatalf("expected unknown wire type, got %v", err)
	}
	if len(fields) != 1 || string(fields[0].Payload) != "ok" {
		t.Errorf("expected the field before the corruption, got %v", fields)
	}
}

func TestFind(t *testing.T) {
	data := NewEncoder().
		StringField(2, "a").
		VarintField(1, 5).
		StringField(2, "b").
		Bytes()

	tests := []struct {
		index int
		want  string
		found bool
	}{
		{index: 0, want: "a", found: true},
		{index: 1, want: "a", found: true},
		{index: 2, want: "b", found: true},
		{index: 3, found: false},
	}

	for _, tt := range tests {
		f, ok, err := Find(data, 2, tt.index)
		if err != nil {
			t.Fatalf("index %d: unexpected error: %v", tt.index, err)
		}
		if ok != tt.found {
			t.Fatalf("index %d: expected found=%v", tt.index, tt.found)
		}
		if ok && string(f.Payload) != tt.want {
			t.Errorf("index %d: expected %q, got %q", tt.index, tt.want, f.Payload)
		}
	}
}
