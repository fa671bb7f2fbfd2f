package schema

import "testing"

func TestMessageLookup(t *testing.T) {
	msg := &Message{
		Name: "Content",
		Fields: []*Field{
			{Name: "text", Number: 1, TypeName: "string"},
			{Name: "media", Number: 2, TypeName: "Media", Label: LabelRepeated},
			{Name: "tags", Number: 3, TypeName: "map<string, string>", MapKey: "string", MapValue: "string"},
		},
	}

	if f := msg.FieldByName("media"); f == nil || f.Number != 2 {
		t.Fatalf("expected media field, got %v", f)
	}
	if f := msg.FieldByNumber(1); f == nil || f.Name != "text" {
		t.Fatalf("expected text field, got %v", f)
	}
	if msg.FieldByName("missing") != nil || msg.FieldByNumber(9) != nil {
		t.Fatal("expected nil for missing fields")
	}

	if !msg.Fields[0].IsScalar() {
		t.Error("text should be scalar")
	}
	if msg.Fields[1].IsScalar() {
		t.Error("media should not be scalar")
	}
	if !msg.Fields[2].IsMap() || msg.Fields[2].IsScalar() {
		t.Error("tags should be a map")
	}
}
