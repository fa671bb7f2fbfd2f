package schema

// ProtoFile represents a single .proto file
type ProtoFile struct {
	Name     string     `json:"name"`     // file.proto
	Package  string     `json:"package"`  // package name
	Syntax   string     `json:"syntax"`   // proto2 or proto3
	Imports  []string   `json:"imports"`  // imported file paths as written
	Messages []*Message `json:"messages"` // message definitions
	Enums    []*Enum    `json:"enums"`    // enum definitions
}

// Message represents a protobuf message definition
type Message struct {
	Name        string     `json:"name"`         // "Content"
	FullName    string     `json:"full_name"`    // "chat.Message.Content"
	Fields      []*Field   `json:"fields"`       // message fields, oneof members included
	NestedTypes []*Message `json:"nested_types"` // nested messages
	NestedEnums []*Enum    `json:"nested_enums"` // nested enums
	MapEntry    bool       `json:"map_entry"`    // is this a synthetic map entry?
}

// FieldByName returns the field with the given name, or nil
func (m *Message) FieldByName(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FieldByNumber returns the field with the given number, or nil
func (m *Message) FieldByNumber(number int32) *Field {
	for _, f := range m.Fields {
		if f.Number == number {
			return f
		}
	}
	return nil
}

// Field represents a message field
type Field struct {
	Name     string     `json:"name"`                // "sender_name"
	Number   int32      `json:"number"`              // 1
	Label    FieldLabel `json:"label"`               // optional, required, repeated
	TypeName string     `json:"type_name"`           // "string", "Media", ".chat.Media"
	MapKey   string     `json:"map_key,omitempty"`   // key type for map fields
	MapValue string     `json:"map_value,omitempty"` // value type for map fields
	Oneof    string     `json:"oneof,omitempty"`     // enclosing oneof group
}

// IsMap reports whether the field is a map<K, V>
func (f *Field) IsMap() bool {
	return f.MapKey != ""
}

// IsScalar reports whether the field holds a scalar type
func (f *Field) IsScalar() bool {
	return !f.IsMap() && IsScalarType(f.TypeName)
}

// FieldLabel represents field labels
type FieldLabel string

const (
	LabelOptional FieldLabel = "optional"
	LabelRequired FieldLabel = "required"
	LabelRepeated FieldLabel = "repeated"
)

var scalarTypes = map[string]struct{}{
	"double":   {},
	"float":    {},
	"int64":    {},
	"uint64":   {},
	"int32":    {},
	"fixed64":  {},
	"fixed32":  {},
	"bool":     {},
	"string":   {},
	"bytes":    {},
	"uint32":   {},
	"sfixed32": {},
	"sfixed64": {},
	"sint32":   {},
	"sint64":   {},
}

// IsScalarType checks whether a type name is a protobuf scalar
func IsScalarType(name string) bool {
	_, ok := scalarTypes[name]
	return ok
}

// Enum represents an enum definition
type Enum struct {
	Name     string       `json:"name"`      // "Kind"
	FullName string       `json:"full_name"` // "chat.Kind"
	Values   []*EnumValue `json:"values"`    // enum values
}

// EnumValue represents an enum value
type EnumValue struct {
	Name   string `json:"name"`   // "CHAT"
	Number int32  `json:"number"` // 1
}
