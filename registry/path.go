package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anirudhraja/protoscan/fieldpath"
	"github.com/anirudhraja/protoscan/schema"
	"github.com/anirudhraja/protoscan/wire"
)

// Named path errors.
var (
	ErrFieldNotFound = errors.New("field not found")
	ErrNotMessage    = errors.New("cannot descend into non-message field")
)

// ResolvePath turns a dotted field name path such as "content.media[2].url",
// rooted at message, into a numeric field path. A step may carry a 1-based
// occurrence index in brackets. Map fields descend through their synthetic
// entry message, whose fields are "key" (1) and "value" (2).
func (r *Registry) ResolvePath(message, dotted string) (fieldpath.Path, error) {
	msg, err := r.GetMessage(message)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(strings.TrimSpace(dotted), ".")
	path := make(fieldpath.Path, 0, len(parts))
	for i, part := range parts {
		name, index, err := splitIndex(strings.TrimSpace(part))
		if err != nil {
			return nil, wire.WrapField(err, part)
		}

		field := msg.FieldByName(name)
		if field == nil {
			return nil, fmt.Errorf("%w: %s has no field %q", ErrFieldNotFound, msg.FullName, name)
		}
		path = append(path, fieldpath.Step{Field: wire.FieldNumber(field.Number), Index: index})

		if i == len(parts)-1 {
			break
		}
		msg, err = r.descend(msg, field)
		if err != nil {
			return nil, err
		}
	}
	return path, nil
}

// descend returns the message type held by field
func (r *Registry) descend(parent *schema.Message, field *schema.Field) (*schema.Message, error) {
	if field.IsMap() {
		return r.mapEntry(parent, field), nil
	}
	if field.IsScalar() {
		return nil, fmt.Errorf("%w: %s.%s is %s", ErrNotMessage, parent.FullName, field.Name, field.TypeName)
	}

	full, err := getReferencedType(field.TypeName, parent.FullName, r.isMessage)
	if err != nil {
		if _, enumErr := getReferencedType(field.TypeName, parent.FullName, r.isEnum); enumErr == nil {
			return nil, fmt.Errorf("%w: %s.%s is enum %s", ErrNotMessage, parent.FullName, field.Name, field.TypeName)
		}
		return nil, err
	}
	return r.messages[full], nil
}

// mapEntry builds the synthetic entry message of a map field. FullName keeps
// the parent's scope so the value type resolves against it.
func (r *Registry) mapEntry(parent *schema.Message, field *schema.Field) *schema.Message {
	return &schema.Message{
		Name:     field.Name + "Entry",
		FullName: parent.FullName,
		MapEntry: true,
		Fields: []*schema.Field{
			{Name: "key", Number: 1, Label: schema.LabelOptional, TypeName: field.MapKey},
			{Name: "value", Number: 2, Label: schema.LabelOptional, TypeName: field.MapValue},
		},
	}
}

func (r *Registry) isMessage(name string) bool {
	_, ok := r.messages[name]
	return ok
}

func (r *Registry) isEnum(name string) bool {
	_, ok := r.enums[name]
	return ok
}

// splitIndex splits "media[2]" into ("media", 2)
func splitIndex(part string) (string, int, error) {
	open := strings.IndexByte(part, '[')
	if open < 0 {
		if part == "" {
			return "", 0, errors.New("empty path segment")
		}
		return part, 1, nil
	}
	if open == 0 || !strings.HasSuffix(part, "]") {
		return "", 0, fmt.Errorf("malformed segment %q", part)
	}
	index, err := strconv.Atoi(part[open+1 : len(part)-1])
	if err != nil || index < 1 {
		return "", 0, fmt.Errorf("malformed index in %q", part)
	}
	return part[:open], index, nil
}
