package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/anirudhraja/protoscan/schema"
)

// parseProtoFile parses a .proto file with go-protoparser and converts the
// parts we need into schema types
func parseProtoFile(protoPath string) (*schema.ProtoFile, error) {
	f, err := os.Open(protoPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := protoparser.Parse(f, protoparser.WithFilename(filepath.Base(protoPath)))
	if err != nil {
		return nil, err
	}

	file := &schema.ProtoFile{
		Name:   filepath.Base(protoPath),
		Syntax: "proto2", // protoc's default when syntax is omitted
	}
	if parsed.Syntax != nil {
		file.Syntax = strings.Trim(parsed.Syntax.ProtobufVersion, `"'`)
	}

	// The package must be known before names are qualified
	for _, body := range parsed.ProtoBody {
		if pkg, ok := body.(*protoparserparser.Package); ok {
			file.Package = pkg.Name
		}
	}

	for _, body := range parsed.ProtoBody {
		switch b := body.(type) {
		case *protoparserparser.Import:
			file.Imports = append(file.Imports, strings.Trim(b.Location, `"'`))
		case *protoparserparser.Message:
			msg, err := convertMessage(b, file.Package)
			if err != nil {
				return nil, err
			}
			file.Messages = append(file.Messages, msg)
		case *protoparserparser.Enum:
			enum, err := convertEnum(b, file.Package)
			if err != nil {
				return nil, err
			}
			file.Enums = append(file.Enums, enum)
		}
	}
	return file, nil
}

func convertMessage(m *protoparserparser.Message, scope string) (*schema.Message, error) {
	msg := &schema.Message{
		Name:     m.MessageName,
		FullName: getFullName(scope, m.MessageName),
	}

	for _, body := range m.MessageBody {
		switch b := body.(type) {
		case *protoparserparser.Field:
			number, err := parseFieldNumber(b.FieldNumber)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", msg.FullName, b.FieldName, err)
			}
			field := &schema.Field{
				Name:     b.FieldName,
				Number:   number,
				TypeName: b.Type,
				Label:    schema.LabelOptional,
			}
			if b.IsRepeated {
				field.Label = schema.LabelRepeated
			} else if b.IsRequired {
				field.Label = schema.LabelRequired
			}
			msg.Fields = append(msg.Fields, field)
		case *protoparserparser.MapField:
			number, err := parseFieldNumber(b.FieldNumber)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", msg.FullName, b.MapName, err)
			}
			msg.Fields = append(msg.Fields, &schema.Field{
				Name:     b.MapName,
				Number:   number,
				Label:    schema.LabelRepeated,
				TypeName: fmt.Sprintf("map<%s, %s>", b.KeyType, b.Type),
				MapKey:   b.KeyType,
				MapValue: b.Type,
			})
		case *protoparserparser.Oneof:
			for _, of := range b.OneofFields {
				number, err := parseFieldNumber(of.FieldNumber)
				if err != nil {
					return nil, fmt.Errorf("%s.%s: %w", msg.FullName, of.FieldName, err)
				}
				msg.Fields = append(msg.Fields, &schema.Field{
					Name:     of.FieldName,
					Number:   number,
					Label:    schema.LabelOptional,
					TypeName: of.Type,
					Oneof:    b.OneofName,
				})
			}
		case *protoparserparser.Message:
			nested, err := convertMessage(b, msg.FullName)
			if err != nil {
				return nil, err
			}
			msg.NestedTypes = append(msg.NestedTypes, nested)
		case *protoparserparser.Enum:
			enum, err := convertEnum(b, msg.FullName)
			if err != nil {
				return nil, err
			}
			msg.NestedEnums = append(msg.NestedEnums, enum)
		}
	}
	return msg, nil
}

func convertEnum(e *protoparserparser.Enum, scope string) (*schema.Enum, error) {
	enum := &schema.Enum{
		Name:     e.EnumName,
		FullName: getFullName(scope, e.EnumName),
	}
	for _, body := range e.EnumBody {
		ef, ok := body.(*protoparserparser.EnumField)
		if !ok {
			continue
		}
		number, err := strconv.ParseInt(ef.Number, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: invalid enum number %q", enum.FullName, ef.Ident, ef.Number)
		}
		enum.Values = append(enum.Values, &schema.EnumValue{Name: ef.Ident, Number: int32(number)})
	}
	return enum, nil
}

func parseFieldNumber(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid field number %q", s)
	}
	return int32(n), nil
}

func getFullName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

/*
getReferencedType returns the fully qualified name for a type referenced
from inside scope. Fully qualified references start with a dot; otherwise the
name is looked up from the innermost scope outwards, as protoc does.
Ref - https://github.com/protocolbuffers/protobuf/blob/b7a5772caf08d62a20fd1bca258f501fa4db022c/src/google/protobuf/descriptor.proto#L186-L191
*/
func getReferencedType(typeName, scope string, known func(string) bool) (string, error) {
	if strings.HasPrefix(typeName, ".") {
		full := strings.TrimPrefix(typeName, ".")
		if known(full) {
			return full, nil
		}
		return "", fmt.Errorf("%w: %s", ErrTypeNotFound, typeName)
	}

	if result, ok := splitNameAndCheck(typeName, scope, known); ok {
		return result, nil
	}
	if known(typeName) {
		return typeName, nil
	}
	return "", fmt.Errorf("%w: %s", ErrTypeNotFound, typeName)
}

// splitNameAndCheck walks scope from the innermost entity outwards, trying
// scope + "." + typeName at each level
func splitNameAndCheck(typeName, scope string, known func(string) bool) (string, bool) {
	if scope == "" {
		return "", false
	}
	prefixSplit := strings.Split(scope, ".")
	for len(prefixSplit) > 0 {
		entityName := strings.Join(prefixSplit, ".") + "." + typeName
		if known(entityName) {
			return entityName, true
		}
		// Omit the last element in each iteration as we go level above to outer entity
		prefixSplit = prefixSplit[:len(prefixSplit)-1]
	}
	return "", false
}
