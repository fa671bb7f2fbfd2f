package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anirudhraja/protoscan/schema"
)

// Lookup errors.
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrEnumNotFound    = errors.New("enum not found")
	ErrTypeNotFound    = errors.New("type not resolved")
)

// Registry allows us to store the schema of the protobuf messages. We look
// this up when we need to turn field names into field numbers.
type Registry struct {
	ProtoDirectories []string // include paths searched for imports

	files    map[string]*schema.ProtoFile // cleaned file path -> file
	messages map[string]*schema.Message   // fully qualified name -> message
	enums    map[string]*schema.Enum      // fully qualified name -> enum
}

// NewRegistry creates a registry resolving imports against dirs
func NewRegistry(dirs []string) *Registry {
	return &Registry{
		ProtoDirectories: dirs,
		files:            make(map[string]*schema.ProtoFile),
		messages:         make(map[string]*schema.Message),
		enums:            make(map[string]*schema.Enum),
	}
}

// LoadSchema loads a single .proto file, or every .proto file below a
// directory, along with the files they import.
func (r *Registry) LoadSchema(protoPath string) error {
	info, err := os.Stat(protoPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(protoPath, ".proto") {
			return fmt.Errorf("file %s is not a .proto file", protoPath)
		}
		return r.loadFile(protoPath)
	}

	err = filepath.WalkDir(protoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories and non-proto files
		if d.IsDir() || !strings.HasSuffix(path, ".proto") {
			return nil
		}

		return r.loadFile(path)
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}
	return nil
}

// loadFile parses a file and its imports, skipping files already loaded
func (r *Registry) loadFile(protoPath string) error {
	protoPath = filepath.Clean(protoPath)
	if _, ok := r.files[protoPath]; ok {
		return nil
	}

	file, err := parseProtoFile(protoPath)
	if err != nil {
		return fmt.Errorf("failed to load proto file %s: %w", protoPath, err)
	}
	// Register before descending so import cycles terminate
	r.files[protoPath] = file

	for _, imp := range file.Imports {
		// Well-known types are not shipped alongside user schemas
		if strings.HasPrefix(imp, "google/protobuf/") {
			continue
		}
		importPath, err := r.findIfProtoExists(imp, filepath.Dir(protoPath))
		if err != nil {
			return fmt.Errorf("import %q of %s: %w", imp, protoPath, err)
		}
		if err := r.loadFile(importPath); err != nil {
			return err
		}
	}

	r.registerNames(file)
	return nil
}

// registerNames registers all message and enum names of a file
func (r *Registry) registerNames(file *schema.ProtoFile) {
	for _, msg := range file.Messages {
		r.registerMessage(msg)
	}
	for _, enum := range file.Enums {
		r.enums[enum.FullName] = enum
	}
}

func (r *Registry) registerMessage(msg *schema.Message) {
	r.messages[msg.FullName] = msg
	for _, nested := range msg.NestedTypes {
		r.registerMessage(nested)
	}
	for _, enum := range msg.NestedEnums {
		r.enums[enum.FullName] = enum
	}
}

// findIfProtoExists looks an import up in the include paths, then next to
// the importing file
func (r *Registry) findIfProtoExists(importPath, importerDir string) (string, error) {
	importPath = strings.Trim(importPath, `"`)
	dirs := append(append([]string{}, r.ProtoDirectories...), importerDir)
	for _, dir := range dirs {
		fullPath := filepath.Join(dir, importPath)
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}
	return "", fmt.Errorf("path does not exist: %s", importPath)
}

// GetMessage retrieves a message definition by fully qualified name, falling
// back to a unique suffix match
func (r *Registry) GetMessage(name string) (*schema.Message, error) {
	name = strings.TrimPrefix(name, ".")
	if msg, exists := r.messages[name]; exists {
		return msg, nil
	}

	var match *schema.Message
	for _, fullName := range r.ListMessages() {
		if strings.HasSuffix(fullName, "."+name) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s is ambiguous", ErrMessageNotFound, name)
			}
			match = r.messages[fullName]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, name)
	}
	return match, nil
}

// GetEnum retrieves an enum definition by fully qualified name
func (r *Registry) GetEnum(name string) (*schema.Enum, error) {
	if enum, exists := r.enums[strings.TrimPrefix(name, ".")]; exists {
		return enum, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrEnumNotFound, name)
}

// ListMessages returns all registered message names, sorted
func (r *Registry) ListMessages() []string {
	names := make([]string, 0, len(r.messages))
	for name := range r.messages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListEnums returns all registered enum names, sorted
func (r *Registry) ListEnums() []string {
	names := make([]string, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Files returns the loaded files keyed by path
func (r *Registry) Files() map[string]*schema.ProtoFile {
	return r.files
}
