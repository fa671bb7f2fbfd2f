package protoscan

import (
	"fmt"

	"github.com/anirudhraja/protoscan/fieldpath"
	"github.com/anirudhraja/protoscan/registry"
)

// ===== SCHEMA-AWARE API =====

// Scanner combines schema-less reads with named paths resolved from .proto
// files. Schemas are optional; numeric paths work without any.
type Scanner struct {
	registry *registry.Registry
}

// New creates a Scanner resolving .proto imports against dirs
func New(dirs []string) *Scanner {
	return &Scanner{
		registry: registry.NewRegistry(dirs),
	}
}

// LoadSchema loads a .proto file or a directory of them
func (s *Scanner) LoadSchema(protoPath string) error {
	return s.registry.LoadSchema(protoPath)
}

// Resolve turns a dotted field name path rooted at messageType into a
// numeric path
func (s *Scanner) Resolve(messageType, dotted string) (fieldpath.Path, error) {
	p, err := s.registry.ResolvePath(messageType, dotted)
	if err != nil {
		return nil, fmt.Errorf("resolve %s %q: %w", messageType, dotted, err)
	}
	return p, nil
}

// LookupBytes reads the payload at a named path
func (s *Scanner) LookupBytes(data []byte, messageType, dotted string) ([]byte, error) {
	p, err := s.Resolve(messageType, dotted)
	if err != nil {
		return nil, err
	}
	return NewReader(data).Resolve(p)
}

// LookupString reads the string at a named path. A missing field or a
// payload that is not valid UTF-8 reports ok=false without an error.
func (s *Scanner) LookupString(data []byte, messageType, dotted string) (value string, ok bool, err error) {
	p, err := s.Resolve(messageType, dotted)
	if err != nil {
		return "", false, err
	}
	last, _ := p.Last()
	parent, found := NewReader(data).FollowPath(p.Parent())
	if !found {
		return "", false, nil
	}
	value, ok = parent.GetString(last.Field, last.Occurrence())
	return value, ok, nil
}

// ===== REGISTRY ACCESS =====

func (s *Scanner) GetRegistry() *registry.Registry { return s.registry }
func (s *Scanner) ListMessages() []string          { return s.registry.ListMessages() }
func (s *Scanner) ListEnums() []string             { return s.registry.ListEnums() }
