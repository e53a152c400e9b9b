package parser

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fjglira/specrunner/internal/domain"
)

// Parser extracts the context tree and cases from a suite document.
type Parser interface {
	Parse(filePath string, content []byte, tags []string) (*domain.ParsedDocument, error)
	SupportedExtensions() []string
}

// ParserRegistry maps file extensions to parsers.
type ParserRegistry interface {
	Register(parser Parser)
	ParserFor(extension string) (Parser, error)
}

// DefaultRegistry is a thread-safe parser registry.
type DefaultRegistry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		parsers: make(map[string]Parser),
	}
}

// NewDefaultRegistry returns a registry with every built-in parser. The
// plaintext parser uses DefaultBlockStart and DefaultBlockEnd.
func NewDefaultRegistry() *DefaultRegistry {
	r, err := NewRegistryWithMarkers(DefaultBlockStart, DefaultBlockEnd)
	if err != nil {
		panic(err)
	}
	return r
}

// NewRegistryWithMarkers returns a registry with every built-in parser and a
// plaintext parser using the given block markers.
func NewRegistryWithMarkers(blockStart, blockEnd string) (*DefaultRegistry, error) {
	plain, err := NewPlaintextParser(blockStart, blockEnd)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	r.Register(NewMarkdownParser())
	r.Register(NewYAMLParser())
	r.Register(NewAsciiDocParser())
	r.Register(plain)
	return r, nil
}

// Register adds a parser to the registry for each of its supported extensions.
// A later registration for the same extension replaces the earlier one.
func (r *DefaultRegistry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range p.SupportedExtensions() {
		r.parsers[normalizeExt(ext)] = p
	}
}

// ParserFor returns the parser registered for the given file extension.
func (r *DefaultRegistry) ParserFor(extension string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.parsers[normalizeExt(extension)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no parser registered for extension %q", extension)
}

// Extensions lists the registered extensions, sorted.
func (r *DefaultRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, "."+ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
