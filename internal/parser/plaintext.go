package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fjglira/specrunner/internal/domain"
)

// Default plaintext block markers:
//
//	@begin(spec it="lists files" timeout=5s)
//	ls
//	@end
const (
	DefaultBlockStart = `^\s*@begin\((\S+)(?:\s+(.*))?\)\s*$`
	DefaultBlockEnd   = `^\s*@end\s*$`
)

// PlaintextParser parses text suites using configurable block markers.
// A line underlined with === opens a level 1 context, one underlined with
// --- a level 2 context.
type PlaintextParser struct {
	blockStart *regexp.Regexp
	blockEnd   *regexp.Regexp
}

// NewPlaintextParser creates a PlaintextParser. blockStart must capture the
// tag and may capture the attributes as a second group.
func NewPlaintextParser(blockStart, blockEnd string) (*PlaintextParser, error) {
	startRe, err := regexp.Compile(blockStart)
	if err != nil {
		return nil, fmt.Errorf("invalid block_start pattern: %w", err)
	}
	if startRe.NumSubexp() < 1 {
		return nil, fmt.Errorf("block_start pattern %q must capture the tag", blockStart)
	}
	endRe, err := regexp.Compile(blockEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid block_end pattern: %w", err)
	}
	return &PlaintextParser{blockStart: startRe, blockEnd: endRe}, nil
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *PlaintextParser) SupportedExtensions() []string {
	return []string{".txt", ".rst"}
}

// Parse parses a plaintext document into a context tree.
func (p *PlaintextParser) Parse(filePath string, content []byte, tags []string) (*domain.ParsedDocument, error) {
	lines := strings.Split(string(content), "\n")
	wanted := tagSet(tags)

	parsed := &domain.ParsedDocument{
		FilePath: filePath,
		FileType: "plaintext",
		Root:     &domain.SuiteNode{},
		Metadata: make(map[string]string),
	}
	o := &outline{open: []*domain.SuiteNode{parsed.Root}}

	for i := 0; i < len(lines); i++ {
		if m := p.blockStart.FindStringSubmatch(lines[i]); m != nil {
			end := i + 1
			for end < len(lines) && !p.blockEnd.MatchString(lines[end]) {
				end++
			}
			if end == len(lines) {
				return nil, domain.NewErrorWithSuggestion("parse", filePath, i+1,
					"block is never closed", "end every block with its closing marker", nil)
			}
			if wanted[m[1]] {
				var attrs map[string]string
				if len(m) > 2 {
					attrs = attributes(splitFields(m[2], isBlank))
				} else {
					attrs = make(map[string]string)
				}
				owner := o.current()
				owner.Cases = append(owner.Cases, domain.CaseBlock{
					Tag:        m[1],
					Content:    strings.Join(lines[i+1:end], "\n"),
					LineNumber: i + 1,
					Attributes: attrs,
				})
			}
			i = end
			continue
		}

		title := strings.TrimSpace(lines[i])
		if title == "" || i+1 >= len(lines) {
			continue
		}
		if level := underlineLevel(strings.TrimSpace(lines[i+1])); level > 0 {
			ctx := o.heading(level, title, i+1)
			if _, ok := parsed.Metadata["title"]; !ok && level == 1 {
				parsed.Metadata["title"] = ctx.Description
			}
			i++
		}
	}

	return parsed, nil
}

// underlineLevel returns 1 for ===, 2 for --- (at least three of either)
// and 0 for anything else.
func underlineLevel(s string) int {
	if len(s) < 3 {
		return 0
	}
	switch {
	case strings.Count(s, "=") == len(s):
		return 1
	case strings.Count(s, "-") == len(s):
		return 2
	}
	return 0
}
