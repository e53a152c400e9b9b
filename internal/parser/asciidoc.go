package parser

import (
	"regexp"
	"strings"

	"github.com/fjglira/specrunner/internal/domain"
)

// AsciiDocParser parses AsciiDoc suites line by line.
//
// Section titles (= to ======) open contexts nested by level. A listing
// block preceded by a [source,<tag>,...] line becomes a case when its tag is
// listed.
type AsciiDocParser struct{}

// NewAsciiDocParser creates a new AsciiDocParser.
func NewAsciiDocParser() *AsciiDocParser {
	return &AsciiDocParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *AsciiDocParser) SupportedExtensions() []string {
	return []string{".adoc", ".asciidoc"}
}

var (
	// [source,spec,it="says hello",timeout=5s]
	asciidocSourceRe = regexp.MustCompile(`^\[source,([^,\]]+)(?:,(.*))?\]\s*$`)
	asciidocDelimRe  = regexp.MustCompile(`^----+\s*$`)
	// = Title, == Section, ...
	asciidocHeadingRe = regexp.MustCompile(`^(={1,6})\s+(.+?)\s*$`)
)

// Parse parses an AsciiDoc document into a context tree.
func (p *AsciiDocParser) Parse(filePath string, content []byte, tags []string) (*domain.ParsedDocument, error) {
	lines := strings.Split(string(content), "\n")
	wanted := tagSet(tags)

	parsed := &domain.ParsedDocument{
		FilePath: filePath,
		FileType: "asciidoc",
		Root:     &domain.SuiteNode{},
		Metadata: make(map[string]string),
	}
	o := &outline{open: []*domain.SuiteNode{parsed.Root}}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}

		if m := asciidocHeadingRe.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			ctx := o.heading(level, m[2], i+1)
			if _, ok := parsed.Metadata["title"]; !ok && level == 1 {
				parsed.Metadata["title"] = ctx.Description
			}
			continue
		}

		// untagged listing blocks are skipped whole
		if asciidocDelimRe.MatchString(line) {
			end, err := closingDelim(lines, i, filePath)
			if err != nil {
				return nil, err
			}
			i = end
			continue
		}

		m := asciidocSourceRe.FindStringSubmatch(line)
		if m == nil || i+1 >= len(lines) || !asciidocDelimRe.MatchString(lines[i+1]) {
			continue
		}
		end, err := closingDelim(lines, i+1, filePath)
		if err != nil {
			return nil, err
		}
		tag := strings.TrimSpace(m[1])
		if wanted[tag] {
			owner := o.current()
			owner.Cases = append(owner.Cases, domain.CaseBlock{
				Tag:        tag,
				Content:    strings.Join(lines[i+2:end], "\n"),
				LineNumber: i + 1,
				Attributes: asciidocAttrs(m[2]),
			})
		}
		i = end
	}

	return parsed, nil
}

// closingDelim returns the index of the ---- line closing the block opened
// at lines[open].
func closingDelim(lines []string, open int, filePath string) (int, error) {
	for j := open + 1; j < len(lines); j++ {
		if asciidocDelimRe.MatchString(lines[j]) {
			return j, nil
		}
	}
	return 0, domain.NewErrorWithSuggestion("parse", filePath, open+1,
		"listing block is never closed",
		"close every ---- block with a matching ---- line", nil)
}

// asciidocAttrs parses the comma separated attributes of a source line.
func asciidocAttrs(s string) map[string]string {
	var fields []string
	for _, f := range splitFields(s, func(r rune) bool { return r == ',' }) {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return attributes(fields)
}

func tagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}
