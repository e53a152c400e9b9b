package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fjglira/specrunner/internal/domain"
)

// MarkdownParser parses Markdown suites using goldmark.
//
// Headings open contexts nested by level; fenced blocks whose tag is listed
// become cases of the innermost open context. Repeated heading text opens a
// new context every time.
type MarkdownParser struct{}

// NewMarkdownParser creates a new MarkdownParser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *MarkdownParser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Parse parses a Markdown document into a context tree.
func (p *MarkdownParser) Parse(filePath string, content []byte, tags []string) (*domain.ParsedDocument, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	parsed := &domain.ParsedDocument{
		FilePath: filePath,
		FileType: "markdown",
		Root:     &domain.SuiteNode{},
		Metadata: make(map[string]string),
	}
	o := &outline{open: []*domain.SuiteNode{parsed.Root}}

	wanted := tagSet(tags)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			ctx := o.heading(node.Level, strings.TrimSpace(headingText(node, content)), headingLine(node, content))
			if _, ok := parsed.Metadata["title"]; !ok && node.Level == 1 {
				parsed.Metadata["title"] = ctx.Description
			}
		case *ast.FencedCodeBlock:
			if block, ok := fenceCase(node, content, wanted); ok {
				owner := o.current()
				owner.Cases = append(owner.Cases, block)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
			"failed to walk markdown AST",
			"check the markdown file for syntax issues and make sure fenced blocks use triple backticks",
			err)
	}

	return parsed, nil
}

// outline tracks the chain of open headings. open[0] is the document root.
type outline struct {
	open []*domain.SuiteNode
}

// heading closes every open context at the same or a deeper level and opens
// a new one below what remains.
func (o *outline) heading(level int, description string, line int) *domain.SuiteNode {
	for len(o.open) > 1 && o.current().Level >= level {
		o.open = o.open[:len(o.open)-1]
	}
	ctx := &domain.SuiteNode{Description: description, Level: level, LineNumber: line}
	parent := o.current()
	parent.Children = append(parent.Children, ctx)
	o.open = append(o.open, ctx)
	return ctx
}

func (o *outline) current() *domain.SuiteNode {
	return o.open[len(o.open)-1]
}

// fenceCase turns a fenced block into a case if its tag is wanted. The case
// line is the line of the opening fence.
func fenceCase(node *ast.FencedCodeBlock, content []byte, wanted map[string]bool) (domain.CaseBlock, bool) {
	if node.Info == nil {
		return domain.CaseBlock{}, false
	}
	tag, attrs := parseInfo(string(node.Info.Segment.Value(content)))
	if !wanted[tag] {
		return domain.CaseBlock{}, false
	}

	var body strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		body.Write(seg.Value(content))
	}

	return domain.CaseBlock{
		Tag:        tag,
		Content:    strings.TrimRight(body.String(), "\n"),
		LineNumber: lineNumber(content, node.Info.Segment.Start),
		Attributes: attrs,
	}, true
}

func headingLine(node *ast.Heading, content []byte) int {
	if node.Lines().Len() > 0 {
		return lineNumber(content, node.Lines().At(0).Start)
	}
	if first, ok := node.FirstChild().(*ast.Text); ok {
		return lineNumber(content, first.Segment.Start)
	}
	return 0
}

// parseInfo splits a fence info string such as
//
//	spec it="prints a greeting" timeout=5s skip
//
// into its tag and attributes. Quotes group words and are dropped; a bare
// word is an attribute set to "true".
func parseInfo(info string) (string, map[string]string) {
	fields := splitFields(info, isBlank)
	if len(fields) == 0 {
		return "", make(map[string]string)
	}
	return fields[0], attributes(fields[1:])
}

// attributes turns key=value fields into a map. A bare word maps to "true".
func attributes(fields []string) map[string]string {
	attrs := make(map[string]string)
	for _, f := range fields {
		key, value, found := strings.Cut(f, "=")
		switch {
		case !found:
			attrs[f] = "true"
		case key != "":
			attrs[key] = value
		}
	}
	return attrs
}

func isBlank(r rune) bool { return r == ' ' || r == '\t' }

// splitFields splits s at every rune sep accepts, outside quotes.
func splitFields(s string, sep func(rune) bool) []string {
	var (
		fields  []string
		current strings.Builder
		quote   rune
		pending bool
	)
	flush := func() {
		if pending {
			fields = append(fields, current.String())
			current.Reset()
			pending = false
		}
	}
	for _, r := range s {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			pending = true
		case sep(r):
			flush()
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	flush()
	return fields
}

// headingText concatenates the text segments of a heading.
func headingText(n ast.Node, source []byte) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.String()
}

// lineNumber converts a byte offset into a 1-based line number.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
