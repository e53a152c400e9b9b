package converter

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fjglira/specrunner/internal/config"
	"github.com/fjglira/specrunner/internal/domain"
	"github.com/fjglira/specrunner/internal/registry"
)

// Converter registers the context tree of parsed documents into a registry.
type Converter interface {
	Convert(doc *domain.ParsedDocument, reg *registry.Registry, tagCfg *config.TagConfig) (int, error)
}

// DefaultConverter implements Converter.
type DefaultConverter struct {
	cmdConfig *config.CommandConfig
	echo      io.Writer
}

// NewConverter creates a new DefaultConverter.
func NewConverter(cmdCfg *config.CommandConfig) *DefaultConverter {
	return &DefaultConverter{cmdConfig: cmdCfg}
}

// WithEcho makes command bodies copy their output to w.
func (c *DefaultConverter) WithEcho(w io.Writer) *DefaultConverter {
	c.echo = w
	return c
}

// resolvedNode mirrors a SuiteNode after every case was validated.
type resolvedNode struct {
	description string
	cases       []domain.CaseSpec
	children    []*resolvedNode
}

// Convert validates every case of doc and then registers the whole tree,
// so a rejected document registers nothing. It returns the number of
// registered cases.
//
// Cases that sit above the first heading go into a context named after the
// file.
func (c *DefaultConverter) Convert(doc *domain.ParsedDocument, reg *registry.Registry, tagCfg *config.TagConfig) (int, error) {
	if doc.Root == nil {
		return 0, nil
	}

	root, err := c.resolve(doc, doc.Root, tagCfg)
	if err != nil {
		return 0, err
	}

	count := 0
	if len(root.cases) > 0 {
		base := filepath.Base(doc.FilePath)
		fileCtx := reg.OpenContext(nil, strings.TrimSuffix(base, filepath.Ext(base)))
		count += c.register(reg, fileCtx, &resolvedNode{cases: root.cases})
	}
	for _, child := range root.children {
		ctx := reg.OpenContext(nil, child.description)
		count += c.register(reg, ctx, child)
	}
	return count, nil
}

func (c *DefaultConverter) resolve(doc *domain.ParsedDocument, node *domain.SuiteNode, tagCfg *config.TagConfig) (*resolvedNode, error) {
	out := &resolvedNode{description: node.Description}
	for i, block := range node.Cases {
		if err := ValidateCommand(block.Content, c.cmdConfig.BlockedPatterns); err != nil {
			return nil, domain.NewErrorWithSuggestion("convert", doc.FilePath, block.LineNumber, err.Error(),
				"if this is intentional, remove the pattern from commands.blocked_patterns in specrunner.yaml", nil)
		}
		out.cases = append(out.cases, c.blockToSpec(doc.FilePath, block, i, tagCfg))
	}
	for _, child := range node.Children {
		rc, err := c.resolve(doc, child, tagCfg)
		if err != nil {
			return nil, err
		}
		out.children = append(out.children, rc)
	}
	return out, nil
}

func (c *DefaultConverter) register(reg *registry.Registry, ctx *registry.Context, node *resolvedNode) int {
	count := 0
	for _, spec := range node.cases {
		var body registry.Body
		if !spec.Skip {
			body = CommandBody(spec, c.cmdConfig, c.echo)
		}
		reg.AddCaseAt(ctx, spec.Description, body, spec.Location)
		count++
	}
	for _, child := range node.children {
		count += c.register(reg, reg.OpenContext(ctx, child.description), child)
	}
	return count
}

// blockToSpec converts a single CaseBlock to a CaseSpec.
func (c *DefaultConverter) blockToSpec(file string, block domain.CaseBlock, index int, tagCfg *config.TagConfig) domain.CaseSpec {
	spec := domain.CaseSpec{
		Command:  strings.TrimSpace(block.Content),
		Location: domain.Location{File: file, Line: block.LineNumber},
	}

	spec.Description = resolveAttribute(block.Attributes, "case_name", tagCfg)
	if spec.Description == "" {
		spec.Description = autoCaseName(spec.Command, index)
	}

	spec.Timeout = resolveAttribute(block.Attributes, "timeout", tagCfg)
	if spec.Timeout == "" {
		spec.Timeout = c.cmdConfig.DefaultTimeout
	}

	spec.ExpectedExit = c.cmdConfig.DefaultExpectedExitCode
	if s := resolveAttribute(block.Attributes, "expected_exit_code", tagCfg); s != "" {
		if code, err := strconv.Atoi(s); err == nil {
			spec.ExpectedExit = code
		}
	}

	spec.ExpectOutput = resolveAttribute(block.Attributes, "expect_output", tagCfg)

	skip := resolveAttribute(block.Attributes, "skip", tagCfg)
	spec.Skip = spec.Command == "" || skip == "true" || skip == "yes"

	return spec
}

// resolveAttribute looks up an attribute by its canonical name, then by
// each key configured for it.
func resolveAttribute(attrs map[string]string, canonical string, tagCfg *config.TagConfig) string {
	if val, ok := attrs[canonical]; ok {
		return val
	}
	if tagCfg == nil {
		return ""
	}
	for _, key := range tagCfg.Attributes[canonical] {
		if val, ok := attrs[key]; ok {
			return val
		}
	}
	return ""
}

// autoCaseName generates a case description from the command content.
func autoCaseName(command string, index int) string {
	first := strings.TrimSpace(strings.SplitN(command, "\n", 2)[0])
	if first == "" {
		return fmt.Sprintf("case %d", index+1)
	}
	if len(first) > 50 {
		first = first[:50]
	}
	return "runs " + first
}
