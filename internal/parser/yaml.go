package parser

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/specrunner/internal/domain"
)

// YAMLParser parses suites written as YAML:
//
//	describe: Greeter
//	cases:
//	  - it: says hello
//	    run: echo hello
//	    expect_output: hello
//	  - it: waves            # no run: registered without a body
//	contexts:
//	  - describe: when shouting
//	    cases: [...]
//
// The document may also be a sequence of such contexts. Case attributes use
// the canonical attribute names, so no fence tags are involved.
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *YAMLParser) SupportedExtensions() []string {
	return []string{".yaml", ".yml"}
}

type yamlContext struct {
	Describe string        `yaml:"describe"`
	Cases    []yamlCase    `yaml:"cases"`
	Contexts []yamlContext `yaml:"contexts"`
	line     int
}

type yamlCase struct {
	It           string `yaml:"it"`
	Run          string `yaml:"run"`
	ExpectExit   *int   `yaml:"expect_exit"`
	ExpectOutput string `yaml:"expect_output"`
	Timeout      string `yaml:"timeout"`
	Skip         bool   `yaml:"skip"`
	line         int
}

func (c *yamlContext) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlContext
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	c.line = value.Line
	return nil
}

func (c *yamlCase) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlCase
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	c.line = value.Line
	return nil
}

// Parse parses a YAML suite into a context tree.
func (p *YAMLParser) Parse(filePath string, content []byte, _ []string) (*domain.ParsedDocument, error) {
	root := &domain.SuiteNode{}
	parsed := &domain.ParsedDocument{
		FilePath: filePath,
		FileType: "yaml",
		Root:     root,
		Metadata: make(map[string]string),
	}

	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(content)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return parsed, nil
		}
		return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
			"failed to parse yaml suite",
			"a suite is a mapping with describe/cases/contexts keys, or a list of them",
			err)
	}
	if len(doc.Content) == 0 {
		return parsed, nil
	}

	top := doc.Content[0]
	var contexts []yamlContext
	switch top.Kind {
	case yaml.SequenceNode:
		if err := top.Decode(&contexts); err != nil {
			return nil, domain.NewError("parse", filePath, top.Line, "invalid suite list", err)
		}
	case yaml.MappingNode:
		var single yamlContext
		if err := top.Decode(&single); err != nil {
			return nil, domain.NewError("parse", filePath, top.Line, "invalid suite", err)
		}
		contexts = append(contexts, single)
	default:
		return nil, domain.NewError("parse", filePath, top.Line, "suite must be a mapping or a list", nil)
	}

	for _, c := range contexts {
		root.Children = append(root.Children, convertYAMLContext(c, 1))
	}
	if len(contexts) > 0 {
		parsed.Metadata["title"] = contexts[0].Describe
	}
	return parsed, nil
}

func convertYAMLContext(c yamlContext, depth int) *domain.SuiteNode {
	node := &domain.SuiteNode{
		Description: c.Describe,
		Level:       depth,
		LineNumber:  c.line,
	}
	for _, yc := range c.Cases {
		attrs := map[string]string{"case_name": yc.It}
		if yc.ExpectExit != nil {
			attrs["expected_exit_code"] = strconv.Itoa(*yc.ExpectExit)
		}
		if yc.ExpectOutput != "" {
			attrs["expect_output"] = yc.ExpectOutput
		}
		if yc.Timeout != "" {
			attrs["timeout"] = yc.Timeout
		}
		if yc.Skip {
			attrs["skip"] = "true"
		}
		node.Cases = append(node.Cases, domain.CaseBlock{
			Tag:        "yaml",
			Content:    yc.Run,
			LineNumber: yc.line,
			Attributes: attrs,
		})
	}
	for _, child := range c.Contexts {
		node.Children = append(node.Children, convertYAMLContext(child, depth+1))
	}
	return node
}
