package domain

// ParsedDocument holds the result of parsing a single suite document.
type ParsedDocument struct {
	FilePath string
	FileType string            // "markdown", "yaml"
	Root     *SuiteNode        // Unnamed root; its children are the top-level contexts
	Metadata map[string]string // Any document-level metadata found
}

// SuiteNode is one context of a suite document, in source order.
type SuiteNode struct {
	Description string
	Level       int // Heading level for markdown, nesting depth for yaml
	LineNumber  int
	Cases       []CaseBlock
	Children    []*SuiteNode
}

// CaseBlock represents a single case extracted from a document.
type CaseBlock struct {
	Tag        string            // The matched tag (e.g. "spec")
	Content    string            // Command to run; empty means no body
	LineNumber int               // 1-based line number in source
	Attributes map[string]string // Key-value attributes from the fence info or yaml keys
}

// CountCases returns the number of cases in n and all of its descendants.
func (n *SuiteNode) CountCases() int {
	if n == nil {
		return 0
	}
	count := len(n.Cases)
	for _, child := range n.Children {
		count += child.CountCases()
	}
	return count
}

// CaseSpec is a document case resolved against the configuration, ready to
// be registered.
type CaseSpec struct {
	Description  string
	Command      string
	ExpectedExit int
	ExpectOutput string
	Timeout      string
	Location     Location
	Skip         bool
}
