// Package registry holds the tree of contexts and the cases attached to each.
//
// Registration only ever appends. Two contexts with the same description at
// the same nesting point are two distinct nodes, and a case is reachable only
// through the context that owns it.
package registry

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/fjglira/specrunner/internal/assert"
	"github.com/fjglira/specrunner/internal/domain"
)

// Body is the executable part of a case.
type Body func(t *assert.T)

// Context is a node of the registration tree. Its identity is its position
// in the tree, never its description.
type Context struct {
	Description string
	Children    []*Context
	Cases       []*Case

	parent   *Context
	registry *Registry
}

// Case is a unit of execution owned by exactly one Context.
type Case struct {
	Description string
	Body        Body // nil means the case is a skip
	Seq         int
	Location    domain.Location
	Context     *Context
}

// Registry owns the root context and hands out sequence numbers.
type Registry struct {
	root   *Context
	seq    int
	sealed bool
}

// New creates an empty registry.
func New() *Registry {
	r := &Registry{}
	r.root = &Context{registry: r}
	return r
}

// Root returns the unnamed root context.
func (r *Registry) Root() *Context {
	return r.root
}

// Seal ends the registration phase. Registering afterwards panics.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether registration has ended.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Count returns the number of registered cases.
func (r *Registry) Count() int {
	n := 0
	r.Walk(func(c *Context, _ int) {
		n += len(c.Cases)
	})
	return n
}

// Walk visits every context pre-order, root first at depth 0.
func (r *Registry) Walk(fn func(c *Context, depth int)) {
	var visit func(c *Context, depth int)
	visit = func(c *Context, depth int) {
		fn(c, depth)
		for _, child := range c.Children {
			visit(child, depth+1)
		}
	}
	visit(r.root, 0)
}

// OpenContext appends a new child context to parent. A nil parent means the root.
func (r *Registry) OpenContext(parent *Context, description string) *Context {
	r.mustBeOpen()
	if parent == nil {
		parent = r.root
	}
	child := &Context{
		Description: description,
		parent:      parent,
		registry:    r,
	}
	parent.Children = append(parent.Children, child)
	return child
}

// AddCase appends a case to ctx, recording the caller as its location.
func (r *Registry) AddCase(ctx *Context, description string, body Body) *Case {
	return r.AddCaseAt(ctx, description, body, CallerLocation(2))
}

// AddCaseAt appends a case to ctx with an explicit registration location.
func (r *Registry) AddCaseAt(ctx *Context, description string, body Body, loc domain.Location) *Case {
	r.mustBeOpen()
	if ctx == nil {
		ctx = r.root
	}
	r.seq++
	c := &Case{
		Description: description,
		Body:        body,
		Seq:         r.seq,
		Location:    loc,
		Context:     ctx,
	}
	ctx.Cases = append(ctx.Cases, c)
	return c
}

// Describe opens a top-level context and runs fn to populate it.
func (r *Registry) Describe(description string, fn func(c *Context)) *Context {
	return r.root.Describe(description, fn)
}

func (r *Registry) mustBeOpen() {
	if r.sealed {
		panic("registry: registration after the run started")
	}
}

// Describe opens a nested context and runs fn to populate it.
func (c *Context) Describe(description string, fn func(c *Context)) *Context {
	child := c.registry.OpenContext(c, description)
	if fn != nil {
		fn(child)
	}
	return child
}

// It registers a case. A nil body registers a skip.
func (c *Context) It(description string, body Body) *Case {
	return c.registry.AddCaseAt(c, description, body, CallerLocation(2))
}

// Parent returns the owning context, or nil for the root.
func (c *Context) Parent() *Context {
	return c.parent
}

// Path returns the descriptions from the outermost context down to c.
func (c *Context) Path() domain.DescriptionPath {
	if c.parent == nil {
		return nil
	}
	return c.parent.Path().Append(c.Description)
}

// Path returns the full description path of the case.
func (cs *Case) Path() domain.DescriptionPath {
	return cs.Context.Path().Append(cs.Description)
}

var nonWord = regexp.MustCompile(`[^A-Za-z0-9]+`)

// DisplayName is a stable identifier derived from the sequence number, so
// duplicate descriptions never collide.
func (cs *Case) DisplayName() string {
	name := strings.Trim(nonWord.ReplaceAllString(cs.Description, "_"), "_")
	return fmt.Sprintf("test_%04d_%s", cs.Seq, name)
}

// CallerLocation reports the source position skip frames up the stack, as
// runtime.Caller counts them from inside this function.
func CallerLocation(skip int) domain.Location {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return domain.Location{File: "unknown", Line: 0}
	}
	return domain.Location{File: file, Line: line}
}
