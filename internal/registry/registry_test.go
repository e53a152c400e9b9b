package registry_test

import (
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/specrunner/internal/assert"
	"github.com/fjglira/specrunner/internal/registry"
)

func pass(t *assert.T) { t.Assert(true) }

var _ = Describe("Registry", func() {
	var reg *registry.Registry

	BeforeEach(func() {
		reg = registry.New()
	})

	It("should keep two contexts with the same description apart", func() {
		a := reg.Describe("Foo", func(c *registry.Context) { c.It("a", pass) })
		b := reg.Describe("Foo", func(c *registry.Context) { c.It("b", pass) })

		Expect(a).ToNot(BeIdenticalTo(b))
		Expect(reg.Root().Children).To(HaveLen(2))
		Expect(a.Cases).To(HaveLen(1))
		Expect(a.Cases[0].Description).To(Equal("a"))
		Expect(b.Cases).To(HaveLen(1))
		Expect(b.Cases[0].Description).To(Equal("b"))
		Expect(reg.Count()).To(Equal(2))
	})

	It("should keep two cases with the same description", func() {
		ctx := reg.Describe("L1", func(c *registry.Context) {
			c.It("x", pass)
			c.It("x", pass)
		})
		Expect(ctx.Cases).To(HaveLen(2))
		Expect(ctx.Cases[0]).ToNot(BeIdenticalTo(ctx.Cases[1]))
		Expect(ctx.Cases[0].DisplayName()).ToNot(Equal(ctx.Cases[1].DisplayName()))
	})

	It("should attach nested cases only to their own context", func() {
		var inner *registry.Context
		outer := reg.Describe("L1", func(c *registry.Context) {
			c.It("A", pass)
			inner = c.Describe("L2", func(c *registry.Context) {
				c.It("B", pass)
			})
		})
		Expect(outer.Cases).To(HaveLen(1))
		Expect(outer.Cases[0].Description).To(Equal("A"))
		Expect(inner.Cases).To(HaveLen(1))
		Expect(inner.Cases[0].Description).To(Equal("B"))
		Expect(inner.Parent()).To(BeIdenticalTo(outer))
	})

	It("should number cases across the whole registry", func() {
		var seqs []int
		reg.Describe("a", func(c *registry.Context) {
			seqs = append(seqs, c.It("1", pass).Seq)
			c.Describe("b", func(c *registry.Context) {
				seqs = append(seqs, c.It("2", pass).Seq)
			})
		})
		seqs = append(seqs, reg.AddCase(nil, "3", pass).Seq)
		Expect(seqs).To(Equal([]int{1, 2, 3}))
	})

	It("should derive display names from the sequence number", func() {
		var cs *registry.Case
		reg.Describe("blockless it", func(c *registry.Context) {
			cs = c.It("should be reported as a skipped spec", nil)
		})
		Expect(cs.DisplayName()).To(Equal("test_0001_should_be_reported_as_a_skipped_spec"))
		Expect(cs.Body).To(BeNil())
	})

	It("should build the full description path", func() {
		var cs *registry.Case
		reg.Describe("L1", func(c *registry.Context) {
			c.Describe("L2", func(c *registry.Context) {
				cs = c.It("B", pass)
			})
		})
		Expect(cs.Path().String()).To(Equal("L1 L2 B"))
		Expect(reg.Root().Path()).To(BeEmpty())
	})

	It("should record where a case was registered", func() {
		var cs *registry.Case
		_, file, line, _ := runtime.Caller(0)
		reg.Describe("L1", func(c *registry.Context) { cs = c.It("x", nil) })
		Expect(cs.Location.File).To(Equal(file))
		Expect(cs.Location.Line).To(Equal(line + 1))
	})

	It("should record the caller of AddCase", func() {
		_, file, line, _ := runtime.Caller(0)
		cs := reg.AddCase(reg.OpenContext(nil, "ctx"), "x", nil)
		Expect(cs.Location.File).To(Equal(file))
		Expect(cs.Location.Line).To(Equal(line + 1))
	})

	It("should walk contexts pre-order", func() {
		reg.Describe("a", func(c *registry.Context) {
			c.Describe("a1", nil)
			c.Describe("a2", nil)
		})
		reg.Describe("b", nil)

		var seen []string
		reg.Walk(func(c *registry.Context, depth int) {
			if depth > 0 {
				seen = append(seen, c.Description)
			}
		})
		Expect(seen).To(Equal([]string{"a", "a1", "a2", "b"}))
	})

	It("should refuse registration once sealed", func() {
		reg.Seal()
		Expect(reg.Sealed()).To(BeTrue())
		Expect(func() { reg.Describe("late", nil) }).To(Panic())
		Expect(func() { reg.AddCase(nil, "late", pass) }).To(Panic())
	})
})
