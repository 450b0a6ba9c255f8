package chat_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolworks/spool/pkg/chat"
)

var _ = Describe("Fields", func() {
	Describe("Set and Get", func() {
		It("preserves insertion order", func() {
			f := chat.NewFields().
				Set("zeta", chat.String("1")).
				Set("alpha", chat.String("2")).
				Set("mid", chat.String("3"))

			Expect(f.Keys()).To(Equal([]string{"zeta", "alpha", "mid"}))
		})

		It("overwrites in place without reordering", func() {
			f := chat.NewFields().
				Set("a", chat.String("1")).
				Set("b", chat.String("2")).
				Set("a", chat.String("updated"))

			Expect(f.Keys()).To(Equal([]string{"a", "b"}))
			v, ok := f.Get("a")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(chat.String("updated")))
		})

		It("reports absent keys", func() {
			_, ok := chat.NewFields().Get("missing")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Clone", func() {
		It("deep copies nested maps", func() {
			inner := chat.NewFields().Set("x", chat.String("1"))
			f := chat.NewFields().Set("nested", chat.Map(inner))

			clone := f.Clone()
			v, _ := clone.Get("nested")
			v.(chat.MapValue).Fields.Set("x", chat.String("changed"))

			original, _ := f.Get("nested")
			ov, _ := original.(chat.MapValue).Fields.Get("x")
			Expect(ov).To(Equal(chat.String("1")))
		})

		It("clones nil to nil", func() {
			var f *chat.Fields
			Expect(f.Clone()).To(BeNil())
		})
	})

	Describe("Equal", func() {
		It("ignores key order", func() {
			a := chat.NewFields().Set("x", chat.String("1")).Set("y", chat.String("2"))
			b := chat.NewFields().Set("y", chat.String("2")).Set("x", chat.String("1"))

			Expect(a.Equal(b)).To(BeTrue())
		})

		It("still distinguishes key order in the JSON encoding", func() {
			a := chat.NewFields().Set("x", chat.String("1")).Set("y", chat.String("2"))
			b := chat.NewFields().Set("y", chat.String("2")).Set("x", chat.String("1"))

			aj, err := json.Marshal(a)
			Expect(err).NotTo(HaveOccurred())
			bj, err := json.Marshal(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(aj)).NotTo(Equal(string(bj)))
		})

		It("distinguishes differing values", func() {
			a := chat.NewFields().Set("x", chat.String("1"))
			b := chat.NewFields().Set("x", chat.String("2"))
			Expect(a.Equal(b)).To(BeFalse())
		})

		It("distinguishes differing key sets", func() {
			a := chat.NewFields().Set("x", chat.String("1"))
			b := chat.NewFields().Set("y", chat.String("1"))
			Expect(a.Equal(b)).To(BeFalse())
		})

		It("treats nil and empty as equal", func() {
			var f *chat.Fields
			Expect(f.Equal(chat.NewFields())).To(BeTrue())
			Expect(chat.NewFields().Equal(f)).To(BeTrue())
		})

		It("compares scalar values structurally", func() {
			a := chat.NewFields().Set("n", chat.Scalar([]any{1, 2}))
			b := chat.NewFields().Set("n", chat.Scalar([]any{1, 2}))
			Expect(a.Equal(b)).To(BeTrue())
		})
	})

	Describe("JSON round trip", func() {
		It("marshals keys in insertion order", func() {
			f := chat.NewFields().
				Set("zeta", chat.String("1")).
				Set("alpha", chat.Scalar(json.Number("42")))

			data, err := json.Marshal(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"zeta":"1","alpha":42}`))
		})

		It("round trips nested objects preserving order", func() {
			input := `{"function_call":{"name":"move_file","arguments":"{}"},"count":3}`

			f := chat.NewFields()
			Expect(json.Unmarshal([]byte(input), f)).To(Succeed())

			out, err := json.Marshal(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal(input))
		})

		It("decodes numbers without losing their text form", func() {
			input := `{"big":12345678901234567890,"frac":0.1}`

			f := chat.NewFields()
			Expect(json.Unmarshal([]byte(input), f)).To(Succeed())

			out, err := json.Marshal(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal(input))
		})

		It("decodes arrays as opaque scalars", func() {
			f := chat.NewFields()
			Expect(json.Unmarshal([]byte(`{"tags":["a","b"]}`), f)).To(Succeed())

			v, ok := f.Get("tags")
			Expect(ok).To(BeTrue())
			Expect(v.Kind()).To(Equal("scalar"))
		})

		It("rejects non-object input", func() {
			f := chat.NewFields()
			Expect(json.Unmarshal([]byte(`[1,2]`), f)).NotTo(Succeed())
		})

		It("marshals a nil mapping as null", func() {
			var f *chat.Fields
			data, err := json.Marshal(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("null"))
		})
	})
})

var _ = Describe("Message", func() {
	It("compares content while ignoring identity", func() {
		a := chat.AI("hello")
		b := chat.AI("hello")
		b.ID = "some-id"

		Expect(a.EqualContent(b)).To(BeTrue())
		Expect(a.Equal(b)).To(BeFalse())
	})

	It("clones without sharing fields", func() {
		msg := chat.AI("hi").WithFields(chat.NewFields().Set("k", chat.String("v")))

		clone := msg.Clone()
		clone.Fields.Set("k", chat.String("changed"))

		v, _ := msg.Fields.Get("k")
		Expect(v).To(Equal(chat.String("v")))
	})

	It("builds a single human message prompt from text", func() {
		prompt := chat.Text("hello")
		Expect(prompt).To(HaveLen(1))
		Expect(prompt[0].Role).To(Equal(chat.RoleHuman))
		Expect(prompt[0].Content).To(Equal("hello"))
	})
})
