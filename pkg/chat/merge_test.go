package chat_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolworks/spool/pkg/chat"
)

var _ = Describe("Merge", func() {
	It("concatenates content left to right", func() {
		merged, err := chat.Merge(
			&chat.Chunk{Role: chat.RoleAI, Content: "hello"},
			&chat.Chunk{Role: chat.RoleAI, Content: " world"},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(merged.Content).To(Equal("hello world"))
	})

	It("treats nil as the identity element on either side", func() {
		c := &chat.Chunk{Role: chat.RoleAI, Content: "x", ID: "id-1"}

		left, err := chat.Merge(nil, c)
		Expect(err).NotTo(HaveOccurred())
		Expect(left.Equal(c)).To(BeTrue())

		right, err := chat.Merge(c, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(right.Equal(c)).To(BeTrue())
	})

	It("returns a copy rather than aliasing the identity input", func() {
		c := &chat.Chunk{Fields: chat.NewFields().Set("k", chat.String("v"))}

		merged, err := chat.Merge(nil, c)
		Expect(err).NotTo(HaveOccurred())

		merged.Fields.Set("k", chat.String("changed"))
		v, _ := c.Fields.Get("k")
		Expect(v).To(Equal(chat.String("v")))
	})

	It("never mutates its inputs", func() {
		left := &chat.Chunk{Content: "a", Fields: chat.NewFields().Set("k", chat.String("1"))}
		right := &chat.Chunk{Content: "b", Fields: chat.NewFields().Set("k", chat.String("2"))}

		_, err := chat.Merge(left, right)
		Expect(err).NotTo(HaveOccurred())

		lv, _ := left.Fields.Get("k")
		rv, _ := right.Fields.Get("k")
		Expect(lv).To(Equal(chat.String("1")))
		Expect(rv).To(Equal(chat.String("2")))
	})

	It("keeps the first-seen identity", func() {
		merged, err := chat.Merge(
			&chat.Chunk{Content: "a", ID: "first"},
			&chat.Chunk{Content: "b", ID: "second"},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(merged.ID).To(Equal("first"))
	})

	It("adopts the right identity when the left has none", func() {
		merged, err := chat.Merge(
			&chat.Chunk{Content: "a"},
			&chat.Chunk{Content: "b", ID: "second"},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(merged.ID).To(Equal("second"))
	})

	It("concatenates string leaves under the same key", func() {
		merged, err := chat.Merge(
			&chat.Chunk{Fields: chat.NewFields().Set("k", chat.String("ab"))},
			&chat.Chunk{Fields: chat.NewFields().Set("k", chat.String("cd"))},
		)
		Expect(err).NotTo(HaveOccurred())

		v, _ := merged.Fields.Get("k")
		Expect(v).To(Equal(chat.String("abcd")))
	})

	It("merges nested maps recursively", func() {
		left := &chat.Chunk{Fields: chat.NewFields().Set("call",
			chat.Map(chat.NewFields().Set("name", chat.String("move_file"))))}
		right := &chat.Chunk{Fields: chat.NewFields().Set("call",
			chat.Map(chat.NewFields().Set("arguments", chat.String("{}"))))}

		merged, err := chat.Merge(left, right)
		Expect(err).NotTo(HaveOccurred())

		v, _ := merged.Fields.Get("call")
		inner := v.(chat.MapValue).Fields
		Expect(inner.Keys()).To(Equal([]string{"name", "arguments"}))
	})

	It("passes keys present on only one side through unchanged", func() {
		merged, err := chat.Merge(
			&chat.Chunk{Fields: chat.NewFields().Set("foo", chat.Scalar(42))},
			&chat.Chunk{Fields: chat.NewFields().Set("bar", chat.Scalar(24))},
		)
		Expect(err).NotTo(HaveOccurred())

		Expect(merged.Fields.Keys()).To(Equal([]string{"foo", "bar"}))
		foo, _ := merged.Fields.Get("foo")
		Expect(foo).To(Equal(chat.Scalar(42)))
	})

	Describe("incompatible pairings", func() {
		It("fails when a string meets a map", func() {
			_, err := chat.Merge(
				&chat.Chunk{Fields: chat.NewFields().Set("k", chat.String("x"))},
				&chat.Chunk{Fields: chat.NewFields().Set("k", chat.Map(chat.NewFields()))},
			)

			var mergeErr *chat.IncompatibleMergeError
			Expect(err).To(BeAssignableToTypeOf(mergeErr))
			Expect(errors.As(err, &mergeErr)).To(BeTrue())
			Expect(mergeErr.Path).To(Equal("k"))
			Expect(mergeErr.LeftKind).To(Equal("string"))
			Expect(mergeErr.RightKind).To(Equal("map"))
		})

		It("fails for two scalars under the same key", func() {
			_, err := chat.Merge(
				&chat.Chunk{Fields: chat.NewFields().Set("k", chat.Scalar(1))},
				&chat.Chunk{Fields: chat.NewFields().Set("k", chat.Scalar(2))},
			)

			var mergeErr *chat.IncompatibleMergeError
			Expect(errors.As(err, &mergeErr)).To(BeTrue())
			Expect(mergeErr.LeftKind).To(Equal("scalar"))
		})

		It("reports the full dot path of a nested conflict", func() {
			left := &chat.Chunk{Fields: chat.NewFields().Set("call",
				chat.Map(chat.NewFields().Set("arguments", chat.String("x"))))}
			right := &chat.Chunk{Fields: chat.NewFields().Set("call",
				chat.Map(chat.NewFields().Set("arguments", chat.Scalar(1))))}

			_, err := chat.Merge(left, right)

			var mergeErr *chat.IncompatibleMergeError
			Expect(errors.As(err, &mergeErr)).To(BeTrue())
			Expect(mergeErr.Path).To(Equal("call.arguments"))
		})
	})

	It("fails on conflicting roles", func() {
		_, err := chat.Merge(
			&chat.Chunk{Role: chat.RoleAI},
			&chat.Chunk{Role: chat.RoleHuman},
		)

		var roleErr *chat.RoleConflictError
		Expect(errors.As(err, &roleErr)).To(BeTrue())
		Expect(roleErr.Left).To(Equal(chat.RoleAI))
		Expect(roleErr.Right).To(Equal(chat.RoleHuman))
	})

	It("adopts the role from whichever side carries one", func() {
		merged, err := chat.Merge(
			&chat.Chunk{Content: "a"},
			&chat.Chunk{Role: chat.RoleAI, Content: "b"},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(merged.Role).To(Equal(chat.RoleAI))
	})

	It("commutes across distinct top-level keys", func() {
		foo := &chat.Chunk{Fields: chat.NewFields().Set("foo", chat.Scalar(42))}
		bar := &chat.Chunk{Fields: chat.NewFields().Set("bar", chat.Scalar(24))}

		fooFirst, err := chat.Merge(foo, bar)
		Expect(err).NotTo(HaveOccurred())
		barFirst, err := chat.Merge(bar, foo)
		Expect(err).NotTo(HaveOccurred())

		Expect(fooFirst.Equal(barFirst)).To(BeTrue())
		Expect(fooFirst.Message().EqualContent(barFirst.Message())).To(BeTrue())
	})

	It("is order-sensitive within one key's leaf sequence", func() {
		first := &chat.Chunk{Fields: chat.NewFields().Set("k", chat.String("ab"))}
		second := &chat.Chunk{Fields: chat.NewFields().Set("k", chat.String("cd"))}

		forward, err := chat.Merge(first, second)
		Expect(err).NotTo(HaveOccurred())
		reversed, err := chat.Merge(second, first)
		Expect(err).NotTo(HaveOccurred())

		fv, _ := forward.Fields.Get("k")
		rv, _ := reversed.Fields.Get("k")
		Expect(fv).To(Equal(chat.String("abcd")))
		Expect(rv).To(Equal(chat.String("cdab")))
		Expect(forward.Equal(reversed)).To(BeFalse())
	})

	It("is associative over splitter output", func() {
		chunks, err := chat.NewSplitter().Split(chat.AI("one two three")).Collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(HaveLen(5))

		ab, err := chat.Merge(chunks[0], chunks[1])
		Expect(err).NotTo(HaveOccurred())
		leftFirst, err := chat.Merge(ab, chunks[2])
		Expect(err).NotTo(HaveOccurred())

		bc, err := chat.Merge(chunks[1], chunks[2])
		Expect(err).NotTo(HaveOccurred())
		rightFirst, err := chat.Merge(chunks[0], bc)
		Expect(err).NotTo(HaveOccurred())

		Expect(leftFirst.Equal(rightFirst)).To(BeTrue())
	})
})

var _ = Describe("Fold", func() {
	var splitter *chat.Splitter

	BeforeEach(func() {
		splitter = chat.NewSplitter()
	})

	It("reconstructs a plain message exactly", func() {
		source := chat.AI("hello goodbye")

		folded, err := chat.Fold(splitter.Split(source))
		Expect(err).NotTo(HaveOccurred())

		Expect(folded.EqualContent(source)).To(BeTrue())
		Expect(folded.ID).NotTo(BeEmpty())
	})

	It("reconstructs a message with scalar fields exactly", func() {
		source := chat.AI("hello").WithFields(chat.NewFields().
			Set("foo", chat.Scalar(42)).
			Set("bar", chat.Scalar(24)))

		folded, err := chat.Fold(splitter.Split(source))
		Expect(err).NotTo(HaveOccurred())

		Expect(folded.EqualContent(source)).To(BeTrue())
	})

	It("reconstructs a function call field exactly", func() {
		call := chat.NewFields().
			Set("name", chat.String("move_file")).
			Set("arguments", chat.String(`{"source_path": "foo", "destination_path": "bar"}`))
		source := chat.AI("moving the file").WithFields(
			chat.NewFields().Set("function_call", chat.Map(call)))

		folded, err := chat.Fold(splitter.Split(source))
		Expect(err).NotTo(HaveOccurred())

		Expect(folded.EqualContent(source)).To(BeTrue())
	})

	It("folds an empty stream into the empty message", func() {
		folded, err := chat.Fold(chat.FromChunks())
		Expect(err).NotTo(HaveOccurred())

		Expect(*folded).To(Equal(chat.Message{}))
	})

	It("gives the folded message the stream's shared identity", func() {
		stream := splitter.Split(chat.AI("hello goodbye"))

		folded, err := chat.Fold(stream)
		Expect(err).NotTo(HaveOccurred())

		fresh, err := splitter.Split(chat.AI("hello goodbye")).Collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(folded.ID).NotTo(Equal(fresh[0].ID))
		Expect(folded.ID).NotTo(BeEmpty())
	})

	It("aborts on the first merge error", func() {
		stream := chat.FromChunks(
			&chat.Chunk{Fields: chat.NewFields().Set("k", chat.Scalar(1))},
			&chat.Chunk{Fields: chat.NewFields().Set("k", chat.Scalar(2))},
		)

		_, err := chat.Fold(stream)
		var mergeErr *chat.IncompatibleMergeError
		Expect(errors.As(err, &mergeErr)).To(BeTrue())
	})
})

var _ = Describe("Accumulator", func() {
	It("exposes the running partial after each step", func() {
		acc := &chat.Accumulator{}
		Expect(acc.Chunk()).To(BeNil())

		Expect(acc.Add(&chat.Chunk{Content: "he", ID: "id-1"})).To(Succeed())
		Expect(acc.Chunk().Content).To(Equal("he"))

		Expect(acc.Add(&chat.Chunk{Content: "llo", ID: "id-1"})).To(Succeed())
		Expect(acc.Chunk().Content).To(Equal("hello"))
		Expect(acc.Message().Content).To(Equal("hello"))
		Expect(acc.Message().ID).To(Equal("id-1"))
	})

	It("returns the empty message before the first add", func() {
		acc := &chat.Accumulator{}
		Expect(*acc.Message()).To(Equal(chat.Message{}))
	})
})
