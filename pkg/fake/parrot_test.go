package fake_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolworks/spool/pkg/chat"
	"github.com/spoolworks/spool/pkg/fake"
)

var _ = Describe("Parrot", func() {
	var (
		ctx   context.Context
		model *fake.Parrot
	)

	BeforeEach(func() {
		ctx = context.Background()
		model = fake.NewParrot()
	})

	Describe("Invoke", func() {
		It("echoes the last prompt message", func() {
			prompt := chat.Prompt{
				chat.Human("first"),
				chat.Human("second"),
			}

			out, err := model.Invoke(ctx, prompt)
			Expect(err).NotTo(HaveOccurred())

			Expect(out.Content).To(Equal("second"))
			Expect(out.Role).To(Equal(chat.RoleHuman))
			Expect(out.ID).NotTo(BeEmpty())
		})

		It("preserves the echoed message's fields", func() {
			msg := chat.Human("call").WithFields(
				chat.NewFields().Set("k", chat.String("v")))

			out, err := model.Invoke(ctx, chat.Prompt{msg})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.EqualContent(msg)).To(BeTrue())
		})

		It("rejects an empty prompt", func() {
			_, err := model.Invoke(ctx, chat.Prompt{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Stream", func() {
		It("streams the echoed message and folds back exactly", func() {
			msg := chat.Human("hello world")

			stream, err := model.Stream(ctx, chat.Prompt{msg})
			Expect(err).NotTo(HaveOccurred())

			folded, err := chat.Fold(stream)
			Expect(err).NotTo(HaveOccurred())
			Expect(folded.EqualContent(msg)).To(BeTrue())
		})

		It("rejects an empty prompt", func() {
			_, err := model.Stream(ctx, chat.Prompt{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Batch", func() {
		It("echoes once per prompt", func() {
			out, err := model.Batch(ctx, []chat.Prompt{
				chat.Text("a"),
				chat.Text("b"),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(out).To(HaveLen(2))
			Expect(out[0].Content).To(Equal("a"))
			Expect(out[1].Content).To(Equal("b"))
		})
	})
})
