package nop_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolworks/spool/pkg/eventstream"
	"github.com/spoolworks/spool/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	var (
		ctx context.Context
		pub *nop.Publisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		pub = nop.NewPublisher()
	})

	It("accepts valid events", func() {
		Expect(pub.PublishStreamStart(ctx, eventstream.NewStreamStartEvent("run-1", nil))).To(Succeed())
		Expect(pub.PublishToken(ctx, eventstream.NewTokenEvent("run-1", "x", nil))).To(Succeed())
	})

	It("rejects nil events", func() {
		Expect(pub.PublishStreamStart(ctx, nil)).To(MatchError(eventstream.ErrNilEvent))
		Expect(pub.PublishToken(ctx, nil)).To(MatchError(eventstream.ErrNilEvent))
	})

	It("closes without error", func() {
		Expect(pub.Close()).To(Succeed())
	})
})
