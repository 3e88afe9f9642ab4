package hooking

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingHook struct {
	received []HookCtx
}

func (h *recordingHook) Func(ctx HookCtx) {
	h.received = append(h.received, ctx)
}

var _ = Describe("HookableBase", func() {
	var (
		hookable *HookableBase
		pos      *HookPos
	)

	BeforeEach(func() {
		hookable = NewHookableBase()
		pos = &HookPos{Name: "Something"}
	})

	It("should invoke every registered hook", func() {
		h1 := &recordingHook{}
		h2 := &recordingHook{}
		hookable.AcceptHook(h1)
		hookable.AcceptHook(h2)

		ctx := HookCtx{Domain: hookable, Pos: pos, Item: "item"}
		hookable.InvokeHook(ctx)

		Expect(h1.received).To(HaveLen(1))
		Expect(h2.received).To(HaveLen(1))
		Expect(h1.received[0].Pos).To(BeIdenticalTo(pos))
		Expect(h1.received[0].Item).To(Equal("item"))
	})

	It("should do nothing without hooks", func() {
		Expect(func() {
			hookable.InvokeHook(HookCtx{Pos: pos})
		}).NotTo(Panic())
	})
})

var _ = Describe("PosLogHook", func() {
	It("should log only the watched positions", func() {
		watched := &HookPos{Name: "Watched"}
		ignored := &HookPos{Name: "Ignored"}

		buf := &bytes.Buffer{}
		hook := NewPosLogHook(log.New(buf, "", 0), watched)

		hook.Func(HookCtx{Pos: ignored, Item: "a"})
		Expect(buf.Len()).To(BeZero())

		hook.Func(HookCtx{Pos: watched, Item: "b"})
		Expect(buf.String()).To(ContainSubstring("Watched: b"))
	})
})
