package machine

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CoreMask", func() {
	It("should report membership", func() {
		m := MaskOf(0, 3, 64, 1023)

		Expect(m.Has(0)).To(BeTrue())
		Expect(m.Has(3)).To(BeTrue())
		Expect(m.Has(64)).To(BeTrue())
		Expect(m.Has(1023)).To(BeTrue())
		Expect(m.Has(1)).To(BeFalse())
		Expect(m.Has(-1)).To(BeFalse())
		Expect(m.Has(2000)).To(BeFalse())
	})

	It("should count and clear cores", func() {
		m := MaskRange(0, 7)
		Expect(m.Count()).To(Equal(8))

		m.Clear(3)
		Expect(m.Count()).To(Equal(7))
		Expect(m.Has(3)).To(BeFalse())
	})

	It("should report emptiness", func() {
		var m CoreMask
		Expect(m.IsEmpty()).To(BeTrue())

		m.Set(100)
		Expect(m.IsEmpty()).To(BeFalse())
	})

	It("should detect intersections", func() {
		a := MaskOf(0, 1)
		b := MaskOf(1, 2)
		c := MaskOf(2, 3)

		Expect(a.Intersects(b)).To(BeTrue())
		Expect(a.Intersects(c)).To(BeFalse())
	})

	It("should list cores in ascending order", func() {
		m := MaskOf(65, 2, 0, 130)

		Expect(m.Cores()).To(Equal([]CoreID{0, 2, 65, 130}))
	})

	It("should render in core-list format", func() {
		Expect(MaskOf().String()).To(Equal(""))
		Expect(MaskOf(5).String()).To(Equal("5"))
		Expect(MaskRange(0, 3).String()).To(Equal("0-3"))
		Expect(MaskOf(0, 1, 2, 5, 7, 8).String()).To(Equal("0-2,5,7-8"))
	})

	It("should panic on out-of-range cores", func() {
		var m CoreMask
		Expect(func() { m.Set(MaxCores) }).To(Panic())
		Expect(func() { m.Set(-1) }).To(Panic())
	})
})
