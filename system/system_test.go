package system

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/coreidle/idle"
	"github.com/sarchlab/coreidle/machine"
)

func testBuilder() Builder {
	return MakeBuilder().
		WithCoreCount(2).
		WithPerCoreDrivers().
		WithoutMonitoring().
		WithOutputFileName(filepath.Join(GinkgoT().TempDir(), "run"))
}

var _ = Describe("System", func() {
	var s *System

	BeforeEach(func() {
		s = testBuilder().Build()
	})

	AfterEach(func() {
		s.Terminate()
	})

	It("should wire all the pieces together", func() {
		Expect(s.ID()).NotTo(BeEmpty())
		Expect(s.Machine().CoreCount()).To(Equal(2))
		Expect(s.Registry().CoreCount()).To(Equal(2))
		Expect(s.Coordinator()).NotTo(BeNil())
		Expect(s.Recorder()).NotTo(BeNil())
		Expect(s.Collector()).NotTo(BeNil())
		Expect(s.Monitor()).To(BeNil())

		for c := machine.CoreID(0); c < 2; c++ {
			Expect(s.Device(c).Core()).To(Equal(c))
			Expect(s.Device(c).Proc()).To(
				BeIdenticalTo(s.Machine().Proc(c)))
		}
		Expect(s.Device(2)).To(BeNil())
	})

	It("should switch timers when a timer-stopping driver registers", func() {
		d := &idle.Driver{
			Name: "deep",
			States: []idle.State{
				{Name: "POLL"},
				{Name: "C6", Flags: idle.FlagTimeValid | idle.FlagTimerStop},
			},
		}

		Expect(s.Registry().Register(d)).To(Succeed())

		for c := machine.CoreID(0); c < 2; c++ {
			Expect(s.Coordinator().LocalTimer(c).Suspended()).To(BeTrue())
			Expect(s.Coordinator().Hub().Subscribed(c)).To(BeTrue())
		}

		s.Registry().Unregister(d)

		for c := machine.CoreID(0); c < 2; c++ {
			Expect(s.Coordinator().LocalTimer(c).Suspended()).To(BeFalse())
			Expect(s.Coordinator().Hub().Subscribed(c)).To(BeFalse())
		}
	})

	It("should keep local timers running for shallow drivers", func() {
		d := &idle.Driver{
			Name: "shallow",
			States: []idle.State{
				{Name: "POLL"},
			},
		}

		Expect(s.Registry().Register(d)).To(Succeed())

		Expect(s.Coordinator().LocalTimer(0).Suspended()).To(BeFalse())
		Expect(s.Coordinator().Hub().Subscribed(0)).To(BeFalse())
	})
})

var _ = Describe("Builder", func() {
	It("should refuse a monitor port without monitoring", func() {
		Expect(func() {
			MakeBuilder().
				WithoutMonitoring().
				WithMonitorPort(8080).
				Build()
		}).To(Panic())
	})

	It("should refuse a non-positive tick period", func() {
		Expect(func() {
			MakeBuilder().
				WithoutMonitoring().
				WithTickPeriod(-time.Millisecond).
				Build()
		}).To(Panic())
	})
})
