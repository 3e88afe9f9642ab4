package idle

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/coreidle/machine"
)

var _ = Describe("Poll state", func() {
	var (
		m        *machine.Machine
		registry *Registry
		driver   *Driver
	)

	BeforeEach(func() {
		m = machine.MakeBuilder().WithCoreCount(1).Build()
		registry = MakeBuilder().WithCoreCount(1).Build()

		driver = plainDriver("d", 2, 0)
		driver.States[0].Name = "WHATEVER"
		driver.States[0].ExitLatency = 5 * time.Millisecond
		driver.States[0].TargetResidency = 20 * time.Millisecond
		driver.States[0].Disabled = true

		Expect(registry.Register(driver)).To(Succeed())
	})

	AfterEach(func() {
		m.Shutdown()
	})

	It("should overwrite slot 0 regardless of what the catalog supplied", func() {
		state := driver.States[0]

		Expect(state.Name).To(Equal("POLL"))
		Expect(state.Desc).To(Equal("COREIDLE CORE POLL IDLE"))
		Expect(state.ExitLatency).To(BeZero())
		Expect(state.TargetResidency).To(BeZero())
		Expect(state.Power).To(Equal(PowerUnknown))
		Expect(state.Flags).To(Equal(FlagTimeValid))
		Expect(state.Disabled).To(BeFalse())
		Expect(state.Enter).NotTo(BeNil())
	})

	It("should leave the other slots alone", func() {
		Expect(driver.States[1].Name).To(Equal("C1"))
	})

	It("should spin until a reschedule request arrives", func() {
		dev := NewDevice(0, m.Proc(0))

		entered := make(chan int)
		go func() {
			entered <- driver.States[0].Enter(dev, driver, 0)
		}()

		Eventually(dev.Proc().IsPolling).Should(BeTrue())
		Consistently(entered).ShouldNot(Receive())

		dev.Proc().KickPoll()

		Eventually(entered).Should(Receive(Equal(0)))
		Expect(dev.Proc().IsPolling()).To(BeFalse())
	})

	It("should skip the spin when a reschedule is already pending", func() {
		dev := NewDevice(0, m.Proc(0))
		dev.Proc().SetNeedResched()

		Expect(driver.States[0].Enter(dev, driver, 0)).To(Equal(0))
		Expect(dev.Proc().IsPolling()).To(BeFalse())
	})
})
