package tick

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/coreidle/machine"
)

type tickCounter struct {
	mu     sync.Mutex
	counts map[machine.CoreID]int
}

func newTickCounter() *tickCounter {
	return &tickCounter{counts: make(map[machine.CoreID]int)}
}

func (c *tickCounter) fire(core machine.CoreID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[core]++
}

func (c *tickCounter) count(core machine.CoreID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[core]
}

var _ = Describe("LocalTimer", func() {
	var (
		counter *tickCounter
		timer   *LocalTimer
	)

	BeforeEach(func() {
		counter = newTickCounter()
		timer = NewLocalTimer(0, time.Millisecond, counter.fire)
	})

	AfterEach(func() {
		timer.Stop()
	})

	It("should fire periodically", func() {
		Eventually(func() int {
			return counter.count(0)
		}).Should(BeNumerically(">=", 3))
	})

	It("should not fire while suspended", func() {
		timer.Suspend()
		Expect(timer.Suspended()).To(BeTrue())

		settled := counter.count(0)
		Consistently(func() int {
			return counter.count(0)
		}, 20*time.Millisecond).Should(BeNumerically("<=", settled+1))
	})

	It("should fire again after resuming", func() {
		timer.Suspend()
		timer.Resume()
		Expect(timer.Suspended()).To(BeFalse())

		before := counter.count(0)
		Eventually(func() int {
			return counter.count(0)
		}).Should(BeNumerically(">", before))
	})
})

var _ = Describe("BroadcastHub", func() {
	var (
		counter *tickCounter
		hub     *BroadcastHub
	)

	BeforeEach(func() {
		counter = newTickCounter()
		hub = NewBroadcastHub(time.Millisecond, counter.fire)
	})

	AfterEach(func() {
		hub.Stop()
	})

	It("should wake every subscribed core", func() {
		hub.Subscribe(0)
		hub.Subscribe(2)

		Eventually(func() int { return counter.count(0) }).
			Should(BeNumerically(">=", 2))
		Eventually(func() int { return counter.count(2) }).
			Should(BeNumerically(">=", 2))
		Expect(counter.count(1)).To(BeZero())
	})

	It("should stop waking unsubscribed cores", func() {
		hub.Subscribe(0)
		Eventually(func() int { return counter.count(0) }).
			Should(BeNumerically(">=", 1))

		hub.Unsubscribe(0)
		Expect(hub.Subscribed(0)).To(BeFalse())

		settled := counter.count(0)
		Consistently(func() int {
			return counter.count(0)
		}, 20*time.Millisecond).Should(BeNumerically("<=", settled+1))
	})
})

var _ = Describe("Coordinator", func() {
	var (
		m     *machine.Machine
		coord *Coordinator
	)

	BeforeEach(func() {
		m = machine.MakeBuilder().WithCoreCount(2).Build()
		coord = NewCoordinator(m, time.Millisecond)
	})

	AfterEach(func() {
		coord.Stop()
		m.Shutdown()
	})

	It("should switch a core between local timer and broadcast", func() {
		coord.EnterBroadcast(0)

		Expect(coord.LocalTimer(0).Suspended()).To(BeTrue())
		Expect(coord.Hub().Subscribed(0)).To(BeTrue())
		Expect(coord.LocalTimer(1).Suspended()).To(BeFalse())

		coord.ExitBroadcast(0)

		Expect(coord.LocalTimer(0).Suspended()).To(BeFalse())
		Expect(coord.Hub().Subscribed(0)).To(BeFalse())
	})

	It("should keep waking a broadcast core", func() {
		coord.EnterBroadcast(1)

		m.Proc(1).ClearNeedResched()
		Eventually(m.Proc(1).NeedResched).Should(BeTrue())
	})
})
