//go:build integration

package integration

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/daemon"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/infra"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/policy"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/usecase"
	"github.com/eliteGoblin/focusd/anti_cheat/test/fixtures"
)

const (
	protectedApp = domain.AppIdentity("testpoint")
	pollInterval = 20 * time.Millisecond
)

var _ = Describe("Protection engine", func() {
	var (
		foreground *fixtures.FakeForeground
		device     *fixtures.FakeDevice
		recorder   *fixtures.EventRecorder
		engine     *usecase.Engine
	)

	BeforeEach(func() {
		foreground = fixtures.NewFakeForeground(protectedApp)
		device = fixtures.NewFakeDevice()
		recorder = &fixtures.EventRecorder{}

		config := daemon.DefaultMonitorConfig()
		config.PollInterval = pollInterval
		engine = usecase.NewEngine(protectedApp, foreground, recorder, config, zap.NewNop())
		engine.AttachHandle(device)
	})

	AfterEach(func() {
		engine.Shutdown()
	})

	Describe("arming the exam profile", func() {
		var exam domain.Profile

		BeforeEach(func() {
			var err error
			exam, err = policy.NewRegistry().Resolve("exam")
			Expect(err).NotTo(HaveOccurred())
		})

		It("pins the device, blocks capture and starts monitoring", func() {
			results := engine.Arm(exam)

			Expect(results).To(HaveLen(4))
			for op, ok := range results {
				Expect(ok).To(BeTrue(), op)
			}
			Expect(device.Pinned()).To(BeTrue())
			Expect(device.CaptureBlocked()).To(BeTrue())
			Expect(engine.MonitoringState()).To(Equal(domain.MonitoringRunning))
		})

		It("restores the device on disarm", func() {
			engine.Arm(exam)
			engine.Disarm(exam)

			Expect(device.Pinned()).To(BeFalse())
			Expect(device.CaptureBlocked()).To(BeFalse())
			Expect(engine.ProtectionState()).To(Equal(domain.ProtectionState{}))
			Expect(engine.MonitoringState()).To(Equal(domain.MonitoringIdle))
		})

		It("reports failed protections without blocking monitoring", func() {
			device.RejectPin(true)

			results := engine.Arm(exam)

			Expect(results[usecase.OpEnablePinning]).To(BeFalse())
			Expect(results[usecase.OpStartMonitoring]).To(BeTrue())
			Expect(engine.ProtectionState().ScreenPinned).To(BeFalse())
		})
	})

	Describe("monitoring app switches", func() {
		It("stays silent while the protected app is in front", func() {
			Expect(engine.StartMonitoring()).To(BeTrue())

			Eventually(foreground.Calls).Should(BeNumerically(">=", 3))
			Expect(recorder.Len()).To(Equal(0))
		})

		It("reports each tick spent in another app", func() {
			Expect(engine.StartMonitoring()).To(BeTrue())
			foreground.SwitchTo("Browser")

			Eventually(recorder.Len).Should(BeNumerically(">=", 3))

			events := recorder.Events()
			Expect(events[0].AppName).To(Equal("Browser"))
			Expect(events[0].DurationMs).To(Equal(int64(0)))
			Expect(events[1].DurationMs).To(BeNumerically(">", 0))
			Expect(events[1].DetectedAt).To(BeTemporally(">=", events[0].DetectedAt))
		})

		It("treats the protected app name case-insensitively", func() {
			foreground.SwitchTo("TestPoint")
			Expect(engine.StartMonitoring()).To(BeTrue())

			Eventually(foreground.Calls).Should(BeNumerically(">=", 3))
			Expect(recorder.Len()).To(Equal(0))
		})

		It("skips ticks when the foreground cannot be read", func() {
			foreground.Fail(errors.New("permission denied"))
			Expect(engine.StartMonitoring()).To(BeTrue())

			Eventually(foreground.Calls).Should(BeNumerically(">=", 3))
			Expect(recorder.Len()).To(Equal(0))

			foreground.SwitchTo("Browser")
			Eventually(recorder.Len).Should(BeNumerically(">=", 1))
			Expect(recorder.Events()[0].DurationMs).To(Equal(int64(0)))
		})

		It("delivers nothing after stop returns", func() {
			foreground.SwitchTo("Browser")
			Expect(engine.StartMonitoring()).To(BeTrue())
			Eventually(recorder.Len).Should(BeNumerically(">=", 1))

			Expect(engine.StopMonitoring()).To(BeTrue())
			count := recorder.Len()

			Consistently(recorder.Len, 5*pollInterval, pollInterval).Should(Equal(count))
		})
	})

	Describe("shutdown", func() {
		It("unpins, resets state and refuses to restart", func() {
			Expect(engine.EnablePinning()).To(BeTrue())
			Expect(engine.StartMonitoring()).To(BeTrue())

			engine.Shutdown()

			Expect(device.Pinned()).To(BeFalse())
			Expect(engine.ProtectionState()).To(Equal(domain.ProtectionState{}))
			Expect(engine.StartMonitoring()).To(BeFalse())
		})

		It("resets state even when the device refuses to unpin", func() {
			Expect(engine.EnablePinning()).To(BeTrue())
			device.RejectUnpin(true)

			engine.Shutdown()

			Expect(device.Pinned()).To(BeTrue())
			Expect(engine.ProtectionState()).To(Equal(domain.ProtectionState{}))
		})
	})

	Describe("host", func() {
		It("keeps the profile armed until canceled", func() {
			practice, err := policy.NewRegistry().Resolve("practice")
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			host := daemon.NewHost(daemon.DefaultHostConfig(), engine, practice, zap.NewNop())
			go func() { done <- host.Run(ctx) }()

			Eventually(device.CaptureBlocked).Should(BeTrue())
			Expect(device.Pinned()).To(BeFalse())
			Expect(engine.MonitoringState()).To(Equal(domain.MonitoringRunning))

			cancel()
			Eventually(done).Should(Receive(MatchError(context.Canceled)))
			Expect(device.CaptureBlocked()).To(BeFalse())
			Expect(engine.MonitoringState()).To(Equal(domain.MonitoringIdle))
		})
	})
})

var _ = Describe("Event journal", func() {
	It("records switch events fanned out from the monitor", func() {
		dataDir := GinkgoT().TempDir()
		key, err := infra.EnsureKey(infra.NewFileKeyProvider(dataDir))
		Expect(err).NotTo(HaveOccurred())

		journal, err := infra.NewEventJournal(dataDir, key, protectedApp, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		defer journal.Close()

		recorder := &fixtures.EventRecorder{}
		foreground := fixtures.NewFakeForeground("Browser")
		config := daemon.DefaultMonitorConfig()
		config.PollInterval = pollInterval
		engine := usecase.NewEngine(protectedApp, foreground, daemon.NewFanoutSink(recorder, journal), config, zap.NewNop())

		Expect(engine.StartMonitoring()).To(BeTrue())
		Eventually(recorder.Len).Should(BeNumerically(">=", 2))
		engine.Shutdown()

		entries, err := journal.Recent(100)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(recorder.Len()))
		Expect(entries[0].AppName).To(Equal("Browser"))
		Expect(entries[0].ProtectedApp).To(Equal(string(protectedApp)))
	})
})
