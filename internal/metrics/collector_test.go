package metrics_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/healthcheck/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		log       *slog.Logger
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError, // Suppress logs in tests
		}))
		ctx, cancel = context.WithCancel(context.Background())
		collector = metrics.NewCollector(100, log)
	})

	AfterEach(func() {
		cancel()
	})

	Describe("EventChannel", func() {
		It("should return a write-only channel", func() {
			Expect(collector.EventChannel()).NotTo(BeNil())
		})
	})

	Describe("Start and event processing", func() {
		It("should process EventAttemptCompleted", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.Event{
				Type:       metrics.EventAttemptCompleted,
				Timestamp:  time.Now(),
				Host:       host,
				Attempt:    1,
				Duration:   20 * time.Millisecond,
				StatusCode: 500,
			}

			Eventually(func() int64 {
				return collector.Snapshot().Hosts[host].Failures
			}).Should(Equal(int64(1)))
		})

		It("should process EventHostCompleted", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.Event{
				Type:      metrics.EventHostCompleted,
				Timestamp: time.Now(),
				Host:      host,
				Healthy:   true,
			}

			Eventually(func() bool {
				return collector.Snapshot().Hosts[host].Healthy
			}).Should(BeTrue())
		})

		It("should drain events on context cancellation", func() {
			collector.Start(ctx)

			for i := 1; i <= 5; i++ {
				collector.EventChannel() <- metrics.Event{
					Type:      metrics.EventAttemptCompleted,
					Timestamp: time.Now(),
					Host:      host,
					Attempt:   i,
					Reachable: true,
				}
			}

			cancel()
			Eventually(collector.Done()).Should(BeClosed())

			Expect(collector.Snapshot().Hosts[host].Attempts).To(Equal(int64(5)))
		})

		It("should process events buffered before Start", func() {
			collector.EventChannel() <- metrics.Event{
				Type:      metrics.EventAttemptCompleted,
				Host:      host,
				Reachable: true,
			}

			cancel()
			collector.Start(ctx)
			Eventually(collector.Done()).Should(BeClosed())

			Expect(collector.Snapshot().TotalAttempts).To(Equal(int64(1)))
		})
	})
})
