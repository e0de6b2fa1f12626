package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shiftmatch/shiftmatch/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func newRegistry() *prometheus.Registry { return prometheus.NewRegistry() }

func TestMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			So(func() {
				metrics.RecordCandidateScored()
				metrics.RecordCandidateDuplicate()
				metrics.RecordScoringLatency(12.5)
				metrics.RecordScoringError()
				metrics.RecordDeckUpsert()
				metrics.UpdateDeckSize(42)
				metrics.RecordDeckReset()
				metrics.RecordDeckError()
			}, ShouldNotPanic)
		})

		Convey("When recording queue and worker metrics", func() {
			So(func() {
				metrics.UpdateQueueSize(10)
				metrics.UpdateQueueCapacity(1000)
				metrics.UpdateQueueUtilization(0.01)
				metrics.RecordQueueEnqueue()
				metrics.RecordQueueDequeue()
				metrics.RecordQueueEnqueueError()
				metrics.UpdateWorkerCount(8)
				metrics.RecordWorkerProcessingLatency(3.2)
				metrics.RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				metrics.RecordHTTPRequest("deck", "GET", "200")
				metrics.RecordHTTPRequestDuration("deck", "GET", "200", 1.5)
				metrics.RecordErrorByComponent("queue", "capacity_exceeded")
				metrics.UpdateSystemMemoryUsage(1 << 20)
				metrics.UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			families, err := metrics.GetRegistry().Gather()

			Convey("Then registered metrics are present", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["shiftmatch_deck_candidates_scored_total"], ShouldBeTrue)
				So(names["shiftmatch_deck_deck_size"], ShouldBeTrue)
				So(names["shiftmatch_deck_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}

func TestNewManagerIsolatedRegistry(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		Convey("When constructed with custom options", func() {
			So(func() {
				metrics.NewManager(
					metrics.WithNamespace("test"),
					metrics.WithSubsystem("suite"),
					metrics.WithHistogramBuckets([]float64{1, 5, 10}),
					metrics.WithRegistry(newRegistry()),
				)
			}, ShouldNotPanic)
		})
	})
}
