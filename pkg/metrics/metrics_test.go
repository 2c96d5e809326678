package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})

			Convey("Then the pipeline metrics should be registered", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["brewrank_pipeline_runs_total"], ShouldBeTrue)
				So(names["brewrank_pipeline_sentiment_errors_total"], ShouldBeTrue)
				So(names["brewrank_pipeline_errors_by_component_total"], ShouldBeTrue)
			})
		})

		Convey("When creating with custom naming", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline activity", func() {
			RecordPipelineRun()
			RecordPipelineDuration(125)
			UpdateListingsLoaded("google", 40)
			UpdateListingsLoaded("yelp", 35)
			UpdateUnkeyableRecords("google", 2)
			UpdateCanonicalShops(50)
			UpdateMergeCollisions(1)
			UpdateReviewBundles(30)
			UpdateRankedShops(50)
			RecordSentimentLatency(3)
			RecordSentimentError()
			RecordHTTPRequest("rankings", "GET", "200")
			RecordHTTPRequestDuration("rankings", "GET", "200", 12)
			RecordErrorByComponent("pipeline", "missing_source")

			Convey("Then the custom registry gathers without error", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestCounterVecNames(t *testing.T) {
	Convey("Given per-family metric counters and gauges", t, func() {
		Convey("When a counter with labels is used", func() {
			RecordErrorByComponent("sentiment", "score_failed")

			Convey("Then the labeled family appears in the registry", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "brewrank_pipeline_errors_by_component_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
