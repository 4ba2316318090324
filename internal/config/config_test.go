package config_test

import (
	"testing"

	"github.com/sciencedex/scorecard-audit/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9085")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.OrderVariance, convey.ShouldEqual, 5.0)
			convey.So(cfg.PriorStatementInfluence, convey.ShouldEqual, 3.0)
			convey.So(cfg.ContextualBias, convey.ShouldEqual, 8.0)
			convey.So(cfg.BatchProcessingVariance, convey.ShouldEqual, 4.0)
			convey.So(cfg.TemporalSequenceBias, convey.ShouldEqual, 6.0)
			convey.So(cfg.OrderingIterations, convey.ShouldEqual, 10)
			convey.So(cfg.BatchSizes, convey.ShouldResemble, []int{5, 10, 25, 50})
			convey.So(cfg.ScoringConcurrency, convey.ShouldEqual, 8)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 256)
			convey.So(cfg.ReportRetention, convey.ShouldEqual, 512)
			convey.So(cfg.AuditTimeoutMS, convey.ShouldEqual, 120_000)
		})

		convey.Convey("Then the derived probe configs should validate", func() {
			convey.So(cfg.IndependenceConfig().Validate(), convey.ShouldBeNil)
			convey.So(cfg.BiasConfig().Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the derived configs should mirror the loaded values", func() {
			cfg.OrderVariance = 12.5
			cfg.MinSourceSampleSize = 7

			convey.So(cfg.IndependenceConfig().OrderVariance, convey.ShouldEqual, 12.5)
			convey.So(cfg.BiasConfig().MinSourceSampleSize, convey.ShouldEqual, 7)
		})
	})
}
