package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/okian/senet/internal/adapters/http/api"
	engine "github.com/okian/senet/internal/app"
	"github.com/okian/senet/internal/config"
	"github.com/okian/senet/pkg/logger"
	"github.com/okian/senet/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			// Test with environment variables
			_ = os.Setenv("SENET_ADDR", ":8080")
			_ = os.Setenv("SENET_RATING_PERIOD", "1h")
			defer func() {
				_ = os.Unsetenv("SENET_ADDR")
				_ = os.Unsetenv("SENET_RATING_PERIOD")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RatingPeriod, convey.ShouldEqual, "1h")
			})
		})

		convey.Convey("When testing engine creation", func() {
			cfg := config.New()
			settings, err := cfg.Settings()
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then engine should be creatable with default options", func() {
				eng := engine.New(settings)
				convey.So(eng, convey.ShouldNotBeNil)
			})

			convey.Convey("And engine should be creatable with custom options", func() {
				eng := engine.New(settings, engine.WithPlayerCapacity(1024))
				convey.So(eng, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			cfg := config.New()
			settings, err := cfg.Settings()
			convey.So(err, convey.ShouldBeNil)
			eng := engine.New(settings)
			convey.So(eng, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(eng, eng)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				registry := prometheus.NewRegistry()
				manager := metrics.NewManager(metrics.WithRegistry(registry))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full application setup", func() {
			// Set up test environment
			_ = os.Setenv("SENET_ADDR", ":8080")
			_ = os.Setenv("SENET_RATING_PERIOD", "30m")
			defer func() {
				_ = os.Unsetenv("SENET_ADDR")
				_ = os.Unsetenv("SENET_RATING_PERIOD")
			}()

			convey.Convey("Then all components should work together", func() {
				ctx := context.Background()

				// Load configuration
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)

				// Build settings and engine
				settings, err := cfg.Settings()
				convey.So(err, convey.ShouldBeNil)
				convey.So(settings.PeriodDuration(), convey.ShouldEqual, 30*time.Minute)

				eng := engine.New(settings, engine.WithPlayerCapacity(cfg.PlayerCapacity))
				convey.So(eng, convey.ShouldNotBeNil)

				// Create HTTP server
				server := api.NewServer(eng, eng)
				convey.So(server, convey.ShouldNotBeNil)

				// Create HTTP mux
				mux := http.NewServeMux()
				convey.So(mux, convey.ShouldNotBeNil)

				// Register routes
				server.Register(mux)
				mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			// Set invalid configuration
			_ = os.Setenv("SENET_ADDR", "")
			defer func() { _ = os.Unsetenv("SENET_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing an invalid rating period", func() {
			_ = os.Setenv("SENET_RATING_PERIOD", "soon")
			defer func() { _ = os.Unsetenv("SENET_RATING_PERIOD") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestMainApplicationPerformance(t *testing.T) {
	convey.Convey("Given main application performance", t, func() {
		convey.Convey("When testing component creation performance", func() {
			cfg := config.New()
			settings, err := cfg.Settings()
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then engine creation should be fast", func() {
				start := time.Now()
				eng := engine.New(settings)
				duration := time.Since(start)

				convey.So(eng, convey.ShouldNotBeNil)
				convey.So(duration, convey.ShouldBeLessThan, 100*time.Millisecond)
			})

			convey.Convey("And HTTP server creation should be fast", func() {
				eng := engine.New(settings)
				convey.So(eng, convey.ShouldNotBeNil)

				start := time.Now()
				server := api.NewServer(eng, eng)
				duration := time.Since(start)

				convey.So(server, convey.ShouldNotBeNil)
				convey.So(duration, convey.ShouldBeLessThan, 100*time.Millisecond)
			})

			convey.Convey("And metrics manager creation should be fast", func() {
				start := time.Now()
				// Use a custom registry to avoid duplicate registration issues
				registry := prometheus.NewRegistry()
				manager := metrics.NewManager(metrics.WithRegistry(registry))
				duration := time.Since(start)

				convey.So(manager, convey.ShouldNotBeNil)
				convey.So(duration, convey.ShouldBeLessThan, 100*time.Millisecond)
			})
		})
	})
}
