package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/shatter/featureflag"
	shatterhttp "github.com/aukilabs/shatter/http"
	"github.com/aukilabs/shatter/models"
	"github.com/aukilabs/shatter/partition"
	"github.com/aukilabs/shatter/smoketest"
	swebsocket "github.com/aukilabs/shatter/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

var (
	// The Shatter version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "shatter_info",
		Help:        "Shatter information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr               string        `cli:""        env:"SHATTER_ADDR"                 help:"Listening address for client requests."`
	AdminAddr          string        `cli:""        env:"SHATTER_ADMIN_ADDR"           help:"Admin listening address."`
	LogLevel           string        `cli:""        env:"SHATTER_LOG_LEVEL"            help:"Log level (debug|info|warning|error)."`
	LogIndent          bool          `cli:""        env:"SHATTER_LOG_INDENT"           help:"Indent logs."`
	StackCapacity      int           `cli:""        env:"SHATTER_STACK_CAPACITY"       help:"The maximum number of pending fragments while dissolving a node."`
	MaxNodes           int           `cli:""        env:"SHATTER_MAX_NODES"            help:"The maximum number of nodes in a request."`
	ClientIdleTimeout  time.Duration `cli:",hidden" env:"SHATTER_CLIENT_IDLE_TIMEOUT"  help:"Time until an idle stream client will be disconnected."`
	LogSummaryInterval time.Duration `cli:",hidden" env:"SHATTER_LOG_SUMMARY_INTERVAL" help:"The duration between each log summary by connection."`
	ShutdownTimeout    time.Duration `cli:",hidden" env:"SHATTER_SHUTDOWN_TIMEOUT"     help:"The time given to servers to drain their connections on exit."`
	SmokeTest          smokeConfig   `cli:",hidden" env:"-"                            help:"Smoke test configuration."`
	Events             eventsConfig  `cli:",hidden" env:"-"                            help:"Event pusher configuration."`
	FeatureFlags       []string      `cli:",hidden" env:"SHATTER_FEATURE_FLAGS"        help:"Comma separated feature flags"`
	Version            bool          `cli:""        env:"-"                            help:"Show version."`
	Help               bool          `cli:""        env:"-"                            help:"Show help."`
}

type smokeConfig struct {
	MaxRuns      int           `cli:",hidden" env:"SHATTER_SMOKE_TEST_MAX_RUNS"       help:"The maximum number of partitions computed by a smoke test."`
	MaxArenaSize int           `cli:",hidden" env:"SHATTER_SMOKE_TEST_MAX_ARENA_SIZE" help:"The maximum arena size of a smoke test."`
	MaxNodeCount int           `cli:",hidden" env:"SHATTER_SMOKE_TEST_MAX_NODE_COUNT" help:"The maximum number of nodes per smoke test run."`
	Timeout      time.Duration `cli:",hidden" env:"SHATTER_SMOKE_TEST_TIMEOUT"        help:"The maximum duration of a smoke test."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"SHATTER_EVENTS_ENDPOINT"       help:"Endpoint to where events are pushed."`
	FlushInterval time.Duration `cli:",hidden" env:"SHATTER_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"SHATTER_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"SHATTER_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func main() {
	conf := config{
		Addr:               ":4100",
		AdminAddr:          ":18191",
		LogLevel:           logs.InfoLevel.String(),
		StackCapacity:      partition.DefaultCapacity * 16,
		MaxNodes:           256,
		ClientIdleTimeout:  time.Minute * 5,
		LogSummaryInterval: time.Minute,
		ShutdownTimeout:    time.Second * 10,
		SmokeTest: smokeConfig{
			MaxRuns:      1000,
			MaxArenaSize: 1 << 16,
			MaxNodeCount: 1 << 10,
			Timeout:      time.Second * 30,
		},
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts Shatter server.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     metrics.HTTPTransport(http.DefaultTransport),
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "shatter",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	flags := featureflag.New(conf.FeatureFlags)
	for _, f := range flags.Unknown() {
		logs.WithTag("feature_flag", f).
			Warn(errors.New("unknown feature flag"))
	}

	engine := partition.Engine{Capacity: conf.StackCapacity}
	flags.IfSet(featureflag.FlagLargestOverlap, func() {
		engine.Strategy = partition.LargestOverlap
	})

	sortedEngine := engine
	sortedEngine.SortByInfluence = true
	flags.IfSet(featureflag.FlagSortByInfluence, func() {
		engine = sortedEngine
	})

	newResolver := func(source string) models.Resolver {
		return models.Resolver{
			Partitioner:       partition.WithMetrics(partition.WithLogs(engine), source),
			SortedPartitioner: partition.WithMetrics(partition.WithLogs(sortedEngine), source),
			MaxNodes:          conf.MaxNodes,
			Verify:            flags.IsSet(featureflag.FlagVerifyRegions),
		}
	}

	var service http.ServeMux

	service.Handle("/health", shatterhttp.HandleWithCORS(http.HandlerFunc(shatterhttp.HandleHealthCheck)))
	service.Handle("/ready", shatterhttp.HandleWithCORS(shatterhttp.HandleReadyCheck(func() bool {
		return ctx.Err() == nil
	})))
	service.Handle("/version", shatterhttp.HandleWithCORS(shatterhttp.HandleVersion(version)))
	service.Handle("/regions", shatterhttp.HandleWithCORS(shatterhttp.HandleRegions(newResolver("http"))))

	flags.IfNotSet(featureflag.FlagDisableNoise, func() {
		service.Handle("/noise", shatterhttp.HandleWithCORS(shatterhttp.HandleNoise(newResolver("noise"))))
	})

	flags.IfNotSet(featureflag.FlagDisableStream, func() {
		streamResolver := newResolver("websocket")

		service.Handle("/regions/stream", websocket.Server{
			Handshake: func(c *websocket.Config, r *http.Request) error {
				return nil
			},
			Handler: func(conn *websocket.Conn) {
				defer conn.Close()

				var h swebsocket.Handler = &swebsocket.StreamHandler{
					ClientIdleTimeout: conf.ClientIdleTimeout,
					Resolver:          streamResolver,
				}
				h = swebsocket.HandlerWithLogs(h, conf.LogSummaryInterval)
				h = swebsocket.HandlerWithMetrics(h, conf.Addr)
				defer h.Close()

				swebsocket.Handle(ctx, conn, h)
			},
		})
	})

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", shatterhttp.HandleHealthCheck)
	admin.HandleFunc("/ready", shatterhttp.HandleReadyCheck(func() bool {
		return ctx.Err() == nil
	}))
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))
	admin.HandleFunc("/smoke-test", smoketest.HandleSmokeTest(ctx, smoketest.Options{
		Partitioner:  partition.WithMetrics(engine, "smoke_test"),
		MaxRuns:      conf.SmokeTest.MaxRuns,
		MaxArenaSize: conf.SmokeTest.MaxArenaSize,
		MaxNodeCount: conf.SmokeTest.MaxNodeCount,
		Timeout:      conf.SmokeTest.Timeout,
	}))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("stack_capacity", conf.StackCapacity).
		WithTag("max_nodes", conf.MaxNodes).
		WithTag("strategy", engine.Strategy.String()).
		WithTag("feature_flags", conf.FeatureFlags).
		Info("starting shatter server")

	shatterhttp.ListenAndServe(ctx, conf.ShutdownTimeout,
		&http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			shatterhttp.MetricsPathFormatter)},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)
}

func validateConfig(conf config) error {
	if conf.StackCapacity <= 0 {
		return errors.New("stack capacity must be greater than 0").
			WithTag("stack_capacity", conf.StackCapacity)
	}

	if conf.MaxNodes < 0 {
		return errors.New("max nodes must not be negative").
			WithTag("max_nodes", conf.MaxNodes)
	}

	if conf.ClientIdleTimeout <= 0 {
		return errors.New("client idle timeout must be greater than 0").
			WithTag("client_idle_timeout", conf.ClientIdleTimeout)
	}

	if conf.LogSummaryInterval <= 0 {
		return errors.New("log summary interval must be greater than 0").
			WithTag("log_summary_interval", conf.LogSummaryInterval)
	}

	return nil
}
