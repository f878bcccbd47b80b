// Command prioritypool runs a demo workload on the process-wide pool:
// sleeping tasks with random priorities, one re-prioritization pass and
// a clean shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	pp "github.com/Andrej220/go-utils/prioritypool"
	"github.com/Andrej220/go-utils/prioritypool/internal/config"
	promexp "github.com/Andrej220/go-utils/prioritypool/observability/prometheus"
	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

const metricsShutdownTimeout = 2 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "prioritypool",
		Usage: "run a demo workload on a priority worker pool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML or JSON config file",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "number of workers (overrides config)",
			},
			&cli.IntFlag{
				Name:    "tasks",
				Aliases: []string{"n"},
				Usage:   "number of demo tasks (overrides config)",
			},
			&cli.DurationFlag{
				Name:  "run-for",
				Usage: "how long to let the pool run before destroying it",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve Prometheus metrics on this address, e.g. :9100",
			},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("config: %v", err), 1)
	}

	ctx := c.Context
	logger := lg.FromContext(ctx)

	opts := cfg.ToOptions()
	opts.Ctx = ctx
	opts.OnTaskPanic = func(err error) {
		logger.Error("demo task failed", lg.Any("error", err))
	}
	if cfg.MetricsAddr != "" {
		exporter, srv, err := serveMetrics(ctx, cfg.MetricsAddr)
		if err != nil {
			return cli.Exit(fmt.Sprintf("metrics: %v", err), 1)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				logger.Warn("metrics server shutdown failed", lg.Any("error", err))
			}
		}()
		opts.Metrics = exporter
	}
	pool := pp.InstanceWithOptions(opts)

	pool.SetPolicy(cfg.NewPolicy())

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < cfg.Tasks; i++ {
		t := newSleepTask(ctx, i, time.Duration(rnd.Int63n(int64(cfg.MaxTaskTime))))
		t.SetPriority(float64(i))
		if err := pool.Submit(t); err != nil {
			return cli.Exit(fmt.Sprintf("submit: %v", err), 1)
		}
	}

	if err := pool.Run(); err != nil {
		return cli.Exit(fmt.Sprintf("run: %v", err), 1)
	}

	if cfg.ReprioritizeAfter > 0 && cfg.ReprioritizeAfter < cfg.RunFor {
		time.Sleep(cfg.ReprioritizeAfter)
		if err := pool.UpdatePriority(); err != nil {
			logger.Warn("reprioritize failed", lg.Any("error", err))
		}
		time.Sleep(cfg.RunFor - cfg.ReprioritizeAfter)
	} else {
		time.Sleep(cfg.RunFor)
	}

	logger.Info("end", lg.Int("queued", pool.QueueLength()))
	pool.Destroy()
	return nil
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		fc, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		if cfg, err = fc.ToConfig(); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("tasks") {
		cfg.Tasks = c.Int("tasks")
	}
	if c.IsSet("run-for") {
		cfg.RunFor = c.Duration("run-for")
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}
	return cfg, cfg.Validate()
}

// serveMetrics registers the pool collectors on the default registry and
// serves them over HTTP in the background. The caller owns the returned
// server and must shut it down.
func serveMetrics(ctx context.Context, addr string) (*promexp.MetricsExporter, *http.Server, error) {
	exporter, err := promexp.NewMetricsExporter(prometheus.DefaultRegisterer, promexp.ExporterOptions{Pool: "demo"})
	if err != nil {
		return nil, nil, err
	}

	srv := &http.Server{Addr: addr, Handler: promhttp.Handler()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.FromContext(ctx).Error("metrics server failed", lg.Any("error", err))
		}
	}()
	return exporter, srv, nil
}
