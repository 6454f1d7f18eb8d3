package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/intel/cavs-debug-agent/internal/config"
	"github.com/intel/cavs-debug-agent/internal/driver"
	"github.com/intel/cavs-debug-agent/internal/httpapi"
	"github.com/intel/cavs-debug-agent/internal/logging"
	"github.com/intel/cavs-debug-agent/internal/metrics"
	"github.com/intel/cavs-debug-agent/internal/modulehandler"
	"github.com/intel/cavs-debug-agent/internal/probe"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultProbeCount is the firmware's typical endpoint slot count (§3,
// spec.md): N such that 0 <= id < N.
const defaultProbeCount = 8

// controlDevicePath is the cAVS control-plane character device exposed
// by the kernel driver on a real deployment.
const controlDevicePath = "/dev/cavs_debug_ctrl"

func main() {
	cfg, err := config.Parse("cavs-debug-agentd", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logConfig := logging.DefaultConfig()
	if cfg.Verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	drv, closeDrv := newDriver(logger)
	defer closeDrv()

	handler := modulehandler.New(drv)
	observer := metrics.NewPrometheusObserver(metrics.New())

	svc := probe.New(defaultProbeCount, drv, handler, observer, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", httpapi.NewServer(svc, handler, logger))

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	server := &http.Server{Addr: addr, Handler: mux}

	logger.Info("starting cavs-debug-agentd", "addr", addr, "pfw_config", cfg.ParamFrameworkDir, "probes", defaultProbeCount)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server exited", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during HTTP shutdown", "error", err)
	}

	if err := svc.SetState(probe.StateIdle); err != nil {
		logger.Warn("error tearing down probe session on exit", "error", err)
	}
}

// newDriver picks the real ioctl-backed binding, falling back to the
// in-memory mock when the control device cannot be opened. driver.NewLinux
// is only built on Linux, so this binary does not build for other
// operating systems.
func newDriver(logger *logging.Logger) (driver.Driver, func()) {
	if runtime.GOOS == "linux" {
		drv, err := driver.NewLinux(controlDevicePath)
		if err == nil {
			return drv, func() { _ = drv.Close() }
		}
		logger.Warn("falling back to in-memory driver", "device", controlDevicePath, "error", err)
	}
	drv := driver.NewMock()
	return drv, func() { _ = drv.Close() }
}
