// Command demo_service shows how to wire the metrics packages into a web
// service: middleware on a mux router, a /metrics scrape endpoint and the
// periodic file export.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	klog "k8s.io/klog/v2"

	"github.com/servicebase/metrics/pkg/httpmetrics"
	"github.com/servicebase/metrics/pkg/metrics"
	"github.com/servicebase/metrics/pkg/signals"
)

const shutdownTimeout = 10 * time.Second

var configPath string

func init() {
	klog.InitFlags(nil)
	flag.StringVar(&configPath, "config", os.Getenv("DEMO_SERVICE_CONFIG"),
		"path to the configuration file on disk")
	flag.Parse()
}

func main() {
	logger := klog.Background()

	config, err := parseConfig(configPath)
	if err != nil {
		klog.Exitf("Cannot load configuration: %s", err)
	}

	options := metrics.Options{
		Service:  config.Service.Name,
		Instance: config.Service.Instance,
		Enabled:  true,
		Logger:   &logger,
	}
	if config.Metrics != nil {
		options.Enabled = config.Metrics.Enabled
		if config.Metrics.File != nil {
			options.WriteToFile = true
			options.OutFilePath = config.Metrics.File.Path
			options.FileUpdateInterval = config.Metrics.File.UpdateInterval
		}
	}
	if err := metrics.Start(options); err != nil {
		klog.Exitf("Cannot start metrics: %s", err)
	}
	defer metrics.Stop()

	router := mux.NewRouter()
	router.Use(httpmetrics.Middleware)
	router.Handle("/metrics", metrics.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": id})
	})

	server := &http.Server{
		Addr:    config.Listen,
		Handler: router,
	}

	stopCh := signals.SetupShutdownSignalHandler()
	go func() {
		<-stopCh
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(err, "server shutdown failed")
		}
	}()

	logger.Info("serving", "addr", config.Listen)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		klog.Exitf("Server terminated unexpectedly: %s", err)
	}
}
