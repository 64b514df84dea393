package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PreflightReady = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_preflight_ready",
			Help: "全ての事前チェックを通過したら1",
		},
	)
	ProbeBlocked = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "beacon_probe_blocked",
			Help: "事前チェックで止まったら1",
		},
		[]string{"probe"},
	)
	Advertising = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_advertising",
			Help: "アドバタイズ中なら1",
		},
	)
	AdvertiseStarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_advertise_starts_total",
			Help: "アドバタイズを開始した回数",
		},
	)
)

func init() {
	prometheus.MustRegister(PreflightReady)
	prometheus.MustRegister(ProbeBlocked)
	prometheus.MustRegister(Advertising)
	prometheus.MustRegister(AdvertiseStarts)
}

// 事前チェックの結果を記録
func ObserveProbe(probe string, ok bool) {
	if ok {
		ProbeBlocked.WithLabelValues(probe).Set(0)
		return
	}
	ProbeBlocked.WithLabelValues(probe).Set(1)
}

// Prometheus metrics HTTPサーバ
// ctxが終わるとシャットダウンする。port 0 なら何もしない
func Serve(ctx context.Context, port int) error {
	if port == 0 {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Prometheus metrics exporter started", "url", fmt.Sprintf("http://localhost:%d/metrics", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
