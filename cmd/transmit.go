package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"beacon-transmitter/internal/beacon"
	"beacon-transmitter/internal/config"
	"beacon-transmitter/internal/metrics"
	"beacon-transmitter/internal/preflight"
)

var errBlocked = errors.New("prerequisite not met")

func isBlocked(err error) bool {
	return errors.Is(err, errBlocked)
}

type notifier interface {
	Show(title, message string)
}

// 事前チェックを順に実行する
func preflightCheck(h preflight.Host, cfg config.Config) (preflight.Result, error) {
	minOS, err := cfg.MinOS()
	if err != nil {
		return preflight.Result{}, err
	}
	chain := preflight.Standard(h, minOS)
	chain.Observe = func(r preflight.Result) {
		metrics.ObserveProbe(r.Probe, r.OK())
		if r.OK() {
			slog.Debug("チェックOK", "probe", r.Probe)
			return
		}
		slog.Warn("チェック失敗", "probe", r.Probe, "title", r.Title, "error", r.Err)
	}
	r := chain.Run()
	if r.OK() {
		metrics.PreflightReady.Set(1)
	} else {
		metrics.PreflightReady.Set(0)
	}
	return r, nil
}

// ダイアログを1回だけ表示して終了させる
func block(n notifier, r preflight.Result) error {
	n.Show(r.Title, r.Message)
	return fmt.Errorf("%w: %s", errBlocked, r.Probe)
}

// 事前チェックが通ればビーコンを送信し、ctxが終わるまで待つ
func transmit(ctx context.Context, h preflight.Host, cfg config.Config, n notifier) error {
	r, err := preflightCheck(h, cfg)
	if err != nil {
		return err
	}
	if !r.OK() {
		return block(n, r)
	}

	// AdvertiserProbeで開いたデバイスを使う
	adv, err := h.Advertiser()
	if err != nil {
		return err
	}
	tx := beacon.NewTransmitter(adv, cfg.Beacon)
	tx.OnStart = func() {
		metrics.AdvertiseStarts.Inc()
		metrics.Advertising.Set(1)
	}
	defer metrics.Advertising.Set(0)

	// アドバタイズが終わったらexporterも止める
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	// exporterが起動できなくてもビーコンは止めない
	g.Go(func() error {
		if err := metrics.Serve(gctx, cfg.MetricsPort); err != nil {
			slog.Error("metrics exporter stopped", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return tx.StartAdvertising(gctx)
	})
	return g.Wait()
}
