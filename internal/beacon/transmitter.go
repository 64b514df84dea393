package beacon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// アドバタイズ可能なデバイス
// ble.Deviceはこれを満たす
type Advertiser interface {
	AdvertiseMfgData(ctx context.Context, id uint16, b []byte) error
	Stop() error
}

type Transmitter struct {
	adv    Advertiser
	beacon Beacon
	// アドバタイズ開始時に呼ばれる (メトリクス用)
	OnStart func()
}

func NewTransmitter(adv Advertiser, b Beacon) *Transmitter {
	return &Transmitter{adv: adv, beacon: b}
}

// ビーコンのアドバタイズを1回だけ開始し、ctxが終わるまでブロックする
// リトライはしない。ctxのキャンセルは正常終了
func (t *Transmitter) StartAdvertising(ctx context.Context) error {
	data, err := t.beacon.ManufacturerData()
	if err != nil {
		return fmt.Errorf("encode beacon: %w", err)
	}
	slog.Info("アドバタイズ開始", "beacon", t.beacon.String(), "data", fmt.Sprintf("% X", data))
	if t.OnStart != nil {
		t.OnStart()
	}

	err = t.adv.AdvertiseMfgData(ctx, t.beacon.Manufacturer, data)
	if stopErr := t.adv.Stop(); stopErr != nil {
		slog.Warn("device stop error", "error", stopErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.Info("アドバタイズ終了")
		return nil
	}
	if err != nil {
		return fmt.Errorf("advertise: %w", err)
	}
	return nil
}
