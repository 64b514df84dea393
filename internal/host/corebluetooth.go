package host

import (
	"errors"
	"log/slog"
	"strings"

	"beacon-transmitter/internal/beacon"
)

// go-ble の darwin 実装は AdvertiseMfgData に対応していない
var ErrMfgDataUnsupported = errors.New("CoreBluetooth cannot advertise manufacturer data")

// macOS (CoreBluetooth)
// LE対応は全機種前提。電源状態はデバイスを開いて確認する
type DarwinHost struct {
	open func() (beacon.Advertiser, error)

	opened  bool
	adv     beacon.Advertiser
	openErr error
}

func (h *DarwinHost) OSVersion() (Version, error) {
	return KernelVersion()
}

func (h *DarwinHost) HasLE() (bool, error) { return true, nil }

// 電源オフだと NewDevice が "invalid state ... is Bluetooth turned on?" で失敗する
func (h *DarwinHost) AdapterEnabled() (bool, error) {
	err := h.power()
	if err == nil {
		return true, nil
	}
	if poweredOff(err) {
		return false, nil
	}
	return false, err
}

// デバイスは開けてもマニュファクチャデータは送れないので、常に失敗させる
func (h *DarwinHost) Advertiser() (beacon.Advertiser, error) {
	if err := h.power(); err != nil {
		return nil, err
	}
	if err := h.adv.Stop(); err != nil {
		slog.Warn("device stop error", "error", err)
	}
	return nil, ErrMfgDataUnsupported
}

func (h *DarwinHost) power() error {
	if !h.opened {
		h.opened = true
		h.adv, h.openErr = h.open()
	}
	return h.openErr
}

func poweredOff(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid state") || strings.Contains(msg, "is Bluetooth turned on")
}
