//go:build linux

package host

import (
	"fmt"
	"log/slog"
	"time"

	"beacon-transmitter/internal/hci"
)

// UART (H4) で接続したコントローラ
// 事前チェックはシリアルで直接行い、アドバタイズは hciattach 後の hciN を使う
type UARTHost struct {
	Path     string
	Baud     int
	DeviceID int

	dial     func(path string, baud int) (controller, error)
	probed   bool
	status   byte
	features [8]byte
	err      error
	device
}

type controller interface {
	Reset() (byte, error)
	ReadLocalFeatures() ([8]byte, error)
	Close() error
}

func NewUARTHost(path string, baud, id int, advInterval time.Duration) *UARTHost {
	return &UARTHost{
		Path:     path,
		Baud:     baud,
		DeviceID: id,
		dial: func(path string, baud int) (controller, error) {
			c, err := hci.Open(path, baud)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		device: newDevice(id, advInterval),
	}
}

func (h *UARTHost) OSVersion() (Version, error) {
	return KernelVersion()
}

// リセットとfeatures取得は最初の1回だけ行う
func (h *UARTHost) probe() error {
	if h.probed {
		return h.err
	}
	h.probed = true
	h.err = func() error {
		c, err := h.dial(h.Path, h.Baud)
		if err != nil {
			return fmt.Errorf("open %s: %w", h.Path, err)
		}
		defer c.Close()

		if h.status, err = c.Reset(); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		if h.features, err = c.ReadLocalFeatures(); err != nil {
			return fmt.Errorf("read features: %w", err)
		}
		slog.Debug("コントローラ応答", "path", h.Path, "status", h.status, "features", fmt.Sprintf("% X", h.features))
		return nil
	}()
	return h.err
}

func (h *UARTHost) HasLE() (bool, error) {
	if err := h.probe(); err != nil {
		return false, err
	}
	return hasLEFeature(h.features), nil
}

func (h *UARTHost) AdapterEnabled() (bool, error) {
	if err := h.probe(); err != nil {
		return false, err
	}
	return h.status == 0, nil
}
