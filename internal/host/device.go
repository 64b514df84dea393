package host

import (
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux/hci/cmd"

	"beacon-transmitter/internal/beacon"
)

// 開いたデバイスを保持する
type device struct {
	opts []ble.Option
	open func(opts ...ble.Option) (beacon.Advertiser, error)
	adv  beacon.Advertiser
}

// hciN を指定して開く。UARTのコントローラも hciattach 後は hciN になる
func newDevice(id int, advInterval time.Duration) device {
	return device{
		opts: []ble.Option{ble.OptDeviceID(id), ble.OptAdvParams(AdvParams(advInterval))},
		open: openDevice,
	}
}

func (d *device) Advertiser() (beacon.Advertiser, error) {
	if d.adv != nil {
		return d.adv, nil
	}
	adv, err := d.open(d.opts...)
	if err != nil {
		return nil, err
	}
	d.adv = adv
	return adv, nil
}

// アドバタイズ間隔からHCIのパラメータを作る (0.625ms単位)
// 接続不可のアドバタイズ (ADV_NONCONN_IND) で全チャネルを使う
func AdvParams(interval time.Duration) cmd.LESetAdvertisingParameters {
	units := int64(interval / (625 * time.Microsecond))
	// 0x0020 (20ms) - 0x4000 (10.24s)
	if units < 0x0020 {
		units = 0x0020
	}
	if units > 0x4000 {
		units = 0x4000
	}
	return cmd.LESetAdvertisingParameters{
		AdvertisingIntervalMin:  uint16(units),
		AdvertisingIntervalMax:  uint16(units),
		AdvertisingType:         0x03,
		OwnAddressType:          0x00,
		DirectAddressType:       0x00,
		AdvertisingChannelMap:   0x07,
		AdvertisingFilterPolicy: 0x00,
	}
}
