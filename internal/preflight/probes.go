package preflight

import (
	"fmt"

	"beacon-transmitter/internal/host"
)

// チェック名 (メトリクスのラベルにも使う)
const (
	ProbeOSVersion  = "os_version"
	ProbeFeature    = "ble_feature"
	ProbeAdapter    = "adapter_enabled"
	ProbeAdvertiser = "advertiser"
)

// ダイアログに出す文言
const (
	TitleOSUnsupported     = "Bluetooth LE not supported by this device's operating system"
	TitleDeviceUnsupported = "Bluetooth LE not supported by this device"
	MessageNoBeacon        = "You will not be able to transmit as a Beacon"

	TitleNotEnabled   = "Bluetooth not enabled"
	MessageNotEnabled = "Please enable Bluetooth and restart this app."

	TitleAdvertisingUnavailable   = "Bluetooth LE advertising unavailable"
	MessageAdvertisingUnavailable = "Sorry, the operating system on this device does not support Bluetooth LE advertising.  As of July 2014, only the Android L preview OS supports this feature in user-installed apps."
)

// OSのバージョンが min 未満なら失敗
func OSVersionProbe(h Host, min host.Version) Probe {
	return Probe{Name: ProbeOSVersion, Check: func() Result {
		v, err := h.OSVersion()
		if err != nil || v.Less(min) {
			return Blocked(ProbeOSVersion, TitleOSUnsupported, MessageNoBeacon, err)
		}
		return Ready(ProbeOSVersion)
	}}
}

// BLEのハードウェアがなければ失敗
func FeatureProbe(h Host) Probe {
	return Probe{Name: ProbeFeature, Check: func() Result {
		ok, err := h.HasLE()
		if err != nil || !ok {
			return Blocked(ProbeFeature, TitleDeviceUnsupported, MessageNoBeacon, err)
		}
		return Ready(ProbeFeature)
	}}
}

// アダプタが無効化されていれば失敗
func AdapterProbe(h Host) Probe {
	return Probe{Name: ProbeAdapter, Check: func() Result {
		ok, err := h.AdapterEnabled()
		if err != nil || !ok {
			return Blocked(ProbeAdapter, TitleNotEnabled, MessageNotEnabled, err)
		}
		return Ready(ProbeAdapter)
	}}
}

// アドバタイズのハンドルが取れなければ失敗
// エラーでもpanicでも「非対応」扱い
func AdvertiserProbe(h Host) Probe {
	return Probe{Name: ProbeAdvertiser, Check: func() (r Result) {
		defer func() {
			if p := recover(); p != nil {
				r = Blocked(ProbeAdvertiser, TitleAdvertisingUnavailable, MessageAdvertisingUnavailable,
					fmt.Errorf("panic: %v", p))
			}
		}()
		if _, err := h.Advertiser(); err != nil {
			return Blocked(ProbeAdvertiser, TitleAdvertisingUnavailable, MessageAdvertisingUnavailable, err)
		}
		return Ready(ProbeAdvertiser)
	}}
}
