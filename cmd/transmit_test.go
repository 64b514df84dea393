package cmd

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beacon-transmitter/internal/beacon"
	"beacon-transmitter/internal/config"
	"beacon-transmitter/internal/host"
	"beacon-transmitter/internal/metrics"
	"beacon-transmitter/internal/preflight"
)

type recordingAdvertiser struct {
	calls   int
	id      uint16
	data    []byte
	stopped int
}

func (a *recordingAdvertiser) AdvertiseMfgData(ctx context.Context, id uint16, b []byte) error {
	a.calls++
	a.id = id
	a.data = b
	<-ctx.Done()
	return ctx.Err()
}

func (a *recordingAdvertiser) Stop() error {
	a.stopped++
	return nil
}

type stubHost struct {
	version host.Version
	le      bool
	enabled bool
	adv     *recordingAdvertiser
}

func (h *stubHost) OSVersion() (host.Version, error)       { return h.version, nil }
func (h *stubHost) HasLE() (bool, error)                   { return h.le, nil }
func (h *stubHost) AdapterEnabled() (bool, error)          { return h.enabled, nil }
func (h *stubHost) Advertiser() (beacon.Advertiser, error) { return h.adv, nil }

type dialogs struct {
	shown [][2]string
}

func (d *dialogs) Show(title, message string) {
	d.shown = append(d.shown, [2]string{title, message})
}

func testConfig(t *testing.T) config.Config {
	cfg := config.DefaultConfig()
	cfg.MinOSVersion = "18"
	require.NoError(t, cfg.Validate())
	return cfg
}

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestTransmitAllReady(t *testing.T) {
	adv := &recordingAdvertiser{}
	h := &stubHost{version: host.Version{Major: 21}, le: true, enabled: true, adv: adv}
	d := &dialogs{}
	starts := testutil.ToFloat64(metrics.AdvertiseStarts)

	err := transmit(canceledContext(), h, testConfig(t), d)
	require.NoError(t, err)

	assert.Empty(t, d.shown)
	assert.Equal(t, 1, adv.calls)
	assert.Equal(t, uint16(0x0000), adv.id)
	assert.Equal(t, []byte{
		0xbe, 0xac,
		0x2f, 0x23, 0x44, 0x54, 0xcf, 0x6d, 0x4a, 0x0f, 0xad, 0xf2, 0xf4, 0x91, 0x1b, 0xa9, 0xff, 0xa6,
		0x00, 0x01,
		0x00, 0x02,
		0x00, // 基準RSSI未設定
		0x00,
	}, adv.data)
	assert.Equal(t, starts+1, testutil.ToFloat64(metrics.AdvertiseStarts))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PreflightReady))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Advertising))
}

func TestTransmitBlocked(t *testing.T) {
	tests := []struct {
		name  string
		host  stubHost
		title string
	}{
		{"os", stubHost{version: host.Version{Major: 17}, le: true, enabled: true}, preflight.TitleOSUnsupported},
		{"feature", stubHost{version: host.Version{Major: 18}, enabled: true}, preflight.TitleDeviceUnsupported},
		{"adapter", stubHost{version: host.Version{Major: 18}, le: true}, preflight.TitleNotEnabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adv := &recordingAdvertiser{}
			h := tt.host
			h.adv = adv
			d := &dialogs{}

			err := transmit(canceledContext(), &h, testConfig(t), d)
			require.Error(t, err)
			assert.True(t, isBlocked(err))

			require.Len(t, d.shown, 1, "exactly one dialog")
			assert.Equal(t, tt.title, d.shown[0][0])
			assert.Zero(t, adv.calls, "advertising must not start")
			assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PreflightReady))
		})
	}
}

func TestTransmitKeepsAdvertisingWhenMetricsFail(t *testing.T) {
	// 使用中のポート
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	cfg := testConfig(t)
	cfg.MetricsPort = l.Addr().(*net.TCPAddr).Port
	adv := &recordingAdvertiser{}
	h := &stubHost{version: host.Version{Major: 21}, le: true, enabled: true, adv: adv}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	start := time.Now()
	require.NoError(t, transmit(ctx, h, cfg, &dialogs{}))

	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond, "advertising must run until the context ends")
	assert.Equal(t, 1, adv.calls)
	assert.Equal(t, 1, adv.stopped)
}
