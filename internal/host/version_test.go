package host

import (
	"errors"
	"testing"
	"time"

	"github.com/go-ble/ble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beacon-transmitter/internal/beacon"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"5.15.0-91-generic", Version{5, 15}},
		{"6.8.0", Version{6, 8}},
		{"3.13", Version{3, 13}},
		{"18", Version{18, 0}},
		{"23.4.0", Version{23, 4}},
		{"4.19.0+", Version{4, 19}},
	}
	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseVersion("linux")
	assert.Error(t, err)
}

func TestVersionLess(t *testing.T) {
	assert.True(t, Version{3, 12}.Less(Version{3, 13}))
	assert.True(t, Version{17, 0}.Less(Version{18, 0}))
	assert.False(t, Version{3, 13}.Less(Version{3, 13}))
	assert.False(t, Version{5, 0}.Less(Version{3, 13}))
	assert.Equal(t, "3.13", Version{3, 13}.String())
}

func TestAdvParams(t *testing.T) {
	p := AdvParams(time.Second)
	assert.Equal(t, uint16(1600), p.AdvertisingIntervalMin)
	assert.Equal(t, uint16(1600), p.AdvertisingIntervalMax)
	assert.Equal(t, uint8(0x03), p.AdvertisingType)
	assert.Equal(t, uint8(0x07), p.AdvertisingChannelMap)

	assert.Equal(t, uint16(160), AdvParams(100*time.Millisecond).AdvertisingIntervalMin)
	assert.Equal(t, uint16(0x0020), AdvParams(time.Millisecond).AdvertisingIntervalMin)
	assert.Equal(t, uint16(0x4000), AdvParams(time.Minute).AdvertisingIntervalMin)
}

type nopAdvertiser struct{ beacon.Advertiser }

func TestDeviceOpensOnce(t *testing.T) {
	opened := 0
	d := device{open: func(...ble.Option) (beacon.Advertiser, error) {
		opened++
		return nopAdvertiser{}, nil
	}}
	a1, err := d.Advertiser()
	require.NoError(t, err)
	a2, err := d.Advertiser()
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, 1, opened)
}

func TestDeviceOpenError(t *testing.T) {
	d := device{open: func(...ble.Option) (beacon.Advertiser, error) {
		return nil, errors.New("operation not permitted")
	}}
	_, err := d.Advertiser()
	assert.Error(t, err)
	assert.Nil(t, d.adv)
}

func TestNewDeviceOptions(t *testing.T) {
	d := newDevice(1, time.Second)
	assert.Len(t, d.opts, 2)
	assert.NotNil(t, d.open)

	var got int
	d.open = func(opts ...ble.Option) (beacon.Advertiser, error) {
		got = len(opts)
		return nopAdvertiser{}, nil
	}
	_, err := d.Advertiser()
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}
