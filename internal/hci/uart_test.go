package hci

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 書き込みを記録し、用意したレスポンスを返すポート
type fakePort struct {
	written bytes.Buffer
	resp    *bytes.Reader
}

func newFakePort(resp ...byte) *fakePort {
	return &fakePort{resp: bytes.NewReader(resp)}
}

func (p *fakePort) Read(b []byte) (int, error)  { return p.resp.Read(b) }
func (p *fakePort) Write(b []byte) (int, error) { return p.written.Write(b) }
func (p *fakePort) Close() error                { return nil }

func TestReset(t *testing.T) {
	p := newFakePort(
		0x00, 0x00, // ゴミ
		0x04, 0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00,
	)
	c := NewClient(p)

	status, err := c.Reset()
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), status)
	assert.Equal(t, []byte{0x01, 0x03, 0x0c, 0x00}, p.written.Bytes())
}

func TestReadLocalFeatures(t *testing.T) {
	p := newFakePort(
		// 別のイベント (Command Status) は読み飛ばす
		0x04, 0x0f, 0x04, 0x00, 0x01, 0x00, 0x00,
		0x04, 0x0e, 0x0c, 0x01, 0x03, 0x10, 0x00,
		0xff, 0xfe, 0x8f, 0xfe, 0xd8, 0x3f, 0x5b, 0x87,
	)
	c := NewClient(p)

	f, err := c.ReadLocalFeatures()
	require.NoError(t, err)
	assert.Equal(t, [8]byte{0xff, 0xfe, 0x8f, 0xfe, 0xd8, 0x3f, 0x5b, 0x87}, f)
	assert.Equal(t, []byte{0x01, 0x03, 0x10, 0x00}, p.written.Bytes())
}

func TestReadLocalFeaturesStatusError(t *testing.T) {
	p := newFakePort(0x04, 0x0e, 0x04, 0x01, 0x03, 0x10, 0x01)
	_, err := NewClient(p).ReadLocalFeatures()
	assert.ErrorContains(t, err, "status 0x01")
}

func TestNoResponse(t *testing.T) {
	_, err := NewClient(newFakePort()).Reset()
	assert.ErrorIs(t, err, ErrTimeout)
}
