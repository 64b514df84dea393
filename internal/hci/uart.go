package hci

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// H4 (UART) のパケット種別
const (
	packetCommand = 0x01
	packetEvent   = 0x04
)

const (
	eventCommandComplete = 0x0e

	OpReset             uint16 = 0x0c03
	OpReadLocalFeatures uint16 = 0x1003
)

var ErrTimeout = errors.New("hci: no response from controller")

// UART接続のBLEコントローラにHCIコマンドを送るクライアント
type Client struct {
	p io.ReadWriteCloser
	// 読み込みが0バイトで返ってきた回数の上限
	maxIdleReads int
}

func Open(device string, baud int) (*Client, error) {
	c := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: time.Second * 2,
	}
	p, err := serial.OpenPort(c)
	if err != nil {
		return nil, err
	}

	return NewClient(p), nil
}

func NewClient(rw io.ReadWriteCloser) *Client {
	return &Client{p: rw, maxIdleReads: 3}
}

func (c *Client) Close() error {
	return c.p.Close()
}

// コントローラをリセットしてステータスを返す
func (c *Client) Reset() (byte, error) {
	ret, err := c.command(OpReset, nil)
	if err != nil {
		return 0, err
	}
	return ret[0], nil
}

// LMPのfeatures (8バイト) を取得
func (c *Client) ReadLocalFeatures() ([8]byte, error) {
	var f [8]byte
	ret, err := c.command(OpReadLocalFeatures, nil)
	if err != nil {
		return f, err
	}
	if ret[0] != 0 {
		return f, fmt.Errorf("read local features: status 0x%02x", ret[0])
	}
	if len(ret) < 9 {
		return f, fmt.Errorf("read local features: short response % X", ret)
	}
	copy(f[:], ret[1:9])
	return f, nil
}

// コマンドを送って Command Complete の戻り値 (先頭はステータス) を返す
func (c *Client) command(op uint16, params []byte) ([]byte, error) {
	cmd := []byte{packetCommand, byte(op), byte(op >> 8), byte(len(params))}
	cmd = append(cmd, params...)
	if _, err := c.p.Write(cmd); err != nil {
		return nil, err
	}

	// 関係ないイベントは読み飛ばす
	for i := 0; i < 8; i++ {
		code, body, err := c.readEvent()
		if err != nil {
			return nil, err
		}
		if code != eventCommandComplete || len(body) < 4 {
			continue
		}
		if binary.LittleEndian.Uint16(body[1:3]) != op {
			continue
		}
		return body[3:], nil
	}
	return nil, fmt.Errorf("hci: no command complete for opcode 0x%04x", op)
}

func (c *Client) readEvent() (byte, []byte, error) {
	buf := make([]byte, 2)
	// 0x04まで消費
	for {
		if err := c.readFull(buf[0:1]); err != nil {
			return 0, nil, err
		}
		if buf[0] == packetEvent {
			break
		}
	}

	// イベントコードと長さ
	if err := c.readFull(buf); err != nil {
		return 0, nil, err
	}
	body := make([]byte, buf[1])
	if err := c.readFull(body); err != nil {
		return 0, nil, err
	}
	return buf[0], body, nil
}

// タイムアウト時に0バイトで返るポートがあるので自前で読む
func (c *Client) readFull(b []byte) error {
	idle := 0
	for n := 0; n < len(b); {
		m, err := c.p.Read(b[n:])
		n += m
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if m > 0 {
			idle = 0
			continue
		}
		idle++
		if idle >= c.maxIdleReads {
			return ErrTimeout
		}
	}
	return nil
}
