package beacon

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// AltBeaconの型コード
const AltBeaconTypeCode uint16 = 0xbeac

var ErrInvalidIdentifier = errors.New("invalid identifier")

// アドバタイズするビーコンの設定
// 一度作ったら変更しない
type Beacon struct {
	ID1          string `json:"id1" yaml:"id1"`
	ID2          string `json:"id2" yaml:"id2"`
	ID3          string `json:"id3" yaml:"id3"`
	TypeCode     uint16 `json:"type_code" yaml:"type_code"`
	Manufacturer uint16 `json:"manufacturer" yaml:"manufacturer"`
	// 1m地点での基準RSSI (dBm)
	TxPower   int8 `json:"tx_power" yaml:"tx_power"`
	DataField byte `json:"data_field" yaml:"data_field"`
}

// 識別子文字列をバイト列に変換
// UUID形式は16バイト、0x付きは16進数そのまま、10進数は2バイト(ビッグエンディアン)
func ParseIdentifier(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	case strings.Count(s, "-") == 4:
		u, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidIdentifier, s, err)
		}
		return u[:], nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		h := s[2:]
		if len(h)%2 == 1 {
			h = "0" + h
		}
		b, err := hex.DecodeString(h)
		if err != nil || len(b) == 0 {
			return nil, fmt.Errorf("%w: %q is not hex", ErrInvalidIdentifier, s)
		}
		return b, nil
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: %q must be a UUID, 0x hex or 0-65535", ErrInvalidIdentifier, s)
	}
	return binary.BigEndian.AppendUint16(nil, uint16(n)), nil
}

// 識別子の長さをチェック
func (b Beacon) Validate() error {
	if _, err := b.identifiers(); err != nil {
		return err
	}
	return nil
}

func (b Beacon) identifiers() ([3][]byte, error) {
	var ids [3][]byte
	for i, field := range []struct {
		value string
		size  int
	}{
		{b.ID1, 16},
		{b.ID2, 2},
		{b.ID3, 2},
	} {
		id, err := ParseIdentifier(field.value)
		if err != nil {
			return ids, fmt.Errorf("id%d: %w", i+1, err)
		}
		if len(id) > field.size {
			return ids, fmt.Errorf("id%d: %w: want %d bytes, got %d", i+1, ErrInvalidIdentifier, field.size, len(id))
		}
		// 短い識別子は先頭を0で埋める
		ids[i] = append(make([]byte, field.size-len(id)), id...)
	}
	return ids, nil
}

func (b Beacon) String() string {
	return fmt.Sprintf("%s %s %s type=0x%04x mfg=0x%04x", b.ID1, b.ID2, b.ID3, b.TypeCode, b.Manufacturer)
}
