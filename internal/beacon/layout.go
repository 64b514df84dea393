package beacon

import "encoding/binary"

// メーカーデータの長さ (メーカーIDの2バイトを除く)
//
//	m:2-3=beac,i:4-19,i:20-21,i:22-23,p:24-24,d:25-25
const ManufacturerDataLen = 24

// メーカーID以降のアドバタイズデータを組み立てる
// メーカーIDはAdvertiserがリトルエンディアンで前に付ける
func (b Beacon) ManufacturerData() ([]byte, error) {
	ids, err := b.identifiers()
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, ManufacturerDataLen)
	data = binary.BigEndian.AppendUint16(data, b.TypeCode)
	for _, id := range ids {
		data = append(data, id...)
	}
	data = append(data, byte(b.TxPower), b.DataField)
	return data, nil
}
