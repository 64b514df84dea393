// ビーコン送信の事前チェック
package preflight

import (
	"beacon-transmitter/internal/beacon"
	"beacon-transmitter/internal/host"
)

// チェック対象のホスト (読み取りのみ)
type Host interface {
	OSVersion() (host.Version, error)
	HasLE() (bool, error)
	AdapterEnabled() (bool, error)
	// アドバタイズ用のハンドルを取得。一度開いたら送信でも使い回す
	Advertiser() (beacon.Advertiser, error)
}

// チェック結果。Ready か、ユーザーに見せるタイトルとメッセージ付きの Blocked
type Result struct {
	Probe   string
	Title   string
	Message string
	// ログ用。失敗したホスト問い合わせのエラー
	Err error

	blocked bool
}

// 通過
func Ready(probe string) Result {
	return Result{Probe: probe}
}

// ここでチェックを打ち切る
func Blocked(probe, title, message string, err error) Result {
	return Result{Probe: probe, Title: title, Message: message, Err: err, blocked: true}
}

// 次のチェックに進めるか
func (r Result) OK() bool {
	return !r.blocked
}

// 名前付きのチェック
type Probe struct {
	Name  string
	Check func() Result
}
