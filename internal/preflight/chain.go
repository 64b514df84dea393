package preflight

import "beacon-transmitter/internal/host"

// 順番にチェックし、最初に失敗したところで止める
type Chain struct {
	Probes []Probe
	// 実行したチェックごとに呼ばれる (ログ、メトリクス用)
	Observe func(Result)
}

// ビーコン送信に必要な4つのチェック (順番固定)
func Standard(h Host, minOS host.Version) Chain {
	return Chain{Probes: []Probe{
		OSVersionProbe(h, minOS),
		FeatureProbe(h),
		AdapterProbe(h),
		AdvertiserProbe(h),
	}}
}

// 最初の失敗を返す。全部通れば Ready
func (c Chain) Run() Result {
	for _, p := range c.Probes {
		r := p.Check()
		if c.Observe != nil {
			c.Observe(r)
		}
		if !r.OK() {
			return r
		}
	}
	return Ready("")
}
