// Package quote 实现带库存偏移的双边报价计算。
// 纯函数，仅依赖 (快照, 库存, 配置)，无任何失败模式。
package quote

import (
	"lob-mm-backtest/internal/core/model"
)

// Params 报价参数
type Params struct {
	// RiskAversion 风险厌恶系数 γ
	RiskAversion float64
	// SkewScale 库存偏移缩放系数
	SkewScale float64
}

// InventoryPenalty 计算库存惩罚项
// 公式: inventory × γ × skew_scale
// 为正时（多头库存）两侧报价同时下移，引导减仓方向的成交
func InventoryPenalty(inventory int64, p Params) float64 {
	return float64(inventory) * p.RiskAversion * p.SkewScale
}

// Compute 由快照与当前库存计算双边报价
// bid = mid - spread/2 - penalty
// ask = mid + spread/2 - penalty
// 两侧报价按同一有符号惩罚项平移：这是远离不想要库存的方向性倾斜，
// 不改变报价宽度
func Compute(snap *model.BookSnapshot, inventory int64, p Params) model.QuotePair {
	penalty := InventoryPenalty(inventory, p)
	half := snap.Spread / 2
	return model.QuotePair{
		Bid: snap.Mid - half - penalty,
		Ask: snap.Mid + half - penalty,
	}
}
