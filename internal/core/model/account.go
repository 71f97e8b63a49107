// Package model 定义回测器中使用的核心数据结构。
package model

// TradeSide 成交方向
type TradeSide string

const (
	// TradeBuy 买入成交
	// 当 market_bid ≥ 我方卖报价 时触发
	TradeBuy TradeSide = "BUY"
	// TradeSell 卖出成交
	// 当 market_ask ≤ 我方买报价 时触发
	TradeSell TradeSide = "SELL"
)

// Trade 合成成交记录
// 重要：仅用于回放模拟，严禁真实下单。
type Trade struct {
	// TsUs 成交时间戳（微秒），取触发快照的时间戳
	TsUs int64 `json:"ts_us"`
	// Side 成交方向: BUY 或 SELL
	Side TradeSide `json:"side"`
	// Price 成交价格（即被穿越的我方报价）
	Price float64 `json:"price"`
	// Size 成交数量（固定手数）
	Size int64 `json:"size"`
	// Position 成交后的库存
	Position int64 `json:"position"`
}

// PnLPoint 盈亏序列的输出点
// 用于 JSONL 文件输出；账户内部仅保留标量序列
type PnLPoint struct {
	// TsUs 对应快照的时间戳（微秒）
	TsUs int64 `json:"ts_us"`
	// TotalPnL 总盈亏: (cash - initial_cash) + inventory × mid
	TotalPnL float64 `json:"total_pnl"`
}

// Account 账户状态（现金/库存/成交日志/盈亏序列）
// 生命周期为一次回放；仅由成交检测器在回放过程中修改，回放结束后只读。
type Account struct {
	// InitialCash 初始资金
	InitialCash float64
	// Cash 当前现金（有符号）
	Cash float64
	// Inventory 当前库存（有符号，|Inventory| ≤ PositionLimit）
	Inventory int64
	// Trades 成交日志（只追加，按时间有序）
	Trades []Trade
	// PnLHistory 总盈亏序列（只追加，每个快照（首个除外）追加一个点）
	PnLHistory []float64
}

// NewAccount 创建新账户
// 参数 initialCash: 初始资金
func NewAccount(initialCash float64) *Account {
	return &Account{
		InitialCash: initialCash,
		Cash:        initialCash,
	}
}

// UnrealizedPnL 计算未实现盈亏
// 公式: inventory × mid
func (a *Account) UnrealizedPnL(mid float64) float64 {
	return float64(a.Inventory) * mid
}

// TotalPnL 计算总盈亏
// 公式: (cash - initial_cash) + inventory × mid
func (a *Account) TotalPnL(mid float64) float64 {
	return (a.Cash - a.InitialCash) + a.UnrealizedPnL(mid)
}

// FinalPnL 获取盈亏序列的最后一个点
// 序列为空时返回 0（空回放是合法结果，不是错误）
func (a *Account) FinalPnL() float64 {
	if len(a.PnLHistory) == 0 {
		return 0
	}
	return a.PnLHistory[len(a.PnLHistory)-1]
}
