// Package paper 实现对合成成交的检测与账户状态管理。
// 重要：仅用于回放模拟，严禁真实下单。
package paper

import (
	"lob-mm-backtest/internal/config"
	"lob-mm-backtest/internal/core/model"
	"lob-mm-backtest/internal/core/quote"
)

// Executor 合成成交执行器
// 在连续快照序列上运行的状态机：对第 k 个快照，使用快照 k 自身的
// mid/spread 推导报价，库存取快照 k−1 处理完后的值；随后立即用
// 快照 k 自身的市场价检查穿越（零延迟、同 tick 成交假设）。
type Executor struct {
	// cfg 模拟参数
	cfg config.SimConfig
	// params 报价参数
	params quote.Params
	// acct 账户状态（由本执行器独占修改）
	acct *model.Account
	// seeded 是否已消费首个快照
	// 首个快照仅建立基准，不检查成交也不追加盈亏点
	seeded bool
}

// NewExecutor 创建合成成交执行器
// 参数 cfg: 模拟参数（已在配置层验证）
func NewExecutor(cfg config.SimConfig) *Executor {
	return &Executor{
		cfg: cfg,
		params: quote.Params{
			RiskAversion: cfg.RiskAversion,
			SkewScale:    cfg.SkewScale,
		},
		acct: model.NewAccount(cfg.InitialCash),
	}
}

// Account 获取账户状态
// 回放过程中仅执行器写入；回放结束后读出用于报告
func (e *Executor) Account() *model.Account {
	return e.acct
}

// OnSnapshot 处理一个盘口快照
// 返回值:
//   - trade: 若本快照产生成交则非 nil（每个快照至多一笔成交）
//   - pnl: 本快照追加的总盈亏点
//   - appended: 首个快照为 false（不追加盈亏点），此后恒为 true
func (e *Executor) OnSnapshot(snap *model.BookSnapshot) (trade *model.Trade, pnl float64, appended bool) {
	if !e.seeded {
		e.seeded = true
		return nil, 0, false
	}

	q := quote.Compute(snap, e.acct.Inventory, e.params)

	// SELL 严格先于 BUY 评估；SELL 未成交时才检查 BUY
	if snap.BestAsk <= q.Bid && e.canSell() {
		trade = e.execute(snap.TsUs, model.TradeSell, q.Bid)
	} else if snap.BestBid >= q.Ask && e.canBuy() {
		trade = e.execute(snap.TsUs, model.TradeBuy, q.Ask)
	}

	// 无论是否成交，每个快照（首个除外）无条件追加一个总盈亏点
	pnl = e.acct.TotalPnL(snap.Mid)
	e.acct.PnLHistory = append(e.acct.PnLHistory, pnl)

	return trade, pnl, true
}

// canSell 判断卖出是否满足库存约束
// 触发条件要求 inventory > -PositionLimit；库存上限是硬约束，
// 成交后 |inventory| 超限的成交整笔跳过（无部分成交、无排队、无重试）
func (e *Executor) canSell() bool {
	if e.acct.Inventory <= -e.cfg.PositionLimit {
		return false
	}
	return absInt64(e.acct.Inventory-e.cfg.LotSize) <= e.cfg.PositionLimit
}

// canBuy 判断买入是否满足库存约束
func (e *Executor) canBuy() bool {
	if e.acct.Inventory >= e.cfg.PositionLimit {
		return false
	}
	return absInt64(e.acct.Inventory+e.cfg.LotSize) <= e.cfg.PositionLimit
}

// execute 执行一笔固定手数的合成成交并更新账户
// SELL: inventory -= lot, cash += price×lot
// BUY:  inventory += lot, cash -= price×lot
func (e *Executor) execute(tsUs int64, side model.TradeSide, price float64) *model.Trade {
	lot := e.cfg.LotSize
	notional := price * float64(lot)

	if side == model.TradeSell {
		e.acct.Inventory -= lot
		e.acct.Cash += notional
	} else {
		e.acct.Inventory += lot
		e.acct.Cash -= notional
	}

	tr := model.Trade{
		TsUs:     tsUs,
		Side:     side,
		Price:    price,
		Size:     lot,
		Position: e.acct.Inventory,
	}
	e.acct.Trades = append(e.acct.Trades, tr)
	return &tr
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
