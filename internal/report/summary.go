// Package report 负责由回放结果计算汇总标量。
// 回放核心不做任何格式化或打印；本包只产出数字，展示交给调用方。
package report

import (
	"lob-mm-backtest/internal/core/replay"
	"lob-mm-backtest/internal/util/timeutil"
)

// 外推常量：6.5 小时交易日，21 个交易日/月，252 个交易日/年
const (
	secondsPerTradingDay = 6.5 * 3600
	tradingDaysPerMonth  = 21
	tradingDaysPerYear   = 252
)

// Summary 一次回放的汇总标量
type Summary struct {
	// Events 处理的事件总数（含畸形事件）
	Events int64 `json:"events"`
	// Malformed 畸形事件数
	Malformed int64 `json:"malformed"`
	// Snapshots 产出的快照数
	Snapshots int64 `json:"snapshots"`
	// TotalTrades 成交笔数
	TotalTrades int `json:"total_trades"`
	// FinalPosition 最终库存
	FinalPosition int64 `json:"final_position"`
	// InitialCash 初始资金
	InitialCash float64 `json:"initial_cash"`
	// FinalCash 最终现金
	FinalCash float64 `json:"final_cash"`
	// FinalEquity 最终权益: cash + position × 最后快照 mid
	FinalEquity float64 `json:"final_equity"`
	// TotalPnL 总盈亏（盈亏序列最后一个点，空序列为 0）
	TotalPnL float64 `json:"total_pnl"`
	// ReturnPct 收益率（%）
	ReturnPct float64 `json:"return_pct"`

	// AvgMid 快照 mid 均值
	AvgMid float64 `json:"avg_mid"`
	// AvgSpread 快照 spread 均值
	AvgSpread float64 `json:"avg_spread"`
	// AvgSpreadBps 快照 spread 均值（基点，相对 mid 均值）
	AvgSpreadBps float64 `json:"avg_spread_bps"`

	// DurationSec 快照覆盖的时间跨度（秒）
	DurationSec float64 `json:"duration_sec"`
	// TradesPerSec 每秒成交笔数
	TradesPerSec float64 `json:"trades_per_sec"`
	// PnLPerTrade 单笔平均盈亏
	PnLPerTrade float64 `json:"pnl_per_trade"`

	// ProjectedDailyPnL 外推日盈亏（按 6.5 小时交易日）
	ProjectedDailyPnL float64 `json:"projected_daily_pnl"`
	// ProjectedMonthlyPnL 外推月盈亏（21 个交易日）
	ProjectedMonthlyPnL float64 `json:"projected_monthly_pnl"`
	// ProjectedAnnualPnL 外推年盈亏（252 个交易日）
	ProjectedAnnualPnL float64 `json:"projected_annual_pnl"`
}

// Build 由回放结果计算汇总标量
// 空回放（无快照/无成交）产出全零的合法汇总，不触发除零
func Build(res *replay.Result) Summary {
	s := Summary{
		Events:    res.Events,
		Malformed: res.Malformed,
		Snapshots: res.Snapshots,
	}

	if res.Account != nil {
		s.TotalTrades = len(res.Account.Trades)
		s.FinalPosition = res.Account.Inventory
		s.InitialCash = res.Account.InitialCash
		s.FinalCash = res.Account.Cash
		s.FinalEquity = res.Account.Cash + float64(res.Account.Inventory)*res.LastMid
		s.TotalPnL = res.Account.FinalPnL()
		if res.Account.InitialCash != 0 {
			s.ReturnPct = s.TotalPnL / res.Account.InitialCash * 100
		}
	}

	if res.Snapshots > 0 {
		s.AvgMid = res.SumMid / float64(res.Snapshots)
		s.AvgSpread = res.SumSpread / float64(res.Snapshots)
		if s.AvgMid != 0 {
			s.AvgSpreadBps = s.AvgSpread / s.AvgMid * 10000
		}
	}

	s.DurationSec = timeutil.DurationSec(res.FirstTsUs, res.LastTsUs)

	if s.TotalTrades > 0 && s.DurationSec > 0 {
		s.TradesPerSec = float64(s.TotalTrades) / s.DurationSec
		s.PnLPerTrade = s.TotalPnL / float64(s.TotalTrades)

		dailyPnL := s.TotalPnL / s.DurationSec * secondsPerTradingDay
		s.ProjectedDailyPnL = dailyPnL
		s.ProjectedMonthlyPnL = dailyPnL * tradingDaysPerMonth
		s.ProjectedAnnualPnL = dailyPnL * tradingDaysPerYear
	}

	return s
}
