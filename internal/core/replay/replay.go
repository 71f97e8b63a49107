// Package replay 实现单线程确定性回放：
// apply_event → snapshot → quote → fill → pnl-append 是对有序事件流的
// 一次确定性折叠。相同事件流 + 相同配置必须产出逐字节一致的
// 成交日志与盈亏序列。
package replay

import (
	"context"
	"errors"
	"io"

	"lob-mm-backtest/internal/config"
	"lob-mm-backtest/internal/core/book"
	"lob-mm-backtest/internal/core/model"
	"lob-mm-backtest/internal/core/paper"
	"lob-mm-backtest/internal/feed"
)

// RecordWriter 记录输出接口
// *jsonl.Writer 满足该接口；nil 实现表示不输出
type RecordWriter interface {
	Write(v any) error
}

// Result 一次回放的结果
// 除账户状态外还携带报告层所需的快照聚合量
type Result struct {
	// Events 处理的事件总数（含畸形事件）
	Events int64
	// Malformed 畸形事件数（方向缺失/无法解析）
	Malformed int64
	// Snapshots 产出的快照数
	Snapshots int64
	// FirstTsUs 首个快照的时间戳（微秒），无快照时为 0
	FirstTsUs int64
	// LastTsUs 最后一个快照的时间戳（微秒），无快照时为 0
	LastTsUs int64
	// SumMid 所有快照 mid 之和（用于均值计算）
	SumMid float64
	// SumSpread 所有快照 spread 之和
	SumSpread float64
	// LastMid 最后一个快照的 mid，无快照时为 0
	LastMid float64
	// Account 回放结束后的账户状态（只读）
	Account *model.Account
}

// Runner 回放执行器
// 持有一次回放的全部内部状态；每个 Runner 只能 Run 一次。
type Runner struct {
	// book 盘口状态
	book *book.Book
	// sampler 快照采样器
	sampler *book.Sampler
	// exec 合成成交执行器
	exec *paper.Executor
	// tradeWriter 成交记录输出（可为 nil）
	tradeWriter RecordWriter
	// pnlWriter 盈亏点输出（可为 nil）
	pnlWriter RecordWriter
}

// New 创建回放执行器
// 参数 cfg: 模拟参数（已在配置层验证；步长/上限/手数均为正数）
// 参数 tradeWriter: 成交记录输出，nil 表示不输出
// 参数 pnlWriter: 盈亏点输出，nil 表示不输出
func New(cfg config.SimConfig, tradeWriter, pnlWriter RecordWriter) *Runner {
	b := book.New()
	return &Runner{
		book:        b,
		sampler:     book.NewSampler(b, cfg.SamplingStride),
		exec:        paper.NewExecutor(cfg),
		tradeWriter: tradeWriter,
		pnlWriter:   pnlWriter,
	}
}

// Run 对事件流执行一次完整回放
// 顺序消费事件直至流结束；每处理一个事件检查一次 ctx（流式变体的
// 取消点）。取消时返回已完成部分的结果与 ctx.Err()。
// 空事件流产出空成交日志与空盈亏序列，是合法结果而非错误。
func (r *Runner) Run(ctx context.Context, src feed.Source) (*Result, error) {
	res := &Result{}

	for ordinal := int64(0); ; ordinal++ {
		select {
		case <-ctx.Done():
			r.finish(res)
			return res, ctx.Err()
		default:
		}

		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.finish(res)
			return res, err
		}

		res.Events++

		// 畸形事件: 不改变盘口、不产出快照，但占用事件序号
		if ev == nil || !ev.HasSide() {
			res.Malformed++
			continue
		}

		r.book.Apply(ev)

		snap, ok := r.sampler.Observe(ordinal, ev.TsUs)
		if !ok {
			continue
		}
		r.onSnapshot(res, &snap)
	}

	r.finish(res)
	return res, nil
}

// onSnapshot 处理一个新产出的快照
// 聚合统计 → 成交检测 → 输出
func (r *Runner) onSnapshot(res *Result, snap *model.BookSnapshot) {
	if res.Snapshots == 0 {
		res.FirstTsUs = snap.TsUs
	}
	res.Snapshots++
	res.LastTsUs = snap.TsUs
	res.SumMid += snap.Mid
	res.SumSpread += snap.Spread
	res.LastMid = snap.Mid

	trade, pnl, appended := r.exec.OnSnapshot(snap)
	if trade != nil {
		_ = r.write(r.tradeWriter, trade)
	}
	if appended {
		_ = r.write(r.pnlWriter, &model.PnLPoint{TsUs: snap.TsUs, TotalPnL: pnl})
	}
}

// finish 回放收尾，挂载只读账户状态
func (r *Runner) finish(res *Result) {
	res.Account = r.exec.Account()
}

func (r *Runner) write(w RecordWriter, v any) error {
	if w == nil {
		return nil
	}
	return w.Write(v)
}
