// Package model 定义回测器中使用的核心数据结构。
package model

// BookSnapshot 盘口快照
// 按固定采样步长从盘口状态抽取的离散快照，仅在买卖双方均有有效档位时产出。
// 这是对完整事件流的有意有损压缩，快照序列完全由事件流与步长决定。
type BookSnapshot struct {
	// TsUs 触发采样的事件时间戳（微秒）
	TsUs int64 `json:"ts_us"`
	// BestBid 最优买价（所有有效买档中的最高价）
	BestBid float64 `json:"best_bid"`
	// BestAsk 最优卖价（所有有效卖档中的最低价）
	BestAsk float64 `json:"best_ask"`
	// Mid 中间价: (BestBid + BestAsk) / 2
	Mid float64 `json:"mid"`
	// Spread 价差: BestAsk - BestBid
	// 允许盘口交叉（Spread 为负），不做拒绝
	Spread float64 `json:"spread"`
	// BidSize 买方有效档位数量合计
	BidSize int64 `json:"bid_size"`
	// AskSize 卖方有效档位数量合计
	AskSize int64 `json:"ask_size"`
}

// QuotePair 双边报价
// 由快照与当前库存推导，每个快照重新计算，不做持久化
type QuotePair struct {
	// Bid 我方买报价
	Bid float64
	// Ask 我方卖报价
	Ask float64
}
