// Package book 实现按 (方向, 档位) 维护的盘口状态重建与快照采样。
// 单写者模式：整条回放链路只有一个控制流触碰盘口状态，无需加锁。
package book

import (
	"lob-mm-backtest/internal/core/model"
)

// levelEntry 单个深度档位的价格与数量
type levelEntry struct {
	price float64
	size  int64
}

// Book 盘口状态
// 每个 (side, level) 键至多一个有效档位；add 与 modify 均为无条件覆盖，
// cancel 为存在则删除。档位索引不可信任为价格排序，最优价通过全量扫描求得。
type Book struct {
	// bids 买方档位: level -> (price, size)
	bids map[int]levelEntry
	// asks 卖方档位: level -> (price, size)
	asks map[int]levelEntry
}

// New 创建空盘口
func New() *Book {
	return &Book{
		bids: make(map[int]levelEntry),
		asks: make(map[int]levelEntry),
	}
}

// Apply 应用一条订单簿更新事件
// 方向缺失或无法解析的事件不改变任何状态（集合竞价等无方向消息）。
// 未知事件类型同样不改变状态；cancel 不存在的档位是静默 no-op。
func (b *Book) Apply(ev *model.Event) {
	if ev == nil || !ev.HasSide() {
		return
	}

	levels := b.bids
	if ev.Side == model.SideAsk {
		levels = b.asks
	}

	switch ev.Type {
	case model.EventAdd, model.EventModify:
		levels[ev.Level] = levelEntry{price: ev.Price, size: ev.Size}
	case model.EventCancel:
		delete(levels, ev.Level)
	}
}

// BestBid 获取最优买价（所有有效买档中的最高价）
// 返回值 ok 为 false 表示买方无有效档位；不返回哨兵价格
func (b *Book) BestBid() (px float64, ok bool) {
	for _, lv := range b.bids {
		if !ok || lv.price > px {
			px = lv.price
			ok = true
		}
	}
	return px, ok
}

// BestAsk 获取最优卖价（所有有效卖档中的最低价）
// 返回值 ok 为 false 表示卖方无有效档位；不返回哨兵价格
func (b *Book) BestAsk() (px float64, ok bool) {
	for _, lv := range b.asks {
		if !ok || lv.price < px {
			px = lv.price
			ok = true
		}
	}
	return px, ok
}

// BidSize 买方有效档位数量合计
func (b *Book) BidSize() int64 {
	var total int64
	for _, lv := range b.bids {
		total += lv.size
	}
	return total
}

// AskSize 卖方有效档位数量合计
func (b *Book) AskSize() int64 {
	var total int64
	for _, lv := range b.asks {
		total += lv.size
	}
	return total
}

// BidDepth 买方有效档位个数
func (b *Book) BidDepth() int {
	return len(b.bids)
}

// AskDepth 卖方有效档位个数
func (b *Book) AskDepth() int {
	return len(b.asks)
}

// Snapshot 从当前盘口状态产出快照
// 参数 tsUs: 触发采样的事件时间戳（微秒）
// 任一方向无有效档位时返回 ok=false（EmptyBookSide 不是错误，只是不产出）。
// 盘口交叉（best_bid ≥ best_ask）照常产出，Spread 可为负。
func (b *Book) Snapshot(tsUs int64) (model.BookSnapshot, bool) {
	bid, bidOK := b.BestBid()
	ask, askOK := b.BestAsk()
	if !bidOK || !askOK {
		return model.BookSnapshot{}, false
	}

	return model.BookSnapshot{
		TsUs:    tsUs,
		BestBid: bid,
		BestAsk: ask,
		Mid:     (bid + ask) / 2,
		Spread:  ask - bid,
		BidSize: b.BidSize(),
		AskSize: b.AskSize(),
	}, true
}
