// Package book 盘口状态测试
package book

import (
	"testing"

	"lob-mm-backtest/internal/core/model"
)

func TestBook_BestBidAsk_Basic(t *testing.T) {
	b := New()
	b.Apply(&model.Event{TsUs: 1, Type: model.EventAdd, Side: model.SideBid, Price: 100.00, Size: 10, Level: 0})
	b.Apply(&model.Event{TsUs: 2, Type: model.EventAdd, Side: model.SideAsk, Price: 100.10, Size: 10, Level: 0})

	bid, ok := b.BestBid()
	if !ok || bid != 100.00 {
		t.Fatalf("BestBid=%v ok=%v, want 100.00 true", bid, ok)
	}
	ask, ok := b.BestAsk()
	if !ok || ask != 100.10 {
		t.Fatalf("BestAsk=%v ok=%v, want 100.10 true", ask, ok)
	}

	snap, ok := b.Snapshot(2)
	if !ok {
		t.Fatalf("双方非空时应产出快照")
	}
	if snap.Mid != 100.05 {
		t.Fatalf("Mid=%v, want 100.05", snap.Mid)
	}
	// spread == best_ask - best_bid 恒等式
	if snap.Spread != snap.BestAsk-snap.BestBid {
		t.Fatalf("Spread=%v, want %v", snap.Spread, snap.BestAsk-snap.BestBid)
	}
}

func TestBook_UnsortedLevels_ScanNotIndex(t *testing.T) {
	// 档位索引不是价格排序：最优价必须来自全量扫描
	b := New()
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 99.50, Size: 5, Level: 0})
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 100.00, Size: 5, Level: 3})
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideAsk, Price: 100.30, Size: 5, Level: 0})
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideAsk, Price: 100.10, Size: 5, Level: 2})

	if bid, _ := b.BestBid(); bid != 100.00 {
		t.Fatalf("BestBid=%v, want 100.00 (来自 level 3)", bid)
	}
	if ask, _ := b.BestAsk(); ask != 100.10 {
		t.Fatalf("BestAsk=%v, want 100.10 (来自 level 2)", ask)
	}
}

func TestBook_ModifyReplaces(t *testing.T) {
	b := New()
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 100.00, Size: 10, Level: 0})
	b.Apply(&model.Event{Type: model.EventModify, Side: model.SideBid, Price: 99.90, Size: 7, Level: 0})

	if bid, _ := b.BestBid(); bid != 99.90 {
		t.Fatalf("BestBid=%v, want 99.90（modify 为无条件覆盖）", bid)
	}
	if sz := b.BidSize(); sz != 7 {
		t.Fatalf("BidSize=%v, want 7", sz)
	}
	if d := b.BidDepth(); d != 1 {
		t.Fatalf("BidDepth=%v, want 1（同一 (side, level) 至多一个档位）", d)
	}
}

func TestBook_CancelAbsentLevel_NoOp(t *testing.T) {
	b := New()
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 100.00, Size: 10, Level: 0})

	// 撤销不存在的档位：静默 no-op，不 panic，不改状态
	b.Apply(&model.Event{Type: model.EventCancel, Side: model.SideBid, Price: 0, Size: 0, Level: 9})
	b.Apply(&model.Event{Type: model.EventCancel, Side: model.SideAsk, Price: 0, Size: 0, Level: 0})

	if bid, ok := b.BestBid(); !ok || bid != 100.00 {
		t.Fatalf("BestBid=%v ok=%v, want 100.00 true", bid, ok)
	}
	if b.AskDepth() != 0 {
		t.Fatalf("AskDepth=%v, want 0", b.AskDepth())
	}
}

func TestBook_MissingSide_NoOp(t *testing.T) {
	b := New()
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 100.00, Size: 10, Level: 0})

	before, _ := b.Snapshot(0)
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideNone, Price: 123.45, Size: 99, Level: 0})
	b.Apply(&model.Event{Type: model.EventCancel, Side: "X", Price: 0, Size: 0, Level: 0})
	after, _ := b.Snapshot(0)

	if before != after {
		t.Fatalf("方向缺失的事件不得改变盘口状态: before=%+v after=%+v", before, after)
	}
	if b.BidDepth() != 1 || b.AskDepth() != 0 {
		t.Fatalf("档位数改变: bid=%d ask=%d", b.BidDepth(), b.AskDepth())
	}
}

func TestBook_EmptySide_NoSnapshot(t *testing.T) {
	b := New()
	if _, ok := b.Snapshot(0); ok {
		t.Fatalf("空盘口不应产出快照")
	}

	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 100.00, Size: 10, Level: 0})
	if _, ok := b.Snapshot(0); ok {
		t.Fatalf("单边盘口不应产出快照")
	}
	if _, ok := b.BestAsk(); ok {
		t.Fatalf("卖方无档位时 BestAsk 应返回 ok=false，不得返回哨兵值")
	}
}

func TestBook_CrossedBook_Allowed(t *testing.T) {
	// 盘口交叉允许产出快照，Spread 为负
	b := New()
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 100.20, Size: 10, Level: 0})
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideAsk, Price: 100.10, Size: 10, Level: 0})

	snap, ok := b.Snapshot(0)
	if !ok {
		t.Fatalf("交叉盘口应照常产出快照")
	}
	if snap.Spread >= 0 {
		t.Fatalf("Spread=%v, want 负值", snap.Spread)
	}
	if snap.Spread != snap.BestAsk-snap.BestBid {
		t.Fatalf("Spread 恒等式被破坏")
	}
}

func TestBook_AggregateSizes(t *testing.T) {
	b := New()
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 100.00, Size: 10, Level: 0})
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 99.90, Size: 20, Level: 1})
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideAsk, Price: 100.10, Size: 5, Level: 0})
	b.Apply(&model.Event{Type: model.EventCancel, Side: model.SideBid, Level: 1})

	if sz := b.BidSize(); sz != 10 {
		t.Fatalf("BidSize=%v, want 10", sz)
	}
	if sz := b.AskSize(); sz != 5 {
		t.Fatalf("AskSize=%v, want 5", sz)
	}
}
