// Package book 快照采样器测试
package book

import (
	"testing"

	"lob-mm-backtest/internal/core/model"
)

func TestSampler_StrideOne_FirstSnapshot(t *testing.T) {
	// 事件 0: 仅买方 → 不产出；事件 1: 双方齐备 → 产出
	b := New()
	s := NewSampler(b, 1)

	b.Apply(&model.Event{TsUs: 10, Type: model.EventAdd, Side: model.SideBid, Price: 100.00, Size: 10, Level: 0})
	if _, ok := s.Observe(0, 10); ok {
		t.Fatalf("单边盘口不应产出快照")
	}

	b.Apply(&model.Event{TsUs: 20, Type: model.EventAdd, Side: model.SideAsk, Price: 100.10, Size: 10, Level: 0})
	snap, ok := s.Observe(1, 20)
	if !ok {
		t.Fatalf("应产出首个快照")
	}
	if snap.Mid != 100.05 {
		t.Fatalf("Mid=%v, want 100.05", snap.Mid)
	}
	if snap.Spread != 100.10-100.00 {
		t.Fatalf("Spread=%v, want 0.10", snap.Spread)
	}
	if snap.TsUs != 20 {
		t.Fatalf("TsUs=%v, want 20（取触发事件的时间戳）", snap.TsUs)
	}
}

func TestSampler_StrideSemantics(t *testing.T) {
	b := New()
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideBid, Price: 100.00, Size: 10, Level: 0})
	b.Apply(&model.Event{Type: model.EventAdd, Side: model.SideAsk, Price: 100.10, Size: 10, Level: 0})

	s := NewSampler(b, 100)

	// 仅序号 ≡ 0 (mod 100) 的事件产出快照
	for _, tc := range []struct {
		ordinal int64
		want    bool
	}{
		{0, true},
		{1, false},
		{99, false},
		{100, true},
		{101, false},
		{200, true},
	} {
		_, got := s.Observe(tc.ordinal, 0)
		if got != tc.want {
			t.Fatalf("Observe(%d)=%v, want %v", tc.ordinal, got, tc.want)
		}
	}
}

func TestSampler_SkipIsSilent(t *testing.T) {
	// 空盘口 + 命中步长：静默跳过，不是错误
	b := New()
	s := NewSampler(b, 100)
	if _, ok := s.Observe(0, 0); ok {
		t.Fatalf("空盘口命中步长时应静默跳过")
	}
}
