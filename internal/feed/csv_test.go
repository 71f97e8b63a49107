// Package feed CSV 事件流测试
package feed

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"lob-mm-backtest/internal/core/model"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ticks.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}
	return path
}

func readAll(t *testing.T, src Source) []*model.Event {
	t.Helper()
	var events []*model.Event
	for {
		ev, err := src.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		events = append(events, ev)
	}
}

func TestCSVSource_SevenColumns(t *testing.T) {
	path := writeTemp(t, "1000,add,B,100.00,10,1,0\n2000,cancel,S,100.10,0,2,3\n")

	src, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV: %v", err)
	}
	defer src.Close()

	events := readAll(t, src)
	if len(events) != 2 {
		t.Fatalf("事件数=%d, want 2", len(events))
	}

	ev := events[0]
	if ev.TsUs != 1000 || ev.Type != model.EventAdd || ev.Side != model.SideBid {
		t.Fatalf("首条事件解析错误: %+v", ev)
	}
	if ev.Price != 100.00 || ev.Size != 10 || ev.OrderID != 1 || ev.Level != 0 {
		t.Fatalf("首条事件字段错误: %+v", ev)
	}

	ev = events[1]
	if ev.Type != model.EventCancel || ev.Side != model.SideAsk || ev.Level != 3 {
		t.Fatalf("第二条事件解析错误: %+v", ev)
	}
}

func TestCSVSource_SixColumns(t *testing.T) {
	path := writeTemp(t, "1000,modify,S,99.95,7,2\n")

	src, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV: %v", err)
	}
	defer src.Close()

	events := readAll(t, src)
	if len(events) != 1 {
		t.Fatalf("事件数=%d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != model.EventModify || ev.Side != model.SideAsk || ev.Level != 2 {
		t.Fatalf("6 列布局解析错误: %+v", ev)
	}
	if ev.OrderID != 0 {
		t.Fatalf("6 列布局不含订单号: %+v", ev)
	}
}

func TestCSVSource_HeaderSkipped(t *testing.T) {
	// 表头不占用事件序号
	path := writeTemp(t, "ts_us,event_type,side,price,size,level\n1000,add,B,100.00,10,0\n")

	src, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV: %v", err)
	}
	defer src.Close()

	events := readAll(t, src)
	if len(events) != 1 {
		t.Fatalf("事件数=%d, want 1（表头被跳过）", len(events))
	}
	if events[0].TsUs != 1000 {
		t.Fatalf("TsUs=%d, want 1000", events[0].TsUs)
	}
}

func TestCSVSource_MalformedRows(t *testing.T) {
	// 方向缺失/未知、价格或数量无法解析 → 产出 Side 为空的畸形事件，
	// 占用序号但不报错
	path := writeTemp(t,
		"1000,add,,100.00,10,0\n"+ // 方向缺失
			"2000,add,X,100.00,10,0\n"+ // 方向未知
			"3000,add,B,abc,10,0\n"+ // 价格无法解析
			"4000,add,B,100.00,xyz,0\n"+ // 数量无法解析
			"5000,add,B,100.00,10,0\n") // 正常

	src, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV: %v", err)
	}
	defer src.Close()

	events := readAll(t, src)
	if len(events) != 5 {
		t.Fatalf("事件数=%d, want 5（畸形行也占序号）", len(events))
	}
	for i := 0; i < 4; i++ {
		if events[i].HasSide() {
			t.Fatalf("第 %d 行应为畸形事件: %+v", i, events[i])
		}
	}
	if !events[4].HasSide() {
		t.Fatalf("最后一行应为有效事件: %+v", events[4])
	}
}

func TestCSVSource_FloatSize(t *testing.T) {
	// 部分生成器把数量写成浮点格式
	path := writeTemp(t, "1000,add,B,100.00,10.0,0\n")

	src, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV: %v", err)
	}
	defer src.Close()

	events := readAll(t, src)
	if len(events) != 1 || events[0].Size != 10 {
		t.Fatalf("浮点数量解析错误: %+v", events)
	}
}

func TestCSVSource_EmptyLinesSkipped(t *testing.T) {
	path := writeTemp(t, "\n1000,add,B,100.00,10,0\n\n\n")

	src, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV: %v", err)
	}
	defer src.Close()

	events := readAll(t, src)
	if len(events) != 1 {
		t.Fatalf("事件数=%d, want 1（空行跳过）", len(events))
	}
}

func TestSliceSource_Order(t *testing.T) {
	events := []*model.Event{
		{TsUs: 1}, {TsUs: 2}, {TsUs: 3},
	}
	src := NewSliceSource(events)
	got := readAll(t, src)
	if len(got) != 3 {
		t.Fatalf("事件数=%d, want 3", len(got))
	}
	for i, ev := range got {
		if ev.TsUs != int64(i+1) {
			t.Fatalf("顺序错乱: %d → %d", i, ev.TsUs)
		}
	}
}
