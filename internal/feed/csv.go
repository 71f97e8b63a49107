// Package feed 实现订单簿事件流的接入。
package feed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"lob-mm-backtest/internal/core/model"
	"lob-mm-backtest/internal/util/fastparse"
)

// CSVSource CSV 文件事件流
// 读取无表头的逗号分隔行情文件，每行一条订单簿更新事件。
// 支持两种列布局：
//
//	6 列: ts_us,event_type,side,price,size,level
//	7 列: ts_us,event_type,side,price,size,order_id,level
//
// 若文件首行是表头（首列非数字），则跳过且不占用事件序号。
type CSVSource struct {
	// f 底层文件
	f *os.File
	// sc 按行扫描器
	sc *bufio.Scanner
	// lineNo 已读取的行号（从 1 开始，用于首行表头判断）
	lineNo int64
}

// OpenCSV 打开 CSV 行情文件
// 参数 path: 文件路径
func OpenCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开行情文件失败: %w", err)
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &CSVSource{
		f:  f,
		sc: sc,
	}, nil
}

// Next 获取下一条事件
// 空行跳过；首行表头跳过；其余每行恰好产出一条事件。
// 方向/价格/数量无法解析的行产出 Side 为空的畸形事件（占用序号但
// 不会改变盘口），只有底层 I/O 失败才返回错误。
func (s *CSVSource) Next() (*model.Event, error) {
	for s.sc.Scan() {
		s.lineNo++
		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")

		// 首行表头：首列不是数字时间戳
		if s.lineNo == 1 {
			if _, err := fastparse.ParseInt(strings.TrimSpace(fields[0])); err != nil {
				continue
			}
		}

		return parseRow(fields), nil
	}

	if err := s.sc.Err(); err != nil {
		return nil, fmt.Errorf("读取行情文件失败: %w", err)
	}
	return nil, io.EOF
}

// Close 关闭底层文件
func (s *CSVSource) Close() error {
	return s.f.Close()
}

// parseRow 解析一行 CSV 记录
// 任何必需字段（方向/价格/数量）解析失败都返回畸形事件而非错误；
// 档位与订单号为可缺省字段，解析失败按 0 处理。
func parseRow(fields []string) *model.Event {
	ev := &model.Event{Side: model.SideNone}

	if len(fields) < 6 {
		return ev
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if ts, err := fastparse.ParseInt(fields[0]); err == nil {
		ev.TsUs = ts
	}

	ev.Type = model.EventType(fields[1])

	side := ParseSide(fields[2])
	price, priceErr := fastparse.ParseFloat(fields[3])
	size, sizeErr := fastparse.ParseInt(fields[4])
	if sizeErr != nil {
		// 部分生成器把数量写成浮点格式（如 "10.0"）
		if f, err := fastparse.ParseFloat(fields[4]); err == nil {
			size, sizeErr = int64(f), nil
		}
	}

	// 畸形记录: 方向缺失或价格/数量无法解析。事件保留 Side 为空，
	// 按 no-op 进入回放流程
	if side == model.SideNone || priceErr != nil || sizeErr != nil {
		return ev
	}

	ev.Side = side
	ev.Price = price
	ev.Size = size

	switch len(fields) {
	case 6:
		ev.Level = int(fastparse.MustParseInt(fields[5]))
	default:
		ev.OrderID = fastparse.MustParseInt(fields[5])
		ev.Level = int(fastparse.MustParseInt(fields[6]))
	}

	return ev
}

// ParseSide 将 CSV 方向字段解析为 Side
// "B" 为买方，"S" 为卖方，其余值（含空串）均视为方向缺失
func ParseSide(s string) model.Side {
	switch s {
	case "B":
		return model.SideBid
	case "S":
		return model.SideAsk
	default:
		return model.SideNone
	}
}
