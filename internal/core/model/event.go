// Package model 定义回测器中使用的核心数据结构。
// 包含订单簿更新事件、盘口快照、报价、成交与账户状态等核心类型。
package model

import (
	"time"

	"lob-mm-backtest/internal/util/timeutil"
)

// EventType 订单簿事件类型
type EventType string

const (
	// EventAdd 新增档位
	// 语义与 modify 相同：无条件覆盖 (side, level) 档位
	EventAdd EventType = "add"
	// EventModify 修改档位
	EventModify EventType = "modify"
	// EventCancel 撤销档位
	// 档位不存在时为静默 no-op，不是错误
	EventCancel EventType = "cancel"
)

// Side 订单簿方向
type Side string

const (
	// SideBid 买方
	SideBid Side = "B"
	// SideAsk 卖方
	SideAsk Side = "S"
	// SideNone 方向缺失
	// 源数据中存在无方向的事件（如集合竞价消息），此类事件不得改变盘口状态
	SideNone Side = ""
)

// Event 订单簿更新事件
// 由行情源按时间顺序产出；时间戳非递减，但 Level 顺序不代表价格排序
type Event struct {
	// TsUs 事件时间戳（微秒）
	TsUs int64 `json:"ts_us"`
	// Type 事件类型: add, modify, cancel
	Type EventType `json:"event_type"`
	// Side 方向: B, S；缺失或无法解析时为 SideNone
	Side Side `json:"side"`
	// Price 价格
	Price float64 `json:"price"`
	// Size 数量
	Size int64 `json:"size"`
	// OrderID 订单号（部分数据源提供，回放逻辑不使用）
	OrderID int64 `json:"order_id,omitempty"`
	// Level 深度档位索引，0 为最优档
	Level int `json:"level"`
}

// HasSide 判断事件方向是否有效
// 方向无效的事件（含解析失败的畸形事件）视为 no-op：
// 既不改变盘口，也不产生快照，但仍占用一个事件序号
func (e *Event) HasSide() bool {
	return e.Side == SideBid || e.Side == SideAsk
}

// Time 获取事件时间的 time.Time 表示
func (e *Event) Time() time.Time {
	return timeutil.MicrosToTime(e.TsUs)
}
