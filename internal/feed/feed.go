// Package feed 实现订单簿事件流的接入。
// 回放核心对物理编码不敏感，只依赖本包提供的有序事件迭代器；
// 事件顺序以流内顺序为准。
package feed

import (
	"io"

	"lob-mm-backtest/internal/core/model"
)

// Source 有序订单簿事件流
// Next 返回流中的下一条事件；流结束时返回 io.EOF。
// 畸形记录（方向/价格/数量无法解析）不作为错误返回，而是产出
// Side 为空的事件，保证事件序号与源数据记录一一对应。
type Source interface {
	// Next 获取下一条事件
	Next() (*model.Event, error)
	// Close 关闭事件流并释放资源
	Close() error
}

// SliceSource 内存事件流
// 将给定切片按顺序产出，主要用于测试与确定性验证。
type SliceSource struct {
	events []*model.Event
	pos    int
}

// NewSliceSource 创建内存事件流
// 参数 events: 按顺序产出的事件切片
func NewSliceSource(events []*model.Event) *SliceSource {
	return &SliceSource{events: events}
}

// Next 获取下一条事件
func (s *SliceSource) Next() (*model.Event, error) {
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// Close 关闭事件流（内存流无资源可释放）
func (s *SliceSource) Close() error {
	return nil
}
