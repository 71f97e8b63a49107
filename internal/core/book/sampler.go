// Package book 实现按 (方向, 档位) 维护的盘口状态重建与快照采样。
package book

import (
	"lob-mm-backtest/internal/core/model"
)

// Sampler 快照采样器
// 按固定步长对盘口状态做跨步采样：当事件的 0 起始序号模步长为 0，
// 且买卖双方同时非空时，产出一个快照；其余事件静默跳过。
// 注意：序号覆盖事件流中的所有记录（包括畸形记录），畸形记录占用序号
// 但永远不产出快照——逐字节可复现的回放依赖这一语义。
type Sampler struct {
	// book 被采样的盘口状态
	book *Book
	// stride 采样步长（已在配置层校验为正数）
	stride int64
}

// NewSampler 创建快照采样器
// 参数 b: 盘口状态
// 参数 stride: 采样步长（每处理 stride 个事件尝试采样一次）
func NewSampler(b *Book, stride int64) *Sampler {
	return &Sampler{
		book:   b,
		stride: stride,
	}
}

// Observe 在处理完序号为 ordinal 的有效事件后尝试采样
// 参数 ordinal: 事件在流中的 0 起始序号
// 参数 tsUs: 该事件的时间戳（微秒）
// 返回: 若该序号命中步长且双方非空，返回快照与 true；否则 ok=false
func (s *Sampler) Observe(ordinal int64, tsUs int64) (model.BookSnapshot, bool) {
	if ordinal%s.stride != 0 {
		return model.BookSnapshot{}, false
	}
	return s.book.Snapshot(tsUs)
}
