// Package timeutil 提供时间相关的工具函数。
// 行情事件使用微秒时间戳，本包负责微秒/纳秒/秒之间的转换，
// 以及 WebSocket 行情源所需的高精度当前时间。
package timeutil

import (
	"time"
)

var (
	// baseTime 基准时间点（包含单调时钟读数）
	baseTime = time.Now()
	// baseUnixNs 基准时间点对应的 Unix 纳秒时间戳
	baseUnixNs = baseTime.UnixNano()
)

// NowNano 获取当前时间的纳秒时间戳
// 使用"单调时钟 + 启动时 Unix 时间"组合实现：
// NowNano = baseUnixNs + time.Since(baseTime).Nanoseconds()
// 系统时间跳变（NTP/手动调整）时仍能保持时间差的单调性
// 返回: 当前时间的 Unix 纳秒时间戳
func NowNano() int64 {
	return baseUnixNs + time.Since(baseTime).Nanoseconds()
}

// MicrosToNano 将微秒时间戳转换为纳秒
// 参数 us: 微秒时间戳
// 返回: 纳秒时间戳
func MicrosToNano(us int64) int64 {
	return us * 1_000
}

// NanoToMicros 将纳秒时间戳转换为微秒
// 参数 ns: 纳秒时间戳
// 返回: 微秒时间戳
func NanoToMicros(ns int64) int64 {
	return ns / 1_000
}

// MicrosToTime 将微秒时间戳转换为 time.Time
// 参数 us: 微秒时间戳
// 返回: time.Time 对象
func MicrosToTime(us int64) time.Time {
	return time.UnixMicro(us)
}

// NanoToTime 将纳秒时间戳转换为 time.Time
// 参数 ns: 纳秒时间戳
// 返回: time.Time 对象
func NanoToTime(ns int64) time.Time {
	return time.Unix(0, ns)
}

// DurationSec 计算两个微秒时间戳之间的秒差
// 参数 startUs: 开始时间（微秒）
// 参数 endUs: 结束时间（微秒）
// 返回: 时间差（秒，浮点数以保留精度）
func DurationSec(startUs, endUs int64) float64 {
	return float64(endUs-startUs) / 1e6
}
