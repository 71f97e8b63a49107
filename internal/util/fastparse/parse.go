// Package fastparse 提供高性能的字符串解析函数。
// 避免在热路径使用 fmt，统一使用 strconv 进行转换。
// 主要用于解析 CSV 行情文件中的时间戳、价格和数量字段。
package fastparse

import (
	"strconv"
)

// ParseFloat 快速解析浮点数字符串
// 参数 s: 待解析的字符串，如 "100.05"
// 返回: 解析后的浮点数和可能的错误
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// ParseInt 快速解析整数字符串
// 支持 64 位整数，用于解析微秒时间戳等字段
// 参数 s: 待解析的字符串，如 "1696000000000"
// 返回: 解析后的整数和可能的错误
func ParseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// MustParseInt 解析整数，失败时返回 0
// 用于可缺省的字段（如深度档位索引，缺失视为 0 档）
// 参数 s: 待解析的字符串
// 返回: 解析后的整数，失败返回 0
func MustParseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
