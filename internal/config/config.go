// Package config 负责加载和验证 YAML 配置文件。
// 提供回测器所需的所有配置项，包括行情源、模拟参数与输出设置。
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// 行情源类型常量
const (
	// FeedCSV 从本地 CSV 文件回放
	FeedCSV = "csv"
	// FeedWS 从 WebSocket 流接收（流式变体）
	FeedWS = "ws"
)

// Config 应用配置根结构
// 包含所有子模块的配置项
type Config struct {
	// App 应用基础配置
	App AppConfig `yaml:"app"`
	// Feed 行情源配置
	Feed FeedConfig `yaml:"feed"`
	// Sim 做市模拟参数配置
	Sim SimConfig `yaml:"sim"`
	// Output 输出配置
	Output OutputConfig `yaml:"output"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	// Name 应用名称，用于日志标识
	Name string `yaml:"name"`
	// LogLevel 日志级别: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// FeedConfig 行情源配置
type FeedConfig struct {
	// Source 行情源类型: csv 或 ws
	Source string `yaml:"source"`
	// Path CSV 文件路径（source=csv 时必填）
	Path string `yaml:"path"`
	// URL WebSocket 连接地址（source=ws 时必填）
	URL string `yaml:"url"`
	// BufferSize WebSocket 事件通道缓冲区大小
	BufferSize int `yaml:"buffer_size"`
	// ReadTimeoutMs WebSocket 读取超时（毫秒）
	ReadTimeoutMs int `yaml:"read_timeout_ms"`
}

// SimConfig 做市模拟参数配置
type SimConfig struct {
	// SamplingStride 快照采样步长（每 N 个事件采样一次）
	SamplingStride int64 `yaml:"sampling_stride"`
	// PositionLimit 库存上限（硬约束，|inventory| 不得超过）
	PositionLimit int64 `yaml:"position_limit"`
	// LotSize 单笔成交手数（固定手数，不存在部分成交）
	LotSize int64 `yaml:"lot_size"`
	// RiskAversion 风险厌恶系数 γ
	RiskAversion float64 `yaml:"risk_aversion"`
	// SkewScale 库存偏移缩放系数
	SkewScale float64 `yaml:"skew_scale"`
	// InitialCash 初始资金
	InitialCash float64 `yaml:"initial_cash"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	// Dir 输出目录
	Dir string `yaml:"dir"`
	// TradesEnabled 是否输出成交文件
	TradesEnabled bool `yaml:"trades_enabled"`
	// PnLEnabled 是否输出盈亏序列文件
	PnLEnabled bool `yaml:"pnl_enabled"`
	// SummaryEnabled 是否输出汇总文件
	SummaryEnabled bool `yaml:"summary_enabled"`
	// BufferSize 异步写入缓冲区大小
	BufferSize int `yaml:"buffer_size"`
}

// Load 从文件加载配置并验证
// 参数 path: 配置文件路径
// 返回: 解析后的配置对象，若失败则返回错误
func Load(path string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析 YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 设置默认值
	cfg.setDefaults()

	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置配置默认值
func (c *Config) setDefaults() {
	// 应用默认值
	if c.App.Name == "" {
		c.App.Name = "lob-mm-backtest"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}

	// 行情源默认值
	if c.Feed.Source == "" {
		c.Feed.Source = FeedCSV
	}
	if c.Feed.BufferSize == 0 {
		c.Feed.BufferSize = 1000
	}
	if c.Feed.ReadTimeoutMs == 0 {
		c.Feed.ReadTimeoutMs = 30000 // 30 秒
	}

	// 模拟参数默认值
	if c.Sim.SamplingStride == 0 {
		c.Sim.SamplingStride = 100
	}
	if c.Sim.PositionLimit == 0 {
		c.Sim.PositionLimit = 100
	}
	if c.Sim.LotSize == 0 {
		c.Sim.LotSize = 10
	}
	if c.Sim.RiskAversion == 0 {
		c.Sim.RiskAversion = 0.01
	}
	if c.Sim.SkewScale == 0 {
		c.Sim.SkewScale = 0.0001
	}
	if c.Sim.InitialCash == 0 {
		c.Sim.InitialCash = 100000.0
	}

	// 输出默认值
	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if c.Output.BufferSize == 0 {
		c.Output.BufferSize = 1000
	}
}

// Validate 验证配置合法性
// 检查所有必填项和数值范围；配置错误在启动时即为致命错误，回放拒绝运行
// 返回: 若配置无效则返回描述性错误
func (c *Config) Validate() error {
	var errs []string

	// 验证行情源配置
	switch c.Feed.Source {
	case FeedCSV:
		if c.Feed.Path == "" {
			errs = append(errs, "feed.path: CSV 行情源必须指定文件路径")
		}
	case FeedWS:
		if c.Feed.URL == "" {
			errs = append(errs, "feed.url: WebSocket 行情源必须指定连接地址")
		}
	default:
		errs = append(errs, fmt.Sprintf("feed.source: 无效的行情源类型 '%s'，有效值: csv, ws", c.Feed.Source))
	}
	if c.Feed.BufferSize < 0 {
		errs = append(errs, "feed.buffer_size: 缓冲区大小不能为负数")
	}

	// 验证模拟参数
	if c.Sim.SamplingStride <= 0 {
		errs = append(errs, "sim.sampling_stride: 采样步长必须为正数")
	}
	if c.Sim.PositionLimit <= 0 {
		errs = append(errs, "sim.position_limit: 库存上限必须为正数")
	}
	if c.Sim.LotSize <= 0 {
		errs = append(errs, "sim.lot_size: 成交手数必须为正数")
	}
	if c.Sim.RiskAversion < 0 {
		errs = append(errs, "sim.risk_aversion: 风险厌恶系数不能为负数")
	}
	if c.Sim.SkewScale < 0 {
		errs = append(errs, "sim.skew_scale: 库存偏移缩放系数不能为负数")
	}

	// 验证输出配置
	if c.Output.BufferSize < 0 {
		errs = append(errs, "output.buffer_size: 缓冲区大小不能为负数")
	}

	// 验证日志级别
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.App.LogLevel)] {
		errs = append(errs, fmt.Sprintf("app.log_level: 无效的日志级别 '%s'，有效值: debug, info, warn, error", c.App.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("配置验证错误:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
