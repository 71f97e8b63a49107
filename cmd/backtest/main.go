// Package main 是订单簿回放做市回测器的入口点。
// 从 CSV 文件或 WebSocket 流消费有序的订单簿更新事件，重建盘口、
// 按步长采样快照、计算库存偏移报价、检测合成成交并跟踪盈亏。
//
// 重要：本系统仅用于回放模拟，严禁真实下单。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lob-mm-backtest/internal/config"
	"lob-mm-backtest/internal/core/replay"
	"lob-mm-backtest/internal/feed"
	"lob-mm-backtest/internal/output/jsonl"
	"lob-mm-backtest/internal/report"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 捕获 SIGINT/SIGTERM，触发优雅退出（回放在下一个事件边界停止）
	sigCh := make(chan os.Signal, 2)
	ossignal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("收到退出信号，开始优雅关闭")
		cancel()
	}()

	src, err := openSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("打开行情源失败", zap.Error(err))
		os.Exit(1)
	}

	var tradeWriter *jsonl.Writer
	var pnlWriter *jsonl.Writer
	var summaryWriter *jsonl.Writer
	if cfg.Output.TradesEnabled {
		tradeWriter, err = jsonl.NewWriter(fmt.Sprintf("%s/trades.jsonl", cfg.Output.Dir), cfg.Output.BufferSize)
		if err != nil {
			logger.Error("创建 trades writer 失败", zap.Error(err))
			os.Exit(1)
		}
	}
	if cfg.Output.PnLEnabled {
		pnlWriter, err = jsonl.NewWriter(fmt.Sprintf("%s/pnl.jsonl", cfg.Output.Dir), cfg.Output.BufferSize)
		if err != nil {
			logger.Error("创建 pnl writer 失败", zap.Error(err))
			os.Exit(1)
		}
	}
	if cfg.Output.SummaryEnabled {
		summaryWriter, err = jsonl.NewWriter(fmt.Sprintf("%s/summary.jsonl", cfg.Output.Dir), cfg.Output.BufferSize)
		if err != nil {
			logger.Error("创建 summary writer 失败", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("回放开始",
		zap.String("source", cfg.Feed.Source),
		zap.Int64("sampling_stride", cfg.Sim.SamplingStride),
		zap.Int64("position_limit", cfg.Sim.PositionLimit),
		zap.Int64("lot_size", cfg.Sim.LotSize),
		zap.Float64("risk_aversion", cfg.Sim.RiskAversion),
		zap.Float64("initial_cash", cfg.Sim.InitialCash),
	)

	start := time.Now()
	runner := replay.New(cfg.Sim, tradeWriter, pnlWriter)
	res, runErr := runner.Run(ctx, src)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("回放中断", zap.Error(runErr))
	}

	summary := report.Build(res)
	logger.Info("回放完成",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int64("events", summary.Events),
		zap.Int64("malformed", summary.Malformed),
		zap.Int64("snapshots", summary.Snapshots),
		zap.Int("total_trades", summary.TotalTrades),
		zap.Int64("final_position", summary.FinalPosition),
		zap.Float64("final_cash", summary.FinalCash),
		zap.Float64("total_pnl", summary.TotalPnL),
		zap.Float64("return_pct", summary.ReturnPct),
		zap.Float64("avg_mid", summary.AvgMid),
		zap.Float64("avg_spread_bps", summary.AvgSpreadBps),
		zap.Float64("projected_daily_pnl", summary.ProjectedDailyPnL),
	)

	if summaryWriter != nil {
		_ = summaryWriter.Write(summary)
		_ = summaryWriter.Flush()
	}

	// 优雅关闭（10s 超时）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		cancel()
		_ = src.Close()
		_ = tradeWriter.Close()
		_ = pnlWriter.Close()
		_ = summaryWriter.Close()
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("关闭超时，强制退出")
	case <-done:
		logger.Info("关闭完成")
	}
}

// openSource 按配置打开行情源
func openSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (feed.Source, error) {
	switch cfg.Feed.Source {
	case config.FeedWS:
		return feed.OpenWS(ctx, &cfg.Feed, logger)
	default:
		return feed.OpenCSV(cfg.Feed.Path)
	}
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
