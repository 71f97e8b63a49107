// Package feed 实现订单簿事件流的接入。
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"lob-mm-backtest/internal/config"
	"lob-mm-backtest/internal/core/model"
	"lob-mm-backtest/internal/util/backoff"
	"lob-mm-backtest/internal/util/timeutil"
)

// WSSource WebSocket 事件流（流式变体）
// 从远端以 JSON 消息接收与 CSV 相同字段的订单簿更新事件。
// 事件顺序以消息到达顺序为准；断线后按指数退避重连。
// 注意：重连期间丢失的消息无法补齐，流式回放不保证与文件回放逐字节一致。
type WSSource struct {
	// cfg 行情源配置
	cfg *config.FeedConfig
	// logger 日志记录器
	logger *zap.Logger
	// conn WebSocket 连接
	conn *websocket.Conn
	// connMu 连接锁
	connMu sync.Mutex
	// eventCh 事件输出通道
	eventCh chan *model.Event
	// backoff 重连退避
	backoff *backoff.Backoff
	// closed 是否已关闭
	closed int32
	// lastMsgNs 最后收到消息的时间（纳秒）
	lastMsgNs int64
	// wg 读取 goroutine 的等待组
	wg sync.WaitGroup
}

// OpenWS 建立 WebSocket 事件流并启动读取循环
// 参数 ctx: 上下文，取消后流结束（Next 返回 io.EOF）
// 参数 cfg: 行情源配置
// 参数 logger: 日志记录器
func OpenWS(ctx context.Context, cfg *config.FeedConfig, logger *zap.Logger) (*WSSource, error) {
	s := &WSSource{
		cfg:     cfg,
		logger:  logger.Named("wsfeed"),
		eventCh: make(chan *model.Event, cfg.BufferSize),
		backoff: backoff.NewDefault(),
	}

	if err := s.dial(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop(ctx)

	return s, nil
}

// dial 建立连接
func (s *WSSource) dial(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("连接行情 WebSocket 失败: %w", err)
	}

	s.conn = conn
	s.backoff.Reset()
	s.logger.Info("行情 WebSocket 连接成功", zap.String("url", s.cfg.URL))
	return nil
}

// readLoop 读取循环
// 持续读取消息并解析为事件；连接失败时退避重连，ctx 取消后
// 关闭事件通道结束流
func (s *WSSource) readLoop(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.eventCh)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if atomic.LoadInt32(&s.closed) == 1 {
			return
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			if !s.reconnect(ctx) {
				return
			}
			continue
		}

		if s.cfg.ReadTimeoutMs > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(time.Duration(s.cfg.ReadTimeoutMs) * time.Millisecond))
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if atomic.LoadInt32(&s.closed) == 1 {
				return
			}
			s.logger.Warn("读取行情消息失败", zap.Error(err))
			if !s.reconnect(ctx) {
				return
			}
			continue
		}

		atomic.StoreInt64(&s.lastMsgNs, timeutil.NowNano())

		ev := &model.Event{Side: model.SideNone}
		if err := json.Unmarshal(data, ev); err != nil {
			// 畸形消息同样占用一个事件序号，以 no-op 进入回放流程
			s.logger.Debug("解析行情消息失败", zap.Error(err))
			ev = &model.Event{Side: model.SideNone}
		}
		if !ev.HasSide() {
			ev.Side = model.SideNone
		}

		select {
		case s.eventCh <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// reconnect 退避重连
// 返回 false 表示 ctx 已取消或流已关闭，读取循环应退出
func (s *WSSource) reconnect(ctx context.Context) bool {
	delay := s.backoff.Next()
	s.logger.Info("行情 WebSocket 重连", zap.Duration("delay", delay), zap.Int("attempt", s.backoff.Attempt()))

	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
	}

	if atomic.LoadInt32(&s.closed) == 1 {
		return false
	}

	if err := s.dial(ctx); err != nil {
		s.logger.Warn("行情 WebSocket 重连失败", zap.Error(err))
		s.connMu.Lock()
		s.conn = nil
		s.connMu.Unlock()
	}
	return true
}

// Next 获取下一条事件
// 流结束（ctx 取消或 Close）后返回 io.EOF
func (s *WSSource) Next() (*model.Event, error) {
	ev, ok := <-s.eventCh
	if !ok {
		return nil, io.EOF
	}
	return ev, nil
}

// Close 关闭事件流
// 应在 ctx 取消后调用，否则读取循环可能仍阻塞在事件通道上
func (s *WSSource) Close() error {
	atomic.StoreInt32(&s.closed, 1)

	s.connMu.Lock()
	conn := s.conn
	s.conn = nil
	s.connMu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	s.wg.Wait()
	return err
}
