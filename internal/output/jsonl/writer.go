// Package jsonl 实现异步 JSONL 文件写入。
// 成交日志与盈亏序列在回放热路径上产出，Write 只负责投递，
// 实际 JSON 编码与文件 I/O 在后台 goroutine 完成。
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

type reqType int

const (
	reqWrite reqType = iota
	reqFlush
	reqClose
)

type request struct {
	typ  reqType
	val  any
	done chan error
}

// Writer 异步 JSONL 写入器
// 单个后台 goroutine 串行处理写入请求，文件内记录顺序与投递顺序一致。
type Writer struct {
	// path 输出文件路径
	path string
	// reqCh 请求通道
	reqCh chan request

	closeOnce sync.Once
	closeErr  error
	closed    int32

	sendMu sync.Mutex

	wg sync.WaitGroup
}

// NewWriter 创建 JSONL 写入器
// 参数 path: 输出文件路径（目录不存在时自动创建）
// 参数 bufferSize: 请求通道缓冲区大小
func NewWriter(path string, bufferSize int) (*Writer, error) {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("打开输出文件失败: %w", err)
	}

	w := &Writer{
		path:  path,
		reqCh: make(chan request, bufferSize),
	}

	w.wg.Add(1)
	go w.run(f)

	return w, nil
}

// Write 异步写入一条 JSONL 记录
// 对 nil Writer 调用是安全的 no-op（输出项可按配置关闭）
func (w *Writer) Write(v any) error {
	if w == nil {
		return nil
	}
	if atomic.LoadInt32(&w.closed) == 1 {
		return fmt.Errorf("writer 已关闭")
	}
	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	if atomic.LoadInt32(&w.closed) == 1 {
		return fmt.Errorf("writer 已关闭")
	}
	w.reqCh <- request{typ: reqWrite, val: v}
	return nil
}

// Flush 强制 flush 文件缓冲区
func (w *Writer) Flush() error {
	if w == nil {
		return nil
	}
	if atomic.LoadInt32(&w.closed) == 1 {
		return nil
	}
	w.sendMu.Lock()
	defer w.sendMu.Unlock()
	if atomic.LoadInt32(&w.closed) == 1 {
		return nil
	}
	done := make(chan error, 1)
	w.reqCh <- request{typ: reqFlush, done: done}
	return <-done
}

// Close 关闭写入器（会先 flush）
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.closeOnce.Do(func() {
		atomic.StoreInt32(&w.closed, 1)
		w.sendMu.Lock()
		defer w.sendMu.Unlock()
		done := make(chan error, 1)
		w.reqCh <- request{typ: reqClose, done: done}
		w.closeErr = <-done
		close(w.reqCh)
	})
	w.wg.Wait()
	return w.closeErr
}

func (w *Writer) run(f *os.File) {
	defer w.wg.Done()
	defer f.Close()

	bw := bufio.NewWriterSize(f, 1<<20)
	reply := func(err error, done chan error) {
		if done != nil {
			done <- err
		}
	}

	for req := range w.reqCh {
		switch req.typ {
		case reqWrite:
			b, err := json.Marshal(req.val)
			if err != nil {
				continue
			}
			if _, err := bw.Write(b); err != nil {
				continue
			}
			if err := bw.WriteByte('\n'); err != nil {
				continue
			}
		case reqFlush:
			reply(bw.Flush(), req.done)
		case reqClose:
			reply(bw.Flush(), req.done)
			return
		}
	}
}
