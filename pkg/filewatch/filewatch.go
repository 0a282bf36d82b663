// Package filewatch 监听单个文件的变更并在去抖后回调
package filewatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce 编辑器保存时常连续触发多个事件，合并为一次回调
const DefaultDebounce = 300 * time.Millisecond

// Watcher 监听文件所在目录，只对目标文件名的事件做出响应
// 监听目录而不是文件本身，文件被替换（rename/重新创建）后仍能收到事件
type Watcher struct {
	path     string
	name     string
	debounce time.Duration
	onChange func()
	logger   *zap.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	doneCh  chan struct{}
}

// New 创建 Watcher；onChange 在去抖后于监听协程中调用
func New(path string, debounce time.Duration, onChange func(), logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		name:     filepath.Base(path),
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}
}

// Start 开始监听，非阻塞；重复调用无副作用
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("监听目录 %s 失败: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.watcher = fw
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	go w.run(ctx, fw, w.doneCh)

	w.logger.Info("开始监听数据文件", zap.String("path", w.path))
	return nil
}

// Stop 停止监听并等待协程退出
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.watcher == nil {
		w.mu.Unlock()
		return
	}
	cancel, done, fw := w.cancel, w.doneCh, w.watcher
	w.watcher = nil
	w.mu.Unlock()

	cancel()
	<-done
	if err := fw.Close(); err != nil {
		w.logger.Warn("关闭文件监听失败", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("数据文件变更", zap.String("event", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.onChange()

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("文件监听错误", zap.Error(err))
		}
	}
}
