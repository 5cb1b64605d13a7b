package services

import (
	"context"
	"sync"
	"time"

	"folio/internal/cache"
	"folio/internal/logger"
)

type ViewAPI interface {
	IncreaseViewCount(ctx context.Context, portfolioID int64) error
}

// ViewRecorder 异步记录作品浏览量，页面渲染不等待计数请求
type ViewRecorder struct {
	api     ViewAPI
	inv     cache.Invalidator
	queue   chan int64
	workers int
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewViewRecorder(client ViewAPI, inv cache.Invalidator, workers, queueSize int, timeout time.Duration) *ViewRecorder {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1000
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ViewRecorder{
		api:     client,
		inv:     inv,
		queue:   make(chan int64, queueSize), // 缓冲队列，防止阻塞
		workers: workers,
		timeout: timeout,
	}
}

// Start 启动后台 worker
func (r *ViewRecorder) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
}

// Record 每调用一次就会发出一次浏览量 +1 请求；队列满时丢弃并记录日志
func (r *ViewRecorder) Record(portfolioID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}

	// 非阻塞发送到队列
	select {
	case r.queue <- portfolioID:
		return true
	default:
		logger.Warn("view queue full, dropping view", "portfolio_id", portfolioID)
		return false
	}
}

func (r *ViewRecorder) worker() {
	defer r.wg.Done()
	for id := range r.queue {
		r.increase(id)
	}
}

func (r *ViewRecorder) increase(portfolioID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.api.IncreaseViewCount(ctx, portfolioID); err != nil {
		logger.Error("increase view count failed", "portfolio_id", portfolioID, "error", err)
		return
	}
	r.inv.Invalidate(cache.TopicPortfolio, portfolioID)
}

// Close 停止接收新的浏览记录，并等待队列中的请求处理完
func (r *ViewRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}
