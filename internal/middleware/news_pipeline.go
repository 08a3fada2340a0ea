package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
)

// NewsPipeline decorates a NewsStore with intake hygiene: it validates items,
// throttles per source, and buffers writes when the store is unavailable.
// It sits between the Kafka consumer and storage.
type NewsPipeline struct {
	store   domrepo.NewsStore
	metrics domrepo.Metrics
	maxRPS  int
	bufSize int
	bufCh   chan *models.NewsItem
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	// per-source last accepted time
	lastSeen map[string]time.Time
	// optional normalization hook
	transform func(*models.NewsItem) *models.NewsItem
}

type PipelineOption func(*NewsPipeline)

// WithMaxRPS sets the max items per second per source.
func WithMaxRPS(n int) PipelineOption {
	return func(p *NewsPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when the store is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *NewsPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a normalization hook applied before validation-sensitive
// fields are checked again.
func WithTransform(fn func(*models.NewsItem) *models.NewsItem) PipelineOption {
	return func(p *NewsPipeline) { p.transform = fn }
}

func NewNewsPipeline(store domrepo.NewsStore, metrics domrepo.Metrics, opts ...PipelineOption) *NewsPipeline {
	p := &NewsPipeline{
		store:    store,
		metrics:  metrics,
		maxRPS:   20,
		bufSize:  1000,
		bufCh:    make(chan *models.NewsItem, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.NewsItem, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered items.
func (p *NewsPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case item := <-p.bufCh:
				if item == nil {
					continue
				}
				if err := p.store.Put(ctx, item); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- item:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *NewsPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Put validates, throttles, and forwards the item to the store, buffering
// on store errors. Implements domrepo.NewsStore.
func (p *NewsPipeline) Put(ctx context.Context, item *models.NewsItem) error {
	start := time.Now()
	if err := validateItem(item); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		item = p.transform(item)
		if err := validateItem(item); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if !p.allow(item.Source, start) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.store.Put(ctx, item); err != nil {
		p.metrics.RecordError("pipeline_store")
		// buffer non-blocking
		select {
		case p.bufCh <- item:
			p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_put", time.Since(start).Seconds())
	return nil
}

// List passes through to the underlying store.
func (p *NewsPipeline) List(ctx context.Context, opts domrepo.ListOptions) ([]models.NewsItem, error) {
	return p.store.List(ctx, opts)
}

func validateItem(item *models.NewsItem) error {
	if item == nil {
		return fmt.Errorf("news item nil")
	}
	if item.ID == "" {
		return fmt.Errorf("id empty")
	}
	if item.Title == "" {
		return fmt.Errorf("title empty")
	}
	if item.Date == "" {
		return fmt.Errorf("date empty")
	}
	return nil
}

func (p *NewsPipeline) allow(source string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[source]
	if last.IsZero() {
		p.lastSeen[source] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[source] = now
	return true
}

var _ domrepo.NewsStore = (*NewsPipeline)(nil)
