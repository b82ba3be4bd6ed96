package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Probe checks one dependency. A nil error means healthy.
type Probe func(ctx context.Context) error

// BufferSizer is the part of the write-behind buffer the monitor watches.
type BufferSizer interface {
	Size() (int, error)
}

func PostgresProbe(pool *pgxpool.Pool) Probe {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}

func RedisProbe(client *redislib.Client) Probe {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

type Monitor struct {
	probes map[string]Probe
	buffer BufferSizer

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		probes:   make(map[string]Probe),
		interval: interval,
		timeout:  3 * time.Second,
		stopCh:   make(chan struct{}),
		logger:   logger,
		status:   Status{Services: map[string]bool{}},
	}
}

// Register adds a named dependency. Call before Start.
func (m *Monitor) Register(name string, probe Probe) *Monitor {
	m.probes[name] = probe
	return m
}

// WatchBuffer reports the size of buf on every check. Call before Start.
func (m *Monitor) WatchBuffer(buf BufferSizer) *Monitor {
	m.buffer = buf
	return m
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether every registered dependency is reachable.
func (m *Monitor) IsOnline() bool {
	return m.GetStatus().Healthy()
}

// Healthy reports the last result for one service. Unregistered services are healthy.
func (m *Monitor) Healthy(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ok, registered := m.status.Services[name]
	return !registered || ok
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.status
	out.Services = make(map[string]bool, len(m.status.Services))
	for k, v := range m.status.Services {
		out.Services[k] = v
	}
	return out
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every probe once and stores the result.
func (m *Monitor) Refresh(ctx context.Context) {
	names := make([]string, 0, len(m.probes))
	for name := range m.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	services := make(map[string]bool, len(names))
	for _, name := range names {
		services[name] = m.check(ctx, name)
	}

	bufferOK, bufferSize := m.checkBuffer()
	status := Status{
		Services:   services,
		Buffer:     bufferOK,
		BufferSize: bufferSize,
		LastCheck:  time.Now(),
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	for _, name := range names {
		if was, seen := previous.Services[name]; seen && was != services[name] {
			m.logger.Info("dependency status changed", zap.String("service", name), zap.Bool("online", services[name]))
		}
	}
}

func (m *Monitor) check(ctx context.Context, name string) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.probes[name](ctx); err != nil {
		m.logger.Debug("dependency probe failed", zap.String("service", name), zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.buffer == nil {
		return false, 0
	}
	size, err := m.buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
