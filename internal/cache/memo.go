package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"hotelledger/backend/internal/domain"
)

// Memo is an in-process ReportCache meant to live for a single request or
// batch. It ignores TTLs; discard the Memo to drop its entries.
type Memo struct {
	mu      sync.Mutex
	entries map[string]domain.PLReport
	hits    int
}

func NewMemo() *Memo {
	return &Memo{entries: make(map[string]domain.PLReport)}
}

func (m *Memo) Get(_ context.Context, key string) (*domain.PLReport, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	m.hits++
	report = cloneReport(report)
	return &report, true, nil
}

func (m *Memo) Set(_ context.Context, key string, value *domain.PLReport, _ time.Duration) error {
	if value == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = cloneReport(*value)
	return nil
}

// cloneReport copies every slice and the previous period so callers never
// share backing arrays with a stored entry.
func cloneReport(report domain.PLReport) domain.PLReport {
	report.Departments = slices.Clone(report.Departments)
	report.Current.Departments = slices.Clone(report.Current.Departments)
	if report.Previous != nil {
		previous := *report.Previous
		previous.Departments = slices.Clone(previous.Departments)
		report.Previous = &previous
	}
	report.Variances = slices.Clone(report.Variances)
	report.DepartmentVariances = slices.Clone(report.DepartmentVariances)
	return report
}

func (m *Memo) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type layered struct {
	first  ReportCache
	second ReportCache
}

// Layered reads first, then second, and writes both. A hit in second is
// copied into first.
func Layered(first ReportCache, second ReportCache) ReportCache {
	return layered{first: first, second: second}
}

func (l layered) Get(ctx context.Context, key string) (*domain.PLReport, bool, error) {
	if report, ok, err := l.first.Get(ctx, key); err == nil && ok {
		return report, true, nil
	}
	report, ok, err := l.second.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = l.first.Set(ctx, key, report, 0)
	return report, true, nil
}

func (l layered) Set(ctx context.Context, key string, value *domain.PLReport, ttl time.Duration) error {
	if err := l.first.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return l.second.Set(ctx, key, value, ttl)
}
