package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"slices"
	"strings"
	"time"

	"hotelledger/backend/internal/domain"
)

type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.PLReport, bool, error)
	Set(ctx context.Context, key string, value *domain.PLReport, ttl time.Duration) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*domain.PLReport, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *domain.PLReport, _ time.Duration) error {
	return nil
}

// ReportKey identifies a P&L computation by department set, window and
// comparison. Department order does not matter.
func ReportKey(departments []domain.Department, window domain.Window, mode domain.ComparisonMode, comparison domain.Window) string {
	depts := make([]string, 0, len(departments))
	for _, d := range departments {
		depts = append(depts, string(d))
	}
	slices.Sort(depts)
	depts = slices.Compact(depts)

	parts := []string{
		strings.Join(depts, ","),
		window.Label(),
		string(mode),
	}
	if !comparison.IsZero() {
		parts = append(parts, comparison.Label())
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return "pnl:" + hex.EncodeToString(sum[:])
}
