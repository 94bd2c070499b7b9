package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avdeenko/carrymon/internal/contracts"
)

// MemorySpreadRepository is an in-memory contracts.SpreadRepository.
// It mirrors the PostgreSQL repository's semantics (insertion order,
// sequence ids, filter behavior) and backs the engine's unit tests.
type MemorySpreadRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []*contracts.ShareFutureSpread
}

// NewMemorySpreadRepository creates an empty in-memory repository.
func NewMemorySpreadRepository() *MemorySpreadRepository {
	return &MemorySpreadRepository{nextID: 1}
}

// Append stores a copy of the record and assigns the next sequence id.
func (r *MemorySpreadRepository) Append(_ context.Context, rec *contracts.ShareFutureSpread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rec
	stored.ID = r.nextID
	r.nextID++
	r.records = append(r.records, &stored)
	rec.ID = stored.ID
	return nil
}

// Scan returns matching records in insertion order.
func (r *MemorySpreadRepository) Scan(_ context.Context, filter contracts.ScanFilter) ([]*contracts.ShareFutureSpread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*contracts.ShareFutureSpread
	for _, rec := range r.records {
		if !matchFilter(filter, rec.CaptureTime, rec.FutureCode) {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

// Expirations returns the distinct expiration suffixes present.
func (r *MemorySpreadRepository) Expirations(ctx context.Context) ([]string, error) {
	codes, err := r.FutureCodes(ctx)
	if err != nil {
		return nil, err
	}
	return expirationSuffixes(codes), nil
}

// FutureCodes returns every distinct future code, sorted.
func (r *MemorySpreadRepository) FutureCodes(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var codes []string
	for _, rec := range r.records {
		if _, ok := seen[rec.FutureCode]; !ok {
			seen[rec.FutureCode] = struct{}{}
			codes = append(codes, rec.FutureCode)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

// MemoryFutureSpreadRepository is an in-memory
// contracts.FutureSpreadRepository.
type MemoryFutureSpreadRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []*contracts.FutureFutureSpread
}

// NewMemoryFutureSpreadRepository creates an empty in-memory repository.
func NewMemoryFutureSpreadRepository() *MemoryFutureSpreadRepository {
	return &MemoryFutureSpreadRepository{nextID: 1}
}

// Append stores a copy of the record and assigns the next sequence id.
func (r *MemoryFutureSpreadRepository) Append(_ context.Context, rec *contracts.FutureFutureSpread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rec
	stored.ID = r.nextID
	r.nextID++
	r.records = append(r.records, &stored)
	rec.ID = stored.ID
	return nil
}

// Scan returns matching records in insertion order. Expiration and
// allow-list filters match the far leg; the allow-list also accepts the
// near leg, as in the PostgreSQL repository.
func (r *MemoryFutureSpreadRepository) Scan(_ context.Context, filter contracts.ScanFilter) ([]*contracts.FutureFutureSpread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*contracts.FutureFutureSpread
	for _, rec := range r.records {
		if !matchFilter(filter, rec.CaptureTime, rec.FarCode, rec.NearCode) {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

// Expirations returns the distinct far-leg expiration suffixes.
func (r *MemoryFutureSpreadRepository) Expirations(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var codes []string
	for _, rec := range r.records {
		if _, ok := seen[rec.FarCode]; !ok {
			seen[rec.FarCode] = struct{}{}
			codes = append(codes, rec.FarCode)
		}
	}
	return expirationSuffixes(codes), nil
}

// matchFilter applies a ScanFilter in Go. The first code is matched against
// expiration suffixes; the allow-list accepts any of the given codes.
func matchFilter(filter contracts.ScanFilter, captureTime time.Time, primaryCode string, moreCodes ...string) bool {
	if len(filter.Expirations) > 0 {
		matched := false
		for _, exp := range filter.Expirations {
			if strings.HasSuffix(primaryCode, "-"+exp) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(filter.Codes) > 0 {
		all := append([]string{primaryCode}, moreCodes...)
		matched := false
		for _, code := range all {
			for _, want := range filter.Codes {
				if code == want {
					matched = true
					break
				}
			}
		}
		if !matched {
			return false
		}
	}

	if !filter.From.IsZero() && captureTime.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && captureTime.After(filter.To) {
		return false
	}
	return true
}
