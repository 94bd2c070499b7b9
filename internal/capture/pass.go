// Package capture orchestrates one capture pass: quotes in, spread records
// out. Per-instrument and per-pair failures are logged and skipped; store
// failures abort the pass.
package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avdeenko/carrymon/internal/contracts"
	"github.com/avdeenko/carrymon/internal/spread"
	"github.com/avdeenko/carrymon/pkg/logger"
)

// Capturer runs capture passes over a universe of shares and their futures.
type Capturer struct {
	quotes        contracts.QuotePort
	spreads       contracts.SpreadRepository
	futureSpreads contracts.FutureSpreadRepository
	logger        *logger.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// New creates a Capturer with its collaborators injected.
func New(
	quotes contracts.QuotePort,
	spreads contracts.SpreadRepository,
	futureSpreads contracts.FutureSpreadRepository,
	log *logger.Logger,
) *Capturer {
	return &Capturer{
		quotes:        quotes,
		spreads:       spreads,
		futureSpreads: futureSpreads,
		logger:        log.WithField("module", "capture"),
		now:           time.Now,
	}
}

// WithClock overrides the pass clock. Used in tests.
func (c *Capturer) WithClock(now func() time.Time) *Capturer {
	c.now = now
	return c
}

// Result summarizes one capture pass.
type Result struct {
	EntriesProcessed  int
	EntriesSkipped    int
	SpreadRecords     int
	FutureSpreadAdded int
	QuoteFailures     int
	InvalidPairs      int
}

func (r *Result) add(other Result) {
	r.EntriesProcessed += other.EntriesProcessed
	r.EntriesSkipped += other.EntriesSkipped
	r.SpreadRecords += other.SpreadRecords
	r.FutureSpreadAdded += other.FutureSpreadAdded
	r.QuoteFailures += other.QuoteFailures
	r.InvalidPairs += other.InvalidPairs
}

// Run processes every universe entry with the given number of workers.
// Each entry is handled sequentially within a worker; entries only append to
// the store, so workers share no mutable state. The first persistence error
// cancels the remaining work and is returned.
func (c *Capturer) Run(ctx context.Context, entries []contracts.UniverseEntry, workers int) (Result, error) {
	if workers < 1 {
		workers = 1
	}

	start := c.now()
	c.logger.WithFields(map[string]interface{}{
		"entries": len(entries),
		"workers": workers,
	}).Info("Capture pass started")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entryCh := make(chan contracts.UniverseEntry, len(entries))
	for _, entry := range entries {
		entryCh <- entry
	}
	close(entryCh)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		total    Result
		firstErr error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entryCh {
				if ctx.Err() != nil {
					return
				}
				res, err := c.processEntry(ctx, entry)

				mu.Lock()
				total.add(res)
				if err != nil && firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()

				if err != nil {
					return
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		c.logger.WithError(firstErr).Error("Capture pass aborted")
		return total, firstErr
	}

	c.logger.WithFields(map[string]interface{}{
		"entries_ok":      total.EntriesProcessed,
		"entries_skipped": total.EntriesSkipped,
		"spreads":         total.SpreadRecords,
		"future_spreads":  total.FutureSpreadAdded,
		"quote_failures":  total.QuoteFailures,
		"invalid_pairs":   total.InvalidPairs,
		"elapsed":         c.now().Sub(start).String(),
	}).Info("Capture pass completed")

	return total, nil
}

// processEntry handles one share and its futures. The returned error is
// non-nil only for failures that must abort the pass (persistence errors,
// cancellation); quote and arithmetic problems are counted and skipped.
func (c *Capturer) processEntry(ctx context.Context, entry contracts.UniverseEntry) (Result, error) {
	var res Result
	captureTime := c.now()

	log := c.logger.WithField("share", entry.ShareCode)

	shareQuote, err := c.quotes.GetQuote(ctx, entry.ShareCode)
	if err != nil {
		if isFatalQuoteErr(ctx, err) {
			return res, err
		}
		res.EntriesSkipped++
		res.QuoteFailures++
		log.WithError(err).Warn("Share quote failed, entry skipped")
		return res, nil
	}

	// Collect future quotes first: pairing needs the full set that was
	// successfully quoted in this pass.
	var futureQuotes []*contracts.Quote
	for _, code := range entry.FutureCodes {
		fq, err := c.quotes.GetQuote(ctx, code)
		if err != nil {
			if isFatalQuoteErr(ctx, err) {
				return res, err
			}
			res.QuoteFailures++
			log.WithError(err).WithField("future", code).Warn("Future quote failed, skipped")
			continue
		}
		futureQuotes = append(futureQuotes, fq)
	}

	for _, fq := range futureQuotes {
		rec, err := spread.BuildShareFuture(shareQuote, fq, captureTime)
		if err != nil {
			res.InvalidPairs++
			log.WithError(err).WithFields(map[string]interface{}{
				"future":       fq.Code,
				"capture_time": captureTime.Format(contracts.CaptureTimeLayout),
			}).Warn("Share/future spread rejected")
			continue
		}
		if err := c.spreads.Append(ctx, rec); err != nil {
			return res, err
		}
		res.SpreadRecords++
	}

	for _, pair := range spread.Pairs(futureQuotes, captureTime) {
		rec, err := spread.BuildFutureFuture(shareQuote, pair.Near, pair.Far, captureTime)
		if err != nil {
			res.InvalidPairs++
			log.WithError(err).WithFields(map[string]interface{}{
				"near":         pair.Near.Code,
				"far":          pair.Far.Code,
				"capture_time": captureTime.Format(contracts.CaptureTimeLayout),
			}).Warn("Future/future spread rejected")
			continue
		}
		if err := c.futureSpreads.Append(ctx, rec); err != nil {
			return res, err
		}
		res.FutureSpreadAdded++
	}

	res.EntriesProcessed++
	return res, nil
}

// isFatalQuoteErr separates recoverable provider failures from pass-level
// cancellation.
func isFatalQuoteErr(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
