package spread

import (
	"sort"
	"time"

	"github.com/avdeenko/carrymon/internal/contracts"
)

// Pair is an ordered near/far combination of two future quotes on the same
// share. Near always has fewer days to expiration than far.
type Pair struct {
	Near *contracts.Quote
	Far  *contracts.Quote
}

// Pairs orders the futures quoted for one share by ascending days to
// expiration and enumerates every (near, far) combination: N futures yield
// N*(N-1)/2 pairs, fewer than 2 futures yield none. Ordering uses the
// expiration distance of this pass only, so the result is deterministic for
// a given quote set.
func Pairs(futures []*contracts.Quote, now time.Time) []Pair {
	if len(futures) < 2 {
		return nil
	}

	sorted := make([]*contracts.Quote, len(futures))
	copy(sorted, futures)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := DaysToExpiration(sorted[i].ExpDate, now)
		dj := DaysToExpiration(sorted[j].ExpDate, now)
		if di != dj {
			return di < dj
		}
		return sorted[i].Code < sorted[j].Code
	})

	pairs := make([]Pair, 0, len(sorted)*(len(sorted)-1)/2)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			pairs = append(pairs, Pair{Near: sorted[i], Far: sorted[j]})
		}
	}
	return pairs
}
