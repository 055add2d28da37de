package stat

import (
	"fmt"
	"time"
)

// Timing carries the five cumulative clock readings reported by the
// transport and the five non-overlapping intervals derived from them.
type Timing struct {
	// Cumulative, each measured from the start of the transfer.
	NameLookup    time.Duration
	Connect       time.Duration
	PreTransfer   time.Duration
	StartTransfer time.Duration
	Total         time.Duration

	// Derived intervals. They are all non-negative and sum to Total.
	DNSResolution    time.Duration
	TCPConnection    time.Duration
	TLSConnection    time.Duration
	ServerProcessing time.Duration
	ContentTransfer  time.Duration
}

// DeriveTiming computes the interval breakdown from five cumulative
// durations. The transport contract requires the inputs to be
// monotonically non-decreasing in argument order; a violation is a
// defect in the transport clock and is surfaced as an error rather than
// clamped or wrapped.
func DeriveTiming(namelookup, connect, pretransfer, starttransfer, total time.Duration) (Timing, error) {
	cumulative := []struct {
		name  string
		value time.Duration
	}{
		{"namelookup", namelookup},
		{"connect", connect},
		{"pretransfer", pretransfer},
		{"starttransfer", starttransfer},
		{"total", total},
	}
	if namelookup < 0 {
		return Timing{}, fmt.Errorf("negative namelookup time %v", namelookup)
	}
	for i := 1; i < len(cumulative); i++ {
		prev, cur := cumulative[i-1], cumulative[i]
		if cur.value < prev.value {
			return Timing{}, fmt.Errorf("non-monotonic timing: %s (%v) precedes %s (%v)",
				cur.name, cur.value, prev.name, prev.value)
		}
	}

	return Timing{
		NameLookup:    namelookup,
		Connect:       connect,
		PreTransfer:   pretransfer,
		StartTransfer: starttransfer,
		Total:         total,

		DNSResolution:    namelookup,
		TCPConnection:    connect - namelookup,
		TLSConnection:    pretransfer - connect,
		ServerProcessing: starttransfer - pretransfer,
		ContentTransfer:  total - starttransfer,
	}, nil
}
