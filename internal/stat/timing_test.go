package stat

import (
	"math/rand"
	"testing"
	"time"
)

func TestDeriveTiming(t *testing.T) {
	timing, err := DeriveTiming(
		10*time.Millisecond,
		30*time.Millisecond,
		70*time.Millisecond,
		150*time.Millisecond,
		200*time.Millisecond,
	)
	if err != nil {
		t.Fatalf("DeriveTiming returned error: %v", err)
	}

	checks := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"DNSResolution", timing.DNSResolution, 10 * time.Millisecond},
		{"TCPConnection", timing.TCPConnection, 20 * time.Millisecond},
		{"TLSConnection", timing.TLSConnection, 40 * time.Millisecond},
		{"ServerProcessing", timing.ServerProcessing, 80 * time.Millisecond},
		{"ContentTransfer", timing.ContentTransfer, 50 * time.Millisecond},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

// Any monotonically non-decreasing quintuple must derive non-negative
// intervals that sum back to the total.
func TestDeriveTimingIntervalsSumToTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		var cum [5]time.Duration
		var acc time.Duration
		for j := range cum {
			acc += time.Duration(rng.Intn(500)) * time.Millisecond
			cum[j] = acc
		}

		timing, err := DeriveTiming(cum[0], cum[1], cum[2], cum[3], cum[4])
		if err != nil {
			t.Fatalf("monotonic quintuple %v rejected: %v", cum, err)
		}

		intervals := []time.Duration{
			timing.DNSResolution,
			timing.TCPConnection,
			timing.TLSConnection,
			timing.ServerProcessing,
			timing.ContentTransfer,
		}
		var sum time.Duration
		for _, iv := range intervals {
			if iv < 0 {
				t.Fatalf("negative interval %v from quintuple %v", iv, cum)
			}
			sum += iv
		}
		if sum != timing.Total {
			t.Fatalf("interval sum %v != total %v for quintuple %v", sum, timing.Total, cum)
		}
	}
}

func TestDeriveTimingZeroQuintuple(t *testing.T) {
	timing, err := DeriveTiming(0, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("all-zero quintuple rejected: %v", err)
	}
	if timing.Total != 0 || timing.ContentTransfer != 0 {
		t.Errorf("all-zero quintuple should derive all-zero intervals, got %+v", timing)
	}
}

func TestDeriveTimingNonMonotonic(t *testing.T) {
	tests := []struct {
		name          string
		n, c, p, s, t time.Duration
	}{
		{"connect before namelookup", 50 * time.Millisecond, 40 * time.Millisecond, 60 * time.Millisecond, 70 * time.Millisecond, 80 * time.Millisecond},
		{"pretransfer before connect", 10 * time.Millisecond, 40 * time.Millisecond, 30 * time.Millisecond, 70 * time.Millisecond, 80 * time.Millisecond},
		{"total before starttransfer", 10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond, 70 * time.Millisecond, 60 * time.Millisecond},
		{"negative namelookup", -1 * time.Millisecond, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DeriveTiming(tt.n, tt.c, tt.p, tt.s, tt.t); err == nil {
				t.Error("non-monotonic quintuple should be rejected")
			}
		})
	}
}
