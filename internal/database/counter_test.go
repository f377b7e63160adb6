package database

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		prefix string
		year   int
		seq    int
		want   string
	}{
		{"Vendor", 2026, 1, "Vendor-26-0001"},
		{"Contract", 2026, 42, "Contract-26-0042"},
		{"PO", 2031, 1234, "PO-31-1234"},
		{"INV", 2026, 10000, "INV-26-10000"},
		{"SR", 2009, 7, "SR-09-0007"},
	}

	for _, tt := range tests {
		now := time.Date(tt.year, time.March, 15, 0, 0, 0, 0, time.UTC)
		if got := FormatNumber(tt.prefix, now, tt.seq); got != tt.want {
			t.Errorf("FormatNumber(%s, %d, %d) = %q, want %q", tt.prefix, tt.year, tt.seq, got, tt.want)
		}
	}
}

func TestCounterKeyPerPrefixAndYear(t *testing.T) {
	in2026 := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	in2027 := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	if got := counterKey("Vendor", in2026); got != "Vendor-26" {
		t.Errorf("counterKey = %q, want Vendor-26", got)
	}
	// A new year gets a fresh sequence document; an old year's numbers are
	// never reissued.
	if counterKey("Vendor", in2026) == counterKey("Vendor", in2027) {
		t.Error("counter key did not roll over with the year")
	}
	if counterKey("Vendor", in2026) == counterKey("PO", in2026) {
		t.Error("prefixes share a counter key")
	}
}

// memorySource mirrors the counters-collection contract the services rely
// on: one sequence per counterKey, incremented atomically, starting at 1.
type memorySource struct {
	mu   sync.Mutex
	seqs map[string]int
}

var _ NumberSource = (*memorySource)(nil)

func (m *memorySource) NextNumber(ctx context.Context, prefix string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		m.seqs = map[string]int{}
	}
	key := counterKey(prefix, now)
	m.seqs[key]++
	return FormatNumber(prefix, now, m.seqs[key]), nil
}

func TestNextNumberConcurrent(t *testing.T) {
	const n = 64
	src := &memorySource{}
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := src.NextNumber(context.Background(), "PO", now)
			if err != nil {
				t.Errorf("NextNumber: %v", err)
				return
			}
			numbers <- num
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		if seen[num] {
			t.Errorf("number %s issued twice", num)
		}
		seen[num] = true
	}
	// Monotonic and gap-free: n issuances yield exactly 1..n.
	for seq := 1; seq <= n; seq++ {
		if want := FormatNumber("PO", now, seq); !seen[want] {
			t.Errorf("number %s never issued", want)
		}
	}
}
