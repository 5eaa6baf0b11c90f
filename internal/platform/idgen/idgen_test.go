package idgen

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPatientIDFormat(t *testing.T) {
	g := NewWithClock(fixedClock(time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)))
	got := g.PatientID()
	if got != "P202603140001" {
		t.Errorf("PatientID() = %q, want P202603140001", got)
	}
	if next := g.PatientID(); next != "P202603140002" {
		t.Errorf("second PatientID() = %q, want P202603140002", next)
	}
}

func TestVisitIDUsesDateTimeStamp(t *testing.T) {
	g := NewWithClock(fixedClock(time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)))
	if got := g.VisitID(); got != "V20260314103045001" {
		t.Errorf("VisitID() = %q, want V20260314103045001", got)
	}
}

func TestSequenceResetsOnStampChange(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	g := NewWithClock(func() time.Time { return now })

	g.PatientID()
	g.PatientID()
	now = now.Add(24 * time.Hour)
	if got := g.PatientID(); got != "P202603150001" {
		t.Errorf("PatientID() after day change = %q, want P202603150001", got)
	}
}

func TestPrefixesDoNotShareSequences(t *testing.T) {
	g := NewWithClock(fixedClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)))
	g.PatientID()
	if got := g.AdmissionID(); !strings.HasSuffix(got, "0001") {
		t.Errorf("AdmissionID() = %q, want sequence starting at 0001", got)
	}
}

func TestConcurrentGenerationIsCollisionFree(t *testing.T) {
	g := New()
	const n = 200
	var (
		mu   sync.Mutex
		seen = make(map[string]bool, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.NewID("PAY")
			mu.Lock()
			defer mu.Unlock()
			if seen[id] {
				t.Errorf("duplicate id %q", id)
			}
			seen[id] = true
		}()
	}
	wg.Wait()
	if len(seen) != n {
		t.Fatalf("generated %d unique ids, want %d", len(seen), n)
	}
}

func TestNewIDPrefix(t *testing.T) {
	g := NewWithClock(fixedClock(time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)))
	got := g.NewID("SLIP")
	want := fmt.Sprintf("SLIP%s001", "20260314103045")
	if got != want {
		t.Errorf("NewID(SLIP) = %q, want %q", got, want)
	}
}
