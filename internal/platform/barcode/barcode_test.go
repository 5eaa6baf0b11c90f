package barcode

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestData(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	got := Data("P202603140001", "V20260314103000001", at)
	want := "P202603140001-V20260314103000001-1773484200"
	if got != want {
		t.Errorf("Data() = %q, want %q", got, want)
	}
}

func TestDataDiffersByTimestampOnly(t *testing.T) {
	t1 := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	t2 := t1.Add(time.Second)

	d1 := Data("P1", "IPD1", t1)
	d2 := Data("P1", "IPD1", t2)
	if d1 == d2 {
		t.Fatalf("payloads at different instants must differ: %q", d1)
	}

	p1 := strings.SplitN(d1, "-", 3)
	p2 := strings.SplitN(d2, "-", 3)
	if p1[0] != p2[0] || p1[1] != p2[1] {
		t.Errorf("leading segments differ: %v vs %v", p1[:2], p2[:2])
	}
}

func TestRenderProducesDataURI(t *testing.T) {
	r := NewCode128Renderer(zerolog.Nop())
	out := r.Render("P1-V1-1700000000")
	if !strings.HasPrefix(out, "data:image/png;base64,") {
		t.Errorf("Render() = %.40q, want data URI prefix", out)
	}
}

func TestRenderEmptyPayload(t *testing.T) {
	r := NewCode128Renderer(zerolog.Nop())
	if out := r.Render(""); out != "" {
		t.Errorf("Render(\"\") = %q, want empty", out)
	}
}
