// Package idgen produces the human-readable record identifiers used across
// the system: a type prefix, a date or datetime stamp, and a zero-padded
// sequence that resets when the stamp rolls over. Primary-key constraints in
// the database backstop uniqueness across processes.
package idgen

import (
	"fmt"
	"sync"
	"time"
)

const (
	dateStamp     = "20060102"
	dateTimeStamp = "20060102150405"
)

type counter struct {
	stamp string
	n     int
}

type Generator struct {
	mu   sync.Mutex
	now  func() time.Time
	seqs map[string]*counter
}

func New() *Generator {
	return &Generator{now: time.Now, seqs: make(map[string]*counter)}
}

// NewWithClock is for tests that need deterministic stamps.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now, seqs: make(map[string]*counter)}
}

func (g *Generator) next(prefix, layout string, width int) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	stamp := g.now().Format(layout)
	c := g.seqs[prefix]
	if c == nil || c.stamp != stamp {
		c = &counter{stamp: stamp}
		g.seqs[prefix] = c
	}
	c.n++
	return fmt.Sprintf("%s%s%0*d", prefix, stamp, width, c.n)
}

func (g *Generator) PatientID() string   { return g.next("P", dateStamp, 4) }
func (g *Generator) AdmissionID() string { return g.next("IPD", dateStamp, 4) }
func (g *Generator) UserID() string      { return g.next("U", dateStamp, 3) }
func (g *Generator) EmployeeID() string  { return g.next("EMP", dateStamp, 3) }

func (g *Generator) VisitID() string  { return g.next("V", dateTimeStamp, 3) }
func (g *Generator) ChargeID() string { return g.next("C", dateTimeStamp, 3) }

// NewID covers the remaining record families (PAY, SLIP, SAL, D, B, ...).
func (g *Generator) NewID(prefix string) string {
	return g.next(prefix, dateTimeStamp, 3)
}
