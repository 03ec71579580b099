// Package idgen formats the human-readable identifiers handed to members:
// order numbers, sample request numbers and voucher codes.
//
// Identifiers are random and carry no uniqueness guarantee on their own; callers
// that persist them rely on the store's unique constraint to detect collisions.
package idgen

import (
	"fmt"
	"math/rand"
	"strings"

	platformclock "github.com/apa-portal/member-portal/internal/platform/clock"
	clockport "github.com/apa-portal/member-portal/internal/ports/out/clock"
)

const (
	OrderPrefix   = "ORD"
	SamplePrefix  = "SMP"
	VoucherPrefix = "APA"

	// VoucherAlphabet omits I, O, 0 and 1 so codes survive being read aloud or retyped.
	VoucherAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	voucherSegmentLen = 4
	voucherSegments   = 2

	serialMin = 1000
	serialMax = 9999
)

// Generator issues identifiers from a clock and a uniform integer source.
// Generators built by New are safe for concurrent use.
type Generator struct {
	clk clockport.Clock
	// intN returns a uniform integer in [0, n).
	intN func(n int) int
}

// New returns a Generator reading clk and the runtime's concurrency-safe random source.
func New(clk clockport.Clock) *Generator {
	return NewWithSource(clk, rand.Intn)
}

// NewWithSource is New with an explicit uniform source, for deterministic tests.
func NewWithSource(clk clockport.Clock, intN func(n int) int) *Generator {
	if clk == nil {
		clk = platformclock.NewSystemClock()
	}
	if intN == nil {
		intN = rand.Intn
	}
	return &Generator{clk: clk, intN: intN}
}

// OrderNumber returns ORD-<YYYYMMDD>-<NNNN>.
func (g *Generator) OrderNumber() string {
	return g.datedSerial(OrderPrefix)
}

// SampleRequestNumber returns SMP-<YYYYMMDD>-<NNNN>.
func (g *Generator) SampleRequestNumber() string {
	return g.datedSerial(SamplePrefix)
}

// VoucherCode returns APA-<SEG>-<SEG> with each segment drawn from VoucherAlphabet.
func (g *Generator) VoucherCode() string {
	var b strings.Builder
	b.Grow(len(VoucherPrefix) + voucherSegments*(voucherSegmentLen+1))
	b.WriteString(VoucherPrefix)
	for s := 0; s < voucherSegments; s++ {
		b.WriteByte('-')
		for i := 0; i < voucherSegmentLen; i++ {
			b.WriteByte(VoucherAlphabet[g.intN(len(VoucherAlphabet))])
		}
	}
	return b.String()
}

// datedSerial uses the UTC calendar date regardless of the clock's location.
func (g *Generator) datedSerial(prefix string) string {
	date := g.clk.Now().UTC().Format("20060102")
	serial := serialMin + g.intN(serialMax-serialMin+1)
	return fmt.Sprintf("%s-%s-%04d", prefix, date, serial)
}

var system = New(platformclock.NewSystemClock())

// OrderNumber issues an order number from the system clock.
func OrderNumber() string { return system.OrderNumber() }

// SampleRequestNumber issues a sample request number from the system clock.
func SampleRequestNumber() string { return system.SampleRequestNumber() }

// VoucherCode issues a voucher code.
func VoucherCode() string { return system.VoucherCode() }
