package services

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	OrderReferencePrefix       = "ORD"
	ReservationReferencePrefix = "RES"

	referenceSuffixMin   = 1000
	referenceSuffixRange = 9000
)

// NewReference formats PREFIX-YYYYMMDDHHMMSSmmm-NNNN from t (UTC) and a
// suffix drawn from intn. References sort lexically by creation time.
func NewReference(prefix string, t time.Time, intn func(int) int) string {
	t = t.UTC()
	suffix := referenceSuffixMin + intn(referenceSuffixRange)
	return fmt.Sprintf("%s-%s%03d-%04d", prefix, t.Format("20060102150405"), t.Nanosecond()/int(time.Millisecond), suffix)
}

// ReferenceGenerator hands out references that never repeat within the
// process: a suffix is used at most once per millisecond, and once a
// millisecond is exhausted the generator moves on to the next one.
// The database unique index covers multiple processes.
type ReferenceGenerator struct {
	prefix string
	intn   func(int) int

	mu     sync.Mutex
	millis int64
	used   map[int]struct{}
}

func NewReferenceGenerator(prefix string) *ReferenceGenerator {
	return &ReferenceGenerator{prefix: prefix, intn: rand.IntN, used: make(map[int]struct{})}
}

func (g *ReferenceGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms > g.millis {
		g.millis = ms
		clear(g.used)
	}
	if len(g.used) >= referenceSuffixRange {
		g.millis++
		clear(g.used)
	}

	for {
		n := g.intn(referenceSuffixRange)
		if _, taken := g.used[n]; taken {
			continue
		}
		g.used[n] = struct{}{}
		return NewReference(g.prefix, time.UnixMilli(g.millis), func(int) int { return n })
	}
}
