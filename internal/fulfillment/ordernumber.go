package fulfillment

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-\d{4}$`)

// OrderNumber formats ORD-YYYYMMDD-NNNN. suffix is reduced modulo 10000.
// Numbers are only probabilistically unique; callers retry on collision.
func OrderNumber(at time.Time, suffix int) string {
	if suffix < 0 {
		suffix = -suffix
	}
	return fmt.Sprintf("ORD-%s-%04d", at.Format("20060102"), suffix%10000)
}

func NewOrderNumber(at time.Time) string {
	return OrderNumber(at, rand.IntN(10000))
}

func ValidOrderNumber(s string) bool {
	return orderNumberPattern.MatchString(s)
}

// NextTrackingTime returns the timestamp for a new tracking entry: now at
// microsecond precision, bumped past last so history stays strictly increasing.
func NextTrackingTime(last *time.Time, now time.Time) time.Time {
	next := now.UTC().Truncate(time.Microsecond)
	if last != nil && !next.After(*last) {
		next = last.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return next
}
