package models

import (
	"strconv"
	"sync/atomic"
	"time"
)

var lastID atomic.Int64

// NewID returns prefix + "_" + unix milliseconds. Ids are strictly
// increasing within the process, so two ids minted in the same
// millisecond still differ.
func NewID(prefix string, now time.Time) string {
	ms := now.UnixMilli()
	for {
		last := lastID.Load()
		next := ms
		if next <= last {
			next = last + 1
		}
		if lastID.CompareAndSwap(last, next) {
			return prefix + "_" + strconv.FormatInt(next, 10)
		}
	}
}
