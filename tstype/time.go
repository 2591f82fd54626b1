// Package tstype implements the time-series value hierarchy: typed descriptors
// (TypeMeta) and the TimeSeriesOutput / TimeSeriesInput object model shared by
// every node in a tsflow graph (scalar, bundle, set, list, and reference shapes).
//
// Every output carries a shared header of validity and last-modified engine time,
// and every input carries its own active/passive state; the concrete shapes dispatch on their own type rather than
// through a deep interface hierarchy, following the tagged-variant design called out
// in the spec this package implements.
package tstype

import "time"

// EngineTime is the monotonically non-decreasing instant values are stamped with.
type EngineTime = time.Time

var (
	// MinDT is the minimum representable engine time; every node's scheduler slot
	// starts here so that every node is eligible to run at the first tick.
	MinDT = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	// MaxDT is the maximum representable engine time, used as a sentinel for
	// "never scheduled".
	MaxDT = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
	// MinTD is the smallest positive engine time delta, used to advance the clock
	// by the smallest possible increment without colliding with the current tick.
	MinTD = time.Nanosecond
)
