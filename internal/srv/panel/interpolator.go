package panel

import (
	"math"
	"time"
)

// Once the remaining gap is this small the displayed value snaps to the
// target instead of creeping over several more ticks.
const snapEpsilon = 0.5

// displayedSentinel is a value no display ever shows; it forces the next
// NeedsUpdate call to report a change.
const displayedSentinel = math.MinInt32

// Interpolator decouples a fast-moving logical target from the slow act
// of pushing pixels: the displayed value advances toward the target at a
// bounded rate, and NeedsUpdate is the single gate deciding whether a
// slot earns a bus write this tick.
type Interpolator struct {
	name  string
	speed float64 // display units per second

	current       float64
	target        float64
	lastDisplayed int
	lastTick      time.Time

	now func() time.Time
}

// NewInterpolator creates an interpolator advancing at most speed units
// per second. Speed is chosen per quantity so a full-range sweep takes
// one to three seconds regardless of the quantity's numeric scale.
func NewInterpolator(name string, speed float64) *Interpolator {
	return &Interpolator{
		name:          name,
		speed:         speed,
		lastDisplayed: displayedSentinel,
		now:           time.Now,
	}
}

// SetTarget records a new logical target. No bus activity results from
// this call alone.
func (ip *Interpolator) SetTarget(v float64) {
	ip.target = v
}

// DisplayValue advances the displayed value toward the target by
// speed * elapsed-wall-clock, clamped so it never overshoots, and
// returns the rounded result.
func (ip *Interpolator) DisplayValue() int {
	now := ip.now()
	if !ip.lastTick.IsZero() && ip.current != ip.target {
		step := ip.speed * now.Sub(ip.lastTick).Seconds()
		if ip.current < ip.target {
			ip.current = math.Min(ip.current+step, ip.target)
		} else {
			ip.current = math.Max(ip.current-step, ip.target)
		}
		if math.Abs(ip.target-ip.current) < snapEpsilon {
			ip.current = ip.target
		}
	}
	ip.lastTick = now
	return int(math.Round(ip.current))
}

// NeedsUpdate reports whether the rounded displayed value differs from
// what was last pushed, and records it as pushed when it does. Callers
// that then fail the push must call Invalidate so the change is not lost.
func (ip *Interpolator) NeedsUpdate() bool {
	v := int(math.Round(ip.current))
	if v == ip.lastDisplayed {
		return false
	}
	ip.lastDisplayed = v
	return true
}

// Invalidate forgets the last pushed value so the next NeedsUpdate
// reports a change. Used after a failed push.
func (ip *Interpolator) Invalidate() {
	ip.lastDisplayed = displayedSentinel
}

// Reset jumps current and target to v and forces exactly one update on
// the next NeedsUpdate call. Used when a slot must not glide: syncing a
// freshly initialized display, or after an emergency stop.
func (ip *Interpolator) Reset(v float64) {
	ip.current = v
	ip.target = v
	ip.lastDisplayed = displayedSentinel
	ip.lastTick = ip.now()
}
