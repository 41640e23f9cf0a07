// Package hitpoints tracks a character's current, maximum and temporary hit
// point pools.
package hitpoints

import (
	"encoding/json"
	"fmt"
)

// HitPoints holds the three hit point pools.
//
// Invariant: every mutator leaves 0 <= current <= max + temporary. Values
// obtained through New or JSON decoding are kept exactly as supplied.
type HitPoints struct {
	current   int
	max       int
	temporary int
}

// New returns HitPoints with the given pools, unclamped.
func New(current, max, temporary int) HitPoints {
	return HitPoints{current: current, max: max, temporary: temporary}
}

// Current returns the current hit points.
func (h HitPoints) Current() int { return h.current }

// Max returns the maximum hit points, excluding temporary hit points.
func (h HitPoints) Max() int { return h.max }

// Temporary returns the temporary hit point pool.
func (h HitPoints) Temporary() int { return h.temporary }

// ModifiedMax returns max plus temporary.
func (h HitPoints) ModifiedMax() int { return h.max + h.temporary }

// Conscious reports whether current > 0.
func (h HitPoints) Conscious() bool { return h.current > 0 }

// IncreaseMax adds delta to max. Negative values lower it; there is no floor.
func (h *HitPoints) IncreaseMax(delta int) {
	h.max += delta
}

// AddCurrent adds delta to current, clamped to [0, ModifiedMax()].
//
// Postcondition: returns Conscious().
func (h *HitPoints) AddCurrent(delta int) bool {
	h.current = clamp(h.current+delta, 0, h.ModifiedMax())
	return h.Conscious()
}

// AddTemporary grows the temporary pool by delta and heals current by the
// same delta.
func (h *HitPoints) AddTemporary(delta int) {
	h.temporary += delta
	h.AddCurrent(delta)
}

// ResetTemporary clears the temporary pool and re-clamps current to max.
func (h *HitPoints) ResetTemporary() {
	h.temporary = 0
	h.current = min(h.current, h.ModifiedMax())
}

// Reset clears temporary hit points and heals current to max.
//
// Postcondition: Current() == Max() && Temporary() == 0.
func (h *HitPoints) Reset() {
	h.ResetTemporary()
	h.current = h.ModifiedMax()
}

// clamp bounds v to [lo, hi]; when hi < lo the upper bound wins.
func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

type document struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// MarshalJSON encodes the pools as {"current","max","temporary"}.
func (h HitPoints) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{Current: h.current, Max: h.max, Temporary: h.temporary})
}

// UnmarshalJSON decodes the pools without clamping.
func (h *HitPoints) UnmarshalJSON(data []byte) error {
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("hit points: %w", err)
	}
	*h = New(d.Current, d.Max, d.Temporary)
	return nil
}
