package classify

import "math"

// minWindowFloorSeconds is the absolute lower bound for any acceptance
// window; nothing under a minute is ever a deliverable.
const minWindowFloorSeconds = 60

// Buffers carries the window tunables, all in minutes.
type Buffers struct {
	// ManifestMinutes widens a declared runtime range in both directions.
	ManifestMinutes int
	// TypicalMinutes widens the typical-duration window in both directions.
	TypicalMinutes int
	// SpecialDeltaMinutes is the declared-midpoint deviation from the typical
	// duration at which a unit is treated as a known outlier (double-length
	// special) and scored against its declared range alone.
	SpecialDeltaMinutes int
}

// BuildWindows computes one acceptance window per unit.
//
// Declared runtimes are sometimes wrong or rounded, while the typical
// duration measured off the actual disc is usually trustworthy for normal
// episodes. The policy therefore trusts measured data over declared data
// except for detectable outliers:
//
//  1. no declared range        -> typical ± typical buffer
//  2. outlier declared range   -> declared ± manifest buffer only
//  3. agreeing declared range  -> intersection of both windows
//  4. disagreeing declared     -> typical window alone
func BuildWindows(units []Unit, typicalSeconds int, buffers Buffers) []Window {
	typicalWindow := Window{
		MinSeconds: floorSeconds(typicalSeconds - buffers.TypicalMinutes*60),
		MaxSeconds: typicalSeconds + buffers.TypicalMinutes*60,
	}
	typicalMinutes := float64(typicalSeconds) / 60.0

	windows := make([]Window, len(units))
	for i, unit := range units {
		if !unit.Declared {
			windows[i] = typicalWindow
			continue
		}

		declaredMid := (float64(unit.MinMinutes) + float64(unit.MaxMinutes)) / 2.0
		declared := Window{
			MinSeconds: floorSeconds(maxInt(1, unit.MinMinutes-buffers.ManifestMinutes) * 60),
			MaxSeconds: (unit.MaxMinutes + buffers.ManifestMinutes) * 60,
		}

		if math.Abs(declaredMid-typicalMinutes) >= float64(buffers.SpecialDeltaMinutes) {
			// Known outlier (special, double-length finale): the typical
			// cluster says nothing about this unit.
			windows[i] = declared
			continue
		}

		if declared.Contains(typicalSeconds) {
			windows[i] = Window{
				MinSeconds: maxInt(declared.MinSeconds, typicalWindow.MinSeconds),
				MaxSeconds: minInt(declared.MaxSeconds, typicalWindow.MaxSeconds),
			}
		} else {
			// Declared range misses the measured cluster entirely; treat the
			// manifest data as unreliable for this unit.
			windows[i] = typicalWindow
		}
	}
	return windows
}

func floorSeconds(seconds int) int {
	if seconds < minWindowFloorSeconds {
		return minWindowFloorSeconds
	}
	return seconds
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
