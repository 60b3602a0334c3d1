package projection

import (
	"fmt"
	"math"
)

// Speed buckets cover 0.5x through 5.0x in 0.1 steps. Each bucket is the
// half-open interval [label-0.05, label+0.05); anything outside the covered
// range falls back to the 1.0 bucket.
const (
	minSpeedTenths = 5
	maxSpeedTenths = 50
)

// SpeedBucket returns the bucket label for a playback speed.
func SpeedBucket(speed float64) float64 {
	tenths := int(math.Floor(speed*10 + 0.5))
	if tenths < minSpeedTenths || tenths > maxSpeedTenths {
		tenths = 10
	}
	return float64(tenths) / 10
}

// SpeedIcon returns the icon name shown on the change-speed action for the
// given playback speed, e.g. "speed_1_2".
func SpeedIcon(speed float64) string {
	bucket := SpeedBucket(speed)
	whole := int(bucket)
	tenth := int(math.Round(bucket*10)) % 10
	return fmt.Sprintf("speed_%d_%d", whole, tenth)
}

// NextSpeed returns the speed the change-speed action cycles to from the
// current one. The cycle steps through the common listening speeds and wraps
// back to 0.6x from the top.
func NextSpeed(current float64) float64 {
	switch {
	case current < 0.6:
		return 0.6
	case current < 0.8:
		return 0.8
	case current < 1.0:
		return 1.0
	case current < 1.2:
		return 1.2
	case current < 1.4:
		return 1.4
	case current < 1.6:
		return 1.6
	case current < 1.8:
		return 1.8
	case current < 2.0:
		return 2.0
	case current < 3.0:
		return 3.0
	case current < 3.05:
		return 0.6
	default:
		return 1.0
	}
}
