package helpers

import "time"

func IntSecondDefault(x int, def time.Duration) time.Duration {
	if x == 0 {
		return def
	}
	return time.Duration(x) * time.Second
}

// FloatSecond converts fractional seconds, NaN and negative become 0.
func FloatSecond(x float64) time.Duration {
	if !(x > 0) {
		return 0
	}
	return time.Duration(x * float64(time.Second))
}
