package inputs

import "time"

// Uniforms holds the global shader values updated once per frame.
type Uniforms struct {
	Time      float32
	TimeDelta float32
	Frame     int32
	Mouse     [4]float32
	Date      [4]float32
}

// Date returns t in iDate layout: year, zero based month, day, seconds since
// midnight.
func Date(t time.Time) [4]float32 {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return [4]float32{
		float32(t.Year()),
		float32(t.Month() - 1),
		float32(t.Day()),
		float32(t.Sub(midnight).Seconds()),
	}
}
