package motion

import "ossm-go/internal/waveform"

// MotorControllerConfig is exchanged by value (copy-on-write): producers
// (HTTP, serial, storage) never hold a reference into the live controller.
type MotorControllerConfig struct {
	BPM            float64       `json:"bpm"`
	Depth          float64       `json:"depth"`
	DepthTop       bool          `json:"depth_top"`
	Reversed       bool          `json:"reversed"`
	WaveFunc       waveform.Kind `json:"wave_func"`
	Sharpness      float64       `json:"sharpness"`
	SplinePoints   []float64     `json:"spline_points"`
	Paused         bool          `json:"paused"`
	PausedPosition float64       `json:"paused_position"`
}

// DefaultConfig is the factory configuration used when nothing is stored.
func DefaultConfig() MotorControllerConfig {
	return MotorControllerConfig{
		BPM:            60,
		Depth:          1,
		DepthTop:       false,
		Reversed:       false,
		WaveFunc:       waveform.Sine,
		Sharpness:      0.5,
		SplinePoints:   nil,
		Paused:         false,
		PausedPosition: 0,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamped returns a copy with every numeric field clamped to its persisted
// range. The controller itself does not clamp on SetConfig; this is the
// authoritative gate applied only at the storage boundary.
func (c MotorControllerConfig) Clamped() MotorControllerConfig {
	out := c
	out.BPM = clamp(c.BPM, 1, 500)
	out.Depth = clamp(c.Depth, 0, 1)
	out.Sharpness = clamp(c.Sharpness, 0, 1)
	out.PausedPosition = clamp(c.PausedPosition, 0, 1)
	return out
}

// StateResponse is a point-in-time, side-effect-free snapshot of the
// controller, as served by GET /state.
type StateResponse struct {
	Config   MotorControllerConfig `json:"config"`
	T        float64               `json:"t"`
	X        float64               `json:"x"`
	Y        float64               `json:"y"`
	ShapedY  float64               `json:"shaped_y"`
	Position int32                 `json:"position"`
	Speed    float64               `json:"speed"`
}
