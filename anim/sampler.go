// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package anim implements keyframe sampling.
package anim

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the interpolation mode of a sampler.
type Mode int

// Interpolation modes.
const (
	// Value of the previous keyframe.
	Step Mode = iota
	Linear
	// Spherical linear interpolation of
	// quaternions stored as x, y, z, w.
	Slerp
	// Cubic spline through the keyframe values.
	CatmullRom
	// Cubic spline using the keyframe tangents.
	Hermite
)

var modeNames = [...]string{
	Step:       "step",
	Linear:     "linear",
	Slerp:      "slerp",
	CatmullRom: "spline",
	Hermite:    "hermite",
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Mode(?)"
	}
	return modeNames[m]
}

// Keyframe is a single sample of an animated value.
// Tangents are only used by Hermite samplers.
type Keyframe struct {
	Time       float32
	Value      mgl32.Vec4
	InTangent  mgl32.Vec4
	OutTangent mgl32.Vec4
}

// Sampler evaluates a sequence of keyframes.
// Keyframes are kept sorted by time.
type Sampler struct {
	kfs  []Keyframe
	mode Mode
}

// NewSampler creates a new sampler.
func NewSampler(mode Mode, kfs ...Keyframe) *Sampler {
	s := &Sampler{mode: mode}
	for _, k := range kfs {
		s.AddKeyframe(k)
	}
	return s
}

// Mode returns the interpolation mode of s.
func (s *Sampler) Mode() Mode { return s.mode }

// SetMode sets the interpolation mode of s.
func (s *Sampler) SetMode(mode Mode) { s.mode = mode }

// Keyframes returns the keyframes of s.
// The slice must not be modified.
func (s *Sampler) Keyframes() []Keyframe { return s.kfs }

// Len returns the number of keyframes in s.
func (s *Sampler) Len() int { return len(s.kfs) }

// AddKeyframe inserts k after any keyframes whose time
// is not greater than k.Time.
func (s *Sampler) AddKeyframe(k Keyframe) {
	i := sort.Search(len(s.kfs), func(i int) bool { return s.kfs[i].Time > k.Time })
	s.kfs = append(s.kfs, Keyframe{})
	copy(s.kfs[i+1:], s.kfs[i:])
	s.kfs[i] = k
}

// StartTime returns the time of the first keyframe,
// or zero if s is empty.
func (s *Sampler) StartTime() float32 {
	if len(s.kfs) == 0 {
		return 0
	}
	return s.kfs[0].Time
}

// EndTime returns the time of the last keyframe,
// or zero if s is empty.
func (s *Sampler) EndTime() float32 {
	if len(s.kfs) == 0 {
		return 0
	}
	return s.kfs[len(s.kfs)-1].Time
}

// Evaluate samples s at time t.
// Times before the first keyframe yield its value.
// Times at or after the last keyframe yield its value
// only if extrapolate is set.
// It returns false if there is no value for t.
func (s *Sampler) Evaluate(t float32, extrapolate bool) (mgl32.Vec4, bool) {
	n := len(s.kfs)
	switch {
	case n == 0 || math32.IsNaN(t):
		return mgl32.Vec4{}, false
	case t <= s.kfs[0].Time:
		return s.kfs[0].Value, true
	case n == 1 || t >= s.kfs[n-1].Time:
		if extrapolate {
			return s.kfs[n-1].Value, true
		}
		return mgl32.Vec4{}, false
	}
	i := sort.Search(n, func(i int) bool { return s.kfs[i].Time > t }) - 1
	b := &s.kfs[i]
	c := &s.kfs[i+1]
	a, d := b, c
	if i > 0 {
		a = &s.kfs[i-1]
	}
	if i < n-2 {
		d = &s.kfs[i+2]
	}
	dt := c.Time - b.Time
	return Interpolate(s.mode, a, b, c, d, (t-b.Time)/dt, dt), true
}

// Interpolate interpolates between keyframes b and c,
// with a preceding b and d following c.
// t is the normalized position in the [b, c] interval
// and dt is the interval's length.
func Interpolate(mode Mode, a, b, c, d *Keyframe, t, dt float32) mgl32.Vec4 {
	switch mode {
	case Step:
		return b.Value
	case Linear:
		return b.Value.Add(c.Value.Sub(b.Value).Mul(t))
	case Slerp:
		qb := mgl32.Quat{W: b.Value[3], V: b.Value.Vec3()}
		qc := mgl32.Quat{W: c.Value[3], V: c.Value.Vec3()}
		if qb.Dot(qc) < 0 {
			qc = qc.Scale(-1)
		}
		q := mgl32.QuatSlerp(qb, qc, t)
		return mgl32.Vec4{q.V[0], q.V[1], q.V[2], q.W}
	case CatmullRom:
		i := a.Value.Mul(-1).Add(b.Value.Mul(3)).Sub(c.Value.Mul(3)).Add(d.Value)
		j := a.Value.Mul(2).Sub(b.Value.Mul(5)).Add(c.Value.Mul(4)).Sub(d.Value)
		k := c.Value.Sub(a.Value)
		return i.Mul(t).Add(j).Mul(t).Add(k).Mul(t * 0.5).Add(b.Value)
	case Hermite:
		t2 := t * t
		t3 := t2 * t
		return b.Value.Mul(2*t3 - 3*t2 + 1).
			Add(b.OutTangent.Mul((t3 - 2*t2 + t) * dt)).
			Add(c.Value.Mul(-2*t3 + 3*t2)).
			Add(c.InTangent.Mul((t3 - t2) * dt))
	default:
		panic("anim: undefined interpolation mode")
	}
}
