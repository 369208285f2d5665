// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package anim

import (
	"encoding/json"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const prefix = "anim: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// Sequence is a set of named tracks.
type Sequence struct {
	tracks   map[string]*Sampler
	duration float32
}

// NewSequence creates an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{tracks: make(map[string]*Sampler)}
}

// AddTrack adds or replaces the named track.
func (q *Sequence) AddTrack(name string, s *Sampler) {
	q.tracks[name] = s
	q.duration = math32.Max(q.duration, s.EndTime())
}

// Track returns the named track, or nil if there is
// no such track.
func (q *Sequence) Track(name string) *Sampler { return q.tracks[name] }

// Len returns the number of tracks in q.
func (q *Sequence) Len() int { return len(q.tracks) }

// Duration returns the greatest end time among q's tracks.
func (q *Sequence) Duration() float32 { return q.duration }

// Evaluate samples the named track at time t.
func (q *Sequence) Evaluate(name string, t float32, extrapolate bool) (mgl32.Vec4, bool) {
	s := q.tracks[name]
	if s == nil {
		return mgl32.Vec4{}, false
	}
	return s.Evaluate(t, extrapolate)
}

type jsonKeyframe struct {
	Time  float32         `json:"time"`
	Value json.RawMessage `json:"value"`
}

type jsonTrack struct {
	Name   string         `json:"name"`
	Mode   string         `json:"mode"`
	Values []jsonKeyframe `json:"values"`
}

// ParseMode converts a mode name to a Mode.
// "spline" names CatmullRom.
func ParseMode(name string) (Mode, error) {
	for i, s := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return 0, newErr("unknown interpolation mode " + name)
}

// LoadSequence decodes a JSON array of tracks.
// Each track has a name, an optional mode (step when
// omitted) and a list of values, each a time plus
// either a number or an array of up to four numbers.
func LoadSequence(data []byte) (*Sequence, error) {
	var tracks []jsonTrack
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, errors.Wrap(err, prefix+"decoding sequence")
	}
	q := NewSequence()
	for _, t := range tracks {
		s := new(Sampler)
		if t.Mode != "" {
			m, err := ParseMode(t.Mode)
			if err != nil {
				return nil, errors.Wrapf(err, "track %q", t.Name)
			}
			s.mode = m
		}
		for _, v := range t.Values {
			k := Keyframe{Time: v.Time}
			if err := decodeValue(v.Value, &k.Value); err != nil {
				return nil, errors.Wrapf(err, "track %q at time %v", t.Name, v.Time)
			}
			s.AddKeyframe(k)
		}
		q.AddTrack(t.Name, s)
	}
	return q, nil
}

func decodeValue(data json.RawMessage, v *mgl32.Vec4) error {
	if len(data) == 0 {
		return newErr("missing keyframe value")
	}
	var x float32
	if err := json.Unmarshal(data, &x); err == nil {
		v[0] = x
		return nil
	}
	var s []float32
	if err := json.Unmarshal(data, &s); err != nil {
		return newErr("keyframe value must be a number or an array of numbers")
	}
	if len(s) > 4 {
		return newErr("keyframe value has more than four components")
	}
	copy(v[:], s)
	return nil
}
