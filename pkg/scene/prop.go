package scene

import (
	"encoding/json"
	"fmt"
)

// Keyframe is the value of an animated property from Time onward.
type Keyframe[T any] struct {
	Time  int `json:"time"`
	Value T   `json:"value"`
}

// Prop is a property that is either static or animated.
//
// A static property uses Value; an animated one uses Keyframes, which must be
// in increasing time order.
type Prop[T any] struct {
	Animated  bool
	Value     T
	Keyframes []Keyframe[T]
}

// Static returns a property fixed at v.
func Static[T any](v T) Prop[T] { return Prop[T]{Value: v} }

// Animate returns a property driven by keyframes.
func Animate[T any](keyframes ...Keyframe[T]) Prop[T] {
	return Prop[T]{Animated: true, Keyframes: keyframes}
}

// At returns the value held at time t: the value of the last keyframe at or
// before t, the first keyframe's value before the animation starts, or the
// zero value for an animated property with no keyframes.
func (p Prop[T]) At(t int) T {
	if !p.Animated {
		return p.Value
	}
	var v T
	for i, kf := range p.Keyframes {
		if i > 0 && kf.Time > t {
			break
		}
		v = kf.Value
	}
	return v
}

type staticJSON[T any] struct {
	Animated bool `json:"animated"`
	Value    T    `json:"value"`
}

type animatedJSON[T any] struct {
	Animated  bool          `json:"animated"`
	Keyframes []Keyframe[T] `json:"keyframes"`
}

func (p Prop[T]) MarshalJSON() ([]byte, error) {
	if p.Animated {
		kfs := p.Keyframes
		if kfs == nil {
			kfs = []Keyframe[T]{}
		}
		return json.Marshal(animatedJSON[T]{Animated: true, Keyframes: kfs})
	}
	return json.Marshal(staticJSON[T]{Value: p.Value})
}

func (p *Prop[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		Animated  bool            `json:"animated"`
		Value     json.RawMessage `json:"value"`
		Keyframes []Keyframe[T]   `json:"keyframes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("prop: %w", err)
	}
	*p = Prop[T]{Animated: raw.Animated}
	if raw.Animated {
		p.Keyframes = raw.Keyframes
		return nil
	}
	if len(raw.Value) == 0 {
		return fmt.Errorf("prop: static property without value")
	}
	if err := json.Unmarshal(raw.Value, &p.Value); err != nil {
		return fmt.Errorf("prop value: %w", err)
	}
	return nil
}
