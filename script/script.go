// Package script builds arbor actions from YAML documents.
//
// A document maps action names to action specs. Each spec names exactly one
// kind:
//
//	actions:
//	  bounce:
//	    sequence:
//	      - move_by: {duration: 0.5, y: -20, ease: out_quad}
//	      - move_by: {duration: 0.5, y: 20, ease: in_quad}
//	  pulse:
//	    loop:
//	      sequence:
//	        - scale_to: {duration: 0.3, x: 1.2, y: 1.2}
//	        - scale_to: {duration: 0.3, x: 1, y: 1}
//
// Library.Get returns a fresh clone on every call, so one library can drive
// any number of nodes.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/phanxgames/arbor"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoKind        = errors.New("action spec names no kind")
	ErrMultipleKinds = errors.New("action spec names more than one kind")
	ErrUnknownEase   = errors.New("unknown ease")
)

// Vector is a two-component gradual action.
type Vector struct {
	Duration float64 `yaml:"duration"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Ease     string  `yaml:"ease,omitempty"`
}

// Scalar is a one-component gradual action.
type Scalar struct {
	Duration float64 `yaml:"duration"`
	Value    float64 `yaml:"value"`
	Ease     string  `yaml:"ease,omitempty"`
}

// RepeatSpec repeats an action Times times; -1 repeats forever.
type RepeatSpec struct {
	Times  int  `yaml:"times"`
	Action Spec `yaml:"action"`
}

// Spec is one node of an action document. Exactly one kind field is set.
type Spec struct {
	Name string `yaml:"name,omitempty"`

	MoveBy    *Vector  `yaml:"move_by,omitempty"`
	MoveTo    *Vector  `yaml:"move_to,omitempty"`
	ScaleBy   *Vector  `yaml:"scale_by,omitempty"`
	ScaleTo   *Vector  `yaml:"scale_to,omitempty"`
	RotateBy  *Scalar  `yaml:"rotate_by,omitempty"`
	RotateTo  *Scalar  `yaml:"rotate_to,omitempty"`
	OpacityBy *Scalar  `yaml:"opacity_by,omitempty"`
	OpacityTo *Scalar  `yaml:"opacity_to,omitempty"`
	FadeIn    *float64 `yaml:"fade_in,omitempty"`
	FadeOut   *float64 `yaml:"fade_out,omitempty"`
	Delay     *float64 `yaml:"delay,omitempty"`

	Sequence []Spec      `yaml:"sequence,omitempty"`
	Spawn    []Spec      `yaml:"spawn,omitempty"`
	Repeat   *RepeatSpec `yaml:"repeat,omitempty"`
	Loop     *Spec       `yaml:"loop,omitempty"`
	Reverse  *Spec       `yaml:"reverse,omitempty"`
}

// Document is the top-level YAML shape.
type Document struct {
	Actions map[string]Spec `yaml:"actions"`
}

// Build turns the spec into an action.
func (s Spec) Build() (arbor.Action, error) {
	var kinds []func() (arbor.Action, error)
	kind := func(fn func() (arbor.Action, error)) { kinds = append(kinds, fn) }
	instant := func(a arbor.Action) func() (arbor.Action, error) {
		return func() (arbor.Action, error) { return a, nil }
	}

	if v := s.MoveBy; v != nil {
		kind(func() (arbor.Action, error) { return vector(arbor.MoveBy, v) })
	}
	if v := s.MoveTo; v != nil {
		kind(func() (arbor.Action, error) { return vector(arbor.MoveTo, v) })
	}
	if v := s.ScaleBy; v != nil {
		kind(func() (arbor.Action, error) { return vector(arbor.ScaleBy, v) })
	}
	if v := s.ScaleTo; v != nil {
		kind(func() (arbor.Action, error) { return vector(arbor.ScaleTo, v) })
	}
	if v := s.RotateBy; v != nil {
		kind(func() (arbor.Action, error) { return scalar(arbor.RotateBy, v) })
	}
	if v := s.RotateTo; v != nil {
		kind(func() (arbor.Action, error) { return scalar(arbor.RotateTo, v) })
	}
	if v := s.OpacityBy; v != nil {
		kind(func() (arbor.Action, error) { return scalar(arbor.OpacityBy, v) })
	}
	if v := s.OpacityTo; v != nil {
		kind(func() (arbor.Action, error) { return scalar(arbor.OpacityTo, v) })
	}
	if s.FadeIn != nil {
		kind(instant(arbor.FadeIn(*s.FadeIn)))
	}
	if s.FadeOut != nil {
		kind(instant(arbor.FadeOut(*s.FadeOut)))
	}
	if s.Delay != nil {
		kind(instant(arbor.Delay(*s.Delay)))
	}
	if s.Sequence != nil {
		kind(func() (arbor.Action, error) { return list(arbor.Sequence, s.Sequence) })
	}
	if s.Spawn != nil {
		kind(func() (arbor.Action, error) { return list(arbor.Spawn, s.Spawn) })
	}
	if r := s.Repeat; r != nil {
		kind(func() (arbor.Action, error) {
			return wrap(r.Action, func(a arbor.Action) arbor.Action { return arbor.Repeat(a, r.Times) })
		})
	}
	if s.Loop != nil {
		kind(func() (arbor.Action, error) { return wrap(*s.Loop, arbor.Loop) })
	}
	if s.Reverse != nil {
		kind(func() (arbor.Action, error) { return wrap(*s.Reverse, arbor.Action.Reverse) })
	}

	switch len(kinds) {
	case 0:
		return nil, ErrNoKind
	case 1:
	default:
		return nil, ErrMultipleKinds
	}
	a, err := kinds[0]()
	if err != nil {
		return nil, err
	}
	if s.Name != "" {
		a = arbor.Named(s.Name, a)
	}
	return a, nil
}

func vector(ctor func(d, x, y float64) arbor.Action, v *Vector) (arbor.Action, error) {
	return eased(ctor(v.Duration, v.X, v.Y), v.Ease)
}

func scalar(ctor func(d, v float64) arbor.Action, v *Scalar) (arbor.Action, error) {
	return eased(ctor(v.Duration, v.Value), v.Ease)
}

func eased(a arbor.Action, name string) (arbor.Action, error) {
	if name == "" {
		return a, nil
	}
	fn, ok := Ease(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEase, name)
	}
	return arbor.WithEase(a, fn), nil
}

func list(combine func(...arbor.Action) arbor.Action, specs []Spec) (arbor.Action, error) {
	actions := make([]arbor.Action, 0, len(specs))
	for i, s := range specs {
		a, err := s.Build()
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		actions = append(actions, a)
	}
	return combine(actions...), nil
}

func wrap(s Spec, fn func(arbor.Action) arbor.Action) (arbor.Action, error) {
	a, err := s.Build()
	if err != nil {
		return nil, err
	}
	return fn(a), nil
}

// Library holds named action templates.
type Library struct {
	actions map[string]arbor.Action
}

// Parse decodes a YAML document and builds every action in it. Unknown keys
// are rejected.
func Parse(data []byte) (*Library, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	lib := &Library{actions: make(map[string]arbor.Action, len(doc.Actions))}
	for name, spec := range doc.Actions {
		a, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", name, err)
		}
		if a.Name() == "" {
			a.SetName(name)
		}
		lib.actions[name] = a
	}
	return lib, nil
}

// Load reads and parses a YAML script file.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Get returns a fresh copy of the named action.
func (l *Library) Get(name string) (arbor.Action, bool) {
	a, ok := l.actions[name]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Names returns the action names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.actions))
	for name := range l.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of actions in the library.
func (l *Library) Len() int { return len(l.actions) }
