// Package uistate saves and restores the values behind a UI: adjustments,
// toggles, text fields, colors and pan/zoom views, keyed by name. The
// document format is
//
//	{"builder_models": {"<name>": <value>, ...}}
//
// where a value is a number, bool, string, "rgb(r,g,b)" string or, for
// views, an object with offset_x, offset_y, scale and scale_rate.
package uistate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"sort"

	"fyne.io/fyne/v2/data/binding"

	"github.com/irfansharif/panzoom/internal/adjust"
	"github.com/irfansharif/panzoom/internal/geom"
	"github.com/irfansharif/panzoom/internal/palette"
	"github.com/irfansharif/panzoom/internal/viewport"
)

const rootKey = "builder_models"

// Kind is the type of value a model holds.
type Kind int

const (
	KindAdjustment Kind = iota
	KindToggle
	KindText
	KindColor
	KindView
)

func (k Kind) String() string {
	switch k {
	case KindAdjustment:
		return "adjustment"
	case KindToggle:
		return "toggle"
	case KindText:
		return "text"
	case KindColor:
		return "color"
	case KindView:
		return "view"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type model interface {
	kind() Kind
	save() (interface{}, error)
	load(raw json.RawMessage) error
}

// Registry is a set of named models.
type Registry struct {
	models map[string]model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]model)}
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kind returns the kind of the model registered under name.
func (r *Registry) Kind(name string) (Kind, bool) {
	m, ok := r.models[name]
	if !ok {
		return 0, false
	}
	return m.kind(), true
}

// AddAdjustment registers a numeric model. Registering a name again
// replaces the earlier model.
func (r *Registry) AddAdjustment(name string, a adjust.Adjustment) {
	r.models[name] = adjustmentModel{a}
}

// AddToggle registers a boolean model.
func (r *Registry) AddToggle(name string, b binding.Bool) {
	r.models[name] = toggleModel{b}
}

// AddText registers a string model.
func (r *Registry) AddText(name string, s binding.String) {
	r.models[name] = textModel{s}
}

// AddColor registers a color model read through get and written through
// set.
func (r *Registry) AddColor(name string, get func() color.Color, set func(color.Color)) {
	r.models[name] = colorModel{get: get, set: set}
}

// AddView registers a pan/zoom view.
func (r *Registry) AddView(name string, v *viewport.View) {
	r.models[name] = viewModel{v}
}

// Marshal encodes every model.
func (r *Registry) Marshal() ([]byte, error) {
	values := make(map[string]interface{}, len(r.models))
	for name, m := range r.models {
		v, err := m.save()
		if err != nil {
			return nil, fmt.Errorf("saving %s %q: %w", m.kind(), name, err)
		}
		values[name] = v
	}
	return json.MarshalIndent(map[string]interface{}{rootKey: values}, "", "  ")
}

// Unmarshal applies a document to the registered models. Names without a
// registered model are skipped with a warning. A value of the wrong type
// for its model is an error; models before it in name order have already
// been updated.
func (r *Registry) Unmarshal(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding ui state: %w", err)
	}
	raw, ok := doc[rootKey]
	if !ok {
		return fmt.Errorf("decoding ui state: missing %q", rootKey)
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("decoding ui state: %w", err)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m, ok := r.models[name]
		if !ok {
			log.Printf("WARNING: unrecognized UI key %q", name)
			continue
		}
		if err := m.load(values[name]); err != nil {
			return fmt.Errorf("loading %s %q: %w", m.kind(), name, err)
		}
	}
	return nil
}

// Save writes the encoded models to w.
func (r *Registry) Save(w io.Writer) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Load reads a document from rd and applies it.
func (r *Registry) Load(rd io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rd); err != nil {
		return fmt.Errorf("reading ui state: %w", err)
	}
	return r.Unmarshal(buf.Bytes())
}

// SaveFile writes the encoded models to path.
func (r *Registry) SaveFile(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing ui state: %w", err)
	}
	return nil
}

// LoadFile reads and applies the document at path.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ui state: %w", err)
	}
	return r.Unmarshal(data)
}

type adjustmentModel struct{ a adjust.Adjustment }

func (m adjustmentModel) kind() Kind                 { return KindAdjustment }
func (m adjustmentModel) save() (interface{}, error) { return m.a.Value(), nil }
func (m adjustmentModel) load(raw json.RawMessage) error {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	m.a.SetValue(v)
	return nil
}

type toggleModel struct{ b binding.Bool }

func (m toggleModel) kind() Kind                 { return KindToggle }
func (m toggleModel) save() (interface{}, error) { return m.b.Get() }
func (m toggleModel) load(raw json.RawMessage) error {
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return m.b.Set(v)
}

type textModel struct{ s binding.String }

func (m textModel) kind() Kind                 { return KindText }
func (m textModel) save() (interface{}, error) { return m.s.Get() }
func (m textModel) load(raw json.RawMessage) error {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return m.s.Set(v)
}

type colorModel struct {
	get func() color.Color
	set func(color.Color)
}

func (m colorModel) kind() Kind                 { return KindColor }
func (m colorModel) save() (interface{}, error) { return palette.FormatRGB(m.get()), nil }
func (m colorModel) load(raw json.RawMessage) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	c, err := palette.Parse(s)
	if err != nil {
		return err
	}
	m.set(c)
	return nil
}

// viewState is the encoded form of a viewport.State.
type viewState struct {
	OffsetX   float64 `json:"offset_x"`
	OffsetY   float64 `json:"offset_y"`
	Scale     float64 `json:"scale"`
	ScaleRate float64 `json:"scale_rate"`
}

type viewModel struct{ v *viewport.View }

func (m viewModel) kind() Kind { return KindView }

func (m viewModel) save() (interface{}, error) {
	s := m.v.Snapshot()
	return viewState{
		OffsetX:   s.Offset.X,
		OffsetY:   s.Offset.Y,
		Scale:     s.Scale,
		ScaleRate: s.ScaleRate,
	}, nil
}

func (m viewModel) load(raw json.RawMessage) error {
	// Fields missing from the document keep their current values.
	cur, _ := m.save()
	vs := cur.(viewState)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&vs); err != nil {
		return err
	}
	m.v.Restore(viewport.State{
		Offset:    geom.MakePoint(vs.OffsetX, vs.OffsetY),
		Scale:     vs.Scale,
		ScaleRate: vs.ScaleRate,
	})
	return nil
}
