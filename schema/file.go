// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package schema

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	specinterfaces "go.e43.eu/actionspec/interfaces"
	"go.e43.eu/actionspec/internal/tags"
)

// File is the TOML form of a table schema:
//
//	name = "ingress.fwd"
//
//	[resources]
//	counter = 0x1001
//
//	[[field]]            # common to every action
//	id = 100
//	name = "$COUNTER_SPEC_BYTES"
//	bits = 64
//	tags = ["COUNTER_SPEC_BYTES"]
//
//	[[action]]
//	id = 1
//	name = "forward"
//	data_bytes = 2
//
//	  [[action.field]]
//	  id = 1
//	  name = "port"
//	  bits = 9
//	  tags = ["ACTION_PARAM"]
type File struct {
	Name string `toml:"name"`

	// Zero means the size of the largest action
	MaxActionDataBytes uint `toml:"max_action_data_bytes"`
	MaxActionDataBits  uint `toml:"max_action_data_bits"`

	// Resource table handles by kind: counter, meter, lpf, wred, register
	Resources map[string]uint32 `toml:"resources"`

	Fields  []FieldConfig  `toml:"field"`
	Actions []ActionConfig `toml:"action"`
}

type ActionConfig struct {
	ID   uint32 `toml:"id"`
	Name string `toml:"name"`

	// Zero means the extent of the action's parameters
	DataBytes uint `toml:"data_bytes"`
	DataBits  uint `toml:"data_bits"`

	Fields []FieldConfig `toml:"field"`
}

type FieldConfig struct {
	ID      uint32   `toml:"id"`
	Name    string   `toml:"name"`
	Bits    uint     `toml:"bits"`
	Offset  uint     `toml:"offset"`
	Type    string   `toml:"type"`
	Tags    []string `toml:"tags"`
	Default uint64   `toml:"default"`
	Choices []string `toml:"choices"`
}

var resourceKinds = map[string]FieldTag{
	"counter":  specinterfaces.TagCounterIndex,
	"meter":    specinterfaces.TagMeterIndex,
	"lpf":      specinterfaces.TagLpfIndex,
	"wred":     specinterfaces.TagWredIndex,
	"register": specinterfaces.TagRegisterIndex,
}

// Load reads and builds the schema in the TOML file at path
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode reads a TOML schema from r, fills in defaults, validates and builds
// it. Unknown keys are rejected.
func Decode(r io.Reader) (*Table, error) {
	var f File
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&f); err != nil {
		return nil, err
	}
	f.InitDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.Build()
}

// InitDefaults fills in the omitted sizes and types
func (f *File) InitDefaults() {
	for i := range f.Fields {
		f.Fields[i].InitDefaults()
	}
	for i := range f.Actions {
		f.Actions[i].InitDefaults()
	}
}

func (a *ActionConfig) InitDefaults() {
	for i := range a.Fields {
		a.Fields[i].InitDefaults()
	}
	if a.DataBytes == 0 {
		for _, fc := range a.Fields {
			a.DataBytes = max(a.DataBytes, fc.Offset+(fc.Bits+7)/8)
		}
	}
	if a.DataBits == 0 {
		a.DataBits = a.DataBytes * 8
	}
}

func (fc *FieldConfig) InitDefaults() {
	if fc.Type == "" {
		fc.Type = specinterfaces.TypeUint64.String()
	}
}

// Validate checks everything that does not need the other fields: known tag
// and type names, register widths and resource kinds. Cross-field checks
// happen in Build.
func (f *File) Validate() error {
	for kind := range f.Resources {
		if _, ok := resourceKinds[kind]; !ok {
			return fmt.Errorf("resources: unknown kind '%s'", kind)
		}
	}
	for _, fc := range f.Fields {
		if err := fc.Validate(); err != nil {
			return err
		}
	}
	for _, a := range f.Actions {
		if a.ID == 0 {
			return fmt.Errorf("action '%s': id must be non-zero", a.Name)
		}
		for _, fc := range a.Fields {
			if err := fc.Validate(); err != nil {
				return fmt.Errorf("action %d: %w", a.ID, err)
			}
		}
	}
	return nil
}

func (fc *FieldConfig) Validate() error {
	d, err := fc.descriptor(0)
	if err != nil {
		return err
	}

	switch d.Type {
	case specinterfaces.TypeUint64:
		if d.BitSize == 0 || d.BitSize > 64 {
			return fmt.Errorf("field %d: %d bits do not fit a uint64", fc.ID, d.BitSize)
		}
	case specinterfaces.TypeBytes:
		if d.BitSize == 0 {
			return fmt.Errorf("field %d: bytes field needs a size", fc.ID)
		}
	case specinterfaces.TypeString:
	default:
		if len(fc.Choices) != 0 {
			return fmt.Errorf("field %d: only string fields take choices", fc.ID)
		}
	}

	if tags.IsRegister(d.Tags) {
		switch d.BitSize {
		case 1, 8, 16, 32, 64:
		default:
			return fmt.Errorf("field %d: register width %d is not 1, 8, 16, 32 or 64", fc.ID, d.BitSize)
		}
	}
	return nil
}

func (fc *FieldConfig) descriptor(actionID uint32) (FieldDescriptor, error) {
	ts, err := tags.ParseSet(fc.Tags)
	if err != nil {
		return FieldDescriptor{}, fmt.Errorf("field %d: %w", fc.ID, err)
	}
	typ, ok := specinterfaces.ParseDataType(fc.Type)
	if !ok {
		return FieldDescriptor{}, fmt.Errorf("field %d: unknown type '%s'", fc.ID, fc.Type)
	}
	return FieldDescriptor{
		ID:         fc.ID,
		Name:       fc.Name,
		ActionID:   actionID,
		BitSize:    fc.Bits,
		ByteOffset: fc.Offset,
		Tags:       ts,
		Type:       typ,
		Default:    fc.Default,
		Choices:    fc.Choices,
	}, nil
}

// Build constructs the table described by f
func (f *File) Build() (*Table, error) {
	t := New(f.Name)
	if f.MaxActionDataBytes != 0 {
		bits := f.MaxActionDataBits
		if bits == 0 {
			bits = f.MaxActionDataBytes * 8
		}
		t.SetMaxActionDataSize(f.MaxActionDataBytes, bits)
	}
	for kind, hdl := range f.Resources {
		if err := t.SetResourceHandle(resourceKinds[kind], hdl); err != nil {
			return nil, err
		}
	}

	for _, fc := range f.Fields {
		if err := t.addFieldConfig(fc, 0); err != nil {
			return nil, err
		}
	}
	for _, a := range f.Actions {
		if err := t.AddAction(a.ID, a.Name, a.DataBytes, a.DataBits); err != nil {
			return nil, err
		}
		for _, fc := range a.Fields {
			if err := t.addFieldConfig(fc, a.ID); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func (t *Table) addFieldConfig(fc FieldConfig, actionID uint32) error {
	d, err := fc.descriptor(actionID)
	if err != nil {
		return err
	}
	return t.AddField(d)
}
