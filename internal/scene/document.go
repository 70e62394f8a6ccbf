// Package scene is the YAML scene document: mesh objects with their transforms,
// selection, visibility and measurements, plus the scene styles and units.
package scene

import (
	"fmt"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"gopkg.in/yaml.v3"
)

// Document is the persisted layout of a scene
type Document struct {
	Units   *measurement.Units  `yaml:"units,omitempty"`
	Styles  []measurement.Style `yaml:"styles,omitempty"`
	Objects []ObjectDoc         `yaml:"objects"`
}

// MeshRef points at an external mesh file, relative to the document.
// SCAD sources are rendered through the openscad binary on load.
type MeshRef struct {
	STL  string `yaml:"stl,omitempty"`
	SCAD string `yaml:"scad,omitempty"`
}

// ObjectDoc is one persisted object
type ObjectDoc struct {
	Name              string        `yaml:"name"`
	Mesh              *MeshRef      `yaml:"mesh,omitempty"`
	Vertices          [][3]float64  `yaml:"vertices,omitempty"`
	Faces             [][]int       `yaml:"faces,omitempty"`
	Location          [3]float64    `yaml:"location"`
	Rotation          [3]float64    `yaml:"rotation"` // Euler XYZ, degrees
	Scale             *[3]float64   `yaml:"scale,omitempty"`
	Hidden            bool          `yaml:"hidden,omitempty"`
	CollectionVisible *bool         `yaml:"collection_visible,omitempty"`
	Selected          bool          `yaml:"selected,omitempty"`
	Selection         *SelectionDoc `yaml:"selection,omitempty"`
	Measures          []MeasureDoc  `yaml:"measures,omitempty"`
}

// SelectionDoc is the persisted edit-mode selection; faces are face indices
type SelectionDoc struct {
	Vertices []int    `yaml:"vertices,omitempty"`
	History  []int    `yaml:"history,omitempty"`
	Edges    [][2]int `yaml:"edges,omitempty"`
	Faces    []int    `yaml:"faces,omitempty"`
}

// MeasureDoc is a persisted entity. Freed entries are dropped on load.
type MeasureDoc struct {
	Freed              bool `yaml:"freed,omitempty"`
	measurement.Entity `yaml:",inline"`
}

// UnmarshalYAML seeds the entity with the defaults of its kind before decoding
func (m *MeasureDoc) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Kind measurement.Kind `yaml:"kind"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	if head.Kind == 0 {
		return fmt.Errorf("line %d: measure without kind", node.Line)
	}

	type plain MeasureDoc
	doc := plain{Entity: measurement.NewEntity(head.Kind)}
	if err := node.Decode(&doc); err != nil {
		return err
	}
	*m = MeasureDoc(doc)
	return nil
}
