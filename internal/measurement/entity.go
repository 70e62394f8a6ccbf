package measurement

import (
	"fmt"

	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// Bucket is a group-sum accumulator letter; zero means the entity is not summed
type Bucket uint8

// BucketCount is the number of group-sum letters
const BucketCount = 26

// BucketNone excludes an entity from group sums
const BucketNone Bucket = 0

// BucketOf returns the bucket for a letter 'A'..'Z'
func BucketOf(letter byte) (Bucket, error) {
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return BucketNone, fmt.Errorf("invalid group letter %q", letter)
	}
	return Bucket(letter-'A') + 1, nil
}

// Index returns the zero-based slot of the bucket, or -1 for none
func (b Bucket) Index() int {
	if b == BucketNone || b > BucketCount {
		return -1
	}
	return int(b) - 1
}

func (b Bucket) String() string {
	if b.Index() < 0 {
		return "none"
	}
	return string(rune('A' + b.Index()))
}

// MarshalText implements encoding.TextMarshaler
func (b Bucket) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Bucket) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" || s == "none" || s == "-" {
		*b = BucketNone
		return nil
	}
	if len(s) != 1 {
		return fmt.Errorf("invalid group %q", s)
	}
	parsed, err := BucketOf(s[0])
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// AxisMask selects which axes take part in a distance
type AxisMask struct {
	X bool `yaml:"x"`
	Y bool `yaml:"y"`
	Z bool `yaml:"z"`
}

// All reports whether every axis is included
func (m AxisMask) All() bool {
	return m.X && m.Y && m.Z
}

// Includes reports whether axis takes part in the distance
func (m AxisMask) Includes(axis geometry.Axis) bool {
	switch axis {
	case geometry.AxisX:
		return m.X
	case geometry.AxisY:
		return m.Y
	default:
		return m.Z
	}
}

// OrthoMode selects which endpoint is forced onto the other's coordinates
type OrthoMode uint8

const (
	OrthoNone OrthoMode = iota
	OrthoCopyAToB
	OrthoCopyBToA
)

func (m OrthoMode) String() string {
	switch m {
	case OrthoCopyAToB:
		return "a-to-b"
	case OrthoCopyBToA:
		return "b-to-a"
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler
func (m OrthoMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (m *OrthoMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*m = OrthoNone
	case "a-to-b":
		*m = OrthoCopyAToB
	case "b-to-a":
		*m = OrthoCopyBToA
	default:
		return fmt.Errorf("unknown ortho mode %q", text)
	}
	return nil
}

// OrthoSnap copies the flagged axes from one endpoint onto the other
type OrthoSnap struct {
	Mode OrthoMode `yaml:"mode"`
	Axes AxisMask  `yaml:"axes"`
}

// ArcOptions controls arc annotation text and geometry
type ArcOptions struct {
	Full           bool   `yaml:"full"`
	AdaptiveRadius bool   `yaml:"adaptive_radius"`
	ShowRadius     bool   `yaml:"show_radius"`
	ShowLength     bool   `yaml:"show_length"`
	ShowAngle      bool   `yaml:"show_angle"`
	RadiusPrefix   string `yaml:"radius_prefix"`
	LengthPrefix   string `yaml:"length_prefix"`
	AnglePrefix    string `yaml:"angle_prefix"`
}

// Placement controls where dimension lines are offset to
type Placement struct {
	Auto   bool             `yaml:"auto"`
	Normal geometry.Vector3 `yaml:"normal"`
}

// Entity is one persisted measurement or annotation.
// A and B refer to vertices of the owning object except where the kind says
// otherwise: link kinds read B from the linked object, and object-anchored
// kinds ignore the index.
type Entity struct {
	Kind         Kind          `yaml:"kind"`
	Axis         geometry.Axis `yaml:"axis,omitempty"`
	A            int           `yaml:"a"`
	B            int           `yaml:"b,omitempty"`
	C            int           `yaml:"c,omitempty"`
	Faces        [][]int       `yaml:"faces,omitempty"`
	Link         string        `yaml:"link,omitempty"`
	StyleRef     StyleID       `yaml:"style,omitempty"`
	Visible      bool          `yaml:"visible"`
	Style        StyleFields   `yaml:"overrides,omitempty"`
	Axes         AxisMask      `yaml:"axes"`
	WarnExcluded bool          `yaml:"warn_excluded"`
	Ortho        OrthoSnap     `yaml:"ortho"`
	Arc          ArcOptions    `yaml:"arc,omitempty"`
	Bucket       Bucket        `yaml:"group,omitempty"`
	Text         string        `yaml:"text,omitempty"`
	Placement    Placement     `yaml:"placement"`
}

// NewEntity returns an entity of kind with the stock flag defaults
func NewEntity(kind Kind) Entity {
	e := Entity{
		Kind:         kind,
		Visible:      true,
		Axes:         AxisMask{X: true, Y: true, Z: true},
		WarnExcluded: true,
		Placement:    Placement{Auto: true, Normal: geometry.NewVector3(0, 0, 1)},
		Arc: ArcOptions{
			AdaptiveRadius: true,
			ShowRadius:     true,
			ShowLength:     true,
			ShowAngle:      true,
			RadiusPrefix:   "r=",
			LengthPrefix:   "L=",
			AnglePrefix:    "A=",
		},
	}
	if kind == KindFreeLine {
		hidden := false
		e.Style.ShowDistance = &hidden
		e.Style.ShowText = &hidden
	}
	return e
}

// equivalent reports whether other describes the same measurement for duplicate detection
func (e *Entity) equivalent(other *Entity) bool {
	if e.Kind != other.Kind {
		return false
	}
	switch {
	case e.Kind == KindArea || e.Kind == KindAnnotation:
		return false
	case e.Kind.Ordered():
		return e.A == other.A && e.B == other.B && e.C == other.C
	case e.Kind == KindProjected:
		return e.A == other.A && e.Axis == other.Axis
	case e.Kind.Link():
		return e.Link == other.Link && e.A == other.A && e.B == other.B
	default:
		return (e.A == other.A && e.B == other.B) || (e.A == other.B && e.B == other.A)
	}
}
