package measurement

import "fmt"

// Kind is the closed set of measurement entity variants
type Kind uint8

const (
	KindSegment Kind = iota + 1
	KindProjected
	KindLabel
	KindVertexToVertexLink
	KindVertexToObjectLink
	KindObjectToVertexLink
	KindVertexToOrigin
	KindObjectToOrigin
	KindObjectToObjectLink
	KindAngle
	KindArc
	KindAnnotation
	KindArea
	KindFreeLine
)

var kindNames = map[Kind]string{
	KindSegment:            "segment",
	KindProjected:          "projected",
	KindLabel:              "label",
	KindVertexToVertexLink: "vertex-vertex-link",
	KindVertexToObjectLink: "vertex-object-link",
	KindObjectToVertexLink: "object-vertex-link",
	KindVertexToOrigin:     "vertex-origin",
	KindObjectToOrigin:     "object-origin",
	KindObjectToObjectLink: "object-object-link",
	KindAngle:              "angle",
	KindArc:                "arc",
	KindAnnotation:         "annotation",
	KindArea:               "area",
	KindFreeLine:           "line",
}

// String returns the persisted name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind looks a kind up by its persisted name
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown measurement kind %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("invalid measurement kind %d", uint8(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Distance reports whether the kind resolves to a two-point distance
func (k Kind) Distance() bool {
	switch k {
	case KindSegment, KindProjected, KindFreeLine,
		KindVertexToVertexLink, KindVertexToObjectLink, KindObjectToVertexLink, KindObjectToObjectLink,
		KindVertexToOrigin, KindObjectToOrigin:
		return true
	}
	return false
}

// Link reports whether the kind references a second object
func (k Kind) Link() bool {
	switch k {
	case KindVertexToVertexLink, KindVertexToObjectLink, KindObjectToVertexLink, KindObjectToObjectLink:
		return true
	}
	return false
}

// Summable reports whether the kind contributes to group sums
func (k Kind) Summable() bool {
	return k == KindSegment || k == KindProjected
}

// Ordered reports whether duplicate detection compares the full ordered A, B, C triple
func (k Kind) Ordered() bool {
	return k == KindAngle || k == KindArc
}

// usesA reports whether point A is a vertex index of the owning object
func (k Kind) usesA() bool {
	switch k {
	case KindObjectToVertexLink, KindObjectToOrigin, KindObjectToObjectLink, KindAnnotation, KindArea:
		return false
	}
	return true
}

// usesB reports whether point B is a vertex index, of the owning or linked object
func (k Kind) usesB() bool {
	switch k {
	case KindSegment, KindFreeLine, KindVertexToVertexLink, KindObjectToVertexLink, KindAngle, KindArc:
		return true
	}
	return false
}
