package native

import (
	"fmt"
	"sort"
)

// TypeHeaderKind tags the shape of a per-column preamble. Most leaf types
// carry no preamble at all (HEmpty).
type TypeHeaderKind int

const (
	HEmpty TypeHeaderKind = iota
	HArray
	HTuple
	HMap
	HVariant
	HDynamic
	HJSON
	HNested
)

// JSONColumnHeader is one path's header inside a JSON column: the header
// fields are read in full during the header pass (§4.3); Mark,
// Discriminators and Offsets are filled in later, during the payload pass
// (§4.4), because only the payload pass knows the path's actual per-row
// presence.
type JSONColumnHeader struct {
	PathVersion    uint64
	MaxTypes       uint64
	TotalTypes     uint64
	Type           *Type
	VariantVersion uint64
	Header         *TypeHeader

	Mark           *Mark
	Discriminators []byte
	Offsets        []int
}

// TypeHeader is the shape-identical companion to Type carrying per-block
// header bytes a type requires before its payload. The tree aligns with the
// Type tree position-for-position.
type TypeHeader struct {
	Kind TypeHeaderKind

	Inner    *TypeHeader   // Array
	Children []*TypeHeader // Tuple, Variant
	Key      *TypeHeader   // Map
	Value    *TypeHeader   // Map

	DynamicTypes   []*Type       // Dynamic: sorted type list including SharedVariant
	DynamicHeaders []*TypeHeader // Dynamic: aligned with DynamicTypes

	Paths      []string          // JSON
	ColHeaders []*JSONColumnHeader // JSON

	FieldHeaders []*TypeHeader // Nested
}

// pointTupleHeader is the header for the synthetic Tuple(Float64, Float64)
// that backs the Point geo type: two empty scalar headers.
func pointTupleHeader() *TypeHeader {
	return &TypeHeader{Kind: HTuple, Children: []*TypeHeader{{Kind: HEmpty}, {Kind: HEmpty}}}
}

// decodeHeader produces the TypeHeader for t, consuming header bytes from
// input, and returns the unconsumed remainder.
func decodeHeader(t *Type, input []byte) (*TypeHeader, []byte, error) {
	switch t.Kind {
	case KNullable:
		// Pass-through: Nullable's header IS its inner type's header.
		return decodeHeader(t.Elem, input)
	case KTuple:
		children, rest, err := decodeHeaderMany(t.Children, input)
		if err != nil {
			return nil, nil, err
		}
		return &TypeHeader{Kind: HTuple, Children: children}, rest, nil
	case KArray:
		inner, rest, err := decodeHeader(t.Elem, input)
		if err != nil {
			return nil, nil, err
		}
		return &TypeHeader{Kind: HArray, Inner: inner}, rest, nil
	case KMap:
		keyH, rest, err := decodeHeader(t.Key, input)
		if err != nil {
			return nil, nil, err
		}
		valH, rest, err := decodeHeader(t.Value, rest)
		if err != nil {
			return nil, nil, err
		}
		return &TypeHeader{Kind: HMap, Key: keyH, Value: valH}, rest, nil
	case KVariant:
		mode, rest, err := ReadUint64LE(input)
		if err != nil {
			return nil, nil, err
		}
		if mode != 0 {
			return nil, nil, errParse(fmt.Sprintf("variant mode word must be 0, got %d", mode))
		}
		children, rest, err := decodeHeaderMany(t.Children, rest)
		if err != nil {
			return nil, nil, err
		}
		return &TypeHeader{Kind: HVariant, Children: children}, rest, nil
	case KLowCardinality:
		version, rest, err := ReadUint64LE(input)
		if err != nil {
			return nil, nil, err
		}
		if version != 1 {
			return nil, nil, errParse(fmt.Sprintf("unsupported LowCardinality header version %d", version))
		}
		return &TypeHeader{Kind: HEmpty}, rest, nil
	case KDynamic:
		return decodeDynamicHeader(input)
	case KJSON:
		return decodeJSONHeader(input)
	case KNested:
		fieldTypes := make([]*Type, len(t.Fields))
		for i, f := range t.Fields {
			fieldTypes[i] = f.Type
		}
		children, rest, err := decodeHeaderMany(fieldTypes, input)
		if err != nil {
			return nil, nil, err
		}
		return &TypeHeader{Kind: HNested, FieldHeaders: children}, rest, nil
	case KPoint:
		return pointTupleHeader(), input, nil
	case KRing, KLineString:
		return &TypeHeader{Kind: HArray, Inner: pointTupleHeader()}, input, nil
	case KPolygon, KMultiLineString:
		ringHeader := &TypeHeader{Kind: HArray, Inner: pointTupleHeader()}
		return &TypeHeader{Kind: HArray, Inner: ringHeader}, input, nil
	case KMultiPolygon:
		polygonHeader := &TypeHeader{Kind: HArray, Inner: &TypeHeader{Kind: HArray, Inner: pointTupleHeader()}}
		return &TypeHeader{Kind: HArray, Inner: polygonHeader}, input, nil
	default:
		return &TypeHeader{Kind: HEmpty}, input, nil
	}
}

func decodeHeaderMany(types []*Type, input []byte) ([]*TypeHeader, []byte, error) {
	out := make([]*TypeHeader, 0, len(types))
	rest := input
	for _, t := range types {
		h, r, err := decodeHeader(t, rest)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, h)
		rest = r
	}
	return out, rest, nil
}

// decodeDynamicHeader implements the Dynamic header rule: one u64
// version (if 1, a discarded legacy varuint count follows); a varuint
// num_types and that many type-text strings; append the synthetic
// "SharedVariant" name, sort all names lexicographically, parse each into a
// Type, then decode a Variant header over the sorted list: a u64 mode word
// that must be 0, then each type's own header in order.
func decodeDynamicHeader(input []byte) (*TypeHeader, []byte, error) {
	version, rest, err := ReadUint64LE(input)
	if err != nil {
		return nil, nil, err
	}
	if version == 1 {
		_, rest2, err := ReadVarUint(rest)
		if err != nil {
			return nil, nil, err
		}
		rest = rest2
	}
	numTypes, rest, err := ReadVarUint(rest)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, numTypes+1)
	for i := uint64(0); i < numTypes; i++ {
		name, r, err := ReadVarString(rest)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		rest = r
	}
	names = append(names, "SharedVariant")
	sort.Strings(names)

	types := make([]*Type, len(names))
	for i, name := range names {
		if name == "SharedVariant" {
			types[i] = &Type{Kind: KSharedVariant}
			continue
		}
		t, err := ParseType(name)
		if err != nil {
			return nil, nil, err
		}
		types[i] = t
	}
	mode, rest, err := ReadUint64LE(rest)
	if err != nil {
		return nil, nil, err
	}
	if mode != 0 {
		return nil, nil, errParse(fmt.Sprintf("dynamic variant mode word must be 0, got %d", mode))
	}
	children, rest, err := decodeHeaderMany(types, rest)
	if err != nil {
		return nil, nil, err
	}
	return &TypeHeader{Kind: HDynamic, DynamicTypes: types, DynamicHeaders: children}, rest, nil
}

// decodeJSONHeader implements the JSON header rule. Wire order matters:
// the paths column, then EVERY column's scalar header fields (version,
// max_types, total_types, type text, variant version) in path order, and
// only after all of those does the stream carry the per-path recursive type
// headers, again in path order. Interleaving the two loops would read the
// wrong bytes.
func decodeJSONHeader(input []byte) (*TypeHeader, []byte, error) {
	_, rest, err := ReadUint64LE(input) // version
	if err != nil {
		return nil, nil, err
	}
	_, rest, err = ReadVarUint(rest) // legacy num_paths, ignored
	if err != nil {
		return nil, nil, err
	}
	numPaths, rest, err := ReadVarUint(rest)
	if err != nil {
		return nil, nil, err
	}
	paths := make([]string, 0, numPaths)
	for i := uint64(0); i < numPaths; i++ {
		p, r, err := ReadVarString(rest)
		if err != nil {
			return nil, nil, err
		}
		paths = append(paths, p)
		rest = r
	}

	colHeaders := make([]*JSONColumnHeader, 0, numPaths)
	for i := uint64(0); i < numPaths; i++ {
		pathVersion, r, err := ReadUint64LE(rest)
		if err != nil {
			return nil, nil, err
		}
		maxTypes, r, err := ReadVarUint(r)
		if err != nil {
			return nil, nil, err
		}
		totalTypes, r, err := ReadVarUint(r)
		if err != nil {
			return nil, nil, err
		}
		typeText, r, err := ReadVarString(r)
		if err != nil {
			return nil, nil, err
		}
		typ, err := ParseType(typeText)
		if err != nil {
			return nil, nil, err
		}
		variantVersion, r, err := ReadUint64LE(r)
		if err != nil {
			return nil, nil, err
		}
		colHeaders = append(colHeaders, &JSONColumnHeader{
			PathVersion: pathVersion, MaxTypes: maxTypes, TotalTypes: totalTypes,
			Type: typ, VariantVersion: variantVersion,
		})
		rest = r
	}

	for _, ch := range colHeaders {
		h, r, err := decodeHeader(ch.Type, rest)
		if err != nil {
			return nil, nil, err
		}
		ch.Header = h
		rest = r
	}

	return &TypeHeader{Kind: HJSON, Paths: paths, ColHeaders: colHeaders}, rest, nil
}
