package native

import (
	"strconv"
	"strings"
)

// ParseType parses a full ClickHouse type-signature text (e.g.
// "Array(Nullable(LowCardinality(String)))") into a Type tree. Trailing
// whitespace after the type is permitted; anything else left over is a
// parse error.
func ParseType(s string) (*Type, error) {
	t, rest, err := parseType(s)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rest) != "" {
		return nil, errParse("unexpected trailing input: " + strconv.Quote(rest))
	}
	return t, nil
}

func parseType(s string) (*Type, string, error) {
	s = strings.TrimLeft(s, " \t\r\n")

	// Alternative order mirrors the reference grammar: LowCardinality and
	// Nullable are tried first (they wrap an inner Type), then the fixed
	// primitive keywords, then the remaining parametric forms.
	if rest, ok := hasKeyword(s, "LowCardinality("); ok {
		return parseLowCardinality(rest)
	}
	if rest, ok := hasKeyword(s, "Nullable("); ok {
		return parseNullable(rest)
	}
	if t, rest, ok, err := parsePrimitiveType(s); ok || err != nil {
		return t, rest, err
	}
	if rest, ok := hasKeyword(s, "Array("); ok {
		return parseArray(rest)
	}
	if rest, ok := hasKeyword(s, "Map("); ok {
		return parseMap(rest)
	}
	if rest, ok := hasKeyword(s, "Tuple("); ok {
		return parseTuple(rest)
	}
	if t, rest, ok, err := parseDecimal(s); ok || err != nil {
		return t, rest, err
	}
	if rest, ok := hasKeyword(s, "Variant("); ok {
		return parseVariant(rest)
	}
	if rest, ok := hasKeyword(s, "Nested("); ok {
		return parseNested(rest)
	}
	if t, rest, ok, err := parseEnum(s, "Enum8(", KEnum8); ok || err != nil {
		return t, rest, err
	}
	if t, rest, ok, err := parseEnum(s, "Enum16(", KEnum16); ok || err != nil {
		return t, rest, err
	}
	if rest, ok := hasKeyword(s, "Dynamic"); ok {
		return &Type{Kind: KDynamic}, rest, nil
	}
	if rest, ok := hasKeyword(s, "JSON"); ok {
		return &Type{Kind: KJSON}, rest, nil
	}

	return nil, "", errParse("unrecognized type at: " + previewInput(s))
}

func previewInput(s string) string {
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return strconv.Quote(s)
}

// hasKeyword reports whether s starts with kw at a word boundary (the next
// byte, if any, is not an identifier byte), returning the remainder after kw.
func hasKeyword(s, kw string) (rest string, ok bool) {
	if !strings.HasPrefix(s, kw) {
		return "", false
	}
	// When kw ends in '(' the boundary is already unambiguous.
	if strings.HasSuffix(kw, "(") {
		return s[len(kw):], true
	}
	if len(s) > len(kw) && isIdentByte(s[len(kw)]) {
		return "", false
	}
	return s[len(kw):], true
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// parsePrimitiveType tries every fixed-keyword primitive in an order that
// keeps longer, more specific names ahead of their prefixes (Int256 before
// Int128 before ... before Int8; Date32 before Date).
func parsePrimitiveType(s string) (*Type, string, bool, error) {
	if rest, ok := hasKeyword(s, "FixedString("); ok {
		t, rest, err := parseFixedString(rest)
		return t, rest, true, err
	}
	if rest, ok := hasKeyword(s, "DateTime64("); ok {
		t, rest, err := parseDateTime64(rest)
		return t, rest, true, err
	}
	if rest, ok := hasKeyword(s, "DateTime("); ok {
		t, rest, err := parseDateTimeTZ(rest)
		return t, rest, true, err
	}
	if rest, ok := hasKeyword(s, "DateTime64"); ok {
		return &Type{Kind: KDateTime64, DateTimePrecision: 3, TimeZone: "UTC"}, rest, true, nil
	}

	simple := []struct {
		kw   string
		kind TypeKind
	}{
		{"UUID", KUUID},
		{"Bool", KBool},
		{"UInt256", KUInt256},
		{"Int256", KInt256},
		{"UInt128", KUInt128},
		{"Int128", KInt128},
		{"UInt64", KUInt64},
		{"Int64", KInt64},
		{"UInt32", KUInt32},
		{"Int32", KInt32},
		{"UInt16", KUInt16},
		{"Int16", KInt16},
		{"UInt8", KUInt8},
		{"Int8", KInt8},
		{"Float64", KFloat64},
		{"Float32", KFloat32},
		{"BFloat16", KBFloat16},
		{"String", KString},
		{"Date32", KDate32},
		{"Date", KDate},
		{"IPv6", KIPv6},
		{"IPv4", KIPv4},
		{"MultiLineString", KMultiLineString},
		{"LineString", KLineString},
		{"MultiPolygon", KMultiPolygon},
		{"Polygon", KPolygon},
		{"Ring", KRing},
		{"Point", KPoint},
	}
	for _, cand := range simple {
		if rest, ok := hasKeyword(s, cand.kw); ok {
			return &Type{Kind: cand.kind}, rest, true, nil
		}
	}
	if rest, ok := hasKeyword(s, "DateTime"); ok {
		return &Type{Kind: KDateTime, TimeZone: "UTC"}, rest, true, nil
	}
	return nil, "", false, nil
}

func parseFixedString(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	size, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil {
		return nil, "", errParse("invalid FixedString size: " + content)
	}
	return &Type{Kind: KFixedString, FixedSize: size}, rest, nil
}

func extractParensFrom(afterOpenParen string) (content, rest string, err error) {
	depth := 1
	inQuote := false
	for i := 0; i < len(afterOpenParen); i++ {
		c := afterOpenParen[i]
		switch {
		case inQuote:
			if c == '\'' {
				inQuote = false
			}
		case c == '\'':
			inQuote = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return afterOpenParen[:i], afterOpenParen[i+1:], nil
			}
		}
	}
	return "", "", errParse("unterminated '('")
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == '\'' {
				inQuote = false
			}
		case c == '\'':
			inQuote = true
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseNullable(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	inner, innerRest, err := parseType(content)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(innerRest) != "" {
		return nil, "", errParse("unexpected trailing input inside Nullable(...)")
	}
	return &Type{Kind: KNullable, Elem: inner}, rest, nil
}

func parseLowCardinality(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	inner, innerRest, err := parseType(content)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(innerRest) != "" {
		return nil, "", errParse("unexpected trailing input inside LowCardinality(...)")
	}
	return &Type{Kind: KLowCardinality, Elem: inner}, rest, nil
}

func parseArray(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	inner, innerRest, err := parseType(content)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(innerRest) != "" {
		return nil, "", errParse("unexpected trailing input inside Array(...)")
	}
	return &Type{Kind: KArray, Elem: inner}, rest, nil
}

func parseMap(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	parts := splitTopLevel(content, ',')
	if len(parts) != 2 {
		return nil, "", errParse("Map(...) requires exactly two type arguments")
	}
	key, keyRest, err := parseType(parts[0])
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(keyRest) != "" {
		return nil, "", errParse("unexpected trailing input in Map key type")
	}
	val, valRest, err := parseType(parts[1])
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(valRest) != "" {
		return nil, "", errParse("unexpected trailing input in Map value type")
	}
	return &Type{Kind: KMap, Key: key, Value: val}, rest, nil
}

func parseTuple(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	parts := splitTopLevel(content, ',')
	children := make([]*Type, 0, len(parts))
	for _, p := range parts {
		t, tRest, err := parseType(p)
		if err != nil {
			return nil, "", err
		}
		if strings.TrimSpace(tRest) != "" {
			return nil, "", errParse("unexpected trailing input in Tuple element")
		}
		children = append(children, t)
	}
	return &Type{Kind: KTuple, Children: children}, rest, nil
}

func parseVariant(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	parts := splitTopLevel(content, ',')
	children := make([]*Type, 0, len(parts))
	for _, p := range parts {
		t, tRest, err := parseType(p)
		if err != nil {
			return nil, "", err
		}
		if strings.TrimSpace(tRest) != "" {
			return nil, "", errParse("unexpected trailing input in Variant element")
		}
		children = append(children, t)
	}
	return &Type{Kind: KVariant, Children: children}, rest, nil
}

func parseNested(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	parts := splitTopLevel(content, ',')
	fields := make([]Field, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		i := 0
		for i < len(p) && isIdentByte(p[i]) {
			i++
		}
		if i == 0 {
			return nil, "", errParse("Nested(...) field is missing a name")
		}
		name := p[:i]
		rest2 := strings.TrimLeft(p[i:], " \t\r\n")
		if rest2 == "" {
			return nil, "", errParse("Nested(...) field " + name + " is missing a type")
		}
		t, tRest, err := parseType(rest2)
		if err != nil {
			return nil, "", err
		}
		if strings.TrimSpace(tRest) != "" {
			return nil, "", errParse("unexpected trailing input in Nested(...) field " + name)
		}
		fields = append(fields, Field{Name: name, Type: t})
	}
	return &Type{Kind: KNested, Fields: fields}, rest, nil
}

func parseDecimal(s string) (*Type, string, bool, error) {
	rest, ok := hasKeyword(s, "Decimal(")
	if !ok {
		return nil, "", false, nil
	}
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", true, err
	}
	parts := splitTopLevel(content, ',')
	if len(parts) != 2 {
		return nil, "", true, errParse("Decimal(...) requires precision and scale")
	}
	precision, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, "", true, errParse("invalid Decimal precision: " + parts[0])
	}
	scale, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, "", true, errParse("invalid Decimal scale: " + parts[1])
	}
	kind, err := decimalKindForPrecision(precision)
	if err != nil {
		return nil, "", true, err
	}
	return &Type{Kind: kind, Precision: precision, Scale: scale}, rest, true, nil
}

// decimalKindForPrecision maps a decimal precision to its storage width:
// P in [1..9] -> 32-bit, [10..18] -> 64-bit, [19..38] -> 128-bit,
// [39..76] -> 256-bit; outside those ranges is a parse error. Boundaries are
// inclusive; see DESIGN.md open question 6 for the P=0 edge case.
func decimalKindForPrecision(p int) (TypeKind, error) {
	switch {
	case p >= 1 && p <= 9:
		return KDecimal32, nil
	case p >= 10 && p <= 18:
		return KDecimal64, nil
	case p >= 19 && p <= 38:
		return KDecimal128, nil
	case p >= 39 && p <= 76:
		return KDecimal256, nil
	default:
		return 0, errParse("Decimal precision out of range: " + strconv.Itoa(p))
	}
}

func parseDateTime64(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	parts := splitTopLevel(content, ',')
	precision, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, "", errParse("invalid DateTime64 precision: " + parts[0])
	}
	if precision < 0 || precision > 9 {
		return nil, "", errParse("DateTime64 precision out of range: " + strconv.Itoa(precision))
	}
	tz := "UTC"
	if len(parts) > 1 {
		tz, err = parseQuotedString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, "", err
		}
	}
	return &Type{Kind: KDateTime64, DateTimePrecision: precision, TimeZone: tz}, rest, nil
}

func parseDateTimeTZ(rest string) (*Type, string, error) {
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", err
	}
	tz, err := parseQuotedString(strings.TrimSpace(content))
	if err != nil {
		return nil, "", err
	}
	return &Type{Kind: KDateTime, TimeZone: tz}, rest, nil
}

func parseQuotedString(s string) (string, error) {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return "", errParse("expected a quoted string: " + s)
	}
	return s[1 : len(s)-1], nil
}

func parseEnum(s, kw string, kind TypeKind) (*Type, string, bool, error) {
	rest, ok := hasKeyword(s, kw)
	if !ok {
		return nil, "", false, nil
	}
	content, rest, err := extractParensFrom(rest)
	if err != nil {
		return nil, "", true, err
	}
	parts := splitTopLevel(content, ',')
	variants := make([]EnumVariant, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		eq := strings.LastIndexByte(p, '=')
		if eq < 0 {
			return nil, "", true, errParse("enum variant missing '=': " + p)
		}
		name, err := parseQuotedString(strings.TrimSpace(p[:eq]))
		if err != nil {
			return nil, "", true, err
		}
		disc, err := strconv.Atoi(strings.TrimSpace(p[eq+1:]))
		if err != nil {
			return nil, "", true, errParse("invalid enum discriminant: " + p)
		}
		variants = append(variants, EnumVariant{Name: name, Discriminant: int32(disc)})
	}
	return &Type{Kind: kind, Variants: variants}, rest, true, nil
}
