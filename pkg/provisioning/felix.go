package provisioning

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Configuration property values use the Felix config admin syntax:
//
//	key="text"            string
//	key=I"1"              typed scalar (I L F D B S X C)
//	key=["a","b"]         string array
//	key=L["1","2"]        typed array
//
// Values are decoded to string, bool, int8, int16, int32, int64, float32,
// float64 or a []any of those.

// ParsePropertyValue decodes one Felix encoded value
func ParsePropertyValue(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}
	typeCode := byte('T')
	if c := s[0]; c != '"' && c != '[' && c != '(' {
		typeCode = c
		s = strings.TrimSpace(s[1:])
	}
	if s == "" {
		return nil, fmt.Errorf("missing value after type %q", typeCode)
	}

	switch s[0] {
	case '"':
		raw, rest, err := readQuoted(s)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(rest) != "" {
			return nil, fmt.Errorf("unexpected trailing text %q", rest)
		}
		return convertScalar(typeCode, raw)
	case '[', '(':
		closing := byte(']')
		if s[0] == '(' {
			closing = ')'
		}
		return parseList(s[1:], closing, typeCode)
	default:
		return nil, fmt.Errorf("invalid value %q", s)
	}
}

func parseList(s string, closing byte, typeCode byte) (any, error) {
	values := []any{}
	for {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("unterminated list")
		}
		if s[0] == closing {
			if strings.TrimSpace(s[1:]) != "" {
				return nil, fmt.Errorf("unexpected trailing text %q", s[1:])
			}
			return values, nil
		}
		raw, rest, err := readQuoted(s)
		if err != nil {
			return nil, err
		}
		v, err := convertScalar(typeCode, raw)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, ",") {
			rest = rest[1:]
		}
		s = rest
	}
}

func readQuoted(s string) (string, string, error) {
	if s == "" || s[0] != '"' {
		return "", "", fmt.Errorf("expected quoted string at %q", s)
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			return b.String(), s[i+1:], nil
		case '\\':
			i++
			if i >= len(s) {
				return "", "", fmt.Errorf("dangling escape")
			}
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'u':
				if i+4 >= len(s) {
					return "", "", fmt.Errorf("short unicode escape")
				}
				r, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
				if err != nil {
					return "", "", fmt.Errorf("invalid unicode escape: %w", err)
				}
				b.WriteRune(rune(r))
				i += 4
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("unterminated string")
}

func convertScalar(typeCode byte, raw string) (any, error) {
	switch typeCode {
	case 'T', 'C':
		return raw, nil
	case 'B', 'b':
		return strconv.ParseBool(raw)
	case 'I', 'i':
		v, err := strconv.ParseInt(raw, 10, 32)
		return int32(v), err
	case 'L', 'l':
		return strconv.ParseInt(raw, 10, 64)
	case 'S', 's':
		v, err := strconv.ParseInt(raw, 10, 16)
		return int16(v), err
	case 'X', 'x':
		v, err := strconv.ParseInt(raw, 10, 8)
		return int8(v), err
	case 'F', 'f':
		return parseFloat32(raw)
	case 'D', 'd':
		return parseFloat64(raw)
	default:
		return nil, fmt.Errorf("unsupported type code %q", typeCode)
	}
}

// Felix stores floating point values as their raw IEEE bits, but plain
// decimals are accepted as well.
func parseFloat32(raw string) (float32, error) {
	if !strings.ContainsAny(raw, ".eE") {
		if bits, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return math.Float32frombits(uint32(bits)), nil
		}
	}
	v, err := strconv.ParseFloat(raw, 32)
	return float32(v), err
}

func parseFloat64(raw string) (float64, error) {
	if !strings.ContainsAny(raw, ".eE") {
		if bits, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return math.Float64frombits(uint64(bits)), nil
		}
	}
	return strconv.ParseFloat(raw, 64)
}

// FormatPropertyValue encodes a value in Felix syntax
func FormatPropertyValue(v any) (string, error) {
	if list, ok := v.([]any); ok {
		code := byte('T')
		parts := make([]string, 0, len(list))
		for i, item := range list {
			c, raw, err := scalarCode(item)
			if err != nil {
				return "", err
			}
			if i == 0 {
				code = c
			} else if c != code {
				return "", fmt.Errorf("mixed element types in array")
			}
			parts = append(parts, quote(raw))
		}
		prefix := ""
		if code != 'T' {
			prefix = string(code)
		}
		return prefix + "[" + strings.Join(parts, ",") + "]", nil
	}
	if list, ok := v.([]string); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = quote(item)
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	}

	code, raw, err := scalarCode(v)
	if err != nil {
		return "", err
	}
	if code == 'T' {
		return quote(raw), nil
	}
	return string(code) + quote(raw), nil
}

func scalarCode(v any) (byte, string, error) {
	switch t := v.(type) {
	case string:
		return 'T', t, nil
	case bool:
		return 'B', strconv.FormatBool(t), nil
	case int32:
		return 'I', strconv.FormatInt(int64(t), 10), nil
	case int:
		return 'L', strconv.Itoa(t), nil
	case int64:
		return 'L', strconv.FormatInt(t, 10), nil
	case int16:
		return 'S', strconv.FormatInt(int64(t), 10), nil
	case int8:
		return 'X', strconv.FormatInt(int64(t), 10), nil
	case float32:
		return 'F', strconv.FormatInt(int64(math.Float32bits(t)), 10), nil
	case float64:
		return 'D', strconv.FormatInt(int64(math.Float64bits(t)), 10), nil
	default:
		return 0, "", fmt.Errorf("unsupported property value type %T", v)
	}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
