package feature

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Configuration property keys may carry a type hint after the last colon,
// "service.ranking:Integer" or "ports:Long[]". Values without a hint are
// strings, booleans, int64 or float64 as the JSON literal suggests.

var scalarHints = map[string]string{
	"String": "String", "Boolean": "Boolean", "boolean": "Boolean",
	"Integer": "Integer", "int": "Integer",
	"Long": "Long", "long": "Long",
	"Short": "Short", "short": "Short",
	"Byte": "Byte", "byte": "Byte",
	"Float": "Float", "float": "Float",
	"Double": "Double", "double": "Double",
	"Character": "String", "char": "String",
}

// splitTypeHint separates a recognised hint from the key. Keys whose suffix
// is not a known type are returned untouched.
func splitTypeHint(key string) (string, string, bool) {
	idx := strings.LastIndex(key, ":")
	if idx <= 0 {
		return key, "", false
	}
	hint := key[idx+1:]
	base, isArray := elementHint(hint)
	if _, ok := scalarHints[base]; !ok {
		return key, "", false
	}
	if isArray {
		return key[:idx], scalarHints[base] + "[]", true
	}
	return key[:idx], scalarHints[base], true
}

func elementHint(hint string) (string, bool) {
	if strings.HasSuffix(hint, "[]") {
		return strings.TrimSuffix(hint, "[]"), true
	}
	if strings.HasPrefix(hint, "Collection<") && strings.HasSuffix(hint, ">") {
		return strings.TrimSuffix(strings.TrimPrefix(hint, "Collection<"), ">"), true
	}
	return hint, false
}

func decodeProperty(raw any, hint string) (any, error) {
	if hint == "" {
		return decodeUntyped(raw)
	}
	if base, isArray := elementHint(hint); isArray {
		list, ok := raw.([]any)
		if !ok {
			list = []any{raw}
		}
		out := make([]any, 0, len(list))
		for _, item := range list {
			v, err := convertHinted(item, base)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return convertHinted(raw, hint)
}

func decodeUntyped(raw any) (any, error) {
	switch t := raw.(type) {
	case string, bool:
		return t, nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		return t.Float64()
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			v, err := decodeUntyped(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("null property value")
	default:
		return nil, fmt.Errorf("unsupported property value %T", raw)
	}
}

func convertHinted(raw any, hint string) (any, error) {
	text, err := scalarString(raw)
	if err != nil {
		return nil, err
	}
	switch hint {
	case "String":
		return text, nil
	case "Boolean":
		return strconv.ParseBool(text)
	case "Integer":
		v, err := strconv.ParseInt(text, 10, 32)
		return int32(v), err
	case "Long":
		return strconv.ParseInt(text, 10, 64)
	case "Short":
		v, err := strconv.ParseInt(text, 10, 16)
		return int16(v), err
	case "Byte":
		v, err := strconv.ParseInt(text, 10, 8)
		return int8(v), err
	case "Float":
		v, err := strconv.ParseFloat(text, 32)
		return float32(v), err
	case "Double":
		return strconv.ParseFloat(text, 64)
	default:
		return nil, fmt.Errorf("unsupported type hint %q", hint)
	}
}

// typeHint returns the hint the writer attaches so that reading gives the
// same Go type back. Strings, booleans and int64 need none.
func typeHint(v any) string {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return ""
		}
		if h := typeHint(t[0]); h != "" {
			return h + "[]"
		}
		return ""
	case int32:
		return "Integer"
	case int16:
		return "Short"
	case int8:
		return "Byte"
	case float32:
		return "Float"
	case float64:
		return "Double"
	default:
		return ""
	}
}
