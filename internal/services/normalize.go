package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldKind describes the expected shape of a contract field.
type FieldKind int

const (
	// FieldString is a scalar string
	FieldString FieldKind = iota
	// FieldStringList is an ordered list of strings
	FieldStringList
	// FieldConfidence is a float clamped into [0,1]
	FieldConfidence
	// FieldNonEmptyString is a scalar string whose default is substituted
	// when the value trims to empty
	FieldNonEmptyString
)

// FieldSpec pairs a field's expected shape with its default value.
type FieldSpec struct {
	Kind    FieldKind
	Default interface{}
}

// ContractSchema maps field names to their specs. Each oracle-facing caller
// declares its own schema; the normalization rules are shared.
type ContractSchema map[string]FieldSpec

// ExtractObject attempts to parse a JSON object out of raw model output.
// It tries a strict parse first, then the substring from the first '{' to
// the last '}' (models occasionally wrap JSON in prose). Reports false when
// neither yields an object; the caller decides whether that is fatal.
func ExtractObject(text string) (map[string]interface{}, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
		return data, true
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &data); err == nil {
			return data, true
		}
	}

	return nil, false
}

// NormalizeContract produces a value satisfying the schema: absent fields
// get their defaults, list fields holding a non-list are coerced to a
// one-element list of the value's string form, confidence is clamped into
// [0,1]. Fields outside the schema pass through untouched. Idempotent:
// re-applying it to its own output is a no-op.
func NormalizeContract(data map[string]interface{}, schema ContractSchema) map[string]interface{} {
	normalized := make(map[string]interface{}, len(data)+len(schema))
	for k, v := range data {
		normalized[k] = v
	}

	for name, spec := range schema {
		v, present := normalized[name]
		if !present || v == nil {
			v = spec.Default
		}

		switch spec.Kind {
		case FieldString:
			normalized[name] = stringValue(v)
		case FieldNonEmptyString:
			s := stringValue(v)
			if strings.TrimSpace(s) == "" {
				s, _ = spec.Default.(string)
			}
			normalized[name] = s
		case FieldStringList:
			normalized[name] = stringListValue(v)
		case FieldConfidence:
			fallback, _ := spec.Default.(float64)
			normalized[name] = clampConfidence(v, fallback)
		}
	}

	return normalized
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func stringListValue(v interface{}) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []interface{}:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = stringValue(item)
		}
		return items
	case nil:
		return []string{}
	default:
		return []string{stringValue(v)}
	}
}

// clampConfidence coerces v to a float and clamps it into [0,1]. Values
// that cannot be coerced take the caller's fallback. NaN takes the fallback
// too: ParseFloat accepts "nan" as a valid parse, and NaN would slip through
// both clamp comparisons.
func clampConfidence(v interface{}, fallback float64) float64 {
	var c float64
	switch val := v.(type) {
	case float64:
		c = val
	case int:
		c = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			c = fallback
		} else {
			c = parsed
		}
	default:
		c = fallback
	}

	if math.IsNaN(c) {
		c = fallback
	}
	if c < 0.0 {
		return 0.0
	}
	if c > 1.0 {
		return 1.0
	}
	return c
}

// Typed accessors for normalized maps. Safe after NormalizeContract: every
// schema field holds its declared shape.

func contractString(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func contractStringList(m map[string]interface{}, key string) []string {
	items, _ := m[key].([]string)
	if items == nil {
		return []string{}
	}
	return items
}

func contractFloat(m map[string]interface{}, key string) float64 {
	f, _ := m[key].(float64)
	return f
}
