package model

// Attributes is one row of a feature-service query: field name to raw value.
// Values arrive as JSON-decoded strings and float64 numbers.
type Attributes map[string]any

// First returns the value of the first field in fields that is present and
// non-nil. Field fallback order is significant; every "try these field names
// in order" lookup in the codebase goes through here.
func (a Attributes) First(fields ...string) (any, bool) {
	for _, f := range fields {
		if v, ok := a[f]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// FirstString returns the first non-empty string value among fields.
func (a Attributes) FirstString(fields ...string) string {
	for _, f := range fields {
		if v, ok := a[f]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// FirstNumber returns the first numeric value among fields.
func (a Attributes) FirstNumber(fields ...string) (float64, bool) {
	for _, f := range fields {
		if v, ok := a[f]; ok {
			switch n := v.(type) {
			case float64:
				return n, true
			case int64:
				return float64(n), true
			case int:
				return float64(n), true
			}
		}
	}
	return 0, false
}
