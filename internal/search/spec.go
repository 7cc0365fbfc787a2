package search

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind describes how a recognized query parameter is coerced before the
// predicate builder sees it.
type Kind int

const (
	Number Kind = iota // float64
	Bool               // bool
	Text               // string
	Multi              // []string, repeated params or comma separated
)

// ValidationError reports a malformed or contradictory search parameter.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FilterSpec is the request-scoped set of recognized, typed filter values.
// Absent parameters contribute no predicate.
type FilterSpec map[string]interface{}

// ParseSpec coerces raw query values into a FilterSpec. Unrecognized
// parameters are ignored, empty values are treated as absent. A value that
// fails numeric or boolean coercion is a ValidationError.
func ParseSpec(values map[string][]string) (FilterSpec, error) {
	spec := FilterSpec{}

	for name, raw := range values {
		p, ok := registry[name]
		if !ok {
			continue
		}

		switch p.kind {
		case Number:
			s := firstNonEmpty(raw)
			if s == "" {
				continue
			}
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, &ValidationError{Field: name, Message: "must be a number"}
			}
			spec[name] = n

		case Bool:
			s := firstNonEmpty(raw)
			if s == "" {
				continue
			}
			b, err := strconv.ParseBool(strings.ToLower(s))
			if err != nil {
				return nil, &ValidationError{Field: name, Message: "must be true or false"}
			}
			spec[name] = b

		case Text:
			s := strings.TrimSpace(firstNonEmpty(raw))
			if s == "" {
				continue
			}
			spec[name] = s

		case Multi:
			var vals []string
			for _, r := range raw {
				for _, part := range strings.Split(r, ",") {
					if trimmed := strings.TrimSpace(part); trimmed != "" {
						vals = append(vals, trimmed)
					}
				}
			}
			if len(vals) == 0 {
				continue
			}
			spec[name] = vals
		}
	}

	return spec, nil
}

// Validate rejects contradictory ranges before any predicate is built.
func (s FilterSpec) Validate() error {
	if err := s.checkRange("min_price", "max_price"); err != nil {
		return err
	}
	return s.checkRange("min_size", "max_size")
}

func (s FilterSpec) checkRange(minKey, maxKey string) error {
	min, okMin := s[minKey].(float64)
	max, okMax := s[maxKey].(float64)
	if okMin && okMax && min > max {
		return &ValidationError{
			Field:   minKey,
			Message: fmt.Sprintf("%s cannot be greater than %s", minKey, maxKey),
		}
	}
	return nil
}

func firstNonEmpty(vals []string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
