package export

import (
	"fmt"
	"strings"
)

// Direction is the reading direction of a rendered sheet.
type Direction string

const (
	DirectionRTL Direction = "rtl"
	DirectionLTR Direction = "ltr"
)

// ParseDirection accepts rtl or ltr, case-insensitively. Empty means rtl.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DirectionRTL:
		return DirectionRTL, nil
	case DirectionLTR:
		return DirectionLTR, nil
	default:
		return "", fmt.Errorf("unknown text direction %q", raw)
	}
}

// Dataset defines tabular export content.
// Headers are field keys in column order; Labels optionally renames them for display.
type Dataset struct {
	Headers []string
	Rows    []map[string]interface{}
	Labels  map[string]string
}

// DisplayHeaders returns the header row, relabelled where a label exists.
func (d Dataset) DisplayHeaders() []string {
	headers := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		if label, ok := d.Labels[header]; ok && label != "" {
			headers[i] = label
			continue
		}
		headers[i] = header
	}
	return headers
}

// Values returns row values in header order.
func (d Dataset) Values(row map[string]interface{}) []interface{} {
	values := make([]interface{}, len(d.Headers))
	for i, header := range d.Headers {
		values[i] = row[header]
	}
	return values
}

func cellText(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
