package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devevent/backend/internal/models"
)

// ParseList reads agenda/tags sent as a JSON array string, comma-separated
// text, or a single item.
func ParseList(value string) []string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	var arr []string
	if err := json.Unmarshal([]byte(v), &arr); err == nil {
		return cleanList(arr)
	}
	if strings.Contains(v, ",") {
		return cleanList(strings.Split(v, ","))
	}
	return cleanList([]string{Unquote(v)})
}

func listValue(v any) []string {
	switch t := v.(type) {
	case string:
		return ParseList(t)
	case []string:
		return cleanList(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else if item != nil {
				out = append(out, fmt.Sprint(item))
			}
		}
		return cleanList(out)
	default:
		return nil
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return Unquote(t)
	case nil:
		return ""
	case json.Number:
		return t.String()
	default:
		return Unquote(fmt.Sprint(t))
	}
}

// FieldsFromMap builds event fields from a decoded JSON object or flattened form
// values. Unknown keys are ignored; slug, id and timestamps are never taken from input.
func FieldsFromMap(raw map[string]any) models.Event {
	return models.Event{
		Title:       stringValue(raw["title"]),
		Description: stringValue(raw["description"]),
		Overview:    stringValue(raw["overview"]),
		Image:       stringValue(raw["image"]),
		Venue:       stringValue(raw["venue"]),
		Location:    stringValue(raw["location"]),
		Date:        stringValue(raw["date"]),
		Time:        stringValue(raw["time"]),
		Mode:        strings.ToLower(stringValue(raw["mode"])),
		Audience:    stringValue(raw["audience"]),
		Agenda:      listValue(raw["agenda"]),
		Organizer:   stringValue(raw["organizer"]),
		Tags:        listValue(raw["tags"]),
	}
}

// FlattenForm keeps the first value of each form key.
func FlattenForm(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
