package events

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/devevent/backend/internal/models"
	"github.com/devevent/backend/pkg/apperr"
)

// StoredDateLayout is the absolute timestamp form dates are persisted in.
const StoredDateLayout = "2006-01-02T15:04:05.000Z"

var (
	nonSlugRun     = regexp.MustCompile(`[^a-z0-9]+`)
	slugParam      = regexp.MustCompile(`^[a-z0-9-]+$`)
	twentyFourHour = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	twelveHour     = regexp.MustCompile(`(?i)^(0?[1-9]|1[0-2]):([0-5]\d)\s*(am|pm)$`)
)

// Layouts accepted for event dates. Zone-less layouts are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/1/2",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Mon Jan 2 2006",
	"Mon, Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"1/2/2006",
	time.RFC1123Z,
}

// Slugify derives the URL slug from a title. Accented letters are folded
// to their base letter (é -> e) before non-alphanumeric runs become "-".
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	s = nonSlugRun.ReplaceAllString(b.String(), "-")
	return strings.Trim(s, "-")
}

// NormalizeSlugParam trims and lower-cases a slug taken from a request.
func NormalizeSlugParam(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if slug == "" {
		return "", apperr.Validation("Missing slug parameter")
	}
	if !slugParam.MatchString(slug) {
		return "", apperr.Validation("Invalid slug parameter")
	}
	return slug, nil
}

// NormalizeDate parses value and returns it as an absolute UTC timestamp string.
func NormalizeDate(value string) (string, error) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC().Format(StoredDateLayout), nil
		}
	}
	return "", apperr.Validation("Invalid date format")
}

// NormalizeTime accepts H:MM / HH:MM (24h) or H:MM am/pm and returns zero-padded 24h HH:MM.
func NormalizeTime(value string) (string, error) {
	v := strings.TrimSpace(value)
	if m := twentyFourHour.FindStringSubmatch(v); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hour, m[2]), nil
	}
	m := twelveHour.FindStringSubmatch(v)
	if m == nil {
		return "", apperr.Validation("Invalid time format")
	}
	hour, _ := strconv.Atoi(m[1])
	hour %= 12
	if strings.EqualFold(m[3], "pm") {
		hour += 12
	}
	return fmt.Sprintf("%02d:%s", hour, m[2]), nil
}

// Unquote trims value and strips one pair of surrounding double quotes, as
// form clients sometimes send JSON-encoded scalars.
func Unquote(value string) string {
	v := strings.TrimSpace(value)
	v = strings.TrimPrefix(v, `"`)
	v = strings.TrimSuffix(v, `"`)
	return strings.TrimSpace(v)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeAndValidate checks required fields and normalizes date, time, mode
// and list items in place. It runs before every write; the slug is left to the caller.
func NormalizeAndValidate(e *models.Event) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"Title", &e.Title},
		{"Description", &e.Description},
		{"Overview", &e.Overview},
		{"Image", &e.Image},
		{"Venue", &e.Venue},
		{"Location", &e.Location},
		{"Date", &e.Date},
		{"Time", &e.Time},
		{"Mode", &e.Mode},
		{"Audience", &e.Audience},
		{"Organizer", &e.Organizer},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return apperr.Validation(f.name + " is required")
		}
	}
	e.Agenda = cleanList(e.Agenda)
	if len(e.Agenda) == 0 {
		return apperr.Validation("Agenda is required")
	}
	e.Tags = cleanList(e.Tags)
	if len(e.Tags) == 0 {
		return apperr.Validation("Tags is required")
	}

	date, err := NormalizeDate(e.Date)
	if err != nil {
		return err
	}
	e.Date = date

	tm, err := NormalizeTime(e.Time)
	if err != nil {
		return err
	}
	e.Time = tm

	e.Mode = strings.ToLower(Unquote(e.Mode))
	if e.Mode == "" {
		return apperr.Validation("Mode is required")
	}
	return nil
}
