package events

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devevent/backend/internal/models"
	"github.com/devevent/backend/pkg/apperr"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Event!", "my-event"},
		{"  GopherCon 2025: Go & Cloud  ", "gophercon-2025-go-cloud"},
		{"--Already-Slugged--", "already-slugged"},
		{"React___Summit   EU", "react-summit-eu"},
		{"Café Meetup", "cafe-meetup"},
		{"Straße", "stra-e"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_ShapeAndIdempotence(t *testing.T) {
	titles := []string{
		"Next.js Conf", "KubeCon + CloudNativeCon", "AI/ML  Day", "  spaced  out ", "UPPER lower 123",
		"a", "1-2-3", "emoji 🚀 launch", "tabs\tand\nnewlines", "trailing---",
	}
	for _, title := range titles {
		s := Slugify(title)
		assert.True(t, slugShape.MatchString(s), "slug %q from %q", s, title)
		assert.Equal(t, s, Slugify(s), "idempotent for %q", title)
	}
}

func TestNormalizeSlugParam(t *testing.T) {
	slug, err := NormalizeSlugParam("  My-Event ")
	require.NoError(t, err)
	assert.Equal(t, "my-event", slug)

	_, err = NormalizeSlugParam("   ")
	require.Error(t, err)
	assert.Equal(t, "Missing slug parameter", apperr.MessageOf(err, ""))

	_, err = NormalizeSlugParam("my event!")
	require.Error(t, err)
	assert.Equal(t, "Invalid slug parameter", apperr.MessageOf(err, ""))
}

func TestNormalizeTime_TwentyFourHour(t *testing.T) {
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 5, 30, 59} {
			unpadded := fmt.Sprintf("%d:%02d", h, m)
			padded := fmt.Sprintf("%02d:%02d", h, m)

			got, err := NormalizeTime(unpadded)
			require.NoError(t, err)
			assert.Equal(t, padded, got)

			got, err = NormalizeTime(padded)
			require.NoError(t, err)
			assert.Equal(t, padded, got)
		}
	}
}

func TestNormalizeTime_TwelveHour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12:00 am", "00:00"},
		{"12:00 pm", "12:00"},
		{"1:00 pm", "13:00"},
		{"01:15 AM", "01:15"},
		{"11:59pm", "23:59"},
		{" 9:30 Pm ", "21:30"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTime_Invalid(t *testing.T) {
	for _, in := range []string{"", "24:00", "7", "10:60", "13:00 pm", "0:30 am", "noon", "10.30"} {
		_, err := NormalizeTime(in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "input %q", in)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-11-07", "2025-11-07T00:00:00.000Z"},
		{"2025-11-07T09:30:00+02:00", "2025-11-07T07:30:00.000Z"},
		{"2025-11-07T07:30:00.000Z", "2025-11-07T07:30:00.000Z"},
		{"November 7, 2025", "2025-11-07T00:00:00.000Z"},
		{"Nov 7, 2025", "2025-11-07T00:00:00.000Z"},
		{"11/07/2025", "2025-11-07T00:00:00.000Z"},
		{"6/1/2025", "2025-06-01T00:00:00.000Z"},
		{"2025/06/01", "2025-06-01T00:00:00.000Z"},
		{"Jun 1 2025", "2025-06-01T00:00:00.000Z"},
		{"June 1, 2025", "2025-06-01T00:00:00.000Z"},
		{"Sun Jun 01 2025", "2025-06-01T00:00:00.000Z"},
		{"7 Nov 2025", "2025-11-07T00:00:00.000Z"},
		{"Fri, 07 Nov 2025 09:30:00 +0100", "2025-11-07T08:30:00.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			_, err = time.Parse(time.RFC3339, got)
			assert.NoError(t, err)
		})
	}
}

func TestNormalizeDate_Invalid(t *testing.T) {
	for _, in := range []string{"not-a-date", "2025-13-01", "2025-02-30", ""} {
		_, err := NormalizeDate(in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "input %q", in)
	}
}

func validFields() models.Event {
	return models.Event{
		Title:       "Go Conf",
		Description: "A conference about Go",
		Overview:    "Talks and workshops",
		Image:       "https://cdn.example.com/go.png",
		Venue:       "Hall A",
		Location:    "Berlin, Germany",
		Date:        "2025-11-07",
		Time:        "9:30 am",
		Mode:        `"Hybrid"`,
		Audience:    "Developers",
		Agenda:      []string{" Keynote ", "", "Workshops"},
		Organizer:   "Go Berlin",
		Tags:        []string{"go", " cloud "},
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	e := validFields()
	require.NoError(t, NormalizeAndValidate(&e))

	assert.Equal(t, "2025-11-07T00:00:00.000Z", e.Date)
	assert.Equal(t, "09:30", e.Time)
	assert.Equal(t, "hybrid", e.Mode)
	assert.Equal(t, []string{"Keynote", "Workshops"}, e.Agenda)
	assert.Equal(t, []string{"go", "cloud"}, e.Tags)
	assert.Empty(t, e.Slug)
}

func TestNormalizeAndValidate_FirstMissingField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *models.Event)
		want   string
	}{
		{"title", func(e *models.Event) { e.Title = "  " }, "Title is required"},
		{"title before venue", func(e *models.Event) { e.Title = ""; e.Venue = "" }, "Title is required"},
		{"image", func(e *models.Event) { e.Image = "" }, "Image is required"},
		{"organizer", func(e *models.Event) { e.Organizer = "" }, "Organizer is required"},
		{"agenda", func(e *models.Event) { e.Agenda = []string{" "} }, "Agenda is required"},
		{"tags", func(e *models.Event) { e.Tags = nil }, "Tags is required"},
		{"date", func(e *models.Event) { e.Date = "not-a-date" }, "Invalid date format"},
		{"time", func(e *models.Event) { e.Time = "25:00" }, "Invalid time format"},
		{"quoted empty mode", func(e *models.Event) { e.Mode = `""` }, "Mode is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validFields()
			tt.mutate(&e)
			err := NormalizeAndValidate(&e)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.want, apperr.MessageOf(err, ""))
		})
	}
}
