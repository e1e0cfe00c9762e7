package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/devevent/backend/internal/models"
)

func eventWithTags(slug string, created time.Time, tags ...string) models.Event {
	return models.Event{ID: uuid.New(), Slug: slug, Tags: tags, CreatedAt: created}
}

func slugs(list []models.Event) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Slug)
	}
	return out
}

func TestRankSimilar(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	source := eventWithTags("go-conf", base, "Go", "cloud", "backend")

	candidates := []models.Event{
		eventWithTags("old-two-shared", base.Add(time.Hour), "go", "cloud"),
		eventWithTags("new-one-shared", base.Add(3*time.Hour), "backend"),
		eventWithTags("newer-two-shared", base.Add(2*time.Hour), "CLOUD", "go", "go"),
		eventWithTags("unrelated", base.Add(5*time.Hour), "design"),
		source,
	}

	got := RankSimilar(&source, candidates, 6)
	assert.Equal(t, []string{"newer-two-shared", "old-two-shared", "new-one-shared"}, slugs(got))
}

func TestRankSimilar_Limit(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	source := eventWithTags("src", base, "go")
	var candidates []models.Event
	for i := 0; i < 10; i++ {
		candidates = append(candidates, eventWithTags("e", base.Add(time.Duration(i)*time.Minute), "go"))
	}

	assert.Len(t, RankSimilar(&source, candidates, 2), 2)
	assert.Len(t, RankSimilar(&source, candidates, 0), DefaultSimilarLimit)
	assert.Len(t, RankSimilar(&source, candidates, 100), MaxSimilarLimit)
}

func TestRankSimilar_TieBreaksOnID(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	source := eventWithTags("src", at, "go")
	a := models.Event{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Slug: "a", Tags: []string{"go"}, CreatedAt: at}
	b := models.Event{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Slug: "b", Tags: []string{"go"}, CreatedAt: at}

	assert.Equal(t, []string{"b", "a"}, slugs(RankSimilar(&source, []models.Event{a, b}, 3)))
	assert.Equal(t, []string{"b", "a"}, slugs(RankSimilar(&source, []models.Event{b, a}, 3)))
}

func TestClampSimilarLimit(t *testing.T) {
	assert.Equal(t, DefaultSimilarLimit, ClampSimilarLimit(-1))
	assert.Equal(t, 4, ClampSimilarLimit(4))
	assert.Equal(t, MaxSimilarLimit, ClampSimilarLimit(42))
}
