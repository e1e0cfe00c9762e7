package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        bool
	}{
		{"png by type", "image/png", "banner", true},
		{"jpeg by extension", "", "banner.JPEG", true},
		{"octet stream with image extension", "application/octet-stream", "cover.webp", true},
		{"video", "video/mp4", "clip.mp4", false},
		{"nothing", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateImageType(tt.contentType, tt.filename))
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeFor("IMAGE/PNG", "x.jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("application/octet-stream", "x.jpg"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("", "x.bin"))
}

func TestImageKey(t *testing.T) {
	key := ImageKey("DevEvent", "My Banner.PNG", "image/png")
	assert.True(t, strings.HasPrefix(key, "DevEvent/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotContains(t, key, "Banner")

	noExt := ImageKey("DevEvent", "upload", "image/webp")
	assert.True(t, strings.HasSuffix(noExt, ".webp"))

	assert.NotEqual(t, key, ImageKey("DevEvent", "My Banner.PNG", "image/png"))
}

func TestObjectURL(t *testing.T) {
	aws := &S3{cfg: S3Config{Region: "eu-west-1", Bucket: "devevent"}}
	assert.Equal(t, "https://devevent.s3.eu-west-1.amazonaws.com/DevEvent/a.png", aws.ObjectURL("DevEvent/a.png"))

	compat := &S3{cfg: S3Config{Bucket: "devevent", Endpoint: "http://localhost:9000/"}}
	assert.Equal(t, "http://localhost:9000/devevent/DevEvent/a.png", compat.ObjectURL("DevEvent/a.png"))

	cdn := &S3{cfg: S3Config{Bucket: "devevent", PublicBaseURL: "https://cdn.example.com"}}
	assert.Equal(t, "https://cdn.example.com/DevEvent/a.png", cdn.ObjectURL("DevEvent/a.png"))
}

func TestKeyFromURL(t *testing.T) {
	s := &S3{cfg: S3Config{Region: "eu-west-1", Bucket: "devevent"}}

	key, ok := s.keyFromURL("https://devevent.s3.eu-west-1.amazonaws.com/DevEvent/a.png")
	assert.True(t, ok)
	assert.Equal(t, "DevEvent/a.png", key)

	_, ok = s.keyFromURL("https://elsewhere.example.com/a.png")
	assert.False(t, ok)
}
