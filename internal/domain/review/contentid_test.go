package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc123", "dQw4w9WgXcQ", true},
		{"gs://my-bucket/videos/clinic-tour.mp4", "clinic-tour.mp4", true},
		{"gs://my-bucket/video.mp4", "video.mp4", true},
		{"https://cdn.example.com/video.mp4", "https://cdn.example.com/video.mp4", false},
		{"plainstring", "plainstring", false},
	}
	for _, tt := range tests {
		id, ok := ExtractVideoID(tt.url)
		assert.Equal(t, tt.wantID, id, "url %q", tt.url)
		assert.Equal(t, tt.wantOK, ok, "url %q", tt.url)
	}
}

func TestImageContentID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/images/poster.png", "poster.png"},
		{"https://cdn.example.com/images/poster.png?size=large", "poster.png"},
		{"poster.png", "poster.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ImageContentID(tt.url), "url %q", tt.url)
	}
}
