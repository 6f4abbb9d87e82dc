package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"file URI", "file:///srv/yonerge/pdfs", "/srv/yonerge/pdfs"},
		{"file URI with spaces", "file:///srv/my pdfs", "/srv/my pdfs"},
		{"bare path", "/srv/yonerge/pdfs", "/srv/yonerge/pdfs"},
		{"relative path", "./pdfs", "./pdfs"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.uri))
		})
	}
}
