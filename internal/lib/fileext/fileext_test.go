package fileext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "video.MP4", want: "mp4"},
		{in: "archive.tar.gz", want: "gz"},
		{in: "posts/2024/photo.JPEG", want: "jpeg"},
		{in: "README", want: ""},
		{in: ".env", want: ""},
		{in: "trailing.", want: ""},
		{in: "dir.v2/file", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.in))
		})
	}
}

func TestForList(t *testing.T) {
	empty := ""
	name := "doc.PDF"
	assert.Equal(t, Unknown, ForList(nil))
	assert.Equal(t, Unknown, ForList(&empty))
	assert.Equal(t, "pdf", ForList(&name))
}
