package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestOpenThumbnail(t *testing.T) {
	e, _, root := newTestExplorer(t)
	img := filepath.Join(root, "photo.PNG")
	require.NoError(t, os.WriteFile(img, pngHeader, 0o644))

	thumb, err := e.OpenThumbnail(context.Background(), img)
	require.NoError(t, err)
	defer thumb.File.Close()

	assert.Equal(t, "image/png", thumb.ContentType)
	assert.Equal(t, int64(len(pngHeader)), thumb.Size)

	// The reader is rewound after sniffing
	data, err := io.ReadAll(thumb.File)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestOpenThumbnailErrors(t *testing.T) {
	e, _, root := newTestExplorer(t)
	fake := filepath.Join(root, "fake.jpg")
	writeFile(t, fake, "plain text pretending to be a jpeg")
	text := filepath.Join(root, "notes.txt")
	writeFile(t, text, "hello")
	require.NoError(t, os.Mkdir(filepath.Join(root, "album.png"), 0o755))

	tests := []struct {
		name string
		path string
		want Kind
	}{
		{"empty path", "", KindInvalidPath},
		{"missing", filepath.Join(root, "nope.png"), KindNotFound},
		{"wrong extension", text, KindUnsupportedMedia},
		{"content is not an image", fake, KindUnsupportedMedia},
		{"directory", filepath.Join(root, "album.png"), KindNotFound},
		{"outside root", filepath.Join(filepath.Dir(root), "x.png"), KindAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb, err := e.OpenThumbnail(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, thumb)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}
