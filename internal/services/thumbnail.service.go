package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// thumbnailExtensions are the file extensions served as previews
var thumbnailExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// Thumbnail is an open image ready to stream. The caller closes File.
type Thumbnail struct {
	File        *os.File
	Name        string
	Size        int64
	ContentType string
	Modified    time.Time
}

// OpenThumbnail opens an image for preview. The extension must be a known
// image type and the content must sniff as an image.
func (e *Explorer) OpenThumbnail(ctx context.Context, rawPath string) (thumb *Thumbnail, err error) {
	defer e.observe(OpThumbnail, time.Now(), &err)

	p, err := e.sanitizer.Sanitize(rawPath)
	if err != nil {
		return nil, err
	}
	if !thumbnailExtensions[strings.ToLower(filepath.Ext(p))] {
		return nil, newOpError(OpThumbnail, p, KindUnsupportedMedia, ErrUnsupportedImage)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, classify(OpThumbnail, p, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, classify(OpThumbnail, p, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, newOpError(OpThumbnail, p, KindNotFound, os.ErrNotExist)
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, classify(OpThumbnail, p, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		f.Close()
		return nil, newOpError(OpThumbnail, p, KindUnsupportedMedia, ErrUnsupportedImage)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, classify(OpThumbnail, p, err)
	}

	return &Thumbnail{
		File:        f,
		Name:        info.Name(),
		Size:        info.Size(),
		ContentType: mtype.String(),
		Modified:    info.ModTime(),
	}, nil
}
