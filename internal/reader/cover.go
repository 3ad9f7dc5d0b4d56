package reader

import (
	"bytes"
	"image"
	_ "image/gif" // register decoders for cover thumbnails
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// defaultThumbnailWidth bounds the generated cover thumbnail.
const defaultThumbnailWidth = 320

// extractCover reads the book's declared cover resource and generates a
// bounded thumbnail. A missing or unreadable cover is a per-resource
// recoverable condition: it is logged and the book loads without one.
func (s *loadSession) extractCover(thumbWidth int) *Cover {
	info := s.opf.DetectCover()
	if info == nil {
		return nil
	}

	data, err := s.archive.ReadFile(info.Href)
	if err != nil {
		s.log.Warn("cover not readable",
			zap.String("path", info.Href), zap.Error(err))
		return nil
	}

	mediaType := info.MediaType
	if mediaType == "" {
		mediaType = sniffMediaType(info.Href, data)
	}

	cover := &Cover{
		Data:      data,
		MediaType: mediaType,
		Path:      info.Href,
	}

	if thumbWidth <= 0 {
		thumbWidth = defaultThumbnailWidth
	}
	if thumb, err := makeThumbnail(data, thumbWidth); err != nil {
		s.log.Warn("cover thumbnail generation failed",
			zap.String("path", info.Href), zap.Error(err))
	} else {
		cover.Thumbnail = thumb
	}

	return cover
}

// makeThumbnail downscales an image to at most maxWidth and re-encodes
// it as JPEG. Images already narrower than maxWidth are re-encoded only.
func makeThumbnail(data []byte, maxWidth int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if src.Bounds().Dx() > maxWidth {
		src = imaging.Resize(src, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
