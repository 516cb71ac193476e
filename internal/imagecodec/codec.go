package imagecodec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"go.lorenzomilicia.dev/cnnkit/internal/util"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultQuality is the WebP quality used by Prepare.
const DefaultQuality = 85

// Codec moves image payloads between files and base64 text.
type Codec struct {
	log     zerolog.Logger
	quality int
}

// NewCodec creates a Codec that logs to logger.
func NewCodec(logger zerolog.Logger) *Codec {
	return &Codec{log: logger, quality: DefaultQuality}
}

// SetQuality sets the WebP quality (1-100) used by Prepare.
func (c *Codec) SetQuality(q int) {
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	c.quality = q
}

// DecodeToFile decodes a standard base64 string and writes the raw bytes to
// dst, replacing any existing file. Whitespace in encoded is ignored.
func (c *Codec) DecodeToFile(encoded string, dst string) error {
	data, err := base64.StdEncoding.DecodeString(stripSpace(encoded))
	if err != nil {
		return &util.OpError{Op: "decode base64", Path: dst, Kind: util.ErrParse, Err: err}
	}

	if err := util.WriteFileAtomic(dst, data, 0644); err != nil {
		return err
	}

	c.log.Info().Str("path", dst).Int("bytes", len(data)).Msg("decoded image written")
	return nil
}

// EncodeFile returns the standard base64 encoding of the file at src.
func (c *Codec) EncodeFile(src string) ([]byte, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, util.FileError("read image", src, err)
	}

	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)

	c.log.Info().Str("path", src).Int("bytes", len(data)).Msg("image encoded to base64")
	return out, nil
}

func stripSpace(s string) string {
	if strings.IndexFunc(s, unicode.IsSpace) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ImageInfo describes an image file without decoding its pixels.
type ImageInfo struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Inspect reads the image header at path. Recognized formats are jpeg, png,
// gif, webp, bmp and tiff.
func (c *Codec) Inspect(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, util.FileError("open image", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, &util.OpError{Op: "inspect image", Path: path, Kind: util.ErrParse, Err: err}
	}

	c.log.Debug().Str("path", path).Str("format", format).Msg("image inspected")
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Prepare center-crops the image at src to a square and resizes it to
// size x size using a Lanczos filter. The output format follows the
// extension of dst; .webp is encoded at the codec quality.
func (c *Codec) Prepare(src, dst string, size int) error {
	if size <= 0 {
		return &util.OpError{Op: "prepare image", Path: dst, Kind: util.ErrParse, Err: fmt.Errorf("invalid size %d: must be positive", size)}
	}

	img, err := c.open(src)
	if err != nil {
		return err
	}

	resized := resizeImage(img, size)

	var buf bytes.Buffer
	if err := c.encode(&buf, resized, dst); err != nil {
		return &util.OpError{Op: "encode image", Path: dst, Kind: util.ErrSerialization, Err: err}
	}
	if err := util.WriteFileAtomic(dst, buf.Bytes(), 0644); err != nil {
		return err
	}

	c.log.Info().Str("src", src).Str("path", dst).Int("size", size).Msg("image prepared")
	return nil
}

func (c *Codec) open(src string) (image.Image, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, util.FileError("open image", src, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &util.OpError{Op: "decode image", Path: src, Kind: util.ErrParse, Err: err}
	}
	return img, nil
}

// resizeImage crops to the central square and scales it using Lanczos filter
func resizeImage(img image.Image, size int) image.Image {
	return imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
}

func (c *Codec) encode(buf *bytes.Buffer, img image.Image, dst string) error {
	if strings.EqualFold(filepath.Ext(dst), ".webp") {
		return webp.Encode(buf, img, &webp.Options{Quality: float32(c.quality)})
	}

	format, err := imaging.FormatFromFilename(dst)
	if err != nil {
		return err
	}
	return imaging.Encode(buf, img, format, imaging.JPEGQuality(c.quality))
}
