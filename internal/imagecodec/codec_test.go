package imagecodec

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lorenzomilicia.dev/cnnkit/internal/util"
	"pgregory.net/rapid"
)

func createTestImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, createTestImage(w, h)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestCodec_DecodeToFile(t *testing.T) {
	var logs bytes.Buffer
	codec := NewCodec(zerolog.New(&logs))
	dst := filepath.Join(t.TempDir(), "input.jpg")

	require.NoError(t, codec.DecodeToFile("aGVsbG8gd29y\nbGQ=\n", dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
	assert.Contains(t, logs.String(), dst)

	// overwrites
	require.NoError(t, codec.DecodeToFile("Ynll", dst))
	got, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "bye", string(got))
}

func TestCodec_DecodeToFile_Invalid(t *testing.T) {
	codec := NewCodec(zerolog.Nop())
	dst := filepath.Join(t.TempDir(), "input.jpg")

	for _, bad := range []string{"not base64!", "aGVsbG8", "data:image/png;base64,aGVsbG8="} {
		err := codec.DecodeToFile(bad, dst)
		assert.ErrorIs(t, err, util.ErrParse, "input %q", bad)
	}
	assert.NoFileExists(t, dst)
}

func TestCodec_EncodeFile(t *testing.T) {
	codec := NewCodec(zerolog.Nop())
	src := filepath.Join(t.TempDir(), "img.bin")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	got, err := codec.EncodeFile(src)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", string(got))

	_, err = codec.EncodeFile(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCodec_Base64RoundTrip(t *testing.T) {
	codec := NewCodec(zerolog.Nop())
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")
		require.NoError(rt, os.WriteFile(src, data, 0644))

		encoded, err := codec.EncodeFile(src)
		require.NoError(rt, err)
		require.NoError(rt, codec.DecodeToFile(string(encoded), dst))

		got, err := os.ReadFile(dst)
		require.NoError(rt, err)
		assert.True(rt, bytes.Equal(data, got), "round trip changed %d bytes", len(data))
	})
}

func TestCodec_Inspect(t *testing.T) {
	codec := NewCodec(zerolog.Nop())
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "a.png")
	writePNG(t, pngPath, 40, 30)
	info, err := codec.Inspect(pngPath)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "png", Width: 40, Height: 30}, info)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, createTestImage(16, 24), nil))
	jpgPath := filepath.Join(dir, "b.jpg")
	require.NoError(t, os.WriteFile(jpgPath, buf.Bytes(), 0644))
	info, err = codec.Inspect(jpgPath)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "jpeg", Width: 16, Height: 24}, info)

	txt := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain text"), 0644))
	_, err = codec.Inspect(txt)
	assert.ErrorIs(t, err, util.ErrParse)

	_, err = codec.Inspect(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCodec_Prepare(t *testing.T) {
	codec := NewCodec(zerolog.Nop())
	dir := t.TempDir()
	src := filepath.Join(dir, "scan.png")
	writePNG(t, src, 100, 60)

	tests := []struct {
		name   string
		dst    string
		format string
	}{
		{name: "png", dst: "out.png", format: "png"},
		{name: "jpeg", dst: "out.jpg", format: "jpeg"},
		{name: "webp", dst: "out.webp", format: "webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := filepath.Join(dir, tt.dst)
			require.NoError(t, codec.Prepare(src, dst, 32))

			info, err := codec.Inspect(dst)
			require.NoError(t, err)
			assert.Equal(t, ImageInfo{Format: tt.format, Width: 32, Height: 32}, info)
		})
	}
}

func TestCodec_Prepare_Errors(t *testing.T) {
	codec := NewCodec(zerolog.Nop())
	dir := t.TempDir()
	src := filepath.Join(dir, "scan.png")
	writePNG(t, src, 10, 10)

	for _, size := range []int{0, -4} {
		err := codec.Prepare(src, filepath.Join(dir, "out.png"), size)
		assert.ErrorIs(t, err, util.ErrParse)
		var opErr *util.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, filepath.Join(dir, "out.png"), opErr.Path)
	}
	assert.NoFileExists(t, filepath.Join(dir, "out.png"))

	err := codec.Prepare(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"), 8)
	assert.ErrorIs(t, err, util.ErrNotFound)

	err = codec.Prepare(src, filepath.Join(dir, "out.unknown"), 8)
	assert.ErrorIs(t, err, util.ErrSerialization)

	notImage := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notImage, []byte("x"), 0644))
	err = codec.Prepare(notImage, filepath.Join(dir, "out.png"), 8)
	assert.ErrorIs(t, err, util.ErrParse)
}
