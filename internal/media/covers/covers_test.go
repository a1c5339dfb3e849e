package covers

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestNewResolver_EmptyRoot(t *testing.T) {
	_, err := NewResolver("")
	assert.Error(t, err)
}

func TestNewResolver_CleansRoot(t *testing.T) {
	root := t.TempDir()

	r, err := NewResolver(root + "/nested/../")
	require.NoError(t, err)
	assert.Equal(t, root, r.Root())

	path, err := r.Path("cien.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Root(), "cien.png"), path)
}

func TestResolver_Exists(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "cien.png"), 4, 4)
	writePNG(t, filepath.Join(root, "nested", "verne.png"), 4, 4)
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir.png"), 0o755))
	outside := filepath.Join(filepath.Dir(root), "outside.png")
	writePNG(t, outside, 4, 4)
	t.Cleanup(func() { _ = os.Remove(outside) })

	r, err := NewResolver(root)
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"cien.png", true},
		{"nested/verne.png", true},
		{"missing.png", false},
		{"", false},
		{"dir.png", false},
		{"../outside.png", false},
		{outside, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Exists(tt.path))
		})
	}
}

func TestResolver_Probe(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "cover.png"), 120, 180)

	r, err := NewResolver(root)
	require.NoError(t, err)

	info, err := r.Probe("cover.png")
	require.NoError(t, err)

	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 120, info.Width)
	assert.Equal(t, 180, info.Height)
	assert.NotEmpty(t, info.BlurHash)
}

func TestResolver_Probe_NotAnImage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hola"), 0o644))

	r, err := NewResolver(root)
	require.NoError(t, err)

	_, err = r.Probe("notes.txt")
	assert.Error(t, err)

	_, err = r.Probe("missing.png")
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 10, 20))
	assert.Same(t, small, thumbnail(small))

	wide := thumbnail(image.NewRGBA(image.Rect(0, 0, 640, 320)))
	assert.Equal(t, 64, wide.Bounds().Dx())
	assert.Equal(t, 32, wide.Bounds().Dy())

	tall := thumbnail(image.NewRGBA(image.Rect(0, 0, 100, 1000)))
	assert.Equal(t, 6, tall.Bounds().Dx())
	assert.Equal(t, 64, tall.Bounds().Dy())
}
