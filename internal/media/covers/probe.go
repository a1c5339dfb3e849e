package covers

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// blurHashSize is the thumbnail edge used before encoding. A placeholder
// does not need more, and encoding full-size covers takes seconds.
const blurHashSize = 64

// Info is what a cover file actually contains.
type Info struct {
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	BlurHash string `json:"blurhash,omitempty"`
}

// Probe decodes the cover at coverPath and reports its real format and
// dimensions along with a 4x3 BlurHash placeholder.
func (r *Resolver) Probe(coverPath string) (Info, error) {
	full, err := r.Path(coverPath)
	if err != nil {
		return Info{}, err
	}

	file, err := os.Open(full)
	if err != nil {
		return Info{}, fmt.Errorf("open cover: %w", err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return Info{}, fmt.Errorf("decode cover header: %w", err)
	}
	info := Info{Format: format, Width: cfg.Width, Height: cfg.Height}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return info, fmt.Errorf("rewind cover: %w", err)
	}
	img, _, err := image.Decode(file)
	if err != nil {
		return info, fmt.Errorf("decode cover: %w", err)
	}

	hash, err := blurhash.Encode(4, 3, thumbnail(img))
	if err != nil {
		return info, fmt.Errorf("encode blurhash: %w", err)
	}
	info.BlurHash = hash

	return info, nil
}

// thumbnail scales img down with nearest-neighbor sampling so its longest
// edge is blurHashSize. Small images are returned as-is.
func thumbnail(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()

	if srcWidth <= blurHashSize && srcHeight <= blurHashSize {
		return img
	}

	dstWidth, dstHeight := blurHashSize, blurHashSize
	if srcWidth > srcHeight {
		dstHeight = max(1, srcHeight*blurHashSize/srcWidth)
	} else {
		dstWidth = max(1, srcWidth*blurHashSize/srcHeight)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := range dstHeight {
		for x := range dstWidth {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}

	return dst
}
