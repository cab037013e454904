package upload

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// blurHashSize is the target size for blurhash computation. A blurhash is a
// low-resolution placeholder, so a 64px thumbnail produces nearly identical
// output to the full image at a fraction of the cost.
const blurHashSize = 64

// DecodeImage decodes an uploaded image, accepting any format whose decoder
// is registered above (JPEG, PNG, GIF, WebP). Returns the decoded image and
// the detected format name.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("upload: decoding image: %w", err)
	}
	return img, format, nil
}

// ComputeBlurHash generates a blurhash placeholder string (~20-30 chars)
// from a decoded image, using 4x3 components — a good balance of size and
// detail for food photos.
func ComputeBlurHash(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, resizeForBlurHash(img))
	if err != nil {
		return "", fmt.Errorf("upload: encoding blurhash: %w", err)
	}
	return hash, nil
}

// resizeForBlurHash shrinks img to at most blurHashSize on its longer edge,
// preserving aspect ratio. Nearest-neighbour sampling is plenty for a
// placeholder hash.
func resizeForBlurHash(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= blurHashSize && srcHeight <= blurHashSize {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = blurHashSize
		dstHeight = max((srcHeight*blurHashSize)/srcWidth, 1)
	} else {
		dstHeight = blurHashSize
		dstWidth = max((srcWidth*blurHashSize)/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := 0; y < dstHeight; y++ {
		for x := 0; x < dstWidth; x++ {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}

	return dst
}
