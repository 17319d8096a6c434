package idcard

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPNG(t *testing.T) {
	data, err := Render(Card{
		Name:     "Alice Doe",
		Email:    "alice@example.com",
		GithubID: "alice",
		Role:     "contributor",
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, cardWidth, img.Bounds().Dx())
	assert.Equal(t, cardHeight, img.Bounds().Dy())
}

func TestRenderScalesPhotoIntoBox(t *testing.T) {
	photo := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			photo.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	data, err := Render(Card{
		Name:     "Alice Doe",
		Email:    "alice@example.com",
		GithubID: "alice",
		Role:     "mentor",
		Linkedin: "alice-doe",
		Photo:    photo,
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// A pixel inside the photo box carries the photo, not the placeholder.
	r, _, _, _ := img.At(cardWidth-margin-photoSize/2, 80+photoSize/2).RGBA()
	assert.Greater(t, r, uint32(0x8000))
}
