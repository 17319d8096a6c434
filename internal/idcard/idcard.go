// Package idcard renders participant ID cards as PNG images.
package idcard

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Card holds the fields printed on an ID card.
type Card struct {
	Name     string
	Email    string
	GithubID string
	Linkedin string
	Role     string
	// Photo is optional; when set it is scaled into the photo box.
	Photo image.Image
}

const (
	cardWidth  = 640
	cardHeight = 360
	photoSize  = 160
	margin     = 24
)

var (
	background = color.RGBA{R: 16, G: 24, B: 48, A: 255}
	accent     = color.RGBA{R: 66, G: 133, B: 244, A: 255}
	textColor  = color.RGBA{R: 235, G: 238, B: 245, A: 255}
	mutedColor = color.RGBA{R: 160, G: 170, B: 190, A: 255}
)

// Render draws the card and returns PNG bytes.
func Render(card Card) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))

	fill(img, img.Bounds(), background)
	fill(img, image.Rect(0, 0, cardWidth, 56), accent)

	drawText(img, margin, 36, "DSC Winter of Code", textColor)

	photoBox := image.Rect(cardWidth-photoSize-margin, 80, cardWidth-margin, 80+photoSize)
	if card.Photo != nil {
		xdraw.ApproxBiLinear.Scale(img, photoBox, card.Photo, card.Photo.Bounds(), xdraw.Over, nil)
	} else {
		fill(img, photoBox, mutedColor)
	}

	y := 100
	drawText(img, margin, y, card.Name, textColor)
	y += 28
	drawText(img, margin, y, fmt.Sprintf("Role: %s", card.Role), mutedColor)
	y += 24
	drawText(img, margin, y, fmt.Sprintf("GitHub: %s", card.GithubID), mutedColor)
	if card.Linkedin != "" {
		y += 24
		drawText(img, margin, y, fmt.Sprintf("LinkedIn: %s", card.Linkedin), mutedColor)
	}
	y += 24
	drawText(img, margin, y, card.Email, mutedColor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return buf.Bytes(), nil
}

func fill(img *image.RGBA, rect image.Rectangle, c color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func drawText(img *image.RGBA, x, y int, text string, c color.Color) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}
