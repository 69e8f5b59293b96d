package render

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
)

// Animate combines the png images into an animated gif written to out, each
// frame shown for delay hundredths of a second. The colour table is taken
// from the last frame.
func Animate(pngs []string, out string, delay int) error {
	if len(pngs) == 0 {
		return fmt.Errorf("animate %s: no frames", out)
	}

	last, err := openPNG(pngs[len(pngs)-1])
	if err != nil {
		return err
	}
	pal := generatePalette(last)

	anim := &gif.GIF{}
	for _, fname := range pngs {
		img, err := openPNG(fname)
		if err != nil {
			return err
		}
		anim.Image = append(anim.Image, toPaletted(img, pal))
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("animate %s: %w", out, err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("animate %s: %w", out, err)
	}
	return f.Close()
}

func toPaletted(img image.Image, pal []color.Color) *image.Paletted {
	paletted := image.NewPaletted(img.Bounds(), pal)
	draw.Draw(paletted, img.Bounds(), img, img.Bounds().Min, draw.Over)
	return paletted
}

func generatePalette(img image.Image) []color.Color {
	return toPaletted(img, palette.Plan9).Palette
}

func openPNG(fname string) (image.Image, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not open frame: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode frame %s: %w", fname, err)
	}
	return img, nil
}
