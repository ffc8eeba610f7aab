package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled render to targetSize×targetSize.
// Filtering happens on premultiplied alpha so transparent edges do not
// bleed dark halos into the silhouette.
func Downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if targetSize <= 0 || (b.Dx() <= targetSize && b.Dy() <= targetSize) {
		return img
	}

	// RGBA is premultiplied; drawing NRGBA into it converts.
	premul := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(premul, premul.Bounds(), img, b.Min, draw.Src)

	scaled := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	result := image.NewNRGBA(scaled.Bounds())
	draw.Draw(result, result.Bounds(), scaled, image.Point{}, draw.Src)
	return result
}
