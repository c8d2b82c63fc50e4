package collage

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/go-faster/errors"
)

const columns = 2

// Layout рахує полотно і позиції клітинок для n зображень розміром w×h:
// 2 колонки, ceil(n/2) рядків, клітинка i — ((i%2)*w, (i/2)*h).
func Layout(n, w, h int) (image.Rectangle, []image.Point) {
	if n <= 0 {
		return image.Rectangle{}, nil
	}
	rows := (n + columns - 1) / columns
	points := make([]image.Point, n)
	for i := range points {
		points[i] = image.Pt((i%columns)*w, (i/columns)*h)
	}
	return image.Rect(0, 0, columns*w, rows*h), points
}

// Compose збирає сітку. Розмір клітинки береться з першого зображення;
// інші вписуються в неї без збільшення і центруються на білому тлі.
func Compose(imgs []image.Image) (image.Image, error) {
	switch len(imgs) {
	case 0:
		return nil, errors.New("немає зображень для колажу")
	case 1:
		return imgs[0], nil
	}

	cell := imgs[0].Bounds().Size()
	if cell.X == 0 || cell.Y == 0 {
		return nil, errors.New("перше зображення порожнє")
	}
	bounds, points := Layout(len(imgs), cell.X, cell.Y)
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)

	for i, img := range imgs {
		canvas = imaging.Paste(canvas, fit(img, cell), points[i])
	}
	return canvas, nil
}

// fit приводить зображення до розміру клітинки: білий фон + вписане зображення по центру.
func fit(img image.Image, cell image.Point) image.Image {
	if img.Bounds().Size() == cell {
		return img
	}
	bg := imaging.New(cell.X, cell.Y, color.White)
	return imaging.PasteCenter(bg, imaging.Fit(img, cell.X, cell.Y, imaging.Lanczos))
}

func Load(paths []string) ([]image.Image, error) {
	imgs := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := imaging.Open(p, imaging.AutoOrientation(true))
		if err != nil {
			return nil, errors.Wrapf(err, "відкриття %s", p)
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, errors.Wrap(err, "кодування JPEG")
	}
	return buf.Bytes(), nil
}
