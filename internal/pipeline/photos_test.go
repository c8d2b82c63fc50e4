package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Geergon/yt-dlp-linkbot/internal/config"
	"github.com/Geergon/yt-dlp-linkbot/internal/media"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type pngSource struct {
	w, h  int
	fill  color.NRGBA
	err   error
	calls *atomic.Int32
}

func (p pngSource) Download(_ context.Context, dst string) error {
	if p.calls != nil {
		p.calls.Add(1)
	}
	if p.err != nil {
		return p.err
	}
	fill := p.fill
	if fill == (color.NRGBA{}) {
		fill = color.NRGBA{R: 200, G: 120, B: 40, A: 255}
	}
	img := image.NewNRGBA(image.Rect(0, 0, p.w, p.h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = fill.R, fill.G, fill.B, fill.A
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func newPhotos(t *testing.T, wait time.Duration) (*Photos, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default().Collage
	cfg.Wait = wait
	return NewPhotos(cfg, dir, zaptest.NewLogger(t)), dir
}

func TestPhotosSinglePhotoIsSentBack(t *testing.T) {
	p, dir := newPhotos(t, time.Hour)
	s := &fakeSender{}

	p.Add(context.Background(), s, media.Target{ChatID: 1, MessageID: 2}, "", pngSource{w: 10, h: 10})

	require.Equal(t, []string{"photo"}, s.methods())
	requireEmptyDir(t, dir)
}

func TestPhotosAlbumBecomesCollage(t *testing.T) {
	p, dir := newPhotos(t, 20*time.Millisecond)
	s := &fakeSender{}
	to := media.Target{ChatID: 1, MessageID: 2}

	for i := 0; i < 3; i++ {
		p.Add(context.Background(), s, media.Target{ChatID: 1, MessageID: 2 + i}, "album-1", pngSource{w: 40, h: 30})
	}
	require.Eventually(t, func() bool { return len(s.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	p.Close()

	got := s.snapshot()
	require.Equal(t, "photo_data", got[0].Method)
	require.Equal(t, to, got[0].Target)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(got[0].Data))
	require.NoError(t, err)
	require.Equal(t, 80, cfg.Width)
	require.Equal(t, 60, cfg.Height)
	requireEmptyDir(t, dir)
}

func TestPhotosAlbumsAreKeptApartPerChat(t *testing.T) {
	p, _ := newPhotos(t, time.Hour)
	s := &fakeSender{}

	p.Add(context.Background(), s, media.Target{ChatID: 1}, "g", pngSource{w: 10, h: 10})
	p.Add(context.Background(), s, media.Target{ChatID: 1}, "g", pngSource{w: 10, h: 10})
	p.Add(context.Background(), s, media.Target{ChatID: 2}, "g", pngSource{w: 10, h: 10})
	require.Empty(t, s.snapshot())

	p.Close()
	got := s.snapshot()
	require.Len(t, got, 2)
	methods := map[int64]string{}
	for _, m := range got {
		methods[m.Target.ChatID] = m.Method
	}
	require.Equal(t, map[int64]string{1: "photo_data", 2: "photo"}, methods)
}

func TestPhotosLimitsAlbumSize(t *testing.T) {
	p, _ := newPhotos(t, time.Hour)
	p.cfg.MaxPhotos = 2
	s := &fakeSender{}
	var calls atomic.Int32

	for i := 0; i < 4; i++ {
		p.Add(context.Background(), s, media.Target{ChatID: 1}, "g", pngSource{w: 10, h: 10, calls: &calls})
	}
	p.Close()

	require.Equal(t, int32(2), calls.Load())
	require.Equal(t, []string{"photo_data"}, s.methods())
}

func TestPhotosDownloadErrorIsReported(t *testing.T) {
	p, dir := newPhotos(t, time.Hour)
	s := &fakeSender{}

	p.Add(context.Background(), s, media.Target{ChatID: 1}, "", pngSource{err: errors.New("FILE_REFERENCE_EXPIRED")})

	got := s.snapshot()
	require.Len(t, got, 1)
	require.Equal(t, "text", got[0].Method)
	require.Contains(t, got[0].Value, "FILE_REFERENCE_EXPIRED")
	requireEmptyDir(t, dir)
}

func TestPhotosSolidColorCollage(t *testing.T) {
	p, _ := newPhotos(t, time.Hour)
	s := &fakeSender{}

	p.Add(context.Background(), s, media.Target{ChatID: 1}, "g", pngSource{w: 32, h: 32})
	p.Add(context.Background(), s, media.Target{ChatID: 1}, "g", pngSource{w: 8, h: 8})
	p.Close()

	got := s.snapshot()
	require.Len(t, got, 1)
	img, err := jpeg.Decode(bytes.NewReader(got[0].Data))
	require.NoError(t, err)
	require.Equal(t, image.Pt(64, 32), img.Bounds().Size())
	// менше фото не розтягується: кут другої клітинки лишається білим
	r, g, b, _ := img.At(33, 1).RGBA()
	require.Greater(t, r>>8, uint32(240))
	require.Greater(t, g>>8, uint32(240))
	require.Greater(t, b>>8, uint32(240))
}

func TestPhotosCollageFollowsMessageOrder(t *testing.T) {
	p, _ := newPhotos(t, time.Hour)
	s := &fakeSender{}
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	// друге повідомлення альбому обробилось раніше за перше
	p.Add(context.Background(), s, media.Target{ChatID: 1, MessageID: 11}, "g", pngSource{w: 32, h: 32, fill: blue})
	p.Add(context.Background(), s, media.Target{ChatID: 1, MessageID: 10}, "g", pngSource{w: 32, h: 32, fill: red})
	p.Close()

	got := s.snapshot()
	require.Len(t, got, 1)
	require.Equal(t, media.Target{ChatID: 1, MessageID: 10}, got[0].Target)
	img, err := jpeg.Decode(bytes.NewReader(got[0].Data))
	require.NoError(t, err)

	r, _, b, _ := img.At(16, 16).RGBA()
	require.Greater(t, r>>8, uint32(200))
	require.Less(t, b>>8, uint32(60))
	r, _, b, _ = img.At(48, 16).RGBA()
	require.Less(t, r>>8, uint32(60))
	require.Greater(t, b>>8, uint32(200))
}
