package yt

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// GalleryDl завантажує фото-пости, з якими yt-dlp не працює ("There is no video in this post").
type GalleryDl struct {
	bin string
	log *zap.Logger
}

func NewGalleryDl(bin string, log *zap.Logger) *GalleryDl {
	return &GalleryDl{bin: bin, log: log}
}

func (g *GalleryDl) args(req Request) []string {
	args := []string{
		"--no-part",
		"-D", req.Dir,
		"-f", "{num:02d}.{extension}",
	}
	if req.CookieFile != "" {
		args = append(args, "--cookies", req.CookieFile)
	}
	return append(args, req.URL)
}

func (g *GalleryDl) Extract(ctx context.Context, req Request) (*Result, error) {
	cmd := exec.CommandContext(ctx, g.bin, g.args(req)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		g.log.Warn("gallery-dl error", zap.String("url", req.URL), zap.Error(err), zap.ByteString("output", output))
		return nil, errors.Wrap(ErrExtractor, lastLine(string(output), err.Error()))
	}
	g.log.Info("gallery-dl download successful", zap.String("url", req.URL))

	entries, err := os.ReadDir(req.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "читання директорії gallery-dl")
	}
	res := &Result{}
	for _, e := range entries {
		if !e.Type().IsRegular() || IsSidecar(e.Name()) {
			continue
		}
		ext := filepath.Ext(e.Name())
		res.Entries = append(res.Entries, Entry{
			Title:    e.Name()[:len(e.Name())-len(ext)],
			Ext:      trimDot(ext),
			Filepath: filepath.Join(req.Dir, e.Name()),
		})
	}
	return res, nil
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}
