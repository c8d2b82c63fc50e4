package yt

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Request struct {
	URL        string
	Dir        string
	CookieFile string
	Format     string
}

// Result описує те, що повідомив екстрактор. Entries заповнюється для альбомів
// (кілька медіа в одному пості), інакше файл описують Filepath/Title/Ext.
type Result struct {
	ID       string
	Title    string
	Ext      string
	Filepath string
	Entries  []Entry
}

type Entry struct {
	Title    string
	Ext      string
	Filepath string
}

type Extractor interface {
	Extract(ctx context.Context, req Request) (*Result, error)
}

// Chain пробує yt-dlp, а для хостів з фото-постами робить другу спробу через gallery-dl.
type Chain struct {
	primary  Extractor
	fallback Extractor
	hosts    []string
	log      *zap.Logger
}

func NewChain(primary, fallback Extractor, hosts []string, log *zap.Logger) *Chain {
	return &Chain{primary: primary, fallback: fallback, hosts: hosts, log: log}
}

func (c *Chain) Extract(ctx context.Context, req Request) (*Result, error) {
	res, err := c.primary.Extract(ctx, req)
	if err == nil {
		return res, nil
	}
	if c.fallback == nil || ctx.Err() != nil || !lo.SomeBy(c.hosts, func(h string) bool { return MatchHost(req.URL, h) }) {
		return nil, err
	}

	c.log.Info("yt-dlp не впорався, пробуємо gallery-dl", zap.String("url", req.URL), zap.Error(err))
	// недокачані файли yt-dlp не мають потрапити в результат gallery-dl
	if req.Dir != "" {
		if clearErr := ClearDir(req.Dir); clearErr != nil {
			c.log.Warn("Не вдалося очистити директорію перед gallery-dl", zap.String("dir", req.Dir), zap.Error(clearErr))
			return nil, err
		}
	}
	res, fbErr := c.fallback.Extract(ctx, req)
	if fbErr != nil {
		c.log.Warn("gallery-dl теж не впорався", zap.String("url", req.URL), zap.Error(fbErr))
		return nil, err
	}
	return res, nil
}

var ErrExtractor = errors.New("екстрактор завершився з помилкою")

// службові файли yt-dlp/gallery-dl, які ніколи не відправляються
var sidecarExts = []string{".part", ".ytdl", ".json", ".temp", ".tmp", ".description"}

// IsSidecar повідомляє, чи є файл службовим (недокачаний, метадані).
func IsSidecar(name string) bool {
	return lo.Contains(sidecarExts, strings.ToLower(filepath.Ext(name)))
}

// ClearDir видаляє весь вміст dir, залишаючи саму директорію.
func ClearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "читання тимчасової директорії")
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return errors.Wrap(err, "очищення тимчасової директорії")
		}
	}
	return nil
}
