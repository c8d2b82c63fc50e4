package fetch

import (
	"context"
	"os"

	"github.com/Geergon/yt-dlp-linkbot/internal/config"
	"github.com/Geergon/yt-dlp-linkbot/internal/yt"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Download — файли, завантажені для одного посилання. Директорія тимчасова,
// її треба прибрати через Close після відправки.
type Download struct {
	URL   string
	Dir   string
	Files []string
}

func (d *Download) Close() error {
	if d == nil || d.Dir == "" {
		return nil
	}
	return os.RemoveAll(d.Dir)
}

type Fetcher struct {
	cfg       config.Fetch
	cookies   *yt.CookieJar
	extractor yt.Extractor
	log       *zap.Logger
}

func New(cfg config.Fetch, extractor yt.Extractor, log *zap.Logger) *Fetcher {
	return &Fetcher{
		cfg:       cfg,
		cookies:   yt.NewCookieJar(cfg.Cookies),
		extractor: extractor,
		log:       log,
	}
}

// Fetch завантажує медіа за посиланням у власну тимчасову директорію.
// При помилці директорія вже видалена; при успіху її видаляє Download.Close.
func (f *Fetcher) Fetch(ctx context.Context, url string) (dl *Download, err error) {
	dir, err := os.MkdirTemp(f.cfg.TempDir, "fetch-*")
	if err != nil {
		return nil, errors.Wrap(err, "створення тимчасової директорії")
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				f.log.Warn("Не вдалося видалити тимчасову директорію", zap.String("dir", dir), zap.Error(rmErr))
			}
		}
	}()

	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	req := yt.Request{
		URL:        url,
		Dir:        dir,
		CookieFile: f.cookies.Select(url),
		Format:     f.cfg.Format,
	}
	f.log.Info("Завантаження", zap.String("url", url), zap.String("cookies", req.CookieFile))

	res, err := f.extract(ctx, req)
	if err != nil {
		return nil, err
	}

	files, err := resolve(dir, res, f.cfg.MaxAlbum)
	if err != nil {
		f.log.Warn("Файл не знайдено після завантаження", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	return &Download{URL: url, Dir: dir, Files: files}, nil
}

func (f *Fetcher) extract(ctx context.Context, req yt.Request) (*yt.Result, error) {
	var res *yt.Result
	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 {
			// залишки попередньої спроби (.part тощо)
			if err := yt.ClearDir(req.Dir); err != nil {
				return backoff.Permanent(err)
			}
		}
		r, err := f.extractor.Extract(ctx, req)
		if err != nil {
			f.log.Warn("Спроба завантаження не вдалася", zap.Int("attempt", attempt), zap.String("url", req.URL), zap.Error(err))
			return err
		}
		res = r
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.cfg.RetryDelay), uint64(max(f.cfg.Attempts, 1)-1)),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return res, nil
}
