package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/Geergon/yt-dlp-linkbot/internal/collage"
	"github.com/Geergon/yt-dlp-linkbot/internal/config"
	"github.com/Geergon/yt-dlp-linkbot/internal/media"
	"github.com/go-faster/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// PhotoSource завантажує одне фото з Telegram у файл dst.
type PhotoSource interface {
	Download(ctx context.Context, dst string) error
}

// queued — фото альбому разом з повідомленням, у якому воно прийшло.
type queued struct {
	to  media.Target
	src PhotoSource
}

type album struct {
	ctx    context.Context
	sender media.Sender
	photos []queued
	timer  *time.Timer
}

// Photos збирає фото одного альбому (media group) і відповідає одним колажем.
// Telegram надсилає альбом окремими повідомленнями, тому вони буферизуються на cfg.Wait.
type Photos struct {
	cfg     config.Collage
	tempDir string
	log     *zap.Logger

	mu      sync.Mutex
	pending map[string]*album
	wg      sync.WaitGroup
}

func NewPhotos(cfg config.Collage, tempDir string, log *zap.Logger) *Photos {
	return &Photos{cfg: cfg, tempDir: tempDir, log: log, pending: map[string]*album{}}
}

// Add додає фото. Порожній group означає окреме фото без альбому — воно обробляється одразу.
func (p *Photos) Add(ctx context.Context, s media.Sender, to media.Target, group string, src PhotoSource) {
	if group == "" {
		p.process(ctx, s, to, []PhotoSource{src})
		return
	}
	key := fmt.Sprintf("%d:%s", to.ChatID, group)

	p.mu.Lock()
	defer p.mu.Unlock()
	if a, ok := p.pending[key]; ok {
		a.photos = append(a.photos, queued{to: to, src: src})
		a.timer.Reset(p.cfg.Wait)
		return
	}
	a := &album{ctx: context.WithoutCancel(ctx), sender: s, photos: []queued{{to: to, src: src}}}
	p.wg.Add(1)
	a.timer = time.AfterFunc(p.cfg.Wait, func() { p.flush(key) })
	p.pending[key] = a
}

func (p *Photos) flush(key string) {
	p.mu.Lock()
	a, ok := p.pending[key]
	delete(p.pending, key)
	p.mu.Unlock()
	if !ok {
		return
	}
	defer p.wg.Done()

	// оновлення обробляються паралельно, тож порядок Add не збігається з порядком повідомлень
	slices.SortStableFunc(a.photos, func(x, y queued) int { return x.to.MessageID - y.to.MessageID })
	sources := lo.Map(a.photos, func(q queued, _ int) PhotoSource { return q.src })
	p.process(a.ctx, a.sender, a.photos[0].to, sources)
}

// Close одразу обробляє альбоми, що ще чекають, і дочікується завершення.
func (p *Photos) Close() {
	p.mu.Lock()
	keys := make([]string, 0, len(p.pending))
	for key, a := range p.pending {
		a.timer.Stop()
		keys = append(keys, key)
	}
	p.mu.Unlock()
	for _, key := range keys {
		p.flush(key)
	}
	p.wg.Wait()
}

func (p *Photos) process(ctx context.Context, s media.Sender, to media.Target, sources []PhotoSource) {
	if err := p.reply(ctx, s, to, sources); err != nil {
		p.log.Warn("Не вдалося обробити фото", zap.Int64("chat", to.ChatID), zap.Int("photos", len(sources)), zap.Error(err))
		if sendErr := s.SendText(ctx, to, fmt.Sprintf("⚠️ Не вдалося зібрати колаж:\n%v", err)); sendErr != nil {
			p.log.Warn("Помилка надсилання повідомлення про помилку", zap.Error(sendErr))
		}
	}
}

func (p *Photos) reply(ctx context.Context, s media.Sender, to media.Target, sources []PhotoSource) error {
	if p.cfg.MaxPhotos > 0 && len(sources) > p.cfg.MaxPhotos {
		p.log.Info("Забагато фото для колажу, зайві відкинуто", zap.Int("photos", len(sources)), zap.Int("max", p.cfg.MaxPhotos))
		sources = sources[:p.cfg.MaxPhotos]
	}

	dir, err := os.MkdirTemp(p.tempDir, "photos-*")
	if err != nil {
		return errors.Wrap(err, "створення тимчасової директорії")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			p.log.Warn("Не вдалося видалити тимчасову директорію", zap.String("dir", dir), zap.Error(err))
		}
	}()

	paths := make([]string, 0, len(sources))
	for i, src := range sources {
		dst := filepath.Join(dir, fmt.Sprintf("photo_%d.jpg", i))
		if err := src.Download(ctx, dst); err != nil {
			return errors.Wrapf(err, "завантаження фото %d", i+1)
		}
		paths = append(paths, dst)
	}

	if len(paths) == 1 {
		return s.SendPhoto(ctx, to, paths[0], "📷")
	}

	imgs, err := collage.Load(paths)
	if err != nil {
		return err
	}
	img, err := collage.Compose(imgs)
	if err != nil {
		return err
	}
	data, err := collage.EncodeJPEG(img, p.cfg.Quality)
	if err != nil {
		return err
	}
	p.log.Info("Колаж зібрано", zap.Int64("chat", to.ChatID), zap.Int("photos", len(paths)), zap.Int("bytes", len(data)))
	return s.SendPhotoData(ctx, to, "collage.jpg", data, "🖼 Колаж готовий!")
}
