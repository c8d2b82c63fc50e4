package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/Geergon/yt-dlp-linkbot/internal/config"
	"github.com/Geergon/yt-dlp-linkbot/internal/fetch"
	"github.com/Geergon/yt-dlp-linkbot/internal/media"
	"github.com/Geergon/yt-dlp-linkbot/internal/yt"
	"github.com/go-faster/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Inbound — текстове повідомлення, незалежне від транспорту.
type Inbound struct {
	ChatID    int64
	MessageID int
	UserID    int64
	Username  string
	Text      string
}

func (in Inbound) Target() media.Target {
	return media.Target{ChatID: in.ChatID, MessageID: in.MessageID}
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Download, error)
}

type Links struct {
	cfg        config.Fetch
	fetcher    Fetcher
	dispatcher *media.Dispatcher
	log        *zap.Logger
}

func NewLinks(cfg config.Fetch, fetcher Fetcher, dispatcher *media.Dispatcher, log *zap.Logger) *Links {
	return &Links{cfg: cfg, fetcher: fetcher, dispatcher: dispatcher, log: log}
}

type outcome struct {
	dl  *fetch.Download
	err error
}

// Handle обробляє до max_links посилань з повідомлення. Завантаження йдуть у пулі
// з fetch.workers горутин, а відповіді надсилаються строго в порядку посилань.
func (l *Links) Handle(ctx context.Context, s media.Sender, in Inbound) error {
	if strings.HasPrefix(strings.TrimSpace(in.Text), "/") {
		return nil
	}
	links := yt.ExtractLinks(in.Text, l.cfg.AllowedHosts, l.cfg.MaxLinks)
	if len(links) == 0 {
		return nil
	}
	to := in.Target()
	l.log.Info("Отримано посилання", zap.Int64("chat", in.ChatID), zap.String("user", in.Username), zap.Strings("urls", links))

	if err := s.SendText(ctx, to, "⏳ Завантажую медіа..."); err != nil {
		l.log.Warn("Помилка надсилання повідомлення про початок", zap.Error(err))
	}

	results := make([]chan outcome, len(links))
	for i := range results {
		results[i] = make(chan outcome, 1)
	}
	go func() {
		p := pool.New().WithMaxGoroutines(max(l.cfg.Workers, 1))
		for i, url := range links {
			p.Go(func() {
				dl, err := l.fetcher.Fetch(ctx, url)
				results[i] <- outcome{dl: dl, err: err}
			})
		}
		p.Wait()
	}()

	for i, url := range links {
		out := <-results[i]
		l.deliver(ctx, s, to, url, out)
	}
	return nil
}

func (l *Links) deliver(ctx context.Context, s media.Sender, to media.Target, url string, out outcome) {
	if out.err != nil {
		text := fmt.Sprintf("⚠️ Помилка при обробці %s:\n%v", url, out.err)
		if errors.Is(out.err, fetch.ErrNoFile) {
			text = fmt.Sprintf("⚠️ Не вдалося знайти завантажений файл для %s", url)
		}
		l.log.Warn("Не вдалося завантажити медіа", zap.String("url", url), zap.Error(out.err))
		l.report(ctx, s, to, text)
		return
	}
	defer func() {
		if err := out.dl.Close(); err != nil {
			l.log.Warn("Не вдалося видалити тимчасову директорію", zap.String("dir", out.dl.Dir), zap.Error(err))
		}
	}()

	for i, path := range out.dl.Files {
		caption := ""
		if i == 0 {
			caption = "🎬 З: " + url
		}
		if err := l.dispatcher.Reply(ctx, s, to, path, caption); err != nil {
			l.log.Warn("Помилка при надсиланні медіа", zap.String("url", url), zap.String("path", path), zap.Error(err))
			l.report(ctx, s, to, fmt.Sprintf("⚠️ Помилка при обробці %s:\n%v", url, err))
			return
		}
	}
	l.log.Info("Медіа надіслано", zap.String("url", url), zap.Int("files", len(out.dl.Files)))
}

func (l *Links) report(ctx context.Context, s media.Sender, to media.Target, text string) {
	if err := s.SendText(ctx, to, text); err != nil {
		l.log.Warn("Помилка надсилання повідомлення про помилку", zap.Error(err))
	}
}
