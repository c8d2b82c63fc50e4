package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Geergon/yt-dlp-linkbot/internal/botapi"
	"github.com/Geergon/yt-dlp-linkbot/internal/config"
	"github.com/Geergon/yt-dlp-linkbot/internal/fetch"
	"github.com/Geergon/yt-dlp-linkbot/internal/logger"
	"github.com/Geergon/yt-dlp-linkbot/internal/media"
	"github.com/Geergon/yt-dlp-linkbot/internal/pipeline"
	"github.com/Geergon/yt-dlp-linkbot/internal/tgbot"
	"github.com/Geergon/yt-dlp-linkbot/internal/yt"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("BOT_CONFIG"))
	if err != nil {
		log.Fatalln("Помилка конфігурації:", err)
	}
	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalln("Помилка при створенні логера:", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var extractor yt.Extractor = yt.NewYtDlp(cfg.Fetch.YtDlp, lg)
	if cfg.Fetch.GalleryDL != "" {
		extractor = yt.NewChain(extractor, yt.NewGalleryDl(cfg.Fetch.GalleryDL, lg), cfg.Fetch.GalleryHosts, lg)
	}
	updater := yt.NewUpdater(cfg.Fetch.YtDlp, cfg.Fetch.GalleryDL, lg)

	bot := &pipeline.Bot{
		Links:  pipeline.NewLinks(cfg.Fetch, fetch.New(cfg.Fetch, extractor, lg), media.NewDispatcher(lg), lg),
		Photos: pipeline.NewPhotos(cfg.Collage, cfg.Fetch.TempDir, lg),
		Admin:  pipeline.NewAdmin(cfg.IsAdmin, updater, cfg.Log.File, lg),
	}
	defer bot.Photos.Close()

	if cfg.Fetch.UpdateCron != "" {
		c, err := updater.Schedule(ctx, cfg.Fetch.UpdateCron)
		if err != nil {
			lg.Fatal("Невірний розклад оновлення yt-dlp", zap.String("cron", cfg.Fetch.UpdateCron), zap.Error(err))
		}
		defer c.Stop()
	}

	if cfg.MTProto() {
		err = tgbot.Run(ctx, cfg, bot, lg)
	} else {
		err = botapi.Run(ctx, cfg.Token, bot, lg)
	}
	if err != nil {
		lg.Error("Бот зупинився з помилкою", zap.Error(err))
		return
	}
	lg.Info("Бот зупинено")
}
