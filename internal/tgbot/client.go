package tgbot

import (
	"context"

	"github.com/Geergon/yt-dlp-linkbot/internal/config"
	"github.com/Geergon/yt-dlp-linkbot/internal/pipeline"
	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/dispatcher/handlers"
	"github.com/celestix/gotgproto/dispatcher/handlers/filters"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/glebarez/sqlite"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Run запускає бота через MTProto (потрібні APP_ID і API_HASH) і блокується до ctx.Done.
func Run(ctx context.Context, cfg *config.Config, bot *pipeline.Bot, log *zap.Logger) error {
	client, err := gotgproto.NewClient(
		// Get AppID and ApiHash from https://my.telegram.org/apps
		cfg.AppID,
		cfg.APIHash,
		gotgproto.ClientTypeBot(cfg.Token),
		&gotgproto.ClientOpts{
			Session: sessionMaker.SqlSession(sqlite.Open(cfg.Session)),
		},
	)
	if err != nil {
		return errors.Wrap(err, "запуск MTProto клієнта")
	}

	r := &router{bot: bot, log: log}
	dispatcher := client.Dispatcher
	dispatcher.AddHandler(handlers.NewCommand("update", r.UpdateYtdlp))
	dispatcher.AddHandler(handlers.NewCommand("logs", r.SendLogs))
	dispatcher.AddHandlerToGroup(handlers.NewMessage(filters.Message.Text, r.Links), 1)
	dispatcher.AddHandlerToGroup(handlers.NewMessage(filters.Message.Photo, r.Photo), 1)

	log.Info("Бот стартував (MTProto)", zap.String("username", client.Self.Username))

	go func() {
		<-ctx.Done()
		client.Stop()
	}()
	if err := client.Idle(); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "MTProto клієнт зупинився")
	}
	return nil
}
