package botapi

import (
	"context"
	"net/http"
	"sync"

	"github.com/Geergon/yt-dlp-linkbot/internal/pipeline"
	"github.com/go-faster/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const pollTimeout = 30

// Router переводить оновлення Bot API у виклики pipeline.
type Router struct {
	api    API
	bot    *pipeline.Bot
	sender *Sender
	client *http.Client
	log    *zap.Logger
}

func NewRouter(api API, bot *pipeline.Bot, log *zap.Logger) *Router {
	return &Router{
		api:    api,
		bot:    bot,
		sender: NewSender(api),
		client: http.DefaultClient,
		log:    log,
	}
}

func inbound(msg *tgbotapi.Message) pipeline.Inbound {
	in := pipeline.Inbound{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
	}
	if msg.From != nil {
		in.UserID = msg.From.ID
		in.Username = msg.From.UserName
	}
	return in
}

// Handle обробляє одне оновлення. Помилки логуються, а не повертаються.
func (r *Router) Handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	in := inbound(msg)

	var err error
	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "update":
			err = r.bot.Admin.Update(ctx, r.sender, in)
		case "logs":
			err = r.bot.Admin.Logs(ctx, r.sender, in)
		}
	case len(msg.Photo) > 0:
		largest := msg.Photo[len(msg.Photo)-1]
		r.bot.Photos.Add(ctx, r.sender, in.Target(), msg.MediaGroupID, &photoSource{
			api:    r.api,
			client: r.client,
			fileID: largest.FileID,
		})
	case msg.Text != "":
		err = r.bot.Links.Handle(ctx, r.sender, in)
	}
	if err != nil {
		r.log.Error("Помилка обробки повідомлення", zap.Int64("chat_id", in.ChatID), zap.Int("msg_id", in.MessageID), zap.Error(err))
	}
}

// Run запускає long polling і блокується до ctx.Done; після зупинки чекає активні обробники.
func Run(ctx context.Context, token string, bot *pipeline.Bot, log *zap.Logger) error {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return errors.Wrap(err, "підключення до Bot API")
	}
	log.Info("Бот стартував (Bot API)", zap.String("username", api.Self.UserName))

	router := NewRouter(api, bot, log)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				router.Handle(ctx, update)
			}()
		}
	}
}
