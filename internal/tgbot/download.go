package tgbot

import (
	"context"
	"strconv"

	"github.com/Geergon/yt-dlp-linkbot/internal/pipeline"
	"github.com/celestix/gotgproto/ext"
	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

type router struct {
	bot *pipeline.Bot
	log *zap.Logger
}

func inbound(u *ext.Update) pipeline.Inbound {
	msg := u.EffectiveMessage
	in := pipeline.Inbound{
		ChatID:    u.EffectiveChat().GetID(),
		MessageID: msg.ID,
		Text:      msg.Text,
	}
	if user := u.EffectiveUser(); user != nil {
		in.UserID = user.ID
		in.Username = user.Username
	}
	return in
}

// Links обробляє текстові повідомлення з посиланнями.
func (r *router) Links(ctx *ext.Context, u *ext.Update) error {
	if u.EffectiveMessage == nil {
		return nil
	}
	return r.bot.Links.Handle(ctx, &sender{ctx: ctx}, inbound(u))
}

// Photo передає фото в буфер колажів; фото одного альбому мають спільний grouped_id.
func (r *router) Photo(ctx *ext.Context, u *ext.Update) error {
	msg := u.EffectiveMessage
	if msg == nil {
		return nil
	}
	m, ok := msg.Media.(*tg.MessageMediaPhoto)
	if !ok {
		return nil
	}
	photo, ok := m.Photo.(*tg.Photo)
	if !ok {
		r.log.Warn("Фото без вмісту", zap.Int("msg_id", msg.ID))
		return nil
	}

	var group string
	if id, ok := msg.GetGroupedID(); ok {
		group = strconv.FormatInt(id, 10)
	}
	r.bot.Photos.Add(ctx, &sender{ctx: ctx}, inbound(u).Target(), group, &photoSource{client: ctx.Raw, photo: photo})
	return nil
}

type photoSource struct {
	client *tg.Client
	photo  *tg.Photo
}

func (p *photoSource) Download(ctx context.Context, dst string) error {
	thumb := largestSize(p.photo)
	if thumb == "" {
		return errors.Errorf("у фото %d немає доступних розмірів", p.photo.ID)
	}
	loc := &tg.InputPhotoFileLocation{
		ID:            p.photo.ID,
		AccessHash:    p.photo.AccessHash,
		FileReference: p.photo.FileReference,
		ThumbSize:     thumb,
	}
	if _, err := downloader.NewDownloader().Download(p.client, loc).ToPath(ctx, dst); err != nil {
		return errors.Wrap(err, "завантаження фото з Telegram")
	}
	return nil
}

// largestSize повертає тип найбільшого розміру фото.
func largestSize(photo *tg.Photo) string {
	var best string
	var bestArea int
	for _, size := range photo.Sizes {
		var w, h int
		var typ string
		switch s := size.(type) {
		case *tg.PhotoSize:
			w, h, typ = s.W, s.H, s.Type
		case *tg.PhotoSizeProgressive:
			w, h, typ = s.W, s.H, s.Type
		default:
			continue
		}
		if w*h > bestArea {
			best, bestArea = typ, w*h
		}
	}
	return best
}
