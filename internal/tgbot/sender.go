package tgbot

import (
	"context"
	"path/filepath"

	"github.com/Geergon/yt-dlp-linkbot/internal/media"
	"github.com/celestix/gotgproto/ext"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
)

// sender відповідає через MTProto: файли вантажаться uploader'ом gotd до 2 ГБ.
type sender struct {
	ctx *ext.Context
}

var _ media.Sender = (*sender)(nil)

func replyTo(to media.Target) tg.InputReplyToClass {
	if to.MessageID == 0 {
		return nil
	}
	return &tg.InputReplyToMessage{ReplyToMsgID: to.MessageID}
}

func (s *sender) SendText(_ context.Context, to media.Target, text string) error {
	_, err := s.ctx.SendMessage(to.ChatID, &tg.MessagesSendMessageRequest{
		Message: text,
		ReplyTo: replyTo(to),
	})
	return err
}

func (s *sender) upload(ctx context.Context, path string) (tg.InputFileClass, error) {
	f, err := uploader.NewUploader(s.ctx.Raw).FromPath(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "завантаження %s в Telegram", filepath.Base(path))
	}
	return f, nil
}

func (s *sender) sendMedia(to media.Target, m tg.InputMediaClass, caption string) error {
	_, err := s.ctx.SendMedia(to.ChatID, &tg.MessagesSendMediaRequest{
		Media:   m,
		Message: caption,
		ReplyTo: replyTo(to),
	})
	return err
}

func (s *sender) SendVideo(ctx context.Context, to media.Target, path, caption string) error {
	f, err := s.upload(ctx, path)
	if err != nil {
		return err
	}
	return s.sendMedia(to, &tg.InputMediaUploadedDocument{
		File:     f,
		MimeType: "video/mp4",
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeVideo{
				SupportsStreaming: true,
			},
			&tg.DocumentAttributeFilename{
				FileName: filepath.Base(path),
			},
		},
	}, caption)
}

func (s *sender) SendPhoto(ctx context.Context, to media.Target, path, caption string) error {
	f, err := s.upload(ctx, path)
	if err != nil {
		return err
	}
	return s.sendMedia(to, &tg.InputMediaUploadedPhoto{File: f}, caption)
}

func (s *sender) SendPhotoData(ctx context.Context, to media.Target, name string, data []byte, caption string) error {
	f, err := uploader.NewUploader(s.ctx.Raw).FromBytes(ctx, name, data)
	if err != nil {
		return errors.Wrap(err, "завантаження колажу в Telegram")
	}
	return s.sendMedia(to, &tg.InputMediaUploadedPhoto{File: f}, caption)
}

func (s *sender) SendDocument(ctx context.Context, to media.Target, path, caption string) error {
	f, err := s.upload(ctx, path)
	if err != nil {
		return err
	}
	mimeType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(path); err == nil {
		mimeType = mt.String()
	}
	return s.sendMedia(to, &tg.InputMediaUploadedDocument{
		File:      f,
		MimeType:  mimeType,
		ForceFile: true,
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeFilename{
				FileName: filepath.Base(path),
			},
		},
	}, caption)
}
