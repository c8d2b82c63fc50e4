package botapi

import (
	"context"

	"github.com/Geergon/yt-dlp-linkbot/internal/media"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API — частина tgbotapi.BotAPI, яку використовує бот.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Sender відповідає через Bot API (файли до 50 МБ).
type Sender struct {
	api API
}

var _ media.Sender = (*Sender)(nil)

func NewSender(api API) *Sender {
	return &Sender{api: api}
}

func (s *Sender) SendText(_ context.Context, to media.Target, text string) error {
	msg := tgbotapi.NewMessage(to.ChatID, text)
	msg.ReplyToMessageID = to.MessageID
	_, err := s.api.Send(msg)
	return err
}

func (s *Sender) SendVideo(_ context.Context, to media.Target, path, caption string) error {
	video := tgbotapi.NewVideo(to.ChatID, tgbotapi.FilePath(path))
	video.Caption = caption
	video.SupportsStreaming = true
	video.ReplyToMessageID = to.MessageID
	_, err := s.api.Send(video)
	return err
}

func (s *Sender) SendPhoto(_ context.Context, to media.Target, path, caption string) error {
	photo := tgbotapi.NewPhoto(to.ChatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	photo.ReplyToMessageID = to.MessageID
	_, err := s.api.Send(photo)
	return err
}

func (s *Sender) SendPhotoData(_ context.Context, to media.Target, name string, data []byte, caption string) error {
	photo := tgbotapi.NewPhoto(to.ChatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption
	photo.ReplyToMessageID = to.MessageID
	_, err := s.api.Send(photo)
	return err
}

func (s *Sender) SendDocument(_ context.Context, to media.Target, path, caption string) error {
	doc := tgbotapi.NewDocument(to.ChatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	doc.ReplyToMessageID = to.MessageID
	_, err := s.api.Send(doc)
	return err
}
