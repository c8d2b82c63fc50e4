package media

import (
	"context"
	"path/filepath"
	"strings"
)

type Kind int

const (
	Document Kind = iota
	Video
	Photo
)

func (k Kind) String() string {
	switch k {
	case Video:
		return "video"
	case Photo:
		return "photo"
	default:
		return "document"
	}
}

// Classify визначає тип відповіді лише за розширенням файлу.
func Classify(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4":
		return Video
	case ".jpg", ".jpeg", ".png", ".webp":
		return Photo
	default:
		return Document
	}
}

// Target — чат і повідомлення, на яке відповідає бот.
type Target struct {
	ChatID    int64
	MessageID int
}

// Sender реалізують транспорти (MTProto і Bot API).
type Sender interface {
	SendText(ctx context.Context, to Target, text string) error
	SendVideo(ctx context.Context, to Target, path, caption string) error
	SendPhoto(ctx context.Context, to Target, path, caption string) error
	SendPhotoData(ctx context.Context, to Target, name string, data []byte, caption string) error
	SendDocument(ctx context.Context, to Target, path, caption string) error
}
