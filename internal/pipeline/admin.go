package pipeline

import (
	"context"
	"os"

	"github.com/Geergon/yt-dlp-linkbot/internal/media"
	"go.uber.org/zap"
)

// telegram не приймає текст довший за 4096 символів
const maxMessageRunes = 4096

type Updater interface {
	UpdateYtdlp(ctx context.Context) string
	UpdateGallerydl(ctx context.Context) string
}

type Admin struct {
	isAdmin func(userID int64) bool
	updater Updater
	logFile string
	log     *zap.Logger
}

func NewAdmin(isAdmin func(int64) bool, updater Updater, logFile string, log *zap.Logger) *Admin {
	return &Admin{isAdmin: isAdmin, updater: updater, logFile: logFile, log: log}
}

func (a *Admin) access(in Inbound, command string) bool {
	if a.isAdmin(in.UserID) {
		return true
	}
	a.log.Warn("Неавторизований доступ до адмінських команд",
		zap.String("command", command), zap.String("user", in.Username), zap.Int64("user_id", in.UserID), zap.Int64("chat", in.ChatID))
	return false
}

// Update оновлює yt-dlp і gallery-dl та надсилає вивід.
func (a *Admin) Update(ctx context.Context, s media.Sender, in Inbound) error {
	if !a.access(in, "update") {
		return nil
	}
	msg := a.updater.UpdateYtdlp(ctx) + "\n\n" + a.updater.UpdateGallerydl(ctx)
	return s.SendText(ctx, in.Target(), truncate(msg, maxMessageRunes))
}

// Logs надсилає поточний файл логів документом.
func (a *Admin) Logs(ctx context.Context, s media.Sender, in Inbound) error {
	if !a.access(in, "logs") {
		return nil
	}
	to := in.Target()

	fileInfo, err := os.Stat(a.logFile)
	switch {
	case a.logFile == "" || os.IsNotExist(err):
		a.log.Warn("Файл логів не існує", zap.String("file", a.logFile))
		return s.SendText(ctx, to, "Помилка: файл логів недоступний.")
	case err != nil:
		a.log.Warn("Помилка перевірки файлу логів", zap.Error(err))
		return s.SendText(ctx, to, "Помилка: файл логів недоступний.")
	case fileInfo.IsDir():
		return s.SendText(ctx, to, "Помилка: файл логів є директорією.")
	case fileInfo.Size() == 0:
		return s.SendText(ctx, to, "Файл логів порожній.")
	}

	if err := s.SendDocument(ctx, to, a.logFile, ""); err != nil {
		a.log.Warn("Помилка надсилання файлу логів", zap.Error(err))
		return s.SendText(ctx, to, "Помилка: не вдалося завантажити файл логів.")
	}
	return nil
}

// truncate залишає кінець виводу: там підсумок оновлення.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[len(runes)-limit:])
}
