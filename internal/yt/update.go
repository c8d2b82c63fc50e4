package yt

import (
	"context"
	"os/exec"
	"strings"

	"github.com/go-faster/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Updater struct {
	ytdlp     string
	galleryDl string
	log       *zap.Logger
}

func NewUpdater(ytdlp, galleryDl string, log *zap.Logger) *Updater {
	return &Updater{ytdlp: ytdlp, galleryDl: galleryDl, log: log}
}

func (u *Updater) UpdateYtdlp(ctx context.Context) string {
	u.log.Info("Перевірка оновлення yt-dlp")
	output, err := exec.CommandContext(ctx, u.ytdlp, "-U").CombinedOutput()
	if err != nil {
		u.log.Warn("yt-dlp -U error", zap.Error(err), zap.ByteString("output", output))
	}
	u.log.Info("yt-dlp -U", zap.ByteString("output", output))
	return string(output)
}

// UpdateGallerydl оновлює gallery-dl через apk (образ на Alpine).
func (u *Updater) UpdateGallerydl(ctx context.Context) string {
	if u.galleryDl == "" {
		return "gallery-dl вимкнено"
	}
	u.log.Info("Перевірка оновлення gallery-dl через apk")
	var output strings.Builder

	steps := []struct {
		title string
		name  string
		args  []string
	}{
		{"Оновлення кешу apk:", "apk", []string{"update"}},
		{"Оновлення gallery-dl:", "apk", []string{"upgrade", "gallery-dl"}},
		{"Поточна версія gallery-dl:", u.galleryDl, []string{"--version"}},
	}
	for i, step := range steps {
		if i > 0 {
			output.WriteString("\n")
		}
		out, err := exec.CommandContext(ctx, step.name, step.args...).CombinedOutput()
		output.WriteString(step.title + "\n")
		output.Write(out)
		if err != nil {
			u.log.Warn("gallery-dl update step failed", zap.String("step", step.name+" "+strings.Join(step.args, " ")), zap.Error(err), zap.ByteString("output", out))
			output.WriteString("\nПомилка: " + err.Error())
			if i == 0 {
				return output.String()
			}
		}
	}
	return output.String()
}

// Schedule запускає yt-dlp -U за cron-виразом. Повернений cron треба зупинити при виході.
func (u *Updater) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { u.UpdateYtdlp(ctx) }); err != nil {
		return nil, errors.Wrapf(err, "розклад оновлення %q", spec)
	}
	c.Start()
	u.log.Info("Автооновлення yt-dlp увімкнено", zap.String("cron", spec))
	return c, nil
}
