package media

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Dispatcher struct {
	log *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Reply відправляє файл відповідним методом. Якщо Telegram відхилив відео чи фото,
// робиться одна повторна спроба звичайним документом.
func (d *Dispatcher) Reply(ctx context.Context, s Sender, to Target, path, caption string) error {
	kind := Classify(path)
	err := send(ctx, s, kind, to, path, caption)
	if err == nil {
		return nil
	}
	if kind == Document {
		return errors.Wrap(err, "надсилання документа")
	}

	d.log.Warn("Не вдалося надіслати медіа, пробуємо документом",
		zap.Stringer("kind", kind), zap.String("path", path), zap.Error(err))
	if docErr := s.SendDocument(ctx, to, path, caption); docErr != nil {
		return errors.Wrap(multierr.Combine(err, docErr), "надсилання "+kind.String())
	}
	return nil
}

func send(ctx context.Context, s Sender, kind Kind, to Target, path, caption string) error {
	switch kind {
	case Video:
		return s.SendVideo(ctx, to, path, caption)
	case Photo:
		return s.SendPhoto(ctx, to, path, caption)
	default:
		return s.SendDocument(ctx, to, path, caption)
	}
}
