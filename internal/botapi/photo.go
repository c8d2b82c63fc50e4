package botapi

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/go-faster/errors"
)

// photoSource завантажує фото за file_id через пряме посилання Bot API.
type photoSource struct {
	api    API
	client *http.Client
	fileID string
}

func (p *photoSource) Download(ctx context.Context, dst string) error {
	link, err := p.api.GetFileDirectURL(p.fileID)
	if err != nil {
		return errors.Wrap(err, "отримання посилання на фото")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return errors.Wrap(err, "запит фото")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "завантаження фото")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("завантаження фото: статус %s", resp.Status)
	}

	f, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "створення файлу фото")
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return errors.Wrap(err, "запис фото")
	}
	return f.Close()
}
