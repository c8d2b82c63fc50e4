package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Geergon/yt-dlp-linkbot/internal/media"
	"github.com/Geergon/yt-dlp-linkbot/internal/yt"
	"github.com/go-faster/errors"
)

type sent struct {
	Method  string
	Target  media.Target
	Value   string // шлях, ім'я або текст
	Caption string
	Data    []byte
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sent
	fail map[string]error
}

func (f *fakeSender) add(s sent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// файл може зникнути одразу після відповіді, тому перевіряємо його тут
	if s.Method != "text" && s.Method != "photo_data" {
		if _, err := os.Stat(s.Value); err != nil {
			return errors.Wrap(err, "file must exist while sending")
		}
	}
	f.sent = append(f.sent, s)
	return f.fail[s.Method]
}

func (f *fakeSender) SendText(_ context.Context, to media.Target, text string) error {
	return f.add(sent{Method: "text", Target: to, Value: text})
}
func (f *fakeSender) SendVideo(_ context.Context, to media.Target, path, caption string) error {
	return f.add(sent{Method: "video", Target: to, Value: path, Caption: caption})
}
func (f *fakeSender) SendPhoto(_ context.Context, to media.Target, path, caption string) error {
	return f.add(sent{Method: "photo", Target: to, Value: path, Caption: caption})
}
func (f *fakeSender) SendPhotoData(_ context.Context, to media.Target, name string, data []byte, caption string) error {
	return f.add(sent{Method: "photo_data", Target: to, Value: name, Caption: caption, Data: data})
}
func (f *fakeSender) SendDocument(_ context.Context, to media.Target, path, caption string) error {
	return f.add(sent{Method: "document", Target: to, Value: path, Caption: caption})
}

func (f *fakeSender) snapshot() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.sent...)
}

func (f *fakeSender) methods() []string {
	var out []string
	for _, s := range f.snapshot() {
		out = append(out, s.Method)
	}
	return out
}

// scriptedExtractor відповідає на кожен URL заздалегідь заданим сценарієм.
type scriptedExtractor struct {
	mu      sync.Mutex
	scripts map[string]script
	calls   []string
}

type script struct {
	files   []string
	entries []yt.Entry
	err     error
	delay   time.Duration
}

func (e *scriptedExtractor) Extract(ctx context.Context, req yt.Request) (*yt.Result, error) {
	e.mu.Lock()
	e.calls = append(e.calls, req.URL)
	sc := e.scripts[req.URL]
	e.mu.Unlock()

	if sc.delay > 0 {
		select {
		case <-time.After(sc.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if sc.err != nil {
		return nil, sc.err
	}
	for _, name := range sc.files {
		if err := os.WriteFile(filepath.Join(req.Dir, name), []byte(name), 0o600); err != nil {
			return nil, err
		}
	}
	return &yt.Result{Entries: sc.entries}, nil
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected %s to be empty, found %d entries", dir, len(entries))
	}
}
