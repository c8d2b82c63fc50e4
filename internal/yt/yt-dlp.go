package yt

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const outputTemplate = "%(title)s.%(ext)s"

type YtDlp struct {
	bin string
	log *zap.Logger
}

func NewYtDlp(bin string, log *zap.Logger) *YtDlp {
	return &YtDlp{bin: bin, log: log}
}

func (y *YtDlp) args(req Request) []string {
	args := []string{
		"-f", req.Format,
		"--no-playlist",
		"--no-progress",
		"--dump-single-json",
		"--no-simulate",
		"--output", filepath.Join(req.Dir, outputTemplate),
	}
	if req.CookieFile != "" {
		args = append(args, "--cookies", req.CookieFile)
	}
	return append(args, req.URL)
}

func (y *YtDlp) Extract(ctx context.Context, req Request) (*Result, error) {
	cmd := exec.CommandContext(ctx, y.bin, y.args(req)...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		y.log.Warn("yt-dlp error", zap.String("url", req.URL), zap.Error(err), zap.String("output", stderr.String()))
		return nil, errors.Wrap(ErrExtractor, lastLine(stderr.String(), err.Error()))
	}
	y.log.Info("yt-dlp download successful", zap.String("url", req.URL))
	return parseInfo(out)
}

// parseInfo розбирає JSON, який друкує --dump-single-json після завантаження.
func parseInfo(data []byte) (*Result, error) {
	data = []byte(strings.TrimSpace(string(data)))
	if !gjson.ValidBytes(data) {
		return nil, errors.New("yt-dlp повернув некоректний JSON")
	}
	info := gjson.ParseBytes(data)
	res := &Result{
		ID:       info.Get("id").String(),
		Title:    info.Get("title").String(),
		Ext:      info.Get("ext").String(),
		Filepath: reportedPath(info),
	}
	if info.Get("_type").String() == "playlist" || info.Get("entries").Exists() {
		for _, e := range info.Get("entries").Array() {
			if e.Type == gjson.Null {
				continue
			}
			res.Entries = append(res.Entries, Entry{
				Title:    e.Get("title").String(),
				Ext:      e.Get("ext").String(),
				Filepath: reportedPath(e),
			})
		}
	}
	return res, nil
}

func reportedPath(info gjson.Result) string {
	for _, path := range []string{"requested_downloads.0.filepath", "filepath", "_filename", "filename"} {
		if v := info.Get(path).String(); v != "" {
			return v
		}
	}
	return ""
}

// lastLine бере останній непорожній рядок stderr — зазвичай там "ERROR: ...".
func lastLine(output, fallback string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return fallback
}
