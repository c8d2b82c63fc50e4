package yt

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubExtractor struct {
	res   *Result
	err   error
	calls int
}

func (s *stubExtractor) Extract(context.Context, Request) (*Result, error) {
	s.calls++
	return s.res, s.err
}

func TestChainPrimarySuccess(t *testing.T) {
	primary := &stubExtractor{res: &Result{Title: "ok"}}
	fallback := &stubExtractor{}
	c := NewChain(primary, fallback, []string{"instagram.com"}, zaptest.NewLogger(t))

	res, err := c.Extract(context.Background(), Request{URL: "https://instagram.com/p/1"})
	require.NoError(t, err)
	require.Equal(t, "ok", res.Title)
	require.Zero(t, fallback.calls)
}

func TestChainFallbackOnlyForConfiguredHosts(t *testing.T) {
	primaryErr := errors.New("There is no video in this post")
	primary := &stubExtractor{err: primaryErr}
	fallback := &stubExtractor{res: &Result{Entries: []Entry{{Title: "01", Ext: "jpg"}}}}
	c := NewChain(primary, fallback, []string{"instagram.com"}, zaptest.NewLogger(t))

	res, err := c.Extract(context.Background(), Request{URL: "https://www.instagram.com/p/1"})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)

	_, err = c.Extract(context.Background(), Request{URL: "https://youtu.be/1"})
	require.ErrorIs(t, err, primaryErr)
	require.Equal(t, 1, fallback.calls)
}

func TestChainReportsPrimaryErrorWhenFallbackFails(t *testing.T) {
	primaryErr := errors.New("yt-dlp failed")
	c := NewChain(&stubExtractor{err: primaryErr}, &stubExtractor{err: errors.New("gallery-dl failed")}, []string{"x.com"}, zaptest.NewLogger(t))

	_, err := c.Extract(context.Background(), Request{URL: "https://x.com/a/status/1"})
	require.ErrorIs(t, err, primaryErr)
}

type writingExtractor struct {
	name string
	err  error
	seen []string
}

func (w *writingExtractor) Extract(_ context.Context, req Request) (*Result, error) {
	entries, err := os.ReadDir(req.Dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		w.seen = append(w.seen, e.Name())
	}
	if w.name != "" {
		if err := os.WriteFile(filepath.Join(req.Dir, w.name), []byte("x"), 0o600); err != nil {
			return nil, err
		}
	}
	return &Result{}, w.err
}

func TestChainClearsDirectoryBeforeFallback(t *testing.T) {
	dir := t.TempDir()
	primary := &writingExtractor{name: "Video by user.mp4.part", err: errors.New("no video")}
	fallback := &writingExtractor{}
	c := NewChain(primary, fallback, []string{"instagram.com"}, zaptest.NewLogger(t))

	_, err := c.Extract(context.Background(), Request{URL: "https://instagram.com/p/1", Dir: dir})
	require.NoError(t, err)
	require.Empty(t, fallback.seen)
}

func TestIsSidecar(t *testing.T) {
	require.True(t, IsSidecar("Video by user.mp4.part"))
	require.True(t, IsSidecar("info.JSON"))
	require.False(t, IsSidecar("clip.mp4"))
	require.False(t, IsSidecar("01.jpg"))
}
