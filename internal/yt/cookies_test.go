package yt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Geergon/yt-dlp-linkbot/internal/config"
	"github.com/stretchr/testify/require"
)

func TestCookieJarSelect(t *testing.T) {
	dir := t.TempDir()
	yt := filepath.Join(dir, "yt.txt")
	insta := filepath.Join(dir, "insta.txt")
	require.NoError(t, os.WriteFile(yt, []byte("# Netscape HTTP Cookie File\n"), 0o600))

	jar := NewCookieJar([]config.CookieRule{
		{Host: "instagram.com", File: insta}, // файлу немає
		{Host: "youtube.com", File: yt},
		{Host: "youtu.be", File: yt},
	})

	require.Equal(t, yt, jar.Select("https://www.youtube.com/watch?v=1"))
	require.Equal(t, yt, jar.Select("https://youtu.be/1"))
	require.Empty(t, jar.Select("https://www.instagram.com/p/1"))
	require.Empty(t, jar.Select("https://tiktok.com/@a/video/1"))
}

func TestCookieJarFirstExistingMatchWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	for _, f := range []string{first, second} {
		require.NoError(t, os.WriteFile(f, nil, 0o600))
	}

	jar := NewCookieJar([]config.CookieRule{
		{Host: "youtube.com", File: first},
		{Host: "youtube.com", File: second},
	})
	require.Equal(t, first, jar.Select("https://youtube.com/shorts/1"))
}
