package yt

import (
	"os"

	"github.com/Geergon/yt-dlp-linkbot/internal/config"
)

type CookieJar struct {
	rules []config.CookieRule
}

func NewCookieJar(rules []config.CookieRule) *CookieJar {
	return &CookieJar{rules: rules}
}

// Select повертає перший файл cookies, чий хост збігається з URL і який існує на диску.
// Відсутній файл просто вимикає cookies для цього хоста.
func (j *CookieJar) Select(rawURL string) string {
	for _, rule := range j.rules {
		if !MatchHost(rawURL, rule.Host) {
			continue
		}
		if stat, err := os.Stat(rule.File); err == nil && !stat.IsDir() {
			return rule.File
		}
	}
	return ""
}
