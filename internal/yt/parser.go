package yt

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var urlRegexp = regexp.MustCompile(`https?://[^\s]+`)

// MatchHost порівнює саме ім'я хоста, а не підрядок URL:
// youtube.com підходить для www.youtube.com, але не для youtube.com.evil.net.
func MatchHost(rawURL, host string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	name := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	host = strings.ToLower(host)
	return name == host || strings.HasSuffix(name, "."+host)
}

// ExtractLinks повертає посилання на дозволені хости в порядку появи, не більше limit.
func ExtractLinks(text string, hosts []string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	links := lo.Filter(urlRegexp.FindAllString(text, -1), func(u string, _ int) bool {
		return lo.SomeBy(hosts, func(h string) bool { return MatchHost(u, h) })
	})
	if len(links) > limit {
		links = links[:limit]
	}
	return links
}
