package tgbot

import (
	"testing"

	"github.com/Geergon/yt-dlp-linkbot/internal/media"
	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/require"
)

func TestLargestSize(t *testing.T) {
	photo := &tg.Photo{Sizes: []tg.PhotoSizeClass{
		&tg.PhotoStrippedSize{Type: "i"},
		&tg.PhotoSize{Type: "m", W: 320, H: 240},
		&tg.PhotoSizeProgressive{Type: "y", W: 1280, H: 960},
		&tg.PhotoSize{Type: "x", W: 800, H: 600},
	}}
	require.Equal(t, "y", largestSize(photo))
	require.Empty(t, largestSize(&tg.Photo{}))
}

func TestReplyTo(t *testing.T) {
	require.Nil(t, replyTo(media.Target{ChatID: 1}))
	require.Equal(t, &tg.InputReplyToMessage{ReplyToMsgID: 5}, replyTo(media.Target{ChatID: 1, MessageID: 5}))
}
