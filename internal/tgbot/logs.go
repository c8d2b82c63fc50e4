package tgbot

import (
	"github.com/celestix/gotgproto/ext"
)

// SendLogs — команда /logs.
func (r *router) SendLogs(ctx *ext.Context, u *ext.Update) error {
	if u.EffectiveMessage == nil {
		return nil
	}
	return r.bot.Admin.Logs(ctx, &sender{ctx: ctx}, inbound(u))
}
