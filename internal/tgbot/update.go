package tgbot

import (
	"github.com/celestix/gotgproto/ext"
)

// UpdateYtdlp — команда /update.
func (r *router) UpdateYtdlp(ctx *ext.Context, u *ext.Update) error {
	if u.EffectiveMessage == nil {
		return nil
	}
	return r.bot.Admin.Update(ctx, &sender{ctx: ctx}, inbound(u))
}
