package telegram

import tele "gopkg.in/telebot.v3"

func (t *Telegram) initButtons() {
	menu.Inline(
		menu.Row(rulesBtn))
}

var (
	menu     = &tele.ReplyMarkup{}
	rulesBtn = menu.Data("Follow-up rules", "rules")
)
