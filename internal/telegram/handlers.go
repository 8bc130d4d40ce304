package telegram

import (
	"fmt"
	"strings"

	"github.com/pershin-daniil/followups/pkg/models"
	tele "gopkg.in/telebot.v3"
)

const (
	cmdStart = "/start"
	cmdRules = "/rules"
)

func (t *Telegram) initHandlers() {
	t.bot.Handle(cmdStart, t.startHandler)
	t.bot.Handle(cmdRules, t.rulesHandler)
	t.bot.Handle(&rulesBtn, t.rulesButtonHandler)
}

func (t *Telegram) startHandler(ctx tele.Context) error {
	msg := fmt.Sprintf("Follow-up reminders will be posted here once TG_CHAT_ID is set to %d.", ctx.Chat().ID)
	return ctx.Send(msg, menu)
}

func (t *Telegram) rulesHandler(ctx tele.Context) error {
	return ctx.Send(formatRules(t.app.Rules()))
}

func (t *Telegram) rulesButtonHandler(ctx tele.Context) error {
	return ctx.Edit(formatRules(t.app.Rules()), menu)
}

func formatRules(rules []models.SchedulingRule) string {
	if len(rules) == 0 {
		return "No follow-up rules configured."
	}
	var b strings.Builder
	for i, rule := range rules {
		if i > 0 {
			b.WriteString("\n")
		}
		state := "on"
		if !rule.Enabled {
			state = "off"
		}
		fmt.Fprintf(&b, "%s [%s]: %d min, %s-%s",
			rule.Name, state, rule.MeetingTemplate.Duration,
			rule.Scheduling.WorkingHours.Start, rule.Scheduling.WorkingHours.End)
	}
	return b.String()
}
