package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/pershin-daniil/followups/pkg/models"
	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"
)

// Telegram answers chat commands about the follow-up rules.
type Telegram struct {
	log *logrus.Entry
	bot *tele.Bot
	app App
}

type App interface {
	Rules() []models.SchedulingRule
}

// Notifier posts reminders to a single chat.
type Notifier struct {
	log    *logrus.Entry
	bot    *tele.Bot
	chatID tele.ChatID
}

func NewNotifier(log *logrus.Logger, bot *tele.Bot, chatID int64) *Notifier {
	return &Notifier{
		log:    log.WithField("component", "notifier"),
		bot:    bot,
		chatID: tele.ChatID(chatID),
	}
}

func New(log *logrus.Logger, bot *tele.Bot, app App) *Telegram {
	t := Telegram{
		log: log.WithField("component", "telegram"),
		bot: bot,
		app: app,
	}
	t.initButtons()
	t.initHandlers()
	return &t
}

func NewBot(token string) (*tele.Bot, error) {
	config := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(config)
	if err != nil {
		return nil, fmt.Errorf("new bot failed: %w", err)
	}
	return b, nil
}

func (n *Notifier) Notify(_ context.Context, msg string) error {
	if _, err := n.bot.Send(n.chatID, msg); err != nil {
		return fmt.Errorf("err sending telegram message: %w", err)
	}
	n.log.Debugf("sent reminder to chat %d", n.chatID)
	return nil
}

func (t *Telegram) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		t.bot.Stop()
	}()
	t.log.Infof("Starting telegram bot as %v", t.bot.Me.Username)
	t.bot.Start()
}
