package channel

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramMessenger adapts one Telegram bot credential. The same type
// serves both dedicated bots and the shared pairing bot; the mode is
// decided by whoever runs the update loop.
type TelegramMessenger struct {
	bot   *tgbotapi.BotAPI
	botID string
}

func NewTelegramMessenger(token, botID string) (*TelegramMessenger, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramMessenger{bot: bot, botID: botID}, nil
}

func (t *TelegramMessenger) Platform() string {
	return "telegram"
}

// BotName returns the bot's Telegram username.
func (t *TelegramMessenger) BotName() string {
	return t.bot.Self.UserName
}

func (t *TelegramMessenger) Connect(ctx context.Context) (<-chan Update, error) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	tgUpdates := t.bot.GetUpdatesChan(u)

	updates := make(chan Update)
	go func() {
		defer close(updates)
		for {
			select {
			case <-ctx.Done():
				return
			case tgUpdate, ok := <-tgUpdates:
				if !ok {
					return
				}
				if tgUpdate.Message == nil {
					continue
				}
				msg := tgUpdate.Message
				if !sendUpdate(ctx, updates, Update{
					Channel:    "telegram",
					SenderID:   fmt.Sprintf("%d", msg.From.ID),
					SenderName: msg.From.FirstName,
					Username:   msg.From.UserName,
					ChatID:     fmt.Sprintf("%d", msg.Chat.ID),
					Group:      msg.Chat.IsGroup() || msg.Chat.IsSuperGroup(),
					GroupTitle: msg.Chat.Title,
					MessageID:  fmt.Sprintf("%d", msg.MessageID),
					Text:       msg.Text,
					Timestamp:  time.Unix(int64(msg.Date), 0),
					BotID:      t.botID,
				}) {
					return
				}
			}
		}
	}()
	return updates, nil
}

func (t *TelegramMessenger) Disconnect() error {
	t.bot.StopReceivingUpdates()
	return nil
}

func (t *TelegramMessenger) Send(chatID string, r Reply) error {
	var id int64
	fmt.Sscanf(chatID, "%d", &id)
	msg := tgbotapi.NewMessage(id, r.Text)
	if _, err := t.bot.Send(msg); err != nil {
		return err
	}
	for _, m := range r.Media {
		if m.Type != "image" {
			continue
		}
		photo := tgbotapi.NewPhoto(id, tgbotapi.FileURL(m.URL))
		photo.Caption = m.Caption
		if _, err := t.bot.Send(photo); err != nil {
			return err
		}
	}
	return nil
}

func (t *TelegramMessenger) Typing(chatID string) error {
	var id int64
	fmt.Sscanf(chatID, "%d", &id)
	_, err := t.bot.Request(tgbotapi.NewChatAction(id, tgbotapi.ChatTyping))
	return err
}
