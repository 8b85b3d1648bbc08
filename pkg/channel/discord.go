package channel

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordMessenger adapts one Discord bot credential. Discord bots are
// always dedicated: one credential per agent.
type DiscordMessenger struct {
	session *discordgo.Session
	botID   string
	updates chan Update
}

func NewDiscordMessenger(token, botID string) (*DiscordMessenger, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &DiscordMessenger{session: dg, botID: botID}, nil
}

func (d *DiscordMessenger) Platform() string {
	return "discord"
}

func (d *DiscordMessenger) Connect(ctx context.Context) (<-chan Update, error) {
	d.updates = make(chan Update)

	// discordgo fires handlers on its own goroutines, so the send must
	// not block past shutdown and the channel is never closed here: an
	// in-flight handler racing a close would panic.
	remove := d.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author.ID == s.State.User.ID {
			return
		}
		sendUpdate(ctx, d.updates, Update{
			Channel:    "discord",
			SenderID:   m.Author.ID,
			SenderName: m.Author.GlobalName,
			Username:   m.Author.Username,
			ChatID:     m.ChannelID,
			Group:      m.GuildID != "",
			MessageID:  m.ID,
			Text:       m.Content,
			Timestamp:  time.Now(),
			BotID:      d.botID,
		})
	})

	if err := d.session.Open(); err != nil {
		remove()
		return nil, err
	}

	go func() {
		<-ctx.Done()
		remove()
		d.session.Close()
	}()
	return d.updates, nil
}

func (d *DiscordMessenger) Disconnect() error {
	return d.session.Close()
}

func (d *DiscordMessenger) Send(chatID string, r Reply) error {
	if _, err := d.session.ChannelMessageSend(chatID, r.Text); err != nil {
		return err
	}
	for _, m := range r.Media {
		embed := &discordgo.MessageEmbed{Description: m.Caption}
		if m.Type == "image" {
			embed.Image = &discordgo.MessageEmbedImage{URL: m.URL}
		} else {
			embed.URL = m.URL
		}
		if _, err := d.session.ChannelMessageSendEmbed(chatID, embed); err != nil {
			return err
		}
	}
	return nil
}

func (d *DiscordMessenger) Typing(chatID string) error {
	return d.session.ChannelTyping(chatID)
}
