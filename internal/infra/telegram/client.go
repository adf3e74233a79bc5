// internal/infra/telegram/client.go
package telegram

import (
	"strings"
	"unicode/utf8"

	"gopkg.in/telebot.v3"
)

// maxMessageLength is Telegram's limit for a single text message.
const maxMessageLength = 4096

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends text to a user or group chat, splitting it on line boundaries when it is
// longer than one message allows.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	recipient := telebot.ChatID(chatID)
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if _, err := tba.bot.Send(recipient, chunk, options); err != nil {
			return err
		}
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit bytes, preferring line breaks. A single
// line longer than limit is cut at the last rune boundary that fits.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			cut := runeCut(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// runeCut returns the largest n <= limit such that line[:n] ends on a rune boundary. It never
// returns zero, so a limit smaller than the first rune still makes progress.
func runeCut(line string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	if cut == 0 {
		_, cut = utf8.DecodeRuneInString(line)
	}
	return cut
}
