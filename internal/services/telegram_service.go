package services

import (
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessengerNotifier is the instant-message channel for task
// notifications. The "to" address is a telegram chat id.
type MessengerNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewMessengerNotifier(botToken string) (*MessengerNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	log.Printf("[tg] authorized as @%s", bot.Self.UserName)
	return &MessengerNotifier{bot: bot}, nil
}

func (s *MessengerNotifier) Send(to, subject, body string) error {
	if s == nil || s.bot == nil {
		return nil
	}
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil || chatID == 0 {
		return fmt.Errorf("invalid chat id %q", to)
	}
	msg := tgbotapi.NewMessage(chatID, subject+"\n"+body)
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
