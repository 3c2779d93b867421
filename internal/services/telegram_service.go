package services

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramService is an optional notification channel for users who
// linked a Telegram chat. A nil *TelegramService is safe to call.
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	dryRun bool
}

func NewTelegramService(botToken string, dryRun bool) (*TelegramService, error) {
	if botToken == "" {
		return nil, nil
	}
	if dryRun {
		return &TelegramService{dryRun: true}, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &TelegramService{bot: bot}, nil
}

func (s *TelegramService) Notify(chatID int64, text string) error {
	if s == nil || chatID == 0 {
		return nil
	}
	if s.dryRun {
		log.Printf("[tg][dry-run] chat=%d text=%q", chatID, text)
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := s.bot.Send(msg)
	return err
}
