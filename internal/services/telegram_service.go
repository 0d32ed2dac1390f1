package services

import (
	"fmt"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramService — push уведомлений в операционный канал (опционально).
// Nil-safe: без токена/чата все вызовы — no-op.
type TelegramService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	dryRun bool
}

func NewTelegramService(botToken string, chatID int64, dryRun bool) *TelegramService {
	if botToken == "" || chatID == 0 {
		return nil
	}
	client := &http.Client{Timeout: 10 * time.Second}
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		log.Printf("[tg][init] bot init failed: %v", err)
		return nil
	}
	return &TelegramService{bot: bot, chatID: chatID, dryRun: dryRun}
}

func (t *TelegramService) Notify(title, message string) error {
	if t == nil || t.bot == nil {
		return nil
	}
	text := fmt.Sprintf("%s\n%s", title, message)
	if t.dryRun {
		log.Printf("[tg][dry-run] chat_id=%d text=%q", t.chatID, text)
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
