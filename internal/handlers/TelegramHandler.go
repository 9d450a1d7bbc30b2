package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"CryptoReportBot/internal/services/analysis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// MaxMessageLength keeps messages under Telegram's 4096 character limit.
const MaxMessageLength = 4000

var ErrChatNotConfigured = errors.New("telegram chat id not configured")

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramHandler answers bot commands and delivers scheduled reports to
// the configured chat.
type TelegramHandler struct {
	bot       BotAPI
	chatID    int64
	analyzer  *AnalysisHandler
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time
}

func NewTelegramHandler(bot BotAPI, chatID int64, analyzer *AnalysisHandler, scheduler *Scheduler, logger *zap.Logger) *TelegramHandler {
	return &TelegramHandler{
		bot:       bot,
		chatID:    chatID,
		analyzer:  analyzer,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// Listen polls for updates until ctx ends.
func (h *TelegramHandler) Listen(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	h.logger.Info("Listening for Telegram commands")
	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate answers a single update. Non-command messages are ignored.
func (h *TelegramHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}
	chatID := msg.Chat.ID

	h.logger.Info("Telegram command",
		zap.String("command", msg.Command()),
		zap.Int64("chatId", chatID))

	switch msg.Command() {
	case "start":
		h.reply(chatID, h.welcomeText())
	case "help":
		h.reply(chatID, helpText)
	case "status":
		h.reply(chatID, h.statusText())
	case "analyze":
		symbol := strings.TrimSpace(msg.CommandArguments())
		if symbol == "" {
			symbol = h.scheduler.Status().PrimarySymbol
		}
		h.reply(chatID, "Generating analysis for "+symbol+"...")

		_, text, err := h.analyzer.Analyze(ctx, symbol)
		if err != nil {
			h.logger.Error("Telegram analysis failed", zap.String("symbol", symbol), zap.Error(err))
			h.reply(chatID, "Analysis failed: "+err.Error())
			return
		}
		h.reply(chatID, text)
	default:
		h.reply(chatID, "Unknown command. Send /help for the command list.")
	}
}

// Publish sends a scheduled report to the configured chat.
func (h *TelegramHandler) Publish(_ context.Context, runID string, r *analysis.Report, text string) error {
	if h.chatID == 0 {
		return ErrChatNotConfigured
	}
	if err := h.send(h.chatID, text); err != nil {
		return fmt.Errorf("telegram delivery of %s: %w", r.Symbol, err)
	}
	h.logger.Info("Report delivered to Telegram", zap.String("runId", runID), zap.String("symbol", r.Symbol))
	return nil
}

func (h *TelegramHandler) reply(chatID int64, text string) {
	if err := h.send(chatID, text); err != nil {
		h.logger.Error("Failed to send Telegram message", zap.Int64("chatId", chatID), zap.Error(err))
	}
}

func (h *TelegramHandler) send(chatID int64, text string) error {
	for _, part := range SplitMessage(text, MaxMessageLength) {
		if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return err
		}
	}
	return nil
}

func (h *TelegramHandler) welcomeText() string {
	return fmt.Sprintf(`Crypto Analysis Bot

Multi-timeframe technical analysis (15m, 1h, 4h, 1d) with key levels,
sentiment scores and an advisory trade matrix.

Commands:
/analyze [SYMBOL] - generate a report
/status - bot status
/help - command guide

Supported symbols: %s`, strings.Join(h.analyzer.Symbols(), ", "))
}

func (h *TelegramHandler) statusText() string {
	status := h.scheduler.Status()

	state := "Stopped"
	if status.Running {
		state = "Active"
	}
	last := "never"
	if !status.LastAnalysis.IsZero() {
		last = status.LastAnalysis.UTC().Format("15:04:05 UTC") + " (" + status.LastSymbol + ")"
	}
	next := "n/a"
	if !status.NextAnalysis.IsZero() {
		next = fmt.Sprintf("~%d minutes", int(status.NextAnalysis.Sub(h.now()).Round(time.Minute).Minutes()))
	}

	return fmt.Sprintf(`Analysis Bot Status

Status: %s
Primary asset: %s
Analysis frequency: every %s
Last update: %s
Next analysis: %s
Data source: Binance Futures`, state, status.PrimarySymbol, status.Interval, last, next)
}

const helpText = `Command Guide

/analyze - report for the primary symbol
/analyze BTC - report for another supported symbol
/status - bot status

Each report contains the anchor candle, the trade matrix for intraday
and swing horizons, key levels, RSI/MACD/OBV signals per timeframe,
sentiment scores, market drivers and risk notes.`

// SplitMessage splits text into parts of at most limit characters,
// breaking on line boundaries. A single longer line is cut hard.
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current []string
	size := 0

	flush := func() {
		if s := strings.TrimRight(strings.Join(current, "\n"), "\n"); s != "" {
			parts = append(parts, s)
		}
		current = current[:0]
		size = 0
	}

	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			parts = append(parts, string(runes[:limit]))
			runes = runes[limit:]
		}

		need := len(runes)
		if len(current) > 0 {
			need++
		}
		if size+need > limit {
			flush()
			need = len(runes)
		}
		current = append(current, string(runes))
		size += need
	}
	flush()

	return parts
}
