package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/miralteam/funnelbot/core/logger"
	"github.com/miralteam/funnelbot/core/telegram/keyboard"
	"github.com/miralteam/funnelbot/core/telegram/sender"
	"github.com/miralteam/funnelbot/internal/content"
	"log/slog"
)

// ErrGatewayNotReady is returned when a send is attempted before the bot
// has been constructed.
var ErrGatewayNotReady = errors.New("app: telegram gateway not ready")

// TelegramGateway delivers catalog messages over telebot. Sends go
// through the async dispatcher so timer callbacks and handlers never
// block on the Telegram API.
type TelegramGateway struct {
	bot       atomic.Pointer[tele.Bot]
	disp      atomic.Pointer[sender.Dispatcher]
	assetsDir string
}

// NewTelegramGateway builds a gateway; Bind must be called once the bot
// and dispatcher exist.
func NewTelegramGateway(assetsDir string) *TelegramGateway {
	return &TelegramGateway{assetsDir: assetsDir}
}

// Bind attaches the live bot and dispatcher.
func (g *TelegramGateway) Bind(bot *tele.Bot, disp *sender.Dispatcher) {
	g.bot.Store(bot)
	g.disp.Store(disp)
}

// Send delivers one catalog message to the user. Photo messages fall
// back to text-only when the asset file is missing.
func (g *TelegramGateway) Send(ctx context.Context, userID int64, msg content.Message) error {
	bot := g.bot.Load()
	if bot == nil {
		return ErrGatewayNotReady
	}

	to := tele.ChatID(userID)
	markup := buildMarkup(msg.Buttons)
	textOpts := &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		ReplyMarkup:           markup,
		DisableWebPagePreview: msg.NoPreview,
	}

	photoPath := g.assetPath(msg.MediaKey)

	run := func() error {
		if photoPath != "" && msg.MediaCaption != "" {
			// Short captioned photo first, full text with buttons after.
			photo := &tele.Photo{File: tele.FromDisk(photoPath), Caption: msg.MediaCaption}
			if _, err := bot.Send(to, photo, &tele.SendOptions{ParseMode: tele.ModeHTML}); err != nil {
				return err
			}
			_, err := bot.Send(to, msg.Text, textOpts)
			return err
		}
		if photoPath != "" {
			photo := &tele.Photo{File: tele.FromDisk(photoPath), Caption: msg.Text}
			_, err := bot.Send(to, photo, &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: markup})
			return err
		}
		_, err := bot.Send(to, msg.Text, textOpts)
		return err
	}

	disp := g.disp.Load()
	if disp == nil {
		return run()
	}
	if err := disp.Enqueue(ctx, "send."+msg.Key, "sendMessage", run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", "send."+msg.Key),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// assetPath resolves a media key to a readable file, or "" when media is
// disabled or the file is absent.
func (g *TelegramGateway) assetPath(mediaKey string) string {
	if g.assetsDir == "" || mediaKey == "" {
		return ""
	}
	p := filepath.Join(g.assetsDir, mediaKey)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func buildMarkup(rows [][]content.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	btnRows := make([][]keyboard.InlineBtn, len(rows))
	for i, row := range rows {
		r := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			r[j] = keyboard.InlineBtn{Text: b.Label, Unique: b.Key}
		}
		btnRows[i] = r
	}
	return keyboard.InlineButtonsRows(btnRows...)
}
