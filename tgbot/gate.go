package tgbot

import (
	"context"
	"strings"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"github.com/suzume/renamebot/tool"
)

// Decision is the outcome of the gate pipeline for one update.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionDenyPrivate
	DecisionDenyRateLimited
)

const (
	rateWindow  = time.Minute
	rateActions = 10
	limiterTTL  = 10 * time.Minute
)

// accessStore is the slice of the persistent store the gate needs.
type accessStore interface {
	GetPrivateMode(ctx context.Context) (bool, error)
	IsAllowed(ctx context.Context, userID int64) (bool, error)
}

// Gate is the middleware pipeline in front of every handler: rate limit
// first, then the private-mode/allow-list check. Each stage returns an
// explicit decision instead of conditionally invoking a wrapped callable.
type Gate struct {
	store  accessStore
	owners map[int64]bool

	mu       sync.Mutex
	limiters *ttlworker.Cache[int64, *rate.Limiter]
}

func NewGate(store accessStore, owners []int64) *Gate {
	g := &Gate{
		store:    store,
		owners:   make(map[int64]bool, len(owners)),
		limiters: ttlworker.NewCache[int64, *rate.Limiter](limiterTTL),
	}
	for _, id := range owners {
		g.owners[id] = true
	}
	return g
}

// IsOwner reports whether the user is a configured owner.
func (g *Gate) IsOwner(userID int64) bool {
	return g.owners[userID]
}

// Check runs the pipeline for a user action. public marks actions that skip
// the access stage (/start, deep-link redemption) but still count against
// the rate limit.
func (g *Gate) Check(ctx context.Context, userID int64, public bool) Decision {
	if !g.limiter(userID).Allow() {
		return DecisionDenyRateLimited
	}
	if g.owners[userID] || public {
		return DecisionAllow
	}
	private, err := g.store.GetPrivateMode(ctx)
	if err != nil {
		tool.DefaultLogger.Errorf("[Gate] Private mode lookup failed: %v", err)
		// fail closed: an unreadable store must not open a private bot
		return DecisionDenyPrivate
	}
	if !private {
		return DecisionAllow
	}
	allowed, err := g.store.IsAllowed(ctx, userID)
	if err != nil {
		tool.DefaultLogger.Errorf("[Gate] Allow-list lookup failed: %v", err)
		return DecisionDenyPrivate
	}
	if allowed {
		return DecisionAllow
	}
	return DecisionDenyPrivate
}

func (g *Gate) limiter(userID int64) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	lim := g.limiters.Get(userID)
	if lim == nil {
		lim = rate.NewLimiter(rate.Every(rateWindow/rateActions), rateActions)
		g.limiters.Set(userID, lim)
	}
	return lim
}

// Middleware adapts the gate to the bot's handler chain. Denied updates are
// answered with the decision's notice and never reach the wrapped handler.
// Group and channel messages are dropped silently: the router ignores them
// anyway, and a denial post into a foreign chat would be noise.
func (g *Gate) Middleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		userID := userIDFromUpdate(update)
		if userID == 0 {
			return
		}
		if update.Message != nil && update.Message.Chat.Type != models.ChatTypePrivate {
			return
		}
		decision := g.Check(ctx, userID, isPublicUpdate(update))
		if decision == DecisionAllow {
			next(ctx, b, update)
			return
		}
		alert, text := denialText(decision)
		g.deny(ctx, b, update, alert, text)
	}
}

// denialText maps a deny decision to its callback alert and message text.
func denialText(d Decision) (alert, text string) {
	if d == DecisionDenyRateLimited {
		return "Too many requests. Slow down and try again in a minute.",
			"**⏳ Too many requests. Slow down and try again in a minute.**"
	}
	return "Access denied.",
		"**🚫 Access denied.**\nThis bot is private. Ask the owner to allow your id."
}

func (g *Gate) deny(ctx context.Context, b *bot.Bot, update *models.Update, alert, text string) {
	if update.CallbackQuery != nil {
		_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
			Text:            alert,
			ShowAlert:       true,
		})
		if err != nil {
			tool.DefaultLogger.Debugf("[Gate] Callback denial failed: %v", err)
		}
		return
	}
	chatID := chatIDFromUpdate(update)
	if chatID == 0 {
		return
	}
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		tool.DefaultLogger.Debugf("[Gate] Denial message failed: %v", err)
	}
}

// isPublicUpdate marks the updates everyone may trigger: /start with or
// without a deep-link token.
func isPublicUpdate(update *models.Update) bool {
	if update.Message == nil {
		return false
	}
	text := strings.TrimSpace(update.Message.Text)
	return text == "/start" || strings.HasPrefix(text, "/start ")
}
