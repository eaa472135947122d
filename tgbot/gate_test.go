package tgbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type fakeAccessStore struct {
	private    bool
	privateErr error
	allowed    map[int64]bool
	allowedErr error
}

func (f *fakeAccessStore) GetPrivateMode(ctx context.Context) (bool, error) {
	return f.private, f.privateErr
}

func (f *fakeAccessStore) IsAllowed(ctx context.Context, userID int64) (bool, error) {
	return f.allowed[userID], f.allowedErr
}

func TestGatePublicMode(t *testing.T) {
	g := NewGate(&fakeAccessStore{}, []int64{1})
	if got := g.Check(context.Background(), 42, false); got != DecisionAllow {
		t.Errorf("public mode stranger = %v, want allow", got)
	}
}

func TestGatePrivateMode(t *testing.T) {
	st := &fakeAccessStore{private: true, allowed: map[int64]bool{7: true}}
	g := NewGate(st, []int64{1})
	ctx := context.Background()

	if got := g.Check(ctx, 1, false); got != DecisionAllow {
		t.Errorf("owner = %v, want allow", got)
	}
	if got := g.Check(ctx, 7, false); got != DecisionAllow {
		t.Errorf("allowed user = %v, want allow", got)
	}
	if got := g.Check(ctx, 42, false); got != DecisionDenyPrivate {
		t.Errorf("stranger = %v, want deny", got)
	}
	if got := g.Check(ctx, 42, true); got != DecisionAllow {
		t.Errorf("stranger on public action = %v, want allow", got)
	}
}

func TestGateFailsClosedOnStoreErrors(t *testing.T) {
	ctx := context.Background()

	g := NewGate(&fakeAccessStore{privateErr: errors.New("down")}, nil)
	if got := g.Check(ctx, 42, false); got != DecisionDenyPrivate {
		t.Errorf("mode lookup failure = %v, want deny", got)
	}

	g = NewGate(&fakeAccessStore{private: true, allowedErr: errors.New("down")}, nil)
	if got := g.Check(ctx, 42, false); got != DecisionDenyPrivate {
		t.Errorf("allow-list failure = %v, want deny", got)
	}
}

func TestGateRateLimit(t *testing.T) {
	g := NewGate(&fakeAccessStore{}, []int64{1})
	ctx := context.Background()

	// burn the burst; the limiter caps at rateActions immediate actions
	for i := 0; i < rateActions; i++ {
		if got := g.Check(ctx, 42, false); got != DecisionAllow {
			t.Fatalf("action %d = %v, want allow", i, got)
		}
	}
	if got := g.Check(ctx, 42, false); got != DecisionDenyRateLimited {
		t.Errorf("over-budget action = %v, want rate limited", got)
	}
	// the limit applies to owners and public actions too
	for i := 0; i < rateActions; i++ {
		g.Check(ctx, 1, false)
	}
	if got := g.Check(ctx, 1, true); got != DecisionDenyRateLimited {
		t.Errorf("over-budget owner = %v, want rate limited", got)
	}
	// other users keep their own budget
	if got := g.Check(ctx, 43, false); got != DecisionAllow {
		t.Errorf("fresh user = %v, want allow", got)
	}
}

func TestDenialTextDistinguishesDecisions(t *testing.T) {
	rlAlert, rlText := denialText(DecisionDenyRateLimited)
	privAlert, privText := denialText(DecisionDenyPrivate)
	if rlAlert == privAlert || rlText == privText {
		t.Error("rate-limit and access denials must read differently")
	}
	if !strings.Contains(rlAlert, "Too many requests") {
		t.Errorf("rate-limit alert = %q", rlAlert)
	}
	if !strings.Contains(privAlert, "Access denied") {
		t.Errorf("access alert = %q", privAlert)
	}
}

func TestMiddlewareDropsNonPrivateMessages(t *testing.T) {
	st := &fakeAccessStore{private: true}
	g := NewGate(st, nil)

	var reached bool
	mw := g.Middleware(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		reached = true
	})

	// a stranger posting in a group must draw no denial and no handler call;
	// nil bot proves no send is attempted on this path
	mw(context.Background(), nil, &models.Update{
		Message: &models.Message{
			From: &models.User{ID: 42},
			Chat: models.Chat{ID: -100, Type: models.ChatTypeGroup},
			Text: "hello",
		},
	})
	if reached {
		t.Error("group message reached the handler")
	}
}

func TestIsOwner(t *testing.T) {
	g := NewGate(&fakeAccessStore{}, []int64{1, 2})
	if !g.IsOwner(1) || !g.IsOwner(2) {
		t.Error("configured owners not recognized")
	}
	if g.IsOwner(3) {
		t.Error("stranger recognized as owner")
	}
}
