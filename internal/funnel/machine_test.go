package funnel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miralteam/funnelbot/internal/content"
	"github.com/miralteam/funnelbot/internal/funnel/scheduler"
	"github.com/miralteam/funnelbot/internal/funnel/session"
	"github.com/miralteam/funnelbot/internal/lead"
)

type fakeGateway struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (g *fakeGateway) Send(_ context.Context, _ int64, msg content.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errors.New("gateway down")
	}
	g.sent = append(g.sent, msg.Key)
	return nil
}

func (g *fakeGateway) keys() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.sent))
	copy(out, g.sent)
	return out
}

func (g *fakeGateway) count(key string) int {
	n := 0
	for _, k := range g.keys() {
		if k == key {
			n++
		}
	}
	return n
}

func (g *fakeGateway) waitFor(t *testing.T, key string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if g.count(key) > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("message %q was not sent, got %v", key, g.keys())
}

type fakeSink struct {
	mu    sync.Mutex
	leads []lead.Lead
	fail  bool
}

func (s *fakeSink) Save(_ context.Context, l lead.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink down")
	}
	s.leads = append(s.leads, l)
	return nil
}

func (s *fakeSink) Recent(_ context.Context, _ int) ([]lead.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lead.Lead, len(s.leads))
	copy(out, s.leads)
	return out, nil
}

func (s *fakeSink) Close() error { return nil }

func newTestMachine(t *testing.T, gw *fakeGateway, sink lead.Sink) (*Machine, *session.Store) {
	t.Helper()
	sessions := session.NewStore()
	sched := scheduler.New()
	t.Cleanup(sched.Stop)
	m := New(Config{
		FirstFollowupDelay: 30 * time.Millisecond,
		StepDelay:          30 * time.Millisecond,
	}, content.New(), sessions, sched, gw, sink)
	return m, sessions
}

func TestStartEscalatesToCase(t *testing.T) {
	gw := &fakeGateway{}
	m, _ := newTestMachine(t, gw, &fakeSink{})
	ctx := context.Background()

	require.NoError(t, m.HandleStart(ctx, 1))
	gw.waitFor(t, content.KeyFirstFollowup)
	gw.waitFor(t, content.KeyCase)

	assert.Equal(t, 1, gw.count(content.KeyWelcome))
	assert.Equal(t, 1, gw.count(content.KeyFirstFollowup))
	assert.Equal(t, 1, gw.count(content.KeyCase))
	assert.Len(t, gw.keys(), 3)
}

func TestVideoButtonSilencesStartChain(t *testing.T) {
	gw := &fakeGateway{}
	m, _ := newTestMachine(t, gw, &fakeSink{})
	ctx := context.Background()

	require.NoError(t, m.HandleStart(ctx, 1))
	require.NoError(t, m.HandleButton(ctx, 1, content.BtnGetVideo))

	gw.waitFor(t, content.KeyVideoFollowup)
	assert.Equal(t, 0, gw.count(content.KeyFirstFollowup), "start chain must not fire after engagement")
	assert.Equal(t, 1, gw.count(content.KeyVideo))
}

func TestFullFormRound(t *testing.T) {
	gw := &fakeGateway{}
	sink := &fakeSink{}
	m, sessions := newTestMachine(t, gw, sink)
	ctx := context.Background()

	require.NoError(t, m.HandleButton(ctx, 1, content.BtnWantConsultation))
	assert.Equal(t, session.StateAwaitingName, sessions.State(1))
	assert.Equal(t, []string{content.KeyConsultationIntro, content.KeyAskName}, gw.keys())

	require.NoError(t, m.HandleText(ctx, 1, "Иван"))
	assert.Equal(t, session.StateAwaitingContact, sessions.State(1))

	require.NoError(t, m.HandleText(ctx, 1, "@ivan"))
	assert.Equal(t, session.StateAwaitingComment, sessions.State(1))

	require.NoError(t, m.HandleText(ctx, 1, "хочу контроль звонков"))
	assert.Equal(t, session.StateDefault, sessions.State(1))
	assert.Equal(t, 1, gw.count(content.KeyConfirmation))

	require.Len(t, sink.leads, 1)
	l := sink.leads[0]
	assert.Equal(t, content.RequestConsultation, l.RequestType)
	assert.Equal(t, "Иван", l.Name)
	assert.Equal(t, "@ivan", l.Contact)
	assert.Equal(t, "хочу контроль звонков", l.Comment)
	assert.Equal(t, int64(1), l.UserID)
	assert.False(t, l.CreatedAt.IsZero())
}

func TestGuardedCaseSkippedWhenMidForm(t *testing.T) {
	gw := &fakeGateway{}
	m, sessions := newTestMachine(t, gw, &fakeSink{})
	ctx := context.Background()

	// Enter the form, then request content mid-form: the presentation
	// arms a guarded case timer while the session is not idle.
	require.NoError(t, m.HandleButton(ctx, 1, content.BtnWantConsultation))
	require.NoError(t, m.HandleButton(ctx, 1, content.BtnGetPresentation))
	require.Equal(t, session.StateAwaitingName, sessions.State(1))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, gw.count(content.KeyPresentationCase), "guarded step must skip for an engaged user")
}

func TestContentButtonMidFormKeepsFormState(t *testing.T) {
	gw := &fakeGateway{}
	m, sessions := newTestMachine(t, gw, &fakeSink{})
	ctx := context.Background()

	require.NoError(t, m.HandleButton(ctx, 1, content.BtnWantAudit))
	require.NoError(t, m.HandleText(ctx, 1, "Анна"))
	require.Equal(t, session.StateAwaitingContact, sessions.State(1))

	require.NoError(t, m.HandleButton(ctx, 1, content.BtnGetPresentation))
	assert.Equal(t, session.StateAwaitingContact, sessions.State(1), "content press must not touch the form")
	assert.Equal(t, 1, gw.count(content.KeyPresentation))

	// Form still completes with the original request type.
	require.NoError(t, m.HandleText(ctx, 1, "+79990000000"))
	require.NoError(t, m.HandleText(ctx, 1, "6 менеджеров"))
	assert.Equal(t, session.StateDefault, sessions.State(1))
}

func TestFormStartIgnoredWhileMidForm(t *testing.T) {
	gw := &fakeGateway{}
	sink := &fakeSink{}
	m, sessions := newTestMachine(t, gw, sink)
	ctx := context.Background()

	require.NoError(t, m.HandleButton(ctx, 1, content.BtnWantConsultation))
	require.NoError(t, m.HandleText(ctx, 1, "Иван"))

	// A second form entry point must not restart the dialogue.
	require.NoError(t, m.HandleButton(ctx, 1, content.BtnWantAudit))
	assert.Equal(t, session.StateAwaitingContact, sessions.State(1))
	assert.Equal(t, 0, gw.count(content.KeyAuditIntro))
	assert.Equal(t, 1, gw.count(content.KeyAskName))

	require.NoError(t, m.HandleText(ctx, 1, "@ivan"))
	require.NoError(t, m.HandleText(ctx, 1, "комментарий"))
	require.Len(t, sink.leads, 1)
	assert.Equal(t, content.RequestConsultation, sink.leads[0].RequestType)
}

func TestUnknownButton(t *testing.T) {
	gw := &fakeGateway{}
	m, _ := newTestMachine(t, gw, &fakeSink{})

	err := m.HandleButton(context.Background(), 1, "bogus")
	assert.ErrorIs(t, err, ErrUnknownButton)
	assert.Empty(t, gw.keys())
}

func TestUnrecognizedTextInDefault(t *testing.T) {
	gw := &fakeGateway{}
	m, _ := newTestMachine(t, gw, &fakeSink{})

	require.NoError(t, m.HandleText(context.Background(), 1, "привет"))
	assert.Equal(t, []string{content.KeyUnrecognized}, gw.keys())
}

func TestSinkFailureStillConfirms(t *testing.T) {
	gw := &fakeGateway{}
	sink := &fakeSink{fail: true}
	m, sessions := newTestMachine(t, gw, sink)
	ctx := context.Background()

	require.NoError(t, m.HandleButton(ctx, 1, content.BtnWantSame))
	require.NoError(t, m.HandleText(ctx, 1, "Иван"))
	require.NoError(t, m.HandleText(ctx, 1, "@ivan"))
	require.NoError(t, m.HandleText(ctx, 1, "коммент"))

	assert.Equal(t, 1, gw.count(content.KeyConfirmation))
	assert.Equal(t, session.StateDefault, sessions.State(1))
}

func TestUsersDoNotInterfere(t *testing.T) {
	gw := &fakeGateway{}
	m, sessions := newTestMachine(t, gw, &fakeSink{})
	ctx := context.Background()

	require.NoError(t, m.HandleButton(ctx, 1, content.BtnWantConsultation))
	require.NoError(t, m.HandleStart(ctx, 2))

	assert.Equal(t, session.StateAwaitingName, sessions.State(1))
	assert.Equal(t, session.StateDefault, sessions.State(2))

	gw.waitFor(t, content.KeyFirstFollowup)
	assert.Equal(t, session.StateAwaitingName, sessions.State(1))
}

func TestPresentationCaseGuarded(t *testing.T) {
	gw := &fakeGateway{}
	m, _ := newTestMachine(t, gw, &fakeSink{})
	ctx := context.Background()

	require.NoError(t, m.HandleButton(ctx, 1, content.BtnGetPresentation))
	gw.waitFor(t, content.KeyPresentationCase)
	assert.Equal(t, 1, gw.count(content.KeyPresentationCase))
}
