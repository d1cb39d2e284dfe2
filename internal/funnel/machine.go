// Package funnel implements the conversational funnel: the per-user
// state machine, the escalation chain of delayed follow-ups, and the
// contact form that turns an engaged user into a lead.
package funnel

import (
	"context"
	"errors"
	"time"

	"github.com/miralteam/funnelbot/core/logger"
	"github.com/miralteam/funnelbot/internal/content"
	"github.com/miralteam/funnelbot/internal/funnel/scheduler"
	"github.com/miralteam/funnelbot/internal/funnel/session"
	"github.com/miralteam/funnelbot/internal/lead"
	"log/slog"
)

// ErrUnknownButton is returned for callback keys the funnel does not
// recognise. Callers are expected to swallow it silently.
var ErrUnknownButton = errors.New("funnel: unknown button key")

// Gateway delivers outbound messages to the chat transport.
type Gateway interface {
	Send(ctx context.Context, userID int64, msg content.Message) error
}

// Config carries the two funnel delays: D1 before the first follow-up
// and D2 between every later escalation step.
type Config struct {
	FirstFollowupDelay time.Duration
	StepDelay          time.Duration
}

// Machine drives the funnel. All per-user decisions run under the
// session store's user lock; sends and sink writes are decided there but
// executed after the lock is released.
type Machine struct {
	cfg      Config
	catalog  *content.Catalog
	sessions *session.Store
	sched    *scheduler.Scheduler
	gw       Gateway
	sink     lead.Sink
}

// New assembles a machine. The sink may be nil for dry runs; completed
// forms are then only logged.
func New(cfg Config, catalog *content.Catalog, sessions *session.Store, sched *scheduler.Scheduler, gw Gateway, sink lead.Sink) *Machine {
	if cfg.FirstFollowupDelay <= 0 {
		cfg.FirstFollowupDelay = time.Hour
	}
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = 5 * time.Minute
	}
	return &Machine{
		cfg:      cfg,
		catalog:  catalog,
		sessions: sessions,
		sched:    sched,
		gw:       gw,
		sink:     sink,
	}
}

// HandleStart processes the /start command: welcome message plus the
// one-hour follow-up timer. Session state is left as is; a user
// restarting mid-form keeps their form progress.
func (m *Machine) HandleStart(ctx context.Context, userID int64) error {
	err := m.send(ctx, userID, content.KeyWelcome)
	m.sched.Schedule(userID, scheduler.FirstFollowup, m.cfg.FirstFollowupDelay, func() {
		m.fireFirstFollowup(userID)
	})
	return err
}

// HandleText processes free-form text according to the user's dialogue
// state. Form progression cancels any pending escalation.
func (m *Machine) HandleText(ctx context.Context, userID int64, text string) error {
	var (
		sendKeys []string
		saveLead *lead.Lead
	)

	m.sessions.Update(userID, func(s *session.Session) {
		switch s.State {
		case session.StateAwaitingName:
			m.sched.CancelAll(userID)
			s.Form.Name = text
			s.State = session.StateAwaitingContact
			sendKeys = append(sendKeys, content.KeyAskContact)
		case session.StateAwaitingContact:
			m.sched.CancelAll(userID)
			s.Form.Contact = text
			s.State = session.StateAwaitingComment
			sendKeys = append(sendKeys, content.KeyAskComment)
		case session.StateAwaitingComment:
			m.sched.CancelAll(userID)
			s.Form.Comment = text
			saveLead = &lead.Lead{
				RequestType: s.Form.RequestType,
				Name:        s.Form.Name,
				Contact:     s.Form.Contact,
				Comment:     s.Form.Comment,
				UserID:      userID,
				CreatedAt:   time.Now().UTC(),
			}
			sendKeys = append(sendKeys, content.KeyConfirmation)
			s.Reset()
		default:
			sendKeys = append(sendKeys, content.KeyUnrecognized)
		}
	})

	if saveLead != nil {
		m.saveLead(ctx, *saveLead)
	}
	return m.send(ctx, userID, sendKeys...)
}

// HandleButton processes an inline button press. Every press first
// silences the whole pending escalation chain for the user.
func (m *Machine) HandleButton(ctx context.Context, userID int64, key string) error {
	m.sched.CancelAll(userID)

	switch key {
	case content.BtnGetVideo:
		return m.sendVideo(ctx, userID)
	case content.BtnGetPresentation, content.BtnWantPresentation, content.BtnVideoWantPresentation:
		return m.sendPresentation(ctx, userID)
	case content.BtnWantConsultation, content.BtnVideoWantConsultation:
		return m.startForm(ctx, userID, content.RequestConsultation, content.KeyConsultationIntro)
	case content.BtnWantCalculation, content.BtnVideoWantCalculation,
		content.BtnVideoNeedAudit, content.BtnPresentationNeedAudit:
		return m.startForm(ctx, userID, content.RequestCalculation, content.KeyCalculationIntro)
	case content.BtnWantAudit:
		return m.startForm(ctx, userID, content.RequestAudit, content.KeyAuditIntro)
	case content.BtnWantSame:
		return m.startForm(ctx, userID, content.RequestCaseSame, "")
	case content.BtnWantCalculationCase:
		return m.startForm(ctx, userID, content.RequestCaseCalculation, "")
	default:
		return ErrUnknownButton
	}
}

// Stop cancels all pending timers. Used on shutdown.
func (m *Machine) Stop() {
	m.sched.Stop()
}

func (m *Machine) sendVideo(ctx context.Context, userID int64) error {
	err := m.send(ctx, userID, content.KeyVideo)
	m.sched.Schedule(userID, scheduler.FollowupAfterVideo, m.cfg.StepDelay, func() {
		m.fireFollowupAfterVideo(userID)
	})
	return err
}

func (m *Machine) sendPresentation(ctx context.Context, userID int64) error {
	err := m.send(ctx, userID, content.KeyPresentation)
	m.sched.Schedule(userID, scheduler.CaseAfterPresentation, m.cfg.StepDelay, func() {
		m.fireGuardedCase(userID, scheduler.CaseAfterPresentation, content.KeyPresentationCase)
	})
	return err
}

// startForm begins a contact form round for the given request type.
// A form already in progress is never restarted; the press only
// silenced the timers.
func (m *Machine) startForm(ctx context.Context, userID int64, requestType, introKey string) error {
	started := false
	m.sessions.Update(userID, func(s *session.Session) {
		if s.State != session.StateDefault {
			return
		}
		s.Form = session.Form{RequestType: requestType}
		s.State = session.StateAwaitingName
		started = true
	})
	if !started {
		logger.Debug(ctx, "funnel", "form.ignored_in_progress",
			slog.Int64("user_id", userID),
			slog.String("request_type", requestType),
		)
		return nil
	}

	logger.Info(ctx, "funnel", "form.started",
		slog.Int64("user_id", userID),
		slog.String("request_type", requestType),
	)

	keys := make([]string, 0, 2)
	if introKey != "" {
		keys = append(keys, introKey)
	}
	keys = append(keys, content.KeyAskName)
	return m.send(ctx, userID, keys...)
}

// fireFirstFollowup runs when the user has been idle for D1 after
// /start. It always sends and arms the case step behind it.
func (m *Machine) fireFirstFollowup(userID int64) {
	ctx := m.timerCtx(userID, scheduler.FirstFollowup)
	_ = m.send(ctx, userID, content.KeyFirstFollowup)
	m.sched.Schedule(userID, scheduler.CaseAfterFollowup, m.cfg.StepDelay, func() {
		m.fireGuardedCase(userID, scheduler.CaseAfterFollowup, content.KeyCase)
	})
}

// fireFollowupAfterVideo always sends; watching content does not advance
// form state, so there is nothing to guard on.
func (m *Machine) fireFollowupAfterVideo(userID int64) {
	ctx := m.timerCtx(userID, scheduler.FollowupAfterVideo)
	_ = m.send(ctx, userID, content.KeyVideoFollowup)
	m.sched.Schedule(userID, scheduler.CaseAfterVideoFollowup, m.cfg.StepDelay, func() {
		m.fireGuardedCase(userID, scheduler.CaseAfterVideoFollowup, content.KeyVideoCase)
	})
}

// fireGuardedCase sends the case message only when the session is still
// idle at fire time; a user mid-form has already engaged.
func (m *Machine) fireGuardedCase(userID int64, name scheduler.Name, msgKey string) {
	ctx := m.timerCtx(userID, name)

	engaged := false
	m.sessions.Update(userID, func(s *session.Session) {
		engaged = s.State != session.StateDefault
	})
	if engaged {
		logger.Debug(ctx, "funnel.timer", "timer.skipped_engaged",
			slog.Int64("user_id", userID),
			slog.String("timer", string(name)),
		)
		return
	}
	_ = m.send(ctx, userID, msgKey)
}

func (m *Machine) saveLead(ctx context.Context, l lead.Lead) {
	logger.Info(ctx, "lead", "lead.completed",
		slog.Int64("user_id", l.UserID),
		slog.String("request_type", l.RequestType),
	)
	if m.sink == nil {
		return
	}
	if err := m.sink.Save(ctx, l); err != nil {
		// The user still gets their confirmation; losing one lead row
		// must not break the dialogue.
		logger.Error(ctx, "lead", "lead.save_failed",
			slog.Int64("user_id", l.UserID),
			slog.String("request_type", l.RequestType),
			slog.String("err", err.Error()),
		)
	}
}

func (m *Machine) send(ctx context.Context, userID int64, keys ...string) error {
	var errs []error
	for _, key := range keys {
		msg, ok := m.catalog.Get(key)
		if !ok {
			logger.Error(ctx, "funnel", "content.missing_key",
				slog.String("key", key),
			)
			continue
		}
		if err := m.gw.Send(ctx, userID, msg); err != nil {
			logger.Error(ctx, "funnel", "send.failed",
				slog.Int64("user_id", userID),
				slog.String("key", key),
				slog.String("err", err.Error()),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Machine) timerCtx(userID int64, name scheduler.Name) context.Context {
	ctx := logger.WithLogger(context.Background(), logger.Component("funnel.timer"))
	logger.Info(ctx, "funnel.timer", "timer.fired",
		slog.Int64("user_id", userID),
		slog.String("timer", string(name)),
	)
	return ctx
}
