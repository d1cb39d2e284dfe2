package app

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	tg "github.com/miralteam/funnelbot/core/telegram"
	"github.com/miralteam/funnelbot/core/telegram/callbacks"
	"github.com/miralteam/funnelbot/core/telegram/commands"
	tghelpers "github.com/miralteam/funnelbot/core/telegram/helpers"
	"github.com/miralteam/funnelbot/internal/content"
	"github.com/miralteam/funnelbot/internal/funnel"
	"github.com/miralteam/funnelbot/internal/lead"
)

const leadsListLimit = 20

// funnelButtonKeys is every callback key the funnel reacts to.
var funnelButtonKeys = []string{
	content.BtnGetVideo,
	content.BtnGetPresentation,
	content.BtnWantConsultation,
	content.BtnWantCalculation,
	content.BtnWantAudit,
	content.BtnWantSame,
	content.BtnWantCalculationCase,
	content.BtnWantPresentation,
	content.BtnVideoWantConsultation,
	content.BtnVideoWantCalculation,
	content.BtnVideoWantPresentation,
	content.BtnVideoNeedAudit,
	content.BtnPresentationNeedAudit,
}

// registerHandlers wires the funnel machine and the lead sink into the
// registry: /start, /leads, every funnel button and the text fallback.
func registerHandlers(reg *tg.Registry, m *funnel.Machine, sink lead.Sink) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Начать диалог с ботом",
		Handler: func(c tele.Context) error {
			ctx := tghelpers.WithHandler(c, "start")
			return m.HandleStart(ctx, c.Sender().ID)
		},
	})

	reg.RegisterCommand("/leads", commands.Command{
		Description: "Последние заявки",
		AdminOnly:   true,
		Hidden:      true,
		Handler: func(c tele.Context) error {
			ctx := tghelpers.WithHandler(c, "leads")
			leads, err := sink.Recent(ctx, leadsListLimit)
			if err != nil {
				return err
			}
			return tghelpers.SendHTML(c, formatLeads(leads))
		},
	})

	buttonHandler := func(c tele.Context) error {
		key := callbacks.CallbackKey(c)
		ctx := tghelpers.WithHandler(c, "button."+key)
		err := m.HandleButton(ctx, c.Sender().ID, key)
		if errors.Is(err, funnel.ErrUnknownButton) {
			// Stale or foreign payloads are ignored; the callback was
			// already answered by the router.
			return nil
		}
		return err
	}
	for _, key := range funnelButtonKeys {
		_ = reg.RegisterCallback(key, buttonHandler)
	}

	reg.SetTextFallback(func(c tele.Context) error {
		ctx := tghelpers.WithHandler(c, "text")
		return m.HandleText(ctx, c.Sender().ID, c.Text())
	})
}

func formatLeads(leads []lead.Lead) string {
	if len(leads) == 0 {
		return "Заявок пока нет."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Последние заявки (%d):</b>\n", len(leads))
	for i, l := range leads {
		fmt.Fprintf(&b, "\n%d. <b>%s</b> — %s, %s\n   %s\n   id %d, %s\n",
			i+1,
			html(l.RequestType),
			html(l.Name),
			html(l.Contact),
			html(l.Comment),
			l.UserID,
			l.CreatedAt.Format("02.01.2006 15:04"),
		)
	}
	return b.String()
}

func html(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
