package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog/log"

	"ETFAdvisor/internal/model"
	"ETFAdvisor/internal/session"
	"ETFAdvisor/internal/tier"
)

const botHelp = `Available commands:
• /low, /medium, /high (or /pick <tier>) - best ETF for a risk level
• /next - another ETF in the same risk level
• /reset - forget the ETFs already shown for this risk level
• /tiers - list risk levels and their ETFs`

// Bot is the chat shell: every chat owns a session.
type Bot struct {
	Sessions  *session.Manager
	Picker    session.Picker
	Registry  *tier.Registry
	Listeners []session.PickListener
}

// NewBot creates a Bot.
func NewBot(sessions *session.Manager, picker session.Picker, registry *tier.Registry, listeners ...session.PickListener) *Bot {
	return &Bot{Sessions: sessions, Picker: picker, Registry: registry, Listeners: listeners}
}

// HandleCommand processes a chat message and returns the reply.
func (b *Bot) HandleCommand(ctx context.Context, chatID, command string) string {
	cmd, arg := splitCommand(command)
	s := b.Sessions.Get(chatID)

	switch cmd {
	case "next":
		return b.pick(ctx, s)
	case "reset":
		s.Reset()
		return fmt.Sprintf("Selection for %s cleared.", html.EscapeString(string(s.Tier())))
	case "tiers":
		return "<pre>" + FormatTiers(b.Registry) + "</pre>"
	case "pick":
		t := model.ParseRiskTier(arg)
		if !b.Registry.Valid(t) {
			return MsgInvalidTier
		}
		s.SelectTier(t)
		return b.pick(ctx, s)
	}

	if t := model.ParseRiskTier(cmd); b.Registry.Valid(t) {
		s.SelectTier(t)
		return b.pick(ctx, s)
	}
	return botHelp
}

func (b *Bot) pick(ctx context.Context, s *session.Session) string {
	m, err := s.Next(ctx, b.Picker, b.Listeners...)
	if err != nil {
		log.Info().Err(err).Str("chat", s.ID).Msg("no pick")
		return MessageFor(err)
	}
	return FormatPickHTML(s.Tier(), m)
}

// splitCommand turns "/pick@AdvisorBot medium" into ("pick", "medium").
func splitCommand(text string) (cmd, arg string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	cmd = strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	cmd = strings.ToLower(cmd)
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}
	return cmd, arg
}
