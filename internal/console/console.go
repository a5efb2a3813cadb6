package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"ETFAdvisor/internal/model"
	"ETFAdvisor/internal/notifier"
	"ETFAdvisor/internal/session"
)

const (
	promptTier    = "\nLet me know your risk level? (Low, Medium or High): "
	promptSame    = "\nWould you like to check another ETF in the same risk level? (yes/no): "
	promptAnother = "\nWould you like to check another ETF? (yes/no): "
	msgGoodbye    = "No problem, thanks again for using the ETF Advisor! Bye!"
)

// Shell is the interactive terminal front end.
type Shell struct {
	Picker    session.Picker
	Listeners []session.PickListener

	in  *bufio.Scanner
	out io.Writer
}

// New creates a Shell reading answers from in and writing to out.
func New(picker session.Picker, in io.Reader, out io.Writer, listeners ...session.PickListener) *Shell {
	return &Shell{Picker: picker, Listeners: listeners, in: bufio.NewScanner(in), out: out}
}

// Run loops until the user declines to continue, input ends or ctx is done.
func (c *Shell) Run(ctx context.Context) error {
	for round := 1; ; round++ {
		answer, ok := c.ask(promptTier)
		if !ok {
			return c.bye()
		}
		// every tier choice starts with nothing excluded
		s := session.New(fmt.Sprintf("console-%d", round))
		s.SelectTier(model.ParseRiskTier(answer))

		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := s.Next(ctx, c.Picker, c.Listeners...)
			if err != nil {
				log.Debug().Err(err).Str("tier", string(s.Tier())).Msg("console pick ended")
				fmt.Fprintln(c.out, notifier.MessageFor(err))
				break
			}
			fmt.Fprintln(c.out, notifier.FormatPick(s.Tier(), m))

			more, ok := c.ask(promptSame)
			if !ok {
				return c.bye()
			}
			if !yes(more) {
				break
			}
		}

		again, ok := c.ask(promptAnother)
		if !ok || !yes(again) {
			return c.bye()
		}
	}
}

func (c *Shell) ask(prompt string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Shell) bye() error {
	fmt.Fprintln(c.out, msgGoodbye)
	return c.in.Err()
}

func yes(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}
