package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"ETFAdvisor/internal/model"
	"ETFAdvisor/internal/notifier"
	"ETFAdvisor/internal/recorder"
	"ETFAdvisor/internal/session"
	"ETFAdvisor/internal/strategy"
)

const sessionCookie = "etf_session"

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type page struct {
	Tiers    []model.RiskTier
	Selected model.RiskTier
	Pick     *model.PerformanceMetrics
	Seen     []model.Ticker
	Message  string
}

type tierJSON struct {
	Tier    model.RiskTier `json:"tier"`
	Tickers []model.Ticker `json:"tickers"`
}

type pickJSON struct {
	Tier         model.RiskTier `json:"tier"`
	Ticker       model.Ticker   `json:"ticker"`
	AnnualReturn float64        `json:"annual_return"`
	Volatility   float64        `json:"volatility"`
	SharpeRatio  float64        `json:"sharpe_ratio"`
	Observations int            `json:"observations"`
	From         string         `json:"from,omitempty"`
	To           string         `json:"to,omitempty"`
	LastClose    float64        `json:"last_close"`
}

// session returns the caller's session, issuing a cookie on first visit.
func (s *Server) session(c *gin.Context) *session.Session {
	id, err := c.Cookie(sessionCookie)
	if err != nil {
		id = ""
	} else if _, perr := uuid.Parse(id); perr != nil {
		id = ""
	}
	if id == "" {
		id = uuid.NewString()
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	}
	return s.Sessions.Get(id)
}

func (s *Server) render(c *gin.Context, status int, sess *session.Session, message string) {
	c.HTML(status, "index", page{
		Tiers:    s.Registry.Tiers(),
		Selected: sess.Tier(),
		Pick:     sess.Last(),
		Seen:     sess.Seen(),
		Message:  message,
	})
}

func (s *Server) index(c *gin.Context) {
	s.render(c, http.StatusOK, s.session(c), "")
}

// pick switches the session to the submitted tier and shows its best fund.
func (s *Server) pick(c *gin.Context) {
	sess := s.session(c)
	t := model.ParseRiskTier(c.PostForm("tier"))
	if !s.Registry.Valid(t) {
		s.render(c, http.StatusBadRequest, sess, notifier.MsgInvalidTier)
		return
	}
	sess.SelectTier(t)
	s.serveNext(c, sess)
}

func (s *Server) next(c *gin.Context) {
	s.serveNext(c, s.session(c))
}

func (s *Server) reset(c *gin.Context) {
	sess := s.session(c)
	sess.Reset()
	s.render(c, http.StatusOK, sess, "")
}

func (s *Server) serveNext(c *gin.Context, sess *session.Session) {
	ctx, cancel := s.pickContext(c)
	defer cancel()

	if _, err := sess.Next(ctx, s.Picker, s.Listeners...); err != nil {
		status := http.StatusOK
		if !errors.Is(err, strategy.ErrNoCandidates) && !errors.Is(err, strategy.ErrInvalidTier) {
			log.Error().Err(err).Str("session", sess.ID).Str("tier", string(sess.Tier())).Msg("pick failed")
			status = http.StatusInternalServerError
		}
		s.render(c, status, sess, notifier.MessageFor(err))
		return
	}
	s.render(c, http.StatusOK, sess, "")
}

func (s *Server) apiTiers(c *gin.Context) {
	out := make([]tierJSON, 0, len(s.Registry.Tiers()))
	for _, t := range s.Registry.Tiers() {
		tickers, _ := s.Registry.Candidates(t)
		out = append(out, tierJSON{Tier: t, Tickers: tickers})
	}
	c.JSON(http.StatusOK, gin.H{"tiers": out})
}

// apiPick is a stateless pickBest: GET /api/pick?tier=Low&exclude=VTI,SPY
func (s *Server) apiPick(c *gin.Context) {
	t := model.ParseRiskTier(c.Query("tier"))
	excluded := model.NewExclusionSet(parseTickers(c.Query("exclude"))...)

	ctx, cancel := s.pickContext(c)
	defer cancel()

	m, err := s.Picker.PickBest(ctx, t, excluded)
	switch {
	case errors.Is(err, strategy.ErrInvalidTier):
		c.JSON(http.StatusBadRequest, gin.H{"error": notifier.MsgInvalidTier})
		return
	case errors.Is(err, strategy.ErrNoCandidates):
		c.JSON(http.StatusNotFound, gin.H{"error": notifier.MsgNoCandidates})
		return
	case err != nil:
		log.Error().Err(err).Str("tier", string(t)).Msg("api pick failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toPickJSON(t, m))
}

func (s *Server) apiHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	picks, err := s.Recorder.RecentPicks(limit)
	if err != nil {
		log.Error().Err(err).Msg("read history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	if picks == nil {
		picks = []recorder.PickRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"picks": picks})
}

func parseTickers(raw string) []model.Ticker {
	var out []model.Ticker
	for _, f := range strings.Split(raw, ",") {
		if f = strings.ToUpper(strings.TrimSpace(f)); f != "" {
			out = append(out, model.Ticker(f))
		}
	}
	return out
}

func toPickJSON(t model.RiskTier, m *model.PerformanceMetrics) pickJSON {
	p := pickJSON{
		Tier:         t,
		Ticker:       m.Ticker,
		AnnualReturn: m.AnnualReturn,
		Volatility:   m.Volatility,
		SharpeRatio:  m.SharpeRatio,
		Observations: m.Observations,
		LastClose:    m.LastClose,
	}
	if !m.From.IsZero() {
		p.From = m.From.Format(time.DateOnly)
		p.To = m.To.Format(time.DateOnly)
	}
	return p
}
