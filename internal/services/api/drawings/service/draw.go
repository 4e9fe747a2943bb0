package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"time"

	"secretsanta/internal/core/matcher"
	"secretsanta/internal/core/token"
	"secretsanta/internal/core/whatsapp"
	"secretsanta/internal/modkit/repokit"
	perr "secretsanta/internal/platform/errors"
	"secretsanta/internal/platform/logger"
	"secretsanta/internal/services/api/drawings/domain"
	"secretsanta/internal/services/api/drawings/repo"
	auditdom "secretsanta/internal/services/audit/domain"
	"secretsanta/internal/services/notify"
)

// constraints is the editable state of one drawing, indexed for checks
type constraints struct {
	participants []repo.RowParticipant
	restrictions []repo.RowRestriction
	fixations    []repo.RowFixation
	names        map[string]string
	fixed        map[string]string
	edges        map[[2]string]struct{}
}

func (s *Svc) constraints(ctx context.Context, drawingID string) (*constraints, error) {
	ps, err := s.Repo.Participants(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	rs, err := s.Repo.Restrictions(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	fs, err := s.Repo.Fixations(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	c := &constraints{
		participants: ps,
		restrictions: rs,
		fixations:    fs,
		names:        make(map[string]string, len(ps)),
		fixed:        make(map[string]string, len(fs)),
		edges:        make(map[[2]string]struct{}, len(rs)),
	}
	for _, p := range ps {
		c.names[p.ID] = p.Name
	}
	for _, f := range fs {
		c.fixed[f.FromID] = f.ToID
	}
	for _, r := range rs {
		c.edges[[2]string{r.FromID, r.ToID}] = struct{}{}
	}
	return c, nil
}

func (c *constraints) known(id, field string) error {
	if _, ok := c.names[id]; !ok {
		return perr.WithField(perr.NotFoundf("participant %q not found in this drawing", id), field)
	}
	return nil
}

func (c *constraints) restricted(from, to string) bool {
	_, ok := c.edges[[2]string{from, to}]
	return ok
}

func (c *constraints) name(id string) string {
	if n, ok := c.names[id]; ok {
		return n
	}
	return id
}

func (c *constraints) input() matcher.Input {
	in := matcher.Input{
		Participants: make([]matcher.Participant, 0, len(c.participants)),
		Restrictions: make([]matcher.Pair, 0, len(c.restrictions)),
		Fixations:    make(map[string]string, len(c.fixed)),
	}
	for _, p := range c.participants {
		in.Participants = append(in.Participants, matcher.Participant{ID: p.ID, Name: p.Name, Contact: p.Phone})
	}
	for _, r := range c.restrictions {
		in.Restrictions = append(in.Restrictions, matcher.Pair{Giver: r.FromID, Receiver: r.ToID})
	}
	for g, r := range c.fixed {
		in.Fixations[g] = r
	}
	return in
}

func (s *Svc) matcher() *matcher.Matcher {
	opts := []matcher.Option{matcher.WithMaxAttempts(s.cfg.MaxAttempts)}
	if s.src != nil {
		opts = append(opts, matcher.WithSource(s.src))
	}
	if !s.cfg.Fallback {
		opts = append(opts, matcher.WithoutFallback())
	}
	return matcher.New(opts...)
}

// Execute draws the drawing and stores one result token per giver
// a previous draw is replaced
func (s *Svc) Execute(ctx context.Context, id, editToken string) (domain.DrawInfo, error) {
	d, err := s.authorize(ctx, id, editToken)
	if err != nil {
		return domain.DrawInfo{}, err
	}

	release, err := s.hold(ctx, d.ID)
	if err != nil {
		return domain.DrawInfo{}, err
	}
	defer release()

	c, err := s.constraints(ctx, d.ID)
	if err != nil {
		return domain.DrawInfo{}, err
	}

	start := time.Now()
	a, err := s.matcher().Match(c.input())
	ev := auditdom.DrawEvent{
		DrawingID:    d.ID,
		Participants: len(c.participants),
		Restrictions: len(c.restrictions),
		Fixations:    len(c.fixations),
		Attempts:     a.Attempts,
		Strategy:     string(a.Strategy),
		Outcome:      outcome(err),
		Duration:     time.Since(start),
	}
	var ie *matcher.InfeasibleError
	if errors.As(err, &ie) {
		ev.Attempts = ie.Attempts
	}
	s.record(ctx, ev)
	if err != nil {
		logger.C(ctx).Info().Str("drawing_id", d.ID).Str("outcome", ev.Outcome).Err(err).Msg("draw rejected")
		return domain.DrawInfo{}, translate(err, c.names)
	}

	results := make([]repo.RowResult, 0, len(a.Pairs))
	for _, p := range a.Pairs {
		tok, err := s.newToken()
		if err != nil {
			return domain.DrawInfo{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "token source failed")
		}
		results = append(results, repo.RowResult{DrawingID: d.ID, GiverID: p.Giver, ReceiverID: p.Receiver, Token: tok})
	}
	meta := repo.DrawMeta{
		DrawingID: d.ID,
		DrawnAt:   s.now().UTC(),
		Attempts:  a.Attempts,
		Strategy:  string(a.Strategy),
	}
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		return s.binder.Bind(q).SaveDraw(ctx, meta, results)
	})
	if err != nil {
		return domain.DrawInfo{}, err
	}

	logger.C(ctx).Info().
		Str("drawing_id", d.ID).
		Int("pairs", len(results)).
		Int("attempts", a.Attempts).
		Str("strategy", string(a.Strategy)).
		Msg("draw stored")

	return domain.DrawInfo{
		DrawnAt:  meta.DrawnAt,
		Attempts: meta.Attempts,
		Strategy: meta.Strategy,
		Pairs:    len(results),
	}, nil
}

// record never fails the draw, audit is best effort
func (s *Svc) record(ctx context.Context, ev auditdom.DrawEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordDraw(ctx, ev); err != nil {
		logger.C(ctx).Warn().Err(err).Str("drawing_id", ev.DrawingID).Msg("audit record failed")
	}
}

// drawn is one stored pair resolved to participants
type drawn struct {
	giver    repo.RowParticipant
	receiver repo.RowParticipant
	token    string
}

// drawnPairs loads the stored draw in participant order
func (s *Svc) drawnPairs(ctx context.Context, d repo.RowDrawing) ([]drawn, error) {
	if d.DrawnAt == nil {
		return nil, perr.NotFoundf("drawing has not been drawn yet")
	}
	rs, err := s.Repo.Results(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, perr.NotFoundf("drawing has not been drawn yet")
	}
	ps, err := s.Repo.Participants(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]repo.RowParticipant, len(ps))
	for _, p := range ps {
		byID[p.ID] = p
	}
	byGiver := make(map[string]repo.RowResult, len(rs))
	for _, r := range rs {
		byGiver[r.GiverID] = r
	}
	out := make([]drawn, 0, len(rs))
	for _, p := range ps {
		r, ok := byGiver[p.ID]
		if !ok {
			continue
		}
		out = append(out, drawn{giver: p, receiver: byID[r.ReceiverID], token: r.Token})
	}
	return out, nil
}

// Results reveals the draw to a token holder
// the organizer token shows every pair, a result token shows only its own
func (s *Svc) Results(ctx context.Context, id, tok string) (domain.Results, error) {
	if tok == "" {
		return domain.Results{}, perr.Unauthorizedf("missing token")
	}
	d, pairs, err := s.resultsOf(ctx, id)
	if err != nil {
		return domain.Results{}, err
	}
	out := domain.Results{DrawingName: d.Name, MaxValue: d.MaxValue, DrawnAt: *d.DrawnAt}

	if token.Equal(d.OrganizerToken, tok) {
		out.IsOrganizer = true
		out.Results = make([]domain.ResultPair, 0, len(pairs))
		for _, p := range pairs {
			link := s.resultURL(d.ID, p.token)
			out.Results = append(out.Results, domain.ResultPair{
				Giver:      p.giver.Name,
				GiverPhone: p.giver.Phone,
				Receiver:   p.receiver.Name,
				ResultURL:  link,
				WhatsApp:   whatsapp.Link(p.giver.Phone, s.invite(d, p.giver.Name, link)),
			})
		}
		return out, nil
	}
	for _, p := range pairs {
		if token.Equal(p.token, tok) {
			out.YourResult = &domain.ResultPair{Giver: p.giver.Name, Receiver: p.receiver.Name}
			return out, nil
		}
	}
	return domain.Results{}, perr.Forbiddenf("invalid token")
}

// resultsOf loads a drawn drawing, missing drawings and missing draws are NotFound
func (s *Svc) resultsOf(ctx context.Context, id string) (repo.RowDrawing, []drawn, error) {
	if !validID(id) {
		return repo.RowDrawing{}, nil, perr.NotFoundf("drawing not found")
	}
	d, err := s.Repo.GetDrawing(ctx, id)
	if err != nil {
		return repo.RowDrawing{}, nil, err
	}
	pairs, err := s.drawnPairs(ctx, d)
	if err != nil {
		return repo.RowDrawing{}, nil, err
	}
	return d, pairs, nil
}

// Export renders every pair as CSV for the organizer
func (s *Svc) Export(ctx context.Context, id, organizerToken string) ([]byte, error) {
	if organizerToken == "" {
		return nil, perr.Unauthorizedf("missing token")
	}
	d, pairs, err := s.resultsOf(ctx, id)
	if err != nil {
		return nil, err
	}
	if !token.Equal(d.OrganizerToken, organizerToken) {
		return nil, perr.Forbiddenf("invalid token")
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, d.MaxValue, pairs); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "csv export failed")
	}
	return buf.Bytes(), nil
}

// writeCSV stops at the first failed write
func writeCSV(out io.Writer, budget float64, pairs []drawn) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"giver", "giver_phone", "receiver", "max_value"}); err != nil {
		return err
	}
	b := strconv.FormatFloat(budget, 'f', 2, 64)
	for _, p := range pairs {
		if err := w.Write([]string{p.giver.Name, p.giver.Phone, p.receiver.Name, b}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Notify sends every giver their private link
// per giver failures are reported, never returned
func (s *Svc) Notify(ctx context.Context, id, editToken string) (domain.NotifyReport, error) {
	d, err := s.authorize(ctx, id, editToken)
	if err != nil {
		return domain.NotifyReport{}, err
	}
	if d.DrawnAt == nil {
		return domain.NotifyReport{}, perr.Conflictf("drawing has not been drawn yet")
	}
	pairs, err := s.drawnPairs(ctx, d)
	if err != nil {
		return domain.NotifyReport{}, err
	}

	msgs := make([]notify.Message, 0, len(pairs))
	for _, p := range pairs {
		link := s.resultURL(d.ID, p.token)
		msgs = append(msgs, notify.Message{
			To:   p.giver.Phone,
			Name: p.giver.Name,
			Text: s.invite(d, p.giver.Name, link),
			Link: link,
		})
	}

	outs := s.notifier.Dispatch(ctx, msgs)
	rep := domain.NotifyReport{Deliveries: make([]domain.Delivery, 0, len(outs))}
	for _, o := range outs {
		if o.Sent {
			rep.Sent++
		} else {
			rep.Failed++
		}
		rep.Deliveries = append(rep.Deliveries, domain.Delivery{Name: o.Name, Sent: o.Sent, Link: o.Link, Error: o.Error})
	}
	logger.C(ctx).Info().Str("drawing_id", d.ID).Int("sent", rep.Sent).Int("failed", rep.Failed).Msg("notify done")
	return rep, nil
}

func (s *Svc) invite(d repo.RowDrawing, giver, link string) string {
	return whatsapp.Message(whatsapp.Invite{Giver: giver, Drawing: d.Name, MaxValue: d.MaxValue, URL: link})
}
