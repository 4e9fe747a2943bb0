// Package service contains drawings workflows
package service

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"secretsanta/internal/core/matcher"
	"secretsanta/internal/core/normalize"
	"secretsanta/internal/core/token"
	"secretsanta/internal/modkit/repokit"
	perr "secretsanta/internal/platform/errors"
	"secretsanta/internal/platform/lease"
	"secretsanta/internal/platform/logger"
	"secretsanta/internal/platform/net/http/bind"
	ptime "secretsanta/internal/platform/time"
	"secretsanta/internal/services/api/drawings/domain"
	"secretsanta/internal/services/api/drawings/repo"
	"secretsanta/internal/services/notify"
)

// Service defines the service contract for drawings
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	cfg      Config
	locks    lease.Locker
	audit    domain.Recorder
	notifier domain.Notifier
	src      matcher.Source
	now      func() time.Time
	newToken func() (string, error)
}

var _ Service = (*Svc)(nil)

// New creates a new drawings service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic("drawings.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("drawings.Service requires a non nil Repo binder")
	}
	s := &Svc{
		Repo:     binder.Bind(db),
		binder:   binder,
		db:       db,
		cfg:      DefaultConfig(),
		locks:    lease.NewMemory(),
		now:      ptime.Now,
		newToken: token.New,
	}
	for _, o := range opts {
		o(s)
	}
	if s.notifier == nil {
		s.notifier = notify.New(nil, 0)
	}
	if s.cfg.LockTTL <= 0 {
		s.cfg.LockTTL = DefaultConfig().LockTTL
	}
	return s
}

// Create stores a new drawing and returns it with both tokens
func (s *Svc) Create(ctx context.Context, in domain.CreateDrawingInput) (domain.Created, error) {
	if err := validate(in); err != nil {
		return domain.Created{}, err
	}
	name := normalize.Display(in.Name)
	if name == "" {
		return domain.Created{}, perr.WithField(perr.Validationf("name is required"), "name")
	}
	edit, err := s.newToken()
	if err != nil {
		return domain.Created{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "token source failed")
	}
	org, err := s.newToken()
	if err != nil {
		return domain.Created{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "token source failed")
	}
	now := s.now().UTC()
	d := repo.RowDrawing{
		ID:             newID(),
		Name:           name,
		MaxValue:       money(in.MaxValue),
		EditToken:      edit,
		OrganizerToken: org,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.CreateDrawing(ctx, d); err != nil {
		return domain.Created{}, err
	}
	logger.C(ctx).Info().Str("drawing_id", d.ID).Msg("drawing created")
	return domain.Created{Drawing: s.view(d, nil, nil, nil, 0), EditToken: edit}, nil
}

// Get returns the organizer view of a drawing
func (s *Svc) Get(ctx context.Context, id, editToken string) (domain.Drawing, error) {
	d, err := s.authorize(ctx, id, editToken)
	if err != nil {
		return domain.Drawing{}, err
	}
	return s.load(ctx, d)
}

// Update changes the name or budget
func (s *Svc) Update(ctx context.Context, id, editToken string, in domain.UpdateDrawingInput) (domain.Drawing, error) {
	if err := validate(in); err != nil {
		return domain.Drawing{}, err
	}
	d, err := s.authorize(ctx, id, editToken)
	if err != nil {
		return domain.Drawing{}, err
	}
	if in.Name != nil {
		name := normalize.Display(*in.Name)
		if name == "" {
			return domain.Drawing{}, perr.WithField(perr.Validationf("name is required"), "name")
		}
		d.Name = name
	}
	if in.MaxValue != nil {
		d.MaxValue = money(*in.MaxValue)
	}
	d.UpdatedAt = s.now().UTC()
	if err := s.Repo.UpdateDrawing(ctx, d); err != nil {
		return domain.Drawing{}, err
	}
	return s.load(ctx, d)
}

// Delete removes a drawing and everything under it
func (s *Svc) Delete(ctx context.Context, id, editToken string) error {
	if _, err := s.authorize(ctx, id, editToken); err != nil {
		return err
	}
	if err := s.Repo.DeleteDrawing(ctx, id); err != nil {
		return err
	}
	logger.C(ctx).Info().Str("drawing_id", id).Msg("drawing deleted")
	return nil
}

// AddParticipant adds a person, names are unique per drawing after folding
func (s *Svc) AddParticipant(ctx context.Context, id, editToken string, in domain.ParticipantInput) (domain.Participant, error) {
	if err := validate(in); err != nil {
		return domain.Participant{}, err
	}
	d, release, err := s.editable(ctx, id, editToken)
	if err != nil {
		return domain.Participant{}, err
	}
	defer release()
	name, key, err := participantName(in.Name)
	if err != nil {
		return domain.Participant{}, err
	}
	ps, err := s.Repo.Participants(ctx, d.ID)
	if err != nil {
		return domain.Participant{}, err
	}
	if err := uniqueName(ps, "", key, name); err != nil {
		return domain.Participant{}, err
	}
	p := repo.RowParticipant{
		ID:        newID(),
		DrawingID: d.ID,
		Name:      name,
		NameKey:   key,
		Phone:     compactPhone(in.Phone),
		CreatedAt: s.now().UTC(),
	}
	if err := s.Repo.InsertParticipant(ctx, p); err != nil {
		return domain.Participant{}, err
	}
	return participantView(p), nil
}

// UpdateParticipant renames or rephones a participant
func (s *Svc) UpdateParticipant(ctx context.Context, id, editToken, pid string, in domain.UpdateParticipantInput) (domain.Participant, error) {
	if err := validate(in); err != nil {
		return domain.Participant{}, err
	}
	d, release, err := s.editable(ctx, id, editToken)
	if err != nil {
		return domain.Participant{}, err
	}
	defer release()
	ps, err := s.Repo.Participants(ctx, d.ID)
	if err != nil {
		return domain.Participant{}, err
	}
	idx := indexParticipant(ps, pid)
	if idx < 0 {
		return domain.Participant{}, perr.NotFoundf("participant not found")
	}
	p := ps[idx]
	if in.Name != nil {
		name, key, err := participantName(*in.Name)
		if err != nil {
			return domain.Participant{}, err
		}
		if err := uniqueName(ps, p.ID, key, name); err != nil {
			return domain.Participant{}, err
		}
		p.Name, p.NameKey = name, key
	}
	if in.Phone != nil {
		p.Phone = compactPhone(*in.Phone)
	}
	if err := s.Repo.UpdateParticipant(ctx, p); err != nil {
		return domain.Participant{}, err
	}
	return participantView(p), nil
}

// RemoveParticipant deletes a participant with their restrictions and fixations
func (s *Svc) RemoveParticipant(ctx context.Context, id, editToken, pid string) error {
	d, release, err := s.editable(ctx, id, editToken)
	if err != nil {
		return err
	}
	defer release()
	if !validID(pid) {
		return perr.NotFoundf("participant not found")
	}
	return s.Repo.DeleteParticipant(ctx, d.ID, pid)
}

// AddRestriction forbids a pairing, both directions unless OneWay
func (s *Svc) AddRestriction(ctx context.Context, id, editToken string, in domain.RestrictionInput) ([]domain.Restriction, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	d, release, err := s.editable(ctx, id, editToken)
	if err != nil {
		return nil, err
	}
	defer release()
	c, err := s.constraints(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if err := c.known(in.From, "from"); err != nil {
		return nil, err
	}
	if err := c.known(in.To, "to"); err != nil {
		return nil, err
	}
	if in.From == in.To {
		return nil, perr.WithField(perr.Validationf("a participant cannot be restricted from themselves"), "to")
	}
	edges := [][2]string{{in.From, in.To}}
	if !in.OneWay {
		edges = append(edges, [2]string{in.To, in.From})
	}
	for _, e := range edges {
		if c.restricted(e[0], e[1]) {
			return nil, perr.Conflictf("restriction %s -> %s already exists", c.name(e[0]), c.name(e[1]))
		}
		if c.fixed[e[0]] == e[1] {
			return nil, perr.Conflictf("restriction %s -> %s contradicts a fixation", c.name(e[0]), c.name(e[1]))
		}
	}
	pair := newID()
	rows := make([]repo.RowRestriction, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, repo.RowRestriction{
			ID:        newID(),
			DrawingID: d.ID,
			FromID:    e[0],
			ToID:      e[1],
			PairID:    pair,
		})
	}
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		return s.binder.Bind(q).InsertRestrictions(ctx, rows)
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Restriction, 0, len(rows))
	for _, r := range rows {
		out = append(out, restrictionView(r))
	}
	return out, nil
}

// RemoveRestriction deletes a restriction and its mirror
func (s *Svc) RemoveRestriction(ctx context.Context, id, editToken, rid string) error {
	d, release, err := s.editable(ctx, id, editToken)
	if err != nil {
		return err
	}
	defer release()
	if !validID(rid) {
		return perr.NotFoundf("restriction not found")
	}
	_, err = s.Repo.DeleteRestrictionPair(ctx, d.ID, rid)
	return err
}

// SetFixation forces a pairing, replacing the giver's previous fixation
func (s *Svc) SetFixation(ctx context.Context, id, editToken string, in domain.FixationInput) (domain.Fixation, error) {
	if err := validate(in); err != nil {
		return domain.Fixation{}, err
	}
	d, release, err := s.editable(ctx, id, editToken)
	if err != nil {
		return domain.Fixation{}, err
	}
	defer release()
	c, err := s.constraints(ctx, d.ID)
	if err != nil {
		return domain.Fixation{}, err
	}
	if err := c.known(in.From, "from"); err != nil {
		return domain.Fixation{}, err
	}
	if err := c.known(in.To, "to"); err != nil {
		return domain.Fixation{}, err
	}
	if in.From == in.To {
		return domain.Fixation{}, perr.WithField(perr.Validationf("a participant cannot draw themselves"), "to")
	}
	if c.restricted(in.From, in.To) {
		return domain.Fixation{}, perr.Conflictf("fixation %s -> %s contradicts a restriction", c.name(in.From), c.name(in.To))
	}
	for giver, receiver := range c.fixed {
		if receiver == in.To && giver != in.From {
			return domain.Fixation{}, perr.Conflictf("%s is already fixed for %s", c.name(in.To), c.name(giver))
		}
	}
	f, err := s.Repo.UpsertFixation(ctx, repo.RowFixation{
		ID:        newID(),
		DrawingID: d.ID,
		FromID:    in.From,
		ToID:      in.To,
	})
	if err != nil {
		return domain.Fixation{}, err
	}
	return domain.Fixation{ID: f.ID, From: f.FromID, To: f.ToID}, nil
}

// RemoveFixation deletes a fixation
func (s *Svc) RemoveFixation(ctx context.Context, id, editToken, fid string) error {
	d, release, err := s.editable(ctx, id, editToken)
	if err != nil {
		return err
	}
	defer release()
	if !validID(fid) {
		return perr.NotFoundf("fixation not found")
	}
	return s.Repo.DeleteFixation(ctx, d.ID, fid)
}

// Reset drops the stored draw so the drawing can be edited and drawn again
func (s *Svc) Reset(ctx context.Context, id, editToken string) error {
	d, err := s.authorize(ctx, id, editToken)
	if err != nil {
		return err
	}
	if err := s.Repo.ClearDraw(ctx, d.ID, s.now().UTC()); err != nil {
		return err
	}
	logger.C(ctx).Info().Str("drawing_id", d.ID).Msg("draw reset")
	return nil
}

// authorize loads the drawing and checks the edit token
// unknown drawings and wrong tokens look the same to the caller
func (s *Svc) authorize(ctx context.Context, id, editToken string) (repo.RowDrawing, error) {
	if editToken == "" {
		return repo.RowDrawing{}, perr.Unauthorizedf("missing edit token")
	}
	if !validID(id) {
		return repo.RowDrawing{}, perr.Forbiddenf(msgForbidden)
	}
	d, err := s.Repo.GetDrawing(ctx, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return repo.RowDrawing{}, perr.Forbiddenf(msgForbidden)
		}
		return repo.RowDrawing{}, err
	}
	if !token.Equal(d.EditToken, editToken) {
		return repo.RowDrawing{}, perr.Forbiddenf(msgForbidden)
	}
	return d, nil
}

// editable is authorize plus the draw lease plus a check that no draw is stored yet
// drawn_at is read again under the lease, the caller must release it when done
func (s *Svc) editable(ctx context.Context, id, editToken string) (repo.RowDrawing, lease.Release, error) {
	d, err := s.authorize(ctx, id, editToken)
	if err != nil {
		return repo.RowDrawing{}, nil, err
	}
	release, err := s.hold(ctx, d.ID)
	if err != nil {
		return repo.RowDrawing{}, nil, err
	}
	d, err = s.Repo.GetDrawing(ctx, d.ID)
	if err != nil {
		release()
		return repo.RowDrawing{}, nil, err
	}
	if d.DrawnAt != nil {
		release()
		return repo.RowDrawing{}, nil, perr.Conflictf("drawing was already drawn, reset it before editing")
	}
	return d, release, nil
}

// hold takes the per drawing lease shared by draws and edits
func (s *Svc) hold(ctx context.Context, id string) (lease.Release, error) {
	release, err := s.locks.Acquire(ctx, "draw:"+id, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, lease.ErrHeld) {
			return nil, perr.Conflictf("draw already in progress")
		}
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "draw lock unavailable")
	}
	return release, nil
}

// load assembles the full organizer view
func (s *Svc) load(ctx context.Context, d repo.RowDrawing) (domain.Drawing, error) {
	ps, err := s.Repo.Participants(ctx, d.ID)
	if err != nil {
		return domain.Drawing{}, err
	}
	rs, err := s.Repo.Restrictions(ctx, d.ID)
	if err != nil {
		return domain.Drawing{}, err
	}
	fs, err := s.Repo.Fixations(ctx, d.ID)
	if err != nil {
		return domain.Drawing{}, err
	}
	pairs := 0
	if d.DrawnAt != nil {
		res, err := s.Repo.Results(ctx, d.ID)
		if err != nil {
			return domain.Drawing{}, err
		}
		pairs = len(res)
	}
	return s.view(d, ps, rs, fs, pairs), nil
}

func (s *Svc) view(d repo.RowDrawing, ps []repo.RowParticipant, rs []repo.RowRestriction, fs []repo.RowFixation, pairs int) domain.Drawing {
	out := domain.Drawing{
		ID:             d.ID,
		Name:           d.Name,
		MaxValue:       d.MaxValue,
		OrganizerToken: d.OrganizerToken,
		ResultsURL:     s.resultURL(d.ID, d.OrganizerToken),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Participants:   make([]domain.Participant, 0, len(ps)),
		Restrictions:   make([]domain.Restriction, 0, len(rs)),
		Fixations:      make([]domain.Fixation, 0, len(fs)),
	}
	for _, p := range ps {
		out.Participants = append(out.Participants, participantView(p))
	}
	for _, r := range rs {
		out.Restrictions = append(out.Restrictions, restrictionView(r))
	}
	for _, f := range fs {
		out.Fixations = append(out.Fixations, domain.Fixation{ID: f.ID, From: f.FromID, To: f.ToID})
	}
	if d.DrawnAt != nil {
		out.Draw = &domain.DrawInfo{
			DrawnAt:  *d.DrawnAt,
			Attempts: d.DrawAttempts,
			Strategy: d.DrawStrategy,
			Pairs:    pairs,
		}
	}
	return out
}

// resultURL is the private page link for a result or organizer token
func (s *Svc) resultURL(id, tok string) string {
	base := strings.TrimRight(s.cfg.PublicURL, "/")
	return base + "/results/" + url.PathEscape(id) + "?" + url.Values{"token": {tok}}.Encode()
}

func participantView(p repo.RowParticipant) domain.Participant {
	return domain.Participant{ID: p.ID, Name: p.Name, Phone: p.Phone}
}

func restrictionView(r repo.RowRestriction) domain.Restriction {
	return domain.Restriction{ID: r.ID, From: r.FromID, To: r.ToID, PairID: r.PairID}
}

func participantName(raw string) (name, key string, err error) {
	name = normalize.Display(raw)
	key = normalize.Key(name)
	if name == "" || key == "" {
		return "", "", perr.WithField(perr.Validationf("name is required"), "name")
	}
	return name, key, nil
}

func uniqueName(ps []repo.RowParticipant, self, key, name string) error {
	for _, p := range ps {
		if p.ID != self && p.NameKey == key {
			return perr.WithField(perr.DuplicateKeyf("a participant named %q already exists", name), "name")
		}
	}
	return nil
}

func indexParticipant(ps []repo.RowParticipant, id string) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func compactPhone(s string) string { return strings.ReplaceAll(strings.TrimSpace(s), " ", "") }

// money rounds to cents
func money(v float64) float64 { return math.Round(v*100) / 100 }

// validate runs struct tags for callers that skip the http binder
func validate(v any) error { return bind.Validate(v) }

func validID(id string) bool { return uuid.Validate(id) == nil }

// newID returns a time ordered id, v4 when the clock source fails
func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
