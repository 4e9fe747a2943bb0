package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"secretsanta/internal/modkit/repokit"
	perr "secretsanta/internal/platform/errors"
	ptime "secretsanta/internal/platform/time"
)

// Memory keeps drawings in process, used when postgres is disabled and in tests
// every binding shares the same state
type Memory struct{ st *memState }

type memState struct {
	mu           sync.Mutex
	drawings     map[string]RowDrawing
	participants []RowParticipant
	restrictions []RowRestriction
	fixations    []RowFixation
	results      []RowResult
}

// NewMemory creates an empty in process repository binder
func NewMemory() *Memory {
	return &Memory{st: &memState{drawings: map[string]RowDrawing{}}}
}

// Bind ignores q, state lives in the Memory value
func (m *Memory) Bind(repokit.Queryer) Repo { return m.st }

var _ repokit.Binder[Repo] = (*Memory)(nil)

func (s *memState) CreateDrawing(_ context.Context, d RowDrawing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drawings[d.ID]; ok {
		return perr.DuplicateKeyf("drawing %s already exists", d.ID)
	}
	d.UpdatedAt = d.CreatedAt
	s.drawings[d.ID] = d
	return nil
}

func (s *memState) GetDrawing(_ context.Context, id string) (RowDrawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drawings[id]
	if !ok {
		return RowDrawing{}, perr.NotFoundf("drawing not found")
	}
	if d.DrawnAt != nil {
		at := *d.DrawnAt
		d.DrawnAt = &at
	}
	return d, nil
}

func (s *memState) UpdateDrawing(_ context.Context, d RowDrawing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.drawings[d.ID]
	if !ok {
		return perr.NotFoundf("drawing not found")
	}
	cur.Name, cur.MaxValue, cur.UpdatedAt = d.Name, d.MaxValue, d.UpdatedAt
	s.drawings[d.ID] = cur
	return nil
}

func (s *memState) DeleteDrawing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drawings[id]; !ok {
		return perr.NotFoundf("drawing not found")
	}
	delete(s.drawings, id)
	s.participants = slices.DeleteFunc(s.participants, func(p RowParticipant) bool { return p.DrawingID == id })
	s.restrictions = slices.DeleteFunc(s.restrictions, func(x RowRestriction) bool { return x.DrawingID == id })
	s.fixations = slices.DeleteFunc(s.fixations, func(f RowFixation) bool { return f.DrawingID == id })
	s.results = slices.DeleteFunc(s.results, func(x RowResult) bool { return x.DrawingID == id })
	return nil
}

func (s *memState) Participants(_ context.Context, drawingID string) ([]RowParticipant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RowParticipant
	for _, p := range s.participants {
		if p.DrawingID == drawingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memState) InsertParticipant(_ context.Context, p RowParticipant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drawings[p.DrawingID]; !ok {
		return perr.InvalidArgf("drawing %s does not exist", p.DrawingID)
	}
	for _, x := range s.participants {
		if x.DrawingID == p.DrawingID && x.NameKey == p.NameKey {
			return perr.WithField(perr.DuplicateKeyf("participant name already used"), "name")
		}
	}
	s.participants = append(s.participants, p)
	return nil
}

func (s *memState) UpdateParticipant(_ context.Context, p RowParticipant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, x := range s.participants {
		if x.DrawingID == p.DrawingID && x.ID == p.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return perr.NotFoundf("participant not found")
	}
	for _, x := range s.participants {
		if x.DrawingID == p.DrawingID && x.ID != p.ID && x.NameKey == p.NameKey {
			return perr.WithField(perr.DuplicateKeyf("participant name already used"), "name")
		}
	}
	cur := &s.participants[idx]
	cur.Name, cur.NameKey, cur.Phone = p.Name, p.NameKey, p.Phone
	return nil
}

func (s *memState) DeleteParticipant(_ context.Context, drawingID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.participants)
	s.participants = slices.DeleteFunc(s.participants, func(p RowParticipant) bool {
		return p.DrawingID == drawingID && p.ID == id
	})
	if len(s.participants) == n {
		return perr.NotFoundf("participant not found")
	}
	s.restrictions = slices.DeleteFunc(s.restrictions, func(x RowRestriction) bool { return x.FromID == id || x.ToID == id })
	s.fixations = slices.DeleteFunc(s.fixations, func(f RowFixation) bool { return f.FromID == id || f.ToID == id })
	s.results = slices.DeleteFunc(s.results, func(x RowResult) bool { return x.GiverID == id || x.ReceiverID == id })
	return nil
}

func (s *memState) Restrictions(_ context.Context, drawingID string) ([]RowRestriction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RowRestriction
	for _, x := range s.restrictions {
		if x.DrawingID == drawingID {
			out = append(out, x)
		}
	}
	return out, nil
}

func (s *memState) InsertRestrictions(_ context.Context, rs []RowRestriction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range rs {
		for _, y := range append(slices.Clone(s.restrictions), rs[:i]...) {
			if y.DrawingID == x.DrawingID && y.FromID == x.FromID && y.ToID == x.ToID {
				return perr.DuplicateKeyf("restriction already exists")
			}
		}
	}
	s.restrictions = append(s.restrictions, rs...)
	return nil
}

func (s *memState) DeleteRestrictionPair(_ context.Context, drawingID, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair := ""
	for _, x := range s.restrictions {
		if x.DrawingID == drawingID && x.ID == id {
			pair = x.PairID
			break
		}
	}
	if pair == "" {
		return 0, perr.NotFoundf("restriction not found")
	}
	n := len(s.restrictions)
	s.restrictions = slices.DeleteFunc(s.restrictions, func(x RowRestriction) bool {
		return x.DrawingID == drawingID && x.PairID == pair
	})
	return n - len(s.restrictions), nil
}

func (s *memState) Fixations(_ context.Context, drawingID string) ([]RowFixation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RowFixation
	for _, f := range s.fixations {
		if f.DrawingID == drawingID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *memState) UpsertFixation(_ context.Context, f RowFixation) (RowFixation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.fixations {
		if x.DrawingID == f.DrawingID && x.ToID == f.ToID && x.FromID != f.FromID {
			return RowFixation{}, perr.DuplicateKeyf("receiver already fixed")
		}
	}
	for i, x := range s.fixations {
		if x.DrawingID == f.DrawingID && x.FromID == f.FromID {
			s.fixations[i].ToID = f.ToID
			return s.fixations[i], nil
		}
	}
	s.fixations = append(s.fixations, f)
	return f, nil
}

func (s *memState) DeleteFixation(_ context.Context, drawingID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.fixations)
	s.fixations = slices.DeleteFunc(s.fixations, func(f RowFixation) bool {
		return f.DrawingID == drawingID && f.ID == id
	})
	if len(s.fixations) == n {
		return perr.NotFoundf("fixation not found")
	}
	return nil
}

func (s *memState) SaveDraw(_ context.Context, d DrawMeta, results []RowResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.drawings[d.DrawingID]
	if !ok {
		return perr.NotFoundf("drawing not found")
	}
	cur.DrawnAt, cur.DrawAttempts, cur.DrawStrategy, cur.UpdatedAt = ptime.Ptr(d.DrawnAt), d.Attempts, d.Strategy, d.DrawnAt
	s.drawings[d.DrawingID] = cur
	s.results = slices.DeleteFunc(s.results, func(x RowResult) bool { return x.DrawingID == d.DrawingID })
	for _, x := range results {
		x.DrawingID = d.DrawingID
		s.results = append(s.results, x)
	}
	return nil
}

func (s *memState) ClearDraw(_ context.Context, drawingID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.drawings[drawingID]
	if !ok {
		return perr.NotFoundf("drawing not found")
	}
	cur.DrawnAt, cur.DrawAttempts, cur.DrawStrategy, cur.UpdatedAt = nil, 0, "", at
	s.drawings[drawingID] = cur
	s.results = slices.DeleteFunc(s.results, func(x RowResult) bool { return x.DrawingID == drawingID })
	return nil
}

func (s *memState) Results(_ context.Context, drawingID string) ([]RowResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RowResult
	for _, x := range s.results {
		if x.DrawingID == drawingID {
			out = append(out, x)
		}
	}
	return out, nil
}
