// Package matcher assigns gift receivers to givers under restriction and fixation constraints
//
// A draw is a random derangement of the participant set where
// every giver receives exactly one receiver and nobody draws themselves
// restricted pairs never match and fixed pairs always match
//
// The matcher reserves fixed receivers first, then draws unbiased Fisher-Yates shuffles of the
// remaining pool until one fits or the attempt budget runs out. When the budget is spent a
// randomized augmenting path search either finds an assignment or proves none exists
package matcher

import "sort"

// DefaultMaxAttempts bounds the shuffle phase when no option overrides it
const DefaultMaxAttempts = 100

// Strategy names the phase that produced an assignment
type Strategy string

const (
	// StrategyShuffle means a uniform shuffle fit on its own
	StrategyShuffle Strategy = "shuffle"
	// StrategySearch means the augmenting path fallback found the assignment
	StrategySearch Strategy = "search"
)

// Participant is one person in the draw
// Name and Contact ride along for callers and are never interpreted here
type Participant struct {
	ID      string
	Name    string
	Contact string
}

// Pair is an ordered giver to receiver edge
type Pair struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
}

// Input is everything one draw needs
// Restrictions has set semantics, duplicates are harmless
// Fixations maps a giver id to the receiver id it must draw
type Input struct {
	Participants []Participant
	Restrictions []Pair
	Fixations    map[string]string
}

// Assignment is a successful draw
// Pairs follow participant order, one per giver
type Assignment struct {
	Pairs    []Pair   `json:"pairs"`
	Attempts int      `json:"attempts"`
	Strategy Strategy `json:"strategy"`
}

// ReceiverOf returns the receiver drawn by giver
func (a Assignment) ReceiverOf(giver string) (string, bool) {
	for _, p := range a.Pairs {
		if p.Giver == giver {
			return p.Receiver, true
		}
	}
	return "", false
}

// Map returns the assignment as giver to receiver
func (a Assignment) Map() map[string]string {
	out := make(map[string]string, len(a.Pairs))
	for _, p := range a.Pairs {
		out[p.Giver] = p.Receiver
	}
	return out
}

// Options tune a Matcher
type Options struct {
	MaxAttempts int
	NoFallback  bool
	Source      Source
}

// Option mutates Options
type Option func(*Options)

// WithMaxAttempts caps the number of shuffles drawn before giving up or falling back
func WithMaxAttempts(n int) Option {
	return func(o *Options) { o.MaxAttempts = n }
}

// WithSource injects the randomness source, use NewSource for reproducible draws
func WithSource(src Source) Option {
	return func(o *Options) { o.Source = src }
}

// WithoutFallback disables the augmenting path search so only shuffles are tried
func WithoutFallback() Option {
	return func(o *Options) { o.NoFallback = true }
}

// Matcher runs draws, it holds configuration only
// safe for concurrent use when its Source is
type Matcher struct {
	maxAttempts int
	fallback    bool
	src         Source
}

// New builds a Matcher
func New(opts ...Option) *Matcher {
	o := Options{MaxAttempts: DefaultMaxAttempts}
	for _, fn := range opts {
		fn(&o)
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Source == nil {
		o.Source = globalSource{}
	}
	return &Matcher{maxAttempts: o.MaxAttempts, fallback: !o.NoFallback, src: o.Source}
}

// MaxAttempts reports the shuffle budget
func (m *Matcher) MaxAttempts() int { return m.maxAttempts }

// Fallback reports whether the search fallback is enabled
func (m *Matcher) Fallback() bool { return m.fallback }

// Match is a one shot helper around New(opts...).Match(in)
func Match(in Input, opts ...Option) (Assignment, error) {
	return New(opts...).Match(in)
}

// Match draws an assignment for in
//
// Errors
//   - ErrInsufficientParticipants with fewer than two participants
//   - *ValidationError for unknown, empty or duplicate ids and self fixations
//   - *ConflictError when a fixation hits a restriction or two fixations share a receiver
//   - *InfeasibleError when no assignment was found, carrying the attempts spent
func (m *Matcher) Match(in Input) (Assignment, error) {
	p, err := prepare(in)
	if err != nil {
		return Assignment{}, err
	}

	perm := make([]int, len(p.pool))
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		copy(perm, p.pool)
		shuffle(m.src, perm)
		if p.fits(perm) {
			return p.assignment(perm, attempt, StrategyShuffle), nil
		}
	}

	attempts := m.maxAttempts
	if !m.fallback {
		return Assignment{}, &InfeasibleError{Attempts: attempts}
	}

	attempts++
	found, ok := p.search(m.src)
	if !ok {
		return Assignment{}, &InfeasibleError{Attempts: attempts}
	}
	return p.assignment(found, attempts, StrategySearch), nil
}

// problem is the validated, index based form of an Input
type problem struct {
	ids   []string
	fixed []int // receiver index per giver, -1 when free
	free  []int // free givers in participant order
	pool  []int // receivers left for free givers, ascending

	forbid map[[2]int]struct{}
}

func prepare(in Input) (*problem, error) {
	n := len(in.Participants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	p := &problem{
		ids:    make([]string, n),
		fixed:  make([]int, n),
		forbid: make(map[[2]int]struct{}, len(in.Restrictions)),
	}
	index := make(map[string]int, n)
	for i, part := range in.Participants {
		if part.ID == "" {
			return nil, &ValidationError{Field: "participant", Reason: "empty id"}
		}
		if _, dup := index[part.ID]; dup {
			return nil, &ValidationError{Field: "participant", ID: part.ID, Reason: "duplicate id"}
		}
		index[part.ID] = i
		p.ids[i] = part.ID
		p.fixed[i] = -1
	}

	for _, r := range in.Restrictions {
		g, ok := index[r.Giver]
		if !ok {
			return nil, &ValidationError{Field: "restriction", ID: r.Giver, Reason: "unknown giver"}
		}
		to, ok := index[r.Receiver]
		if !ok {
			return nil, &ValidationError{Field: "restriction", ID: r.Receiver, Reason: "unknown receiver"}
		}
		if g == to {
			continue
		}
		p.forbid[[2]int{g, to}] = struct{}{}
	}

	// unknown givers first, sorted so the reported id is stable
	var unknown []string
	for giver := range in.Fixations {
		if _, ok := index[giver]; !ok {
			unknown = append(unknown, giver)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ValidationError{Field: "fixation", ID: unknown[0], Reason: "unknown giver"}
	}

	claimed := make(map[int]int, len(in.Fixations))
	for g, id := range p.ids {
		target, ok := in.Fixations[id]
		if !ok {
			continue
		}
		to, ok := index[target]
		if !ok {
			return nil, &ValidationError{Field: "fixation", ID: target, Reason: "unknown receiver"}
		}
		if to == g {
			return nil, &ValidationError{Field: "fixation", ID: id, Reason: "giver fixed to themselves"}
		}
		if p.forbidden(g, to) {
			return nil, &ConflictError{Giver: id, Receiver: target, Reason: "fixed receiver is restricted for this giver"}
		}
		if other, dup := claimed[to]; dup {
			return nil, &ConflictError{
				Giver:    id,
				Receiver: target,
				Reason:   "receiver already fixed for " + p.ids[other],
			}
		}
		claimed[to] = g
		p.fixed[g] = to
	}

	for g := range p.ids {
		if p.fixed[g] < 0 {
			p.free = append(p.free, g)
		}
		if _, taken := claimed[g]; !taken {
			p.pool = append(p.pool, g)
		}
	}
	return p, nil
}

func (p *problem) forbidden(g, r int) bool {
	_, ok := p.forbid[[2]int{g, r}]
	return ok
}

func (p *problem) allowed(g, r int) bool {
	return g != r && !p.forbidden(g, r)
}

// fits checks free givers against perm, fixed pairs were checked by prepare
func (p *problem) fits(perm []int) bool {
	for k, g := range p.free {
		if !p.allowed(g, perm[k]) {
			return false
		}
	}
	return true
}

func (p *problem) assignment(perm []int, attempts int, strategy Strategy) Assignment {
	recv := make([]int, len(p.ids))
	copy(recv, p.fixed)
	for k, g := range p.free {
		recv[g] = perm[k]
	}
	pairs := make([]Pair, len(p.ids))
	for g, r := range recv {
		pairs[g] = Pair{Giver: p.ids[g], Receiver: p.ids[r]}
	}
	return Assignment{Pairs: pairs, Attempts: attempts, Strategy: strategy}
}
