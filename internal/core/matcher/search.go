package matcher

// search runs Kuhn's augmenting path matching over free givers and the pool
// with self and restricted edges removed. Givers and candidate receivers are
// visited in random order so repeated calls spread over different matchings.
// It returns a receiver per free giver position, or false when no perfect
// matching exists.
func (p *problem) search(src Source) ([]int, bool) {
	k := len(p.free)
	cands := make([][]int, k)
	for i, g := range p.free {
		for pos, r := range p.pool {
			if p.allowed(g, r) {
				cands[i] = append(cands[i], pos)
			}
		}
		if len(cands[i]) == 0 {
			return nil, false
		}
		shuffle(src, cands[i])
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	shuffle(src, order)

	s := &searcher{cands: cands, owner: make([]int, len(p.pool))}
	for i := range s.owner {
		s.owner[i] = -1
	}
	seen := make([]bool, len(p.pool))
	for _, giver := range order {
		clear(seen)
		if !s.augment(giver, seen) {
			return nil, false
		}
	}

	out := make([]int, k)
	for pos, giver := range s.owner {
		out[giver] = p.pool[pos]
	}
	return out, true
}

type searcher struct {
	cands [][]int // pool positions each free giver may take
	owner []int   // free giver holding each pool position, -1 when open
}

func (s *searcher) augment(giver int, seen []bool) bool {
	for _, pos := range s.cands[giver] {
		if seen[pos] {
			continue
		}
		seen[pos] = true
		if s.owner[pos] < 0 || s.augment(s.owner[pos], seen) {
			s.owner[pos] = giver
			return true
		}
	}
	return false
}
