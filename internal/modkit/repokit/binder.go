package repokit

// Binder binds a domain repo to a Queryer, usually the one a transaction hands out
type Binder[T any] interface {
	Bind(Queryer) T
}

// RequireQueryer panics on a nil q, a repo bound to nothing is a wiring bug
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}
