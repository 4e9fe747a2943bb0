package httpkit

import "secretsanta/internal/platform/net/middleware"

// Protected mounts the routes fn registers behind bearer auth
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
