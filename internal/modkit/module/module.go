// Package module defines the contract every api module satisfies
// it sits apart from modkit so a module can export its own ports type without an import cycle
package module

import phttp "secretsanta/internal/platform/net/http"

// Module is a mountable unit of the api
type Module interface {
	Name() string
	Prefix() string
	MountRoutes(r phttp.Router)
	Ports() any
}
