// Package modkit builds api modules from shared deps and options
package modkit

import "secretsanta/internal/modkit/module"

// Module is re-exported so module packages only import modkit
type Module = module.Module
