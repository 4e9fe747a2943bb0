package module

import "secretsanta/internal/services/api/drawings/domain"

// Ports declares what this module needs from other modules
// a nil Recorder disables draw auditing
type Ports struct {
	Recorder domain.Recorder
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
