package module

import auditdom "secretsanta/internal/services/audit/domain"

// Ports are what the audit module offers other modules
type Ports struct {
	Recorder auditdom.Recorder
}

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Recorder: m.svc} }
