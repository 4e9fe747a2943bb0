package domain

import (
	"context"

	auditdom "secretsanta/internal/services/audit/domain"
	"secretsanta/internal/services/notify"
)

// ServicePort defines the service contract for drawings
// every edit operation takes the drawing edit token
type ServicePort interface {
	Create(ctx context.Context, in CreateDrawingInput) (Created, error)
	Get(ctx context.Context, id, editToken string) (Drawing, error)
	Update(ctx context.Context, id, editToken string, in UpdateDrawingInput) (Drawing, error)
	Delete(ctx context.Context, id, editToken string) error

	AddParticipant(ctx context.Context, id, editToken string, in ParticipantInput) (Participant, error)
	UpdateParticipant(ctx context.Context, id, editToken, pid string, in UpdateParticipantInput) (Participant, error)
	RemoveParticipant(ctx context.Context, id, editToken, pid string) error

	AddRestriction(ctx context.Context, id, editToken string, in RestrictionInput) ([]Restriction, error)
	RemoveRestriction(ctx context.Context, id, editToken, rid string) error

	SetFixation(ctx context.Context, id, editToken string, in FixationInput) (Fixation, error)
	RemoveFixation(ctx context.Context, id, editToken, fid string) error

	Execute(ctx context.Context, id, editToken string) (DrawInfo, error)
	Reset(ctx context.Context, id, editToken string) error

	Results(ctx context.Context, id, token string) (Results, error)
	Export(ctx context.Context, id, organizerToken string) ([]byte, error)
	Notify(ctx context.Context, id, editToken string) (NotifyReport, error)
}

// Recorder receives one event per draw attempt
type Recorder = auditdom.Recorder

// Notifier fans messages out and reports per message outcomes
type Notifier interface {
	Dispatch(ctx context.Context, msgs []notify.Message) []notify.Outcome
}
