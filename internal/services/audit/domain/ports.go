package domain

import "context"

// Recorder accepts draw events
type Recorder interface {
	RecordDraw(ctx context.Context, ev DrawEvent) error
}

// ServicePort defines the service contract for audit
type ServicePort interface {
	Recorder
	Summary(ctx context.Context, in SummaryInput) (Summary, error)
}
