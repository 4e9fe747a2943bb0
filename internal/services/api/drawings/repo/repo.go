// Package repo provides storage for drawings, their constraints and results
package repo

import (
	"context"
	_ "embed"
	"time"

	"secretsanta/internal/modkit/repokit"
)

// Schema is the postgres DDL for drawings, safe to apply repeatedly
//
//go:embed schema.sql
var Schema string

// Migrate applies Schema through q
func Migrate(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, Schema)
	return err
}

// Repo defines the repository contract for drawings
// lookups of missing rows return a not found project error
type Repo interface {
	CreateDrawing(ctx context.Context, d RowDrawing) error
	GetDrawing(ctx context.Context, id string) (RowDrawing, error)
	UpdateDrawing(ctx context.Context, d RowDrawing) error
	DeleteDrawing(ctx context.Context, id string) error

	Participants(ctx context.Context, drawingID string) ([]RowParticipant, error)
	InsertParticipant(ctx context.Context, p RowParticipant) error
	UpdateParticipant(ctx context.Context, p RowParticipant) error
	DeleteParticipant(ctx context.Context, drawingID, id string) error

	Restrictions(ctx context.Context, drawingID string) ([]RowRestriction, error)
	InsertRestrictions(ctx context.Context, rs []RowRestriction) error
	// DeleteRestrictionPair removes id and every row sharing its pair id
	DeleteRestrictionPair(ctx context.Context, drawingID, id string) (int, error)

	Fixations(ctx context.Context, drawingID string) ([]RowFixation, error)
	// UpsertFixation stores f, replacing any fixation the same giver already had
	UpsertFixation(ctx context.Context, f RowFixation) (RowFixation, error)
	DeleteFixation(ctx context.Context, drawingID, id string) error

	// SaveDraw replaces the stored draw with results
	SaveDraw(ctx context.Context, d DrawMeta, results []RowResult) error
	// ClearDraw drops the stored draw and its result tokens
	ClearDraw(ctx context.Context, drawingID string, at time.Time) error
	Results(ctx context.Context, drawingID string) ([]RowResult, error)
}

// RowDrawing is a drawing row
type RowDrawing struct {
	ID             string
	Name           string
	MaxValue       float64
	EditToken      string
	OrganizerToken string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DrawnAt        *time.Time
	DrawAttempts   int
	DrawStrategy   string
}

// RowParticipant is a participant row, NameKey is the folded name used for uniqueness
type RowParticipant struct {
	ID        string
	DrawingID string
	Name      string
	NameKey   string
	Phone     string
	CreatedAt time.Time
}

// RowRestriction is a restriction row
type RowRestriction struct {
	ID        string
	DrawingID string
	FromID    string
	ToID      string
	PairID    string
}

// RowFixation is a fixation row
type RowFixation struct {
	ID        string
	DrawingID string
	FromID    string
	ToID      string
}

// RowResult is one drawn pair and the token that reveals it to the giver
type RowResult struct {
	DrawingID  string
	GiverID    string
	ReceiverID string
	Token      string
}

// DrawMeta is stored on the drawing alongside its results
type DrawMeta struct {
	DrawingID string
	DrawnAt   time.Time
	Attempts  int
	Strategy  string
}
