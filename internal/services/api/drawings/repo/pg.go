package repo

import (
	"context"
	"time"

	"secretsanta/internal/modkit/repokit"
	perr "secretsanta/internal/platform/errors"
	"secretsanta/internal/platform/store"
)

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: repokit.RequireQueryer(q)} }

// missing names the row behind a not found result and maps everything else through pg codes
func missing(err error, what string) error {
	if err == nil {
		return nil
	}
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return perr.NotFoundf("%s not found", what)
	}
	return perr.FromPostgresf(err, "%s query", what)
}

// nameTaken reports the participants (drawing_id, name_key) unique index on the name field
func nameTaken(err error, msg string) error {
	if perr.IsDuplicateKey(err) {
		return perr.WithField(perr.FromPostgres(err, msg), "name")
	}
	return perr.FromPostgresWithField(err, msg)
}

func scanDrawing(r store.Row) (RowDrawing, error) {
	var d RowDrawing
	err := r.Scan(
		&d.ID,
		&d.Name,
		&d.MaxValue,
		&d.EditToken,
		&d.OrganizerToken,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.DrawnAt,
		&d.DrawAttempts,
		&d.DrawStrategy,
	)
	return d, err
}

func scanParticipant(r store.Row) (RowParticipant, error) {
	var p RowParticipant
	err := r.Scan(&p.ID, &p.DrawingID, &p.Name, &p.NameKey, &p.Phone, &p.CreatedAt)
	return p, err
}

func scanRestriction(r store.Row) (RowRestriction, error) {
	var x RowRestriction
	err := r.Scan(&x.ID, &x.DrawingID, &x.FromID, &x.ToID, &x.PairID)
	return x, err
}

func scanFixation(r store.Row) (RowFixation, error) {
	var f RowFixation
	err := r.Scan(&f.ID, &f.DrawingID, &f.FromID, &f.ToID)
	return f, err
}

func scanResult(r store.Row) (RowResult, error) {
	var x RowResult
	err := r.Scan(&x.DrawingID, &x.GiverID, &x.ReceiverID, &x.Token)
	return x, err
}

func (r *queries) CreateDrawing(ctx context.Context, d RowDrawing) error {
	const sql = `
INSERT INTO drawings (id, name, max_value, edit_token, organizer_token, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
`
	_, err := r.q.Exec(ctx, sql, d.ID, d.Name, d.MaxValue, d.EditToken, d.OrganizerToken, d.CreatedAt)
	return perr.FromPostgres(err, "insert drawing")
}

func (r *queries) GetDrawing(ctx context.Context, id string) (RowDrawing, error) {
	const sql = `
SELECT id::text, name, max_value::float8, edit_token, organizer_token,
	created_at, updated_at, drawn_at, draw_attempts, draw_strategy
FROM drawings
WHERE id = $1
`
	d, err := store.One(ctx, r.q, scanDrawing, sql, id)
	if err != nil {
		return RowDrawing{}, missing(err, "drawing")
	}
	return d, nil
}

func (r *queries) UpdateDrawing(ctx context.Context, d RowDrawing) error {
	const sql = `UPDATE drawings SET name = $2, max_value = $3, updated_at = $4 WHERE id = $1`
	return missing(store.ExecOne(ctx, r.q, sql, d.ID, d.Name, d.MaxValue, d.UpdatedAt), "drawing")
}

func (r *queries) DeleteDrawing(ctx context.Context, id string) error {
	return missing(store.ExecOne(ctx, r.q, `DELETE FROM drawings WHERE id = $1`, id), "drawing")
}

func (r *queries) Participants(ctx context.Context, drawingID string) ([]RowParticipant, error) {
	const sql = `
SELECT id::text, drawing_id::text, name, name_key, phone, created_at
FROM participants
WHERE drawing_id = $1
ORDER BY created_at, id
`
	out, err := store.Many(ctx, r.q, scanParticipant, sql, drawingID)
	return out, perr.FromPostgres(err, "list participants")
}

func (r *queries) InsertParticipant(ctx context.Context, p RowParticipant) error {
	const sql = `
INSERT INTO participants (id, drawing_id, name, name_key, phone, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := r.q.Exec(ctx, sql, p.ID, p.DrawingID, p.Name, p.NameKey, p.Phone, p.CreatedAt)
	return nameTaken(err, "insert participant")
}

func (r *queries) UpdateParticipant(ctx context.Context, p RowParticipant) error {
	const sql = `UPDATE participants SET name = $3, name_key = $4, phone = $5 WHERE drawing_id = $1 AND id = $2`
	err := store.ExecOne(ctx, r.q, sql, p.DrawingID, p.ID, p.Name, p.NameKey, p.Phone)
	if perr.IsDuplicateKey(err) {
		return nameTaken(err, "update participant")
	}
	return missing(err, "participant")
}

func (r *queries) DeleteParticipant(ctx context.Context, drawingID, id string) error {
	const sql = `DELETE FROM participants WHERE drawing_id = $1 AND id = $2`
	return missing(store.ExecOne(ctx, r.q, sql, drawingID, id), "participant")
}

func (r *queries) Restrictions(ctx context.Context, drawingID string) ([]RowRestriction, error) {
	const sql = `
SELECT id::text, drawing_id::text, from_id::text, to_id::text, pair_id::text
FROM restrictions
WHERE drawing_id = $1
ORDER BY created_at, id
`
	out, err := store.Many(ctx, r.q, scanRestriction, sql, drawingID)
	return out, perr.FromPostgres(err, "list restrictions")
}

func (r *queries) InsertRestrictions(ctx context.Context, rs []RowRestriction) error {
	const sql = `INSERT INTO restrictions (id, drawing_id, from_id, to_id, pair_id) VALUES ($1, $2, $3, $4, $5)`
	for _, x := range rs {
		if err := store.ExecOne(ctx, r.q, sql, x.ID, x.DrawingID, x.FromID, x.ToID, x.PairID); err != nil {
			return perr.FromPostgres(err, "insert restriction")
		}
	}
	return nil
}

func (r *queries) DeleteRestrictionPair(ctx context.Context, drawingID, id string) (int, error) {
	const sql = `
DELETE FROM restrictions
WHERE drawing_id = $1
AND pair_id = (SELECT pair_id FROM restrictions WHERE drawing_id = $1 AND id = $2)
`
	n, err := store.ExecSome(ctx, r.q, sql, drawingID, id)
	if err != nil {
		return 0, missing(err, "restriction")
	}
	return int(n), nil
}

func (r *queries) Fixations(ctx context.Context, drawingID string) ([]RowFixation, error) {
	const sql = `
SELECT id::text, drawing_id::text, from_id::text, to_id::text
FROM fixations
WHERE drawing_id = $1
ORDER BY created_at, id
`
	out, err := store.Many(ctx, r.q, scanFixation, sql, drawingID)
	return out, perr.FromPostgres(err, "list fixations")
}

func (r *queries) UpsertFixation(ctx context.Context, f RowFixation) (RowFixation, error) {
	const sql = `
INSERT INTO fixations (id, drawing_id, from_id, to_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (drawing_id, from_id) DO UPDATE SET to_id = EXCLUDED.to_id
RETURNING id::text, drawing_id::text, from_id::text, to_id::text
`
	out, err := store.One(ctx, r.q, scanFixation, sql, f.ID, f.DrawingID, f.FromID, f.ToID)
	if err != nil {
		return RowFixation{}, perr.FromPostgres(err, "upsert fixation")
	}
	return out, nil
}

func (r *queries) DeleteFixation(ctx context.Context, drawingID, id string) error {
	const sql = `DELETE FROM fixations WHERE drawing_id = $1 AND id = $2`
	return missing(store.ExecOne(ctx, r.q, sql, drawingID, id), "fixation")
}

func (r *queries) SaveDraw(ctx context.Context, d DrawMeta, results []RowResult) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM draw_results WHERE drawing_id = $1`, d.DrawingID); err != nil {
		return perr.FromPostgres(err, "clear results")
	}
	const ins = `INSERT INTO draw_results (drawing_id, giver_id, receiver_id, token) VALUES ($1, $2, $3, $4)`
	for _, x := range results {
		if err := store.ExecOne(ctx, r.q, ins, d.DrawingID, x.GiverID, x.ReceiverID, x.Token); err != nil {
			return perr.FromPostgres(err, "insert result")
		}
	}
	const upd = `
UPDATE drawings SET drawn_at = $2, draw_attempts = $3, draw_strategy = $4, updated_at = $2
WHERE id = $1
`
	return missing(store.ExecOne(ctx, r.q, upd, d.DrawingID, d.DrawnAt, d.Attempts, d.Strategy), "drawing")
}

func (r *queries) ClearDraw(ctx context.Context, drawingID string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM draw_results WHERE drawing_id = $1`, drawingID); err != nil {
		return perr.FromPostgres(err, "clear results")
	}
	const upd = `
UPDATE drawings SET drawn_at = NULL, draw_attempts = 0, draw_strategy = '', updated_at = $2
WHERE id = $1
`
	return missing(store.ExecOne(ctx, r.q, upd, drawingID, at), "drawing")
}

func (r *queries) Results(ctx context.Context, drawingID string) ([]RowResult, error) {
	const sql = `
SELECT dr.drawing_id::text, dr.giver_id::text, dr.receiver_id::text, dr.token
FROM draw_results dr
JOIN participants p ON p.id = dr.giver_id
WHERE dr.drawing_id = $1
ORDER BY p.created_at, p.id
`
	out, err := store.Many(ctx, r.q, scanResult, sql, drawingID)
	return out, perr.FromPostgres(err, "list results")
}
