package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	perr "secretsanta/internal/platform/errors"
)

// runContract exercises any Repo implementation against the same expectations
func runContract(t *testing.T, r Repo) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 12, 1, 9, 0, 0, 0, time.UTC)

	d := RowDrawing{
		ID:             uuid.NewString(),
		Name:           "Office",
		MaxValue:       25,
		EditToken:      "e",
		OrganizerToken: "o",
		CreatedAt:      base,
	}
	if err := r.CreateDrawing(ctx, d); err != nil {
		t.Fatalf("CreateDrawing: %v", err)
	}

	t.Run("drawing round trip", func(t *testing.T) {
		got, err := r.GetDrawing(ctx, d.ID)
		if err != nil {
			t.Fatalf("GetDrawing: %v", err)
		}
		if got.Name != "Office" || got.MaxValue != 25 || got.EditToken != "e" || got.DrawnAt != nil {
			t.Fatalf("unexpected drawing: %+v", got)
		}
		got.Name, got.MaxValue, got.UpdatedAt = "Office 2026", 30, base.Add(time.Minute)
		if err := r.UpdateDrawing(ctx, got); err != nil {
			t.Fatalf("UpdateDrawing: %v", err)
		}
		again, _ := r.GetDrawing(ctx, d.ID)
		if again.Name != "Office 2026" || again.MaxValue != 30 {
			t.Fatalf("update not stored: %+v", again)
		}
		if _, err := r.GetDrawing(ctx, uuid.NewString()); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Fatalf("want not found, got %v", err)
		}
	})

	ids := make([]string, 4)
	for i, name := range []string{"Ana", "Bruno", "Carla", "Duarte"} {
		ids[i] = uuid.NewString()
		p := RowParticipant{
			ID:        ids[i],
			DrawingID: d.ID,
			Name:      name,
			NameKey:   name,
			Phone:     "91234567" + string(rune('0'+i)),
			CreatedAt: base.Add(time.Duration(i+1) * time.Second),
		}
		if err := r.InsertParticipant(ctx, p); err != nil {
			t.Fatalf("InsertParticipant %s: %v", name, err)
		}
	}

	t.Run("participants", func(t *testing.T) {
		ps, err := r.Participants(ctx, d.ID)
		if err != nil {
			t.Fatalf("Participants: %v", err)
		}
		if len(ps) != 4 || ps[0].Name != "Ana" || ps[3].Name != "Duarte" {
			t.Fatalf("unexpected participants: %+v", ps)
		}
		dup := RowParticipant{ID: uuid.NewString(), DrawingID: d.ID, Name: "ana", NameKey: "Ana", Phone: "912345600", CreatedAt: base.Add(time.Hour)}
		if err := r.InsertParticipant(ctx, dup); !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
			t.Fatalf("want duplicate key, got %v", err)
		}
		upd := ps[1]
		upd.Phone = "+351900000000"
		if err := r.UpdateParticipant(ctx, upd); err != nil {
			t.Fatalf("UpdateParticipant: %v", err)
		}
		ps, _ = r.Participants(ctx, d.ID)
		if ps[1].Phone != "+351900000000" {
			t.Fatalf("phone not updated: %+v", ps[1])
		}
		missing := upd
		missing.ID = uuid.NewString()
		if err := r.UpdateParticipant(ctx, missing); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Fatalf("want not found, got %v", err)
		}
		clash := ps[1]
		clash.Name, clash.NameKey = ps[0].Name, ps[0].NameKey
		if err := r.UpdateParticipant(ctx, clash); !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
			t.Fatalf("want duplicate key, got %v", err)
		}
	})

	t.Run("restriction pairs", func(t *testing.T) {
		pair := uuid.NewString()
		rs := []RowRestriction{
			{ID: uuid.NewString(), DrawingID: d.ID, FromID: ids[0], ToID: ids[1], PairID: pair},
			{ID: uuid.NewString(), DrawingID: d.ID, FromID: ids[1], ToID: ids[0], PairID: pair},
		}
		if err := r.InsertRestrictions(ctx, rs); err != nil {
			t.Fatalf("InsertRestrictions: %v", err)
		}
		dup := []RowRestriction{{ID: uuid.NewString(), DrawingID: d.ID, FromID: ids[0], ToID: ids[1], PairID: uuid.NewString()}}
		if err := r.InsertRestrictions(ctx, dup); !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
			t.Fatalf("want duplicate key, got %v", err)
		}
		n, err := r.DeleteRestrictionPair(ctx, d.ID, rs[1].ID)
		if err != nil || n != 2 {
			t.Fatalf("DeleteRestrictionPair n=%d err=%v", n, err)
		}
		left, _ := r.Restrictions(ctx, d.ID)
		if len(left) != 0 {
			t.Fatalf("restrictions left: %+v", left)
		}
		if _, err := r.DeleteRestrictionPair(ctx, d.ID, rs[0].ID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Fatalf("want not found, got %v", err)
		}
	})

	t.Run("fixation upsert", func(t *testing.T) {
		first, err := r.UpsertFixation(ctx, RowFixation{ID: uuid.NewString(), DrawingID: d.ID, FromID: ids[0], ToID: ids[2]})
		if err != nil {
			t.Fatalf("UpsertFixation: %v", err)
		}
		second, err := r.UpsertFixation(ctx, RowFixation{ID: uuid.NewString(), DrawingID: d.ID, FromID: ids[0], ToID: ids[3]})
		if err != nil {
			t.Fatalf("UpsertFixation replace: %v", err)
		}
		if second.ID != first.ID || second.ToID != ids[3] {
			t.Fatalf("replace should keep id and move receiver: %+v vs %+v", first, second)
		}
		fs, _ := r.Fixations(ctx, d.ID)
		if len(fs) != 1 {
			t.Fatalf("want one fixation, got %+v", fs)
		}
		if err := r.DeleteFixation(ctx, d.ID, first.ID); err != nil {
			t.Fatalf("DeleteFixation: %v", err)
		}
		if err := r.DeleteFixation(ctx, d.ID, first.ID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Fatalf("want not found, got %v", err)
		}
	})

	t.Run("draw save and clear", func(t *testing.T) {
		at := base.Add(2 * time.Hour)
		results := []RowResult{
			{GiverID: ids[0], ReceiverID: ids[1], Token: "t0"},
			{GiverID: ids[1], ReceiverID: ids[2], Token: "t1"},
			{GiverID: ids[2], ReceiverID: ids[3], Token: "t2"},
			{GiverID: ids[3], ReceiverID: ids[0], Token: "t3"},
		}
		if err := r.SaveDraw(ctx, DrawMeta{DrawingID: d.ID, DrawnAt: at, Attempts: 2, Strategy: "shuffle"}, results); err != nil {
			t.Fatalf("SaveDraw: %v", err)
		}
		got, _ := r.GetDrawing(ctx, d.ID)
		if got.DrawnAt == nil || !got.DrawnAt.Equal(at) || got.DrawAttempts != 2 || got.DrawStrategy != "shuffle" {
			t.Fatalf("draw meta not stored: %+v", got)
		}
		rs, err := r.Results(ctx, d.ID)
		if err != nil || len(rs) != 4 || rs[0].Token != "t0" || rs[3].ReceiverID != ids[0] {
			t.Fatalf("Results = %+v err=%v", rs, err)
		}

		// saving again replaces
		if err := r.SaveDraw(ctx, DrawMeta{DrawingID: d.ID, DrawnAt: at, Attempts: 1, Strategy: "search"}, results[:0]); err != nil {
			t.Fatalf("SaveDraw replace: %v", err)
		}
		rs, _ = r.Results(ctx, d.ID)
		if len(rs) != 0 {
			t.Fatalf("results should be replaced, got %+v", rs)
		}

		if err := r.ClearDraw(ctx, d.ID, at.Add(time.Minute)); err != nil {
			t.Fatalf("ClearDraw: %v", err)
		}
		got, _ = r.GetDrawing(ctx, d.ID)
		if got.DrawnAt != nil || got.DrawAttempts != 0 || got.DrawStrategy != "" {
			t.Fatalf("draw not cleared: %+v", got)
		}
	})

	t.Run("participant removal cascades", func(t *testing.T) {
		pair := uuid.NewString()
		if err := r.InsertRestrictions(ctx, []RowRestriction{
			{ID: uuid.NewString(), DrawingID: d.ID, FromID: ids[2], ToID: ids[3], PairID: pair},
		}); err != nil {
			t.Fatalf("InsertRestrictions: %v", err)
		}
		if _, err := r.UpsertFixation(ctx, RowFixation{ID: uuid.NewString(), DrawingID: d.ID, FromID: ids[1], ToID: ids[3]}); err != nil {
			t.Fatalf("UpsertFixation: %v", err)
		}
		if err := r.DeleteParticipant(ctx, d.ID, ids[3]); err != nil {
			t.Fatalf("DeleteParticipant: %v", err)
		}
		rs, _ := r.Restrictions(ctx, d.ID)
		fs, _ := r.Fixations(ctx, d.ID)
		if len(rs) != 0 || len(fs) != 0 {
			t.Fatalf("cascade missed rows: %+v %+v", rs, fs)
		}
		if err := r.DeleteParticipant(ctx, d.ID, ids[3]); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Fatalf("want not found, got %v", err)
		}
	})

	t.Run("drawing delete", func(t *testing.T) {
		if err := r.DeleteDrawing(ctx, d.ID); err != nil {
			t.Fatalf("DeleteDrawing: %v", err)
		}
		ps, _ := r.Participants(ctx, d.ID)
		if len(ps) != 0 {
			t.Fatalf("participants survived delete: %+v", ps)
		}
		if err := r.DeleteDrawing(ctx, d.ID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Fatalf("want not found, got %v", err)
		}
	})
}
