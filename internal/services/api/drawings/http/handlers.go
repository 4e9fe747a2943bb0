// Package http provides http transport for drawings
package http

import (
	stdhttp "net/http"

	"secretsanta/internal/core/token"
	"secretsanta/internal/modkit/httpkit"
	perr "secretsanta/internal/platform/errors"
	"secretsanta/internal/services/api/drawings/domain"
	svc "secretsanta/internal/services/api/drawings/service"
)

// EditTokens accepts bearer values shaped like a token and passes them through
// the service compares them against the drawing it loads
func EditTokens(raw string) (string, error) {
	if !token.Valid(raw) {
		return "", perr.Unauthorizedf("invalid edit token")
	}
	return raw, nil
}

// Register mounts drawings endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON(r, "/", h.create)
	httpkit.Get(r, "/{id}/results", h.results)
	r.Get("/{id}/export", h.export)

	httpkit.Protected(r, httpkit.NewPortFunc(EditTokens), func(pr httpkit.Router) {
		httpkit.Get(pr, "/{id}", h.get)
		httpkit.PutJSON(pr, "/{id}", h.update)
		httpkit.Delete(pr, "/{id}", h.remove)

		httpkit.PostJSON(pr, "/{id}/participants", h.addParticipant)
		httpkit.PutJSON(pr, "/{id}/participants/{pid}", h.updateParticipant)
		httpkit.Delete(pr, "/{id}/participants/{pid}", h.removeParticipant)

		httpkit.PostJSON(pr, "/{id}/restrictions", h.addRestriction)
		httpkit.Delete(pr, "/{id}/restrictions/{rid}", h.removeRestriction)

		httpkit.PostJSON(pr, "/{id}/fixations", h.setFixation)
		httpkit.Delete(pr, "/{id}/fixations/{fid}", h.removeFixation)

		httpkit.Post(pr, "/{id}/draw", h.execute)
		httpkit.Delete(pr, "/{id}/draw", h.reset)
		httpkit.Post(pr, "/{id}/notify", h.notify)
	})
}

type handlers struct{ svc svc.Service }

func (h *handlers) create(r *stdhttp.Request, in domain.CreateDrawingInput) (any, error) {
	out, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"), tok)
}

func (h *handlers) update(r *stdhttp.Request, in domain.UpdateDrawingInput) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Update(r.Context(), httpkit.Param(r, "id"), tok, in)
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), httpkit.Param(r, "id"), tok); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) addParticipant(r *stdhttp.Request, in domain.ParticipantInput) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.AddParticipant(r.Context(), httpkit.Param(r, "id"), tok, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) updateParticipant(r *stdhttp.Request, in domain.UpdateParticipantInput) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	return h.svc.UpdateParticipant(r.Context(), httpkit.Param(r, "id"), tok, httpkit.Param(r, "pid"), in)
}

func (h *handlers) removeParticipant(r *stdhttp.Request) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.RemoveParticipant(r.Context(), httpkit.Param(r, "id"), tok, httpkit.Param(r, "pid")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) addRestriction(r *stdhttp.Request, in domain.RestrictionInput) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	out, err := h.svc.AddRestriction(r.Context(), httpkit.Param(r, "id"), tok, in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

func (h *handlers) removeRestriction(r *stdhttp.Request) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.RemoveRestriction(r.Context(), httpkit.Param(r, "id"), tok, httpkit.Param(r, "rid")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) setFixation(r *stdhttp.Request, in domain.FixationInput) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	return h.svc.SetFixation(r.Context(), httpkit.Param(r, "id"), tok, in)
}

func (h *handlers) removeFixation(r *stdhttp.Request) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.RemoveFixation(r.Context(), httpkit.Param(r, "id"), tok, httpkit.Param(r, "fid")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) execute(r *stdhttp.Request) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Execute(r.Context(), httpkit.Param(r, "id"), tok)
}

func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	if err := h.svc.Reset(r.Context(), httpkit.Param(r, "id"), tok); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) notify(r *stdhttp.Request) (any, error) {
	tok, err := httpkit.Bearer(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Notify(r.Context(), httpkit.Param(r, "id"), tok)
}

func (h *handlers) results(r *stdhttp.Request) (any, error) {
	return h.svc.Results(r.Context(), httpkit.Param(r, "id"), httpkit.Query(r, "token"))
}

func (h *handlers) export(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := httpkit.Param(r, "id")
	out, err := h.svc.Export(r.Context(), id, httpkit.Query(r, "token"))
	if err != nil {
		httpkit.Fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="secret-santa-`+id+`.csv"`)
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write(out)
}
