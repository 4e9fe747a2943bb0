package service

import (
	"errors"

	"secretsanta/internal/core/matcher"
	perr "secretsanta/internal/platform/errors"
	auditdom "secretsanta/internal/services/audit/domain"
)

const msgForbidden = "invalid token or drawing not found"

// translate maps matcher failures to project errors, ids are shown by name
func translate(err error, names map[string]string) error {
	name := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}
	var (
		ve *matcher.ValidationError
		ce *matcher.ConflictError
		ie *matcher.InfeasibleError
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, matcher.ErrInsufficientParticipants):
		return perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "at least 2 participants are needed to draw"), "participants")
	case errors.As(err, &ve):
		msg := ve.Field + ": " + ve.Reason
		if ve.ID != "" {
			msg = ve.Field + " " + name(ve.ID) + ": " + ve.Reason
		}
		return perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, msg), ve.Field)
	case errors.As(err, &ce):
		return perr.Wrapf(err, perr.ErrorCodeConflict, "fixation %s -> %s: %s", name(ce.Giver), name(ce.Receiver), ce.Reason)
	case errors.As(err, &ie):
		return perr.Wrapf(err, perr.ErrorCodeInfeasible,
			"no valid assignment after %d attempts, remove some restrictions or fixations", ie.Attempts)
	}
	return err
}

// outcome classifies a draw error for the audit trail
func outcome(err error) string {
	switch {
	case err == nil:
		return auditdom.OutcomeOK
	case errors.Is(err, matcher.ErrInsufficientParticipants), errors.Is(err, matcher.ErrInvalidInput):
		return auditdom.OutcomeInvalid
	case errors.Is(err, matcher.ErrConflictingConstraint):
		return auditdom.OutcomeConflict
	case errors.Is(err, matcher.ErrInfeasible):
		return auditdom.OutcomeInfeasible
	}
	return auditdom.OutcomeError
}
