package registry

import (
	"crypto/subtle"
	"time"

	"github.com/cenk/backoff"
	"go.uber.org/zap"

	"github.com/git-pkgs/gallery/internal/core"
)

// ConfirmResult is the outcome of an ownership confirmation attempt.
type ConfirmResult int

const (
	// ConfirmFailure covers both "no pending request" and "wrong token".
	// The two are deliberately indistinguishable so a caller cannot
	// probe for request existence.
	ConfirmFailure ConfirmResult = iota

	// ConfirmSuccess means the candidate was added as a co-owner.
	ConfirmSuccess

	// ConfirmAlreadyOwner means the candidate already owned the
	// registration; nothing changed.
	ConfirmAlreadyOwner
)

// RequestOwner opens (or returns the existing) pending co-ownership
// request for candidate. Repeated requests for the same candidate return
// the original request unchanged, token included.
func (s *Service) RequestOwner(reg *core.Registration, requesting, candidate *core.User) (*core.OwnerRequest, error) {
	if !reg.IsOwner(requesting) {
		return nil, &core.AuthorizationError{ID: reg.ID, User: requesting.Username}
	}

	if existing := s.findOwnerRequest(reg, candidate); existing != nil {
		return existing, nil
	}

	token, err := s.tokens.Token()
	if err != nil {
		return nil, err
	}
	req := &core.OwnerRequest{
		Registration:     reg,
		RequestingOwner:  requesting,
		NewOwner:         candidate,
		ConfirmationCode: token,
		RequestDate:      s.now(),
	}
	s.store.Insert(req)
	if err := s.commit(reg.ID, ""); err != nil {
		return nil, err
	}

	s.logger.Info("owner request created",
		zap.String("id", reg.ID),
		zap.String("candidate", candidate.Username))
	return req, nil
}

// ConfirmOwner redeems a pending request's token. On success the
// candidate joins the owner set and the request is destroyed in the
// same logical transition. The owner-add lands first: if destroying the
// request keeps failing, a retried confirmation is a no-op on ownership
// while the request delete gets another chance.
func (s *Service) ConfirmOwner(reg *core.Registration, candidate *core.User, token string) (ConfirmResult, error) {
	if reg.IsOwner(candidate) {
		return ConfirmAlreadyOwner, nil
	}

	req := s.findOwnerRequest(reg, candidate)
	if req == nil || subtle.ConstantTimeCompare([]byte(req.ConfirmationCode), []byte(token)) != 1 {
		return ConfirmFailure, nil
	}

	reg.AddOwner(candidate)

	// A failed commit discards the staged set, so each attempt must
	// stage the request delete again before committing.
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	if err := backoff.Retry(func() error {
		s.store.Delete(req)
		return s.store.Commit()
	}, backoff.WithMaxRetries(policy, 3)); err != nil {
		// Ownership stands; only the request delete is outstanding.
		// Rolling the owner back would hand the token a second life.
		return ConfirmSuccess, &core.InvariantError{
			Op:     "confirm owner",
			Reason: "request cleanup failed: " + err.Error(),
		}
	}

	s.logger.Info("owner confirmed",
		zap.String("id", reg.ID),
		zap.String("owner", candidate.Username))
	return ConfirmSuccess, nil
}

// CancelOwnerRequest withdraws the pending request for candidate.
func (s *Service) CancelOwnerRequest(reg *core.Registration, candidate *core.User) error {
	req := s.findOwnerRequest(reg, candidate)
	if req == nil {
		return &core.NotFoundError{ID: reg.ID}
	}
	s.store.Delete(req)
	return s.commit(reg.ID, "")
}

// RemoveOwner removes owner from the registration. Removing the sole
// remaining owner is an illegal transition: ownership never drops to
// zero. If the named account only holds a pending request, the removal
// is reinterpreted as cancelling that request.
func (s *Service) RemoveOwner(reg *core.Registration, owner *core.User) error {
	if reg.IsOwner(owner) {
		if len(reg.Owners) == 1 {
			return &core.InvariantError{
				Op:     "remove owner",
				Reason: "a registration must keep at least one owner",
			}
		}
		reg.RemoveOwner(owner)
		if err := s.commit(reg.ID, ""); err != nil {
			return err
		}
		s.logger.Info("owner removed",
			zap.String("id", reg.ID),
			zap.String("owner", owner.Username))
		return nil
	}

	if req := s.findOwnerRequest(reg, owner); req != nil {
		s.store.Delete(req)
		return s.commit(reg.ID, "")
	}
	return &core.NotFoundError{ID: reg.ID}
}

// findOwnerRequest returns the pending request for (registration,
// candidate), or nil. At most one can exist.
func (s *Service) findOwnerRequest(reg *core.Registration, candidate *core.User) *core.OwnerRequest {
	for req := range s.store.OwnerRequests() {
		if req.Registration.Key == reg.Key && req.NewOwner.Key == candidate.Key {
			return req
		}
	}
	return nil
}
