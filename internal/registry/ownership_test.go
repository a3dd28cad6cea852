package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/git-pkgs/gallery/internal/core"
	"github.com/git-pkgs/gallery/internal/store"
)

func ownershipFixture(t *testing.T) (*testEnv, *core.Registration, *core.User, *core.User) {
	t.Helper()
	env := newTestEnv(t)
	alice := testUser("alice")
	bob := testUser("bob")
	env.mustCreate(t, testMetadata("Foo.Bar", "1.0.0"), alice)

	reg, err := env.dir.ByIdentity("Foo.Bar")
	if err != nil {
		t.Fatalf("fixture registration missing: %v", err)
	}
	return env, reg, alice, bob
}

func TestRequestOwnerIdempotent(t *testing.T) {
	env, reg, alice, bob := ownershipFixture(t)

	first, err := env.service.RequestOwner(reg, alice, bob)
	if err != nil {
		t.Fatalf("RequestOwner failed: %v", err)
	}
	if first.ConfirmationCode != "token-1" {
		t.Errorf("unexpected token %q", first.ConfirmationCode)
	}

	second, err := env.service.RequestOwner(reg, alice, bob)
	if err != nil {
		t.Fatalf("repeat RequestOwner failed: %v", err)
	}
	if second != first {
		t.Error("repeat request should return the pending request unchanged")
	}

	count := 0
	for range env.store.OwnerRequests() {
		count++
	}
	if count != 1 {
		t.Errorf("expected a single pending request, got %d", count)
	}
}

func TestRequestOwnerRequiresOwnership(t *testing.T) {
	env, reg, _, bob := ownershipFixture(t)

	if _, err := env.service.RequestOwner(reg, bob, testUser("carol")); !errors.Is(err, core.ErrAuthorization) {
		t.Fatalf("expected ErrAuthorization for non-owner requester, got %v", err)
	}
}

func TestConfirmOwnerWrongTokenNeverMutates(t *testing.T) {
	env, reg, alice, bob := ownershipFixture(t)
	if _, err := env.service.RequestOwner(reg, alice, bob); err != nil {
		t.Fatalf("RequestOwner failed: %v", err)
	}

	result, err := env.service.ConfirmOwner(reg, bob, "wrong-token")
	if err != nil {
		t.Fatalf("ConfirmOwner failed: %v", err)
	}
	if result != ConfirmFailure {
		t.Fatalf("expected ConfirmFailure, got %v", result)
	}
	if reg.IsOwner(bob) {
		t.Error("wrong token mutated the owner set")
	}
}

func TestConfirmOwnerWithoutRequestLooksLikeWrongToken(t *testing.T) {
	env, reg, _, bob := ownershipFixture(t)

	result, err := env.service.ConfirmOwner(reg, bob, "token-1")
	if err != nil {
		t.Fatalf("ConfirmOwner failed: %v", err)
	}
	if result != ConfirmFailure {
		t.Fatalf("expected ConfirmFailure when no request exists, got %v", result)
	}
}

func TestConfirmOwnerSuccessThenAlreadyOwner(t *testing.T) {
	env, reg, alice, bob := ownershipFixture(t)
	req, err := env.service.RequestOwner(reg, alice, bob)
	if err != nil {
		t.Fatalf("RequestOwner failed: %v", err)
	}

	result, err := env.service.ConfirmOwner(reg, bob, req.ConfirmationCode)
	if err != nil {
		t.Fatalf("ConfirmOwner failed: %v", err)
	}
	if result != ConfirmSuccess {
		t.Fatalf("expected ConfirmSuccess, got %v", result)
	}
	if !reg.IsOwner(bob) {
		t.Fatal("confirmed candidate is not an owner")
	}
	for range env.store.OwnerRequests() {
		t.Fatal("pending request survived confirmation")
	}

	// Replaying the confirmation is safe.
	result, err = env.service.ConfirmOwner(reg, bob, req.ConfirmationCode)
	if err != nil {
		t.Fatalf("repeat ConfirmOwner failed: %v", err)
	}
	if result != ConfirmAlreadyOwner {
		t.Fatalf("expected ConfirmAlreadyOwner, got %v", result)
	}
}

func flakyOwnershipFixture(t *testing.T) (*flakyStore, *Service, *core.Registration, *core.OwnerRequest, *core.User) {
	t.Helper()
	flaky := &flakyStore{Memory: store.NewMemory()}
	svc := NewService(flaky, WithTokenSource(&seqTokens{}))
	alice := testUser("alice")
	bob := testUser("bob")

	if _, err := svc.CreatePackage(context.Background(), testMetadata("Foo.Bar", "1.0.0"), testStream, alice); err != nil {
		t.Fatalf("CreatePackage failed: %v", err)
	}
	reg, err := NewDirectory(flaky).ByIdentity("Foo.Bar")
	if err != nil {
		t.Fatalf("fixture registration missing: %v", err)
	}
	req, err := svc.RequestOwner(reg, alice, bob)
	if err != nil {
		t.Fatalf("RequestOwner failed: %v", err)
	}
	return flaky, svc, reg, req, bob
}

func TestConfirmOwnerRetriesRequestDelete(t *testing.T) {
	flaky, svc, reg, req, bob := flakyOwnershipFixture(t)

	// The first commit fails and discards the staged delete; the retry
	// must stage it again rather than flush an empty unit of work.
	flaky.failures = 1
	result, err := svc.ConfirmOwner(reg, bob, req.ConfirmationCode)
	if err != nil {
		t.Fatalf("ConfirmOwner failed: %v", err)
	}
	if result != ConfirmSuccess {
		t.Fatalf("expected ConfirmSuccess, got %v", result)
	}
	if !reg.IsOwner(bob) {
		t.Error("confirmed candidate is not an owner")
	}
	for range flaky.OwnerRequests() {
		t.Fatal("pending request survived the retried delete")
	}
}

func TestConfirmOwnerCleanupFailureKeepsOwnership(t *testing.T) {
	flaky, svc, reg, req, bob := flakyOwnershipFixture(t)

	flaky.failures = 10
	result, err := svc.ConfirmOwner(reg, bob, req.ConfirmationCode)
	if !errors.Is(err, core.ErrInvariant) {
		t.Fatalf("expected ErrInvariant when the delete never lands, got %v", err)
	}
	if result != ConfirmSuccess {
		t.Fatalf("expected ConfirmSuccess despite cleanup failure, got %v", result)
	}
	if !reg.IsOwner(bob) {
		t.Error("cleanup failure rolled the ownership back")
	}

	count := 0
	for range flaky.OwnerRequests() {
		count++
	}
	if count != 1 {
		t.Errorf("expected the pending request to survive, got %d", count)
	}
}

func TestRemoveOwnerSoleOwner(t *testing.T) {
	env, reg, alice, _ := ownershipFixture(t)

	err := env.service.RemoveOwner(reg, alice)
	if !errors.Is(err, core.ErrInvariant) {
		t.Fatalf("expected ErrInvariant removing the sole owner, got %v", err)
	}
	if len(reg.Owners) != 1 || !reg.IsOwner(alice) {
		t.Error("failed removal changed the owner set")
	}
}

func TestRemoveOwnerSecondOwner(t *testing.T) {
	env, reg, alice, bob := ownershipFixture(t)
	req, _ := env.service.RequestOwner(reg, alice, bob)
	if _, err := env.service.ConfirmOwner(reg, bob, req.ConfirmationCode); err != nil {
		t.Fatalf("ConfirmOwner failed: %v", err)
	}

	if err := env.service.RemoveOwner(reg, alice); err != nil {
		t.Fatalf("RemoveOwner failed: %v", err)
	}
	if reg.IsOwner(alice) || !reg.IsOwner(bob) {
		t.Errorf("unexpected owner set after removal: %v", reg.Owners)
	}
}

func TestRemoveOwnerCancelsPendingRequest(t *testing.T) {
	env, reg, alice, bob := ownershipFixture(t)
	if _, err := env.service.RequestOwner(reg, alice, bob); err != nil {
		t.Fatalf("RequestOwner failed: %v", err)
	}

	if err := env.service.RemoveOwner(reg, bob); err != nil {
		t.Fatalf("RemoveOwner failed: %v", err)
	}
	for range env.store.OwnerRequests() {
		t.Fatal("pending request survived reinterpretation as cancel")
	}
	if reg.IsOwner(bob) {
		t.Error("cancelled candidate became an owner")
	}
}

func TestRemoveOwnerUnknownAccount(t *testing.T) {
	env, reg, _, bob := ownershipFixture(t)

	if err := env.service.RemoveOwner(reg, bob); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelOwnerRequest(t *testing.T) {
	env, reg, alice, bob := ownershipFixture(t)
	if _, err := env.service.RequestOwner(reg, alice, bob); err != nil {
		t.Fatalf("RequestOwner failed: %v", err)
	}

	if err := env.service.CancelOwnerRequest(reg, bob); err != nil {
		t.Fatalf("CancelOwnerRequest failed: %v", err)
	}
	for range env.store.OwnerRequests() {
		t.Fatal("request survived cancellation")
	}

	if err := env.service.CancelOwnerRequest(reg, bob); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound cancelling twice, got %v", err)
	}
}
