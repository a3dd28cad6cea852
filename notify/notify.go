// Package notify delivers search-index change notifications for the
// gallery. Notifications are fire-and-forget: the registry's bookkeeping
// never depends on the index hearing about a change.
package notify

import "context"

// Notifier is the search-index collaborator contract.
type Notifier interface {
	// NotifyChanged signals that package data changed and the index
	// should refresh.
	NotifyChanged(ctx context.Context) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) NotifyChanged(context.Context) error { return nil }

// Func adapts a plain function to the Notifier interface.
type Func func(ctx context.Context) error

func (f Func) NotifyChanged(ctx context.Context) error { return f(ctx) }
