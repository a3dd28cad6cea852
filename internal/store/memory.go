package store

import (
	"iter"
	"strings"
	"sync"

	"github.com/git-pkgs/gallery/internal/core"
)

type stagedOp struct {
	insert bool
	entity any
}

// Memory is an in-process Store. Mutations are staged and applied on
// Commit under a single lock, with the same uniqueness enforcement a
// real backend provides through constraints.
type Memory struct {
	mu        sync.Mutex
	order     []string // lowercased identities in insertion order
	regs      map[string]*core.Registration
	requests  []*core.OwnerRequest
	downloads []*core.DownloadStatistic
	staged    []stagedOp
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{regs: make(map[string]*core.Registration)}
}

// Registrations iterates committed registrations in insertion order,
// followed by any staged in the current unit of work.
func (m *Memory) Registrations() iter.Seq[*core.Registration] {
	m.mu.Lock()
	regs := make([]*core.Registration, 0, len(m.order))
	for _, id := range m.order {
		regs = append(regs, m.regs[id])
	}
	for _, op := range m.staged {
		if reg, ok := op.entity.(*core.Registration); ok && op.insert {
			regs = append(regs, reg)
		}
	}
	m.mu.Unlock()

	return func(yield func(*core.Registration) bool) {
		for _, reg := range regs {
			if !yield(reg) {
				return
			}
		}
	}
}

// OwnerRequests iterates committed ownership requests.
func (m *Memory) OwnerRequests() iter.Seq[*core.OwnerRequest] {
	m.mu.Lock()
	reqs := make([]*core.OwnerRequest, len(m.requests))
	copy(reqs, m.requests)
	m.mu.Unlock()

	return func(yield func(*core.OwnerRequest) bool) {
		for _, req := range reqs {
			if !yield(req) {
				return
			}
		}
	}
}

// Downloads iterates recorded download statistics. Not part of the Store
// contract; exposed for tests and embedding callers.
func (m *Memory) Downloads() iter.Seq[*core.DownloadStatistic] {
	m.mu.Lock()
	ds := make([]*core.DownloadStatistic, len(m.downloads))
	copy(ds, m.downloads)
	m.mu.Unlock()

	return func(yield func(*core.DownloadStatistic) bool) {
		for _, d := range ds {
			if !yield(d) {
				return
			}
		}
	}
}

// Insert stages an entity for insertion.
func (m *Memory) Insert(entity any) {
	m.mu.Lock()
	m.staged = append(m.staged, stagedOp{insert: true, entity: entity})
	m.mu.Unlock()
}

// Delete stages an entity for removal.
func (m *Memory) Delete(entity any) {
	m.mu.Lock()
	m.staged = append(m.staged, stagedOp{insert: false, entity: entity})
	m.mu.Unlock()
}

// Discard drops the staged set without applying it.
func (m *Memory) Discard() {
	m.mu.Lock()
	m.staged = nil
	m.mu.Unlock()
}

// Commit applies the staged set. All constraint checks run before any
// mutation is applied; on failure the staged set is discarded untouched.
func (m *Memory) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := m.staged
	m.staged = nil

	if err := m.check(staged); err != nil {
		return err
	}

	for _, op := range staged {
		switch e := op.entity.(type) {
		case *core.Registration:
			if op.insert {
				key := strings.ToLower(e.ID)
				m.regs[key] = e
				m.order = append(m.order, key)
			}
		case *core.OwnerRequest:
			if op.insert {
				m.requests = append(m.requests, e)
			} else {
				m.removeRequest(e)
			}
		case *core.DownloadStatistic:
			if op.insert {
				m.downloads = append(m.downloads, e)
			}
		case *core.Version:
			// Versions live inside their registration's collection;
			// the insert is covered by the ownership relation.
		}
	}
	return nil
}

func (m *Memory) check(staged []stagedOp) error {
	seen := make(map[string]bool)
	for _, op := range staged {
		if !op.insert {
			continue
		}
		switch e := op.entity.(type) {
		case *core.Registration:
			key := strings.ToLower(e.ID)
			if _, exists := m.regs[key]; exists || seen[key] {
				return ErrDuplicateIdentity
			}
			seen[key] = true
		case *core.Version:
			count := 0
			for _, v := range e.Registration.Versions {
				if strings.EqualFold(v.NormalizedVersion, e.NormalizedVersion) {
					count++
				}
			}
			if count > 1 {
				return ErrDuplicateVersion
			}
		}
	}
	return nil
}

func (m *Memory) removeRequest(req *core.OwnerRequest) {
	for i, r := range m.requests {
		if r == req {
			m.requests = append(m.requests[:i], m.requests[i+1:]...)
			return
		}
	}
}
