// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Registration associates a file extension with a byte stream handler.
type Registration struct {
	Extension   string
	HandlerID   uuid.UUID
	Description string
}

// RegistrationStore is the persisted extension table a host resolver uses
// to pick a handler. Handlers write their identity into it; they never read
// it back.
type RegistrationStore interface {
	Register(ext string, id uuid.UUID, description string) error
	Unregister(ext string, id uuid.UUID) error
}

// Registry is an in-memory RegistrationStore. Several handlers may claim the
// same extension.
type Registry struct {
	handlers map[string]map[uuid.UUID]string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]map[uuid.UUID]string),
		mtx:      &sync.Mutex{},
	}
}

// NormalizeExtension lower-cases ext and gives it a leading dot.
func NormalizeExtension(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" || strings.ContainsAny(ext, `./\`) {
		return "", ErrInvalidExtension
	}
	return "." + ext, nil
}

func (r *Registry) Register(ext string, id uuid.UUID, description string) error {
	ext, err := NormalizeExtension(ext)
	if err != nil {
		return err
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	byID, ok := r.handlers[ext]
	if !ok {
		byID = make(map[uuid.UUID]string)
		r.handlers[ext] = byID
	}
	byID[id] = description
	return nil
}

func (r *Registry) Unregister(ext string, id uuid.UUID) error {
	ext, err := NormalizeExtension(ext)
	if err != nil {
		return err
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	byID, ok := r.handlers[ext]
	if !ok {
		return ErrNotRegistered
	}
	if _, ok := byID[id]; !ok {
		return ErrNotRegistered
	}
	delete(byID, id)
	if len(byID) == 0 {
		delete(r.handlers, ext)
	}
	return nil
}

// Lookup returns the handlers registered for ext, ordered by handler id.
func (r *Registry) Lookup(ext string) ([]Registration, bool) {
	ext, err := NormalizeExtension(ext)
	if err != nil {
		return nil, false
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	byID, ok := r.handlers[ext]
	if !ok {
		return nil, false
	}
	return sortedRegistrations(ext, byID), true
}

// All returns every registration, ordered by extension then handler id.
func (r *Registry) All() []Registration {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	exts := make([]string, 0, len(r.handlers))
	for ext := range r.handlers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)

	var out []Registration
	for _, ext := range exts {
		out = append(out, sortedRegistrations(ext, r.handlers[ext])...)
	}
	return out
}

func sortedRegistrations(ext string, byID map[uuid.UUID]string) []Registration {
	out := make([]Registration, 0, len(byID))
	for id, desc := range byID {
		out = append(out, Registration{Extension: ext, HandlerID: id, Description: desc})
	}
	slices.SortFunc(out, func(a, b Registration) int {
		return bytes.Compare(a.HandlerID[:], b.HandlerID[:])
	})
	return out
}
