package store

import (
	"slices"

	"github.com/celerix-dev/celerix-hk/pkg/schema"
)

// ProfileStore caches the single profile of the current session.
type ProfileStore struct {
	*Store[schema.Profile]
}

// NewProfileStore creates an empty profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{Store: New(schema.Profile.Clone)}
}

// SetProfile replaces the cached profile and clears any error.
func (p *ProfileStore) SetProfile(profile schema.Profile) { p.Set(profile) }

// HasProfile reports whether a profile is cached.
func (p *ProfileStore) HasProfile() bool { return p.Has() }

// Profile returns a copy of the cached profile, or nil.
func (p *ProfileStore) Profile() *schema.Profile { return p.Snapshot().Data }

// StatusStore caches the latest room-attendant status breakdown.
type StatusStore = Store[[]schema.RoomAttendantStatusCount]

// NewStatusStore creates an empty status store.
func NewStatusStore() *StatusStore {
	return New(slices.Clone[[]schema.RoomAttendantStatusCount])
}

// RoomSearch is a search result together with the bounds that produced it.
type RoomSearch struct {
	StartRoom string
	EndRoom   string
	Rooms     []schema.RoomSearchRecord
}

// RoomSearchStore caches the most recent room search.
type RoomSearchStore = Store[RoomSearch]

// NewRoomSearchStore creates an empty room search store.
func NewRoomSearchStore() *RoomSearchStore {
	return New(func(s RoomSearch) RoomSearch {
		s.Rooms = slices.Clone(s.Rooms)
		return s
	})
}
