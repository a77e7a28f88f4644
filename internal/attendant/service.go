// Package attendant drives the room-attendant screens: it fetches from the
// backend and commits the results into the client-side stores.
package attendant

import (
	"context"

	"go.uber.org/zap"

	"github.com/celerix-dev/celerix-hk/internal/store"
	"github.com/celerix-dev/celerix-hk/pkg/schema"
	"github.com/celerix-dev/celerix-hk/pkg/sdk"
)

// Service owns the stores and is the only writer to them.
// Overlapping calls of one operation share that store's loading flag.
type Service struct {
	api    sdk.HousekeepingAPI
	logger *zap.Logger

	Profile *store.ProfileStore
	Status  *store.StatusStore
	Rooms   *store.RoomSearchStore
	Session *store.SessionStore
}

// NewService wires a service with fresh, empty stores.
func NewService(api sdk.HousekeepingAPI, identity sdk.IdentityProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:     api,
		logger:  logger,
		Profile: store.NewProfileStore(),
		Status:  store.NewStatusStore(),
		Rooms:   store.NewRoomSearchStore(),
		Session: store.NewSessionStore(identity, logger),
	}
}

// LoadProfile fetches the profile and replaces the cached one.
// On failure the previous profile stays cached and the error is recorded.
func (s *Service) LoadProfile(ctx context.Context) (schema.Profile, error) {
	s.Profile.SetLoading(true)
	defer s.Profile.SetLoading(false)

	p, err := s.api.GetProfile(ctx)
	if err != nil {
		s.logger.Error("Failed to load profile", zap.Error(err))
		s.Profile.SetError(err.Error())
		return schema.Profile{}, err
	}
	s.Profile.SetProfile(p)
	return p, nil
}

// RefreshStatus fetches the status breakdown and replaces the cached one.
func (s *Service) RefreshStatus(ctx context.Context) ([]schema.RoomAttendantStatusCount, error) {
	s.Status.SetLoading(true)
	defer s.Status.SetLoading(false)

	rows, err := s.api.GetStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to refresh status", zap.Error(err))
		s.Status.SetError(err.Error())
		return nil, err
	}
	s.Status.Set(rows)
	return rows, nil
}

// Search lists rooms in the given range and caches the result with its
// bounds. Empty bounds are rejected without touching the store.
func (s *Service) Search(ctx context.Context, startRoom, endRoom string) ([]schema.RoomSearchRecord, error) {
	if startRoom == "" || endRoom == "" {
		return nil, sdk.ErrEmptyRoom
	}

	s.Rooms.SetLoading(true)
	defer s.Rooms.SetLoading(false)

	rooms, err := s.api.SearchRooms(ctx, startRoom, endRoom)
	if err != nil {
		s.logger.Error("Room search failed",
			zap.String("start_room", startRoom),
			zap.String("end_room", endRoom),
			zap.Error(err))
		s.Rooms.SetError(err.Error())
		return nil, err
	}
	s.Rooms.Set(store.RoomSearch{StartRoom: startRoom, EndRoom: endRoom, Rooms: rooms})
	return rooms, nil
}

// UpdateRoom submits a status change. On success the status counts and the
// last search are fetched again; failures of those follow-ups land in the
// stores and do not fail the update.
func (s *Service) UpdateRoom(ctx context.Context, cmd schema.RoomUpdateCommand) ([]schema.RoomUpdateResult, error) {
	results, err := s.api.UpdateRoom(ctx, cmd)
	if err != nil {
		s.logger.Error("Room update failed", zap.String("room", cmd.Room), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Room updated",
		zap.String("room", cmd.Room),
		zap.String("status_hk", cmd.StatusHK),
		zap.Int("rows", len(results)))

	s.refreshAfterWrite(ctx)
	return results, nil
}

func (s *Service) refreshAfterWrite(ctx context.Context) {
	_, _ = s.RefreshStatus(ctx)

	last := s.Rooms.Snapshot()
	if last.Data == nil {
		return
	}
	_, _ = s.Search(ctx, last.Data.StartRoom, last.Data.EndRoom)
}

// Logout drops every cached resource. The host session itself is not
// touched; it belongs to the platform.
func (s *Service) Logout() {
	s.Profile.Clear()
	s.Status.Clear()
	s.Rooms.Clear()
	s.logger.Info("Cleared cached session data")
}
