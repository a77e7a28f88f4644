package sdk

import (
	"context"
	"time"

	"github.com/celerix-dev/celerix-hk/pkg/schema"
)

// Backend endpoints, relative to the resolved base URL.
const (
	EndpointProfile    = "/auth/v2/profile"
	EndpointStatus     = "/v2/mp/RAStatus"
	EndpointSearchRoom = "/v2/mp/RASearchRoom/{startRoom}/{endRoom}"
	EndpointRoomUpdate = "/v2/mp/RARoomUpdate/{room}"
)

// HeaderInitData carries the signed host launch data on every request.
const HeaderInitData = "X-TgDataInit"

// IdentityProvider exposes the host platform session. Both methods are
// called at request time and must reflect the live session.
type IdentityProvider interface {
	// TryGetToken returns the raw signed session string, or "" when the
	// app runs without a session.
	TryGetToken() (string, error)
	// TryGetSession returns the decoded session state, or nil when absent.
	TryGetSession() (*schema.Session, error)
}

// RequestObserver receives per-request measurements from the client.
type RequestObserver interface {
	ObserveRequest(op string, statusCode int, elapsed time.Duration)
	ObserveAuthDecorationFailure()
}

// --- Functional Interfaces ---

// ProfileReader reads the signed-in user's profile.
type ProfileReader interface {
	GetProfile(ctx context.Context) (schema.Profile, error)
}

// StatusReader reads the room-attendant status breakdown.
type StatusReader interface {
	GetStatus(ctx context.Context) ([]schema.RoomAttendantStatusCount, error)
}

// RoomSearcher lists rooms between two room numbers.
type RoomSearcher interface {
	SearchRooms(ctx context.Context, startRoom, endRoom string) ([]schema.RoomSearchRecord, error)
}

// RoomUpdater writes a housekeeping status change for one room.
type RoomUpdater interface {
	UpdateRoom(ctx context.Context, cmd schema.RoomUpdateCommand) ([]schema.RoomUpdateResult, error)
}

// --- Composite Interfaces ---

// HousekeepingAPI is every backend operation the Mini App uses.
// *Client implements it; tests substitute fakes.
type HousekeepingAPI interface {
	ProfileReader
	StatusReader
	RoomSearcher
	RoomUpdater
}
