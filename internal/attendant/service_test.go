package attendant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/celerix-dev/celerix-hk/internal/initdata"
	"github.com/celerix-dev/celerix-hk/internal/store"
	"github.com/celerix-dev/celerix-hk/pkg/schema"
	"github.com/celerix-dev/celerix-hk/pkg/sdk"
)

type fakeAPI struct {
	mu sync.Mutex

	profile    schema.Profile
	profileErr error
	status     []schema.RoomAttendantStatusCount
	statusErr  error
	rooms      []schema.RoomSearchRecord
	searchErr  error
	updateErr  error

	// profileGate, when set, holds GetProfile until a value is received.
	profileGate chan struct{}

	searches []string
	updates  []schema.RoomUpdateCommand
	calls    map[string]int
}

var _ sdk.HousekeepingAPI = (*fakeAPI)(nil)

func (f *fakeAPI) hit(op string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) GetProfile(context.Context) (schema.Profile, error) {
	f.mu.Lock()
	f.hit("profile")
	gate, p, err := f.profileGate, f.profile, f.profileErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return p, err
}

func (f *fakeAPI) GetStatus(context.Context) ([]schema.RoomAttendantStatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("status")
	return f.status, f.statusErr
}

func (f *fakeAPI) SearchRooms(_ context.Context, start, end string) ([]schema.RoomSearchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("search")
	f.searches = append(f.searches, start+"-"+end)
	return f.rooms, f.searchErr
}

func (f *fakeAPI) UpdateRoom(_ context.Context, cmd schema.RoomUpdateCommand) ([]schema.RoomUpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hit("update")
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, cmd)
	return []schema.RoomUpdateResult{{Room: cmd.Room, StatusHK: cmd.StatusHK, EditUser: cmd.EditUser}}, nil
}

func newService(api *fakeAPI) *Service {
	return NewService(api, initdata.Static(""), zap.NewNop())
}

func TestLoadProfile(t *testing.T) {
	api := &fakeAPI{profile: schema.Profile{UserID: "u-1", FullName: "Ayu"}}
	svc := newService(api)

	var loading []bool
	svc.Profile.Subscribe(func(st store.State[schema.Profile]) { loading = append(loading, st.Loading) })

	p, err := svc.LoadProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.UserID)
	assert.True(t, svc.Profile.HasProfile())
	assert.Equal(t, []bool{true, true, false}, loading)
}

func TestOverlappingLoadsShareLoadingFlag(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{profile: schema.Profile{UserID: "u-1"}, profileGate: gate}
	svc := newService(api)

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.LoadProfile(context.Background())
			done <- err
		}()
	}
	require.Eventually(t, func() bool { return api.count("profile") == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, svc.Profile.Snapshot().Loading)

	gate <- struct{}{}
	require.NoError(t, <-done)
	// The second load is still waiting, yet the flag is already down.
	assert.Empty(t, done)
	assert.False(t, svc.Profile.Snapshot().Loading)

	gate <- struct{}{}
	require.NoError(t, <-done)
	assert.False(t, svc.Profile.Snapshot().Loading)
	assert.True(t, svc.Profile.HasProfile())
}

func TestLoadProfileFailureKeepsPrevious(t *testing.T) {
	api := &fakeAPI{profile: schema.Profile{UserID: "u-1"}}
	svc := newService(api)
	_, err := svc.LoadProfile(context.Background())
	require.NoError(t, err)

	api.profileErr = &sdk.TransportError{Op: "get profile", StatusCode: 401, Message: "unauthorized"}
	_, err = svc.LoadProfile(context.Background())

	var te *sdk.TransportError
	require.ErrorAs(t, err, &te)
	st := svc.Profile.Snapshot()
	require.NotNil(t, st.Data)
	assert.Equal(t, "u-1", st.Data.UserID)
	assert.Contains(t, st.Error, "401")
	assert.False(t, st.Loading)
}

func TestSearchCachesBounds(t *testing.T) {
	api := &fakeAPI{rooms: []schema.RoomSearchRecord{{Room: "101"}, {Room: "102"}}}
	svc := newService(api)

	rooms, err := svc.Search(context.Background(), "101", "110")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	st := svc.Rooms.Snapshot()
	require.NotNil(t, st.Data)
	assert.Equal(t, "101", st.Data.StartRoom)
	assert.Equal(t, "110", st.Data.EndRoom)
}

func TestSearchRejectsEmptyBounds(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(api)

	_, err := svc.Search(context.Background(), "", "110")
	assert.ErrorIs(t, err, sdk.ErrEmptyRoom)
	assert.Zero(t, api.count("search"))
	assert.False(t, svc.Rooms.Snapshot().Loading)
}

func TestUpdateRoomRefreshesCaches(t *testing.T) {
	api := &fakeAPI{
		status: []schema.RoomAttendantStatusCount{{Status: "VD", Total: 4}},
		rooms:  []schema.RoomSearchRecord{{Room: "101", StatusHK: "VD"}},
	}
	svc := newService(api)
	_, err := svc.Search(context.Background(), "101", "105")
	require.NoError(t, err)

	api.mu.Lock()
	api.status = []schema.RoomAttendantStatusCount{{Status: "VC", Total: 1}}
	api.rooms = []schema.RoomSearchRecord{{Room: "101", StatusHK: "VC"}}
	api.mu.Unlock()

	cmd := schema.RoomUpdateCommand{Room: "101", StatusHK: "VC", EditUser: "ayu", EditDate: "2024-05-01 09:00:00", LogNote: "cleaned", LogSource: 1}
	res, err := svc.UpdateRoom(context.Background(), cmd)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "VC", res[0].StatusHK)

	assert.Equal(t, 1, api.count("status"))
	assert.Equal(t, []string{"101-105", "101-105"}, api.searches)
	assert.Equal(t, "VC", (*svc.Status.Snapshot().Data)[0].Status)
	assert.Equal(t, "VC", svc.Rooms.Snapshot().Data.Rooms[0].StatusHK)
}

func TestUpdateRoomWithoutPriorSearch(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(api)

	_, err := svc.UpdateRoom(context.Background(), schema.RoomUpdateCommand{Room: "201", StatusHK: "VC"})
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("status"))
	assert.Zero(t, api.count("search"))
}

func TestUpdateRoomFollowUpFailureDoesNotFailUpdate(t *testing.T) {
	api := &fakeAPI{statusErr: errors.New("status down")}
	svc := newService(api)

	_, err := svc.UpdateRoom(context.Background(), schema.RoomUpdateCommand{Room: "201", StatusHK: "VC"})
	require.NoError(t, err)
	assert.Equal(t, "status down", svc.Status.Snapshot().Error)
}

func TestUpdateRoomFailureSkipsRefresh(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	api := &fakeAPI{updateErr: sdk.ErrEmptyRoom}
	svc := NewService(api, nil, zap.New(core))

	_, err := svc.UpdateRoom(context.Background(), schema.RoomUpdateCommand{})
	assert.ErrorIs(t, err, sdk.ErrEmptyRoom)
	assert.Zero(t, api.count("status"))
	assert.Equal(t, 1, logs.FilterMessage("Room update failed").Len())
}

func TestLogoutClearsStores(t *testing.T) {
	api := &fakeAPI{
		profile: schema.Profile{UserID: "u-1"},
		status:  []schema.RoomAttendantStatusCount{{Status: "VD"}},
		rooms:   []schema.RoomSearchRecord{{Room: "101"}},
	}
	svc := newService(api)
	ctx := context.Background()
	_, _ = svc.LoadProfile(ctx)
	_, _ = svc.RefreshStatus(ctx)
	_, _ = svc.Search(ctx, "101", "101")

	svc.Logout()
	assert.False(t, svc.Profile.HasProfile())
	assert.False(t, svc.Status.Has())
	assert.False(t, svc.Rooms.Has())
}

func TestSessionReflectsProvider(t *testing.T) {
	raw := ""
	svc := NewService(&fakeAPI{}, initdata.NewProvider(func() (string, error) { return raw, nil }), nil)
	assert.False(t, svc.Session.IsAuthenticated())

	raw = "user=%7B%22id%22%3A5%2C%22first_name%22%3A%22Rina%22%7D&auth_date=1714543200&hash=h"
	require.True(t, svc.Session.IsAuthenticated())
	assert.Equal(t, int64(5), svc.Session.CurrentUser().ID)
}
