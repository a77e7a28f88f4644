package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celerix-dev/celerix-hk/pkg/schema"
)

func TestStore_SetAndSnapshot(t *testing.T) {
	s := NewProfileStore()
	require.False(t, s.HasProfile(), "new store should be empty")

	s.SetProfile(schema.Profile{UserID: "u-1", FullName: "Ayu"})
	require.True(t, s.HasProfile())
	got := s.Profile()
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.UserID)
}

func TestStore_SetReplacesWholesale(t *testing.T) {
	s := NewProfileStore()
	s.SetProfile(schema.Profile{UserID: "A", FullName: "First", Apps: []schema.AppInfo{{Code: "RA"}}})
	s.SetProfile(schema.Profile{UserID: "B"})

	got := s.Profile()
	assert.Equal(t, "B", got.UserID)
	assert.Empty(t, got.FullName, "fields of A leaked into B")
	assert.Empty(t, got.Apps, "fields of A leaked into B")
}

func TestStore_SetErrorKeepsData(t *testing.T) {
	s := NewProfileStore()
	s.SetProfile(schema.Profile{UserID: "u-1"})
	s.SetError("backend unavailable")

	st := s.Snapshot()
	assert.Equal(t, "backend unavailable", st.Error)
	require.NotNil(t, st.Data, "SetError must not drop data")
	assert.Equal(t, "u-1", st.Data.UserID)

	s.SetProfile(schema.Profile{UserID: "u-2"})
	assert.Empty(t, s.Snapshot().Error, "Set should clear the error")
}

func TestStore_ClearLeavesLoading(t *testing.T) {
	s := NewProfileStore()
	s.SetLoading(true)
	s.SetProfile(schema.Profile{UserID: "u-1"})
	s.SetError("boom")
	s.Clear()

	st := s.Snapshot()
	assert.Nil(t, st.Data)
	assert.Empty(t, st.Error)
	assert.True(t, st.Loading, "Clear must not touch the loading flag")
	assert.False(t, s.HasProfile())
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewProfileStore()
	in := schema.Profile{UserID: "u-1", Apps: []schema.AppInfo{{Code: "RA"}}}
	s.SetProfile(in)

	in.Apps[0].Code = "mutated-input"
	out := s.Profile()
	require.Equal(t, "RA", out.Apps[0].Code, "store shares memory with caller input")

	out.Apps[0].Code = "mutated-output"
	assert.Equal(t, "RA", s.Profile().Apps[0].Code, "store shares memory with snapshot")
}

func TestStatusStore_PreservesOrder(t *testing.T) {
	s := NewStatusStore()
	s.Set([]schema.RoomAttendantStatusCount{
		{Status: "VD", Total: 5},
		{Status: "VC", Total: 3},
		{Status: "OD", Total: 1},
	})

	st := s.Snapshot()
	require.NotNil(t, st.Data)
	var order []string
	for _, row := range *st.Data {
		order = append(order, row.Status)
	}
	assert.Equal(t, []string{"VD", "VC", "OD"}, order)

	(*st.Data)[0].Total = 99
	assert.Equal(t, 5, (*s.Snapshot().Data)[0].Total, "status snapshot is not a copy")
}

func TestRoomSearchStore_KeepsBounds(t *testing.T) {
	s := NewRoomSearchStore()
	s.Set(RoomSearch{StartRoom: "101", EndRoom: "110", Rooms: []schema.RoomSearchRecord{{Room: "101"}}})

	st := s.Snapshot()
	require.NotNil(t, st.Data)
	assert.Equal(t, "101", st.Data.StartRoom)
	assert.Equal(t, "110", st.Data.EndRoom)

	st.Data.Rooms[0].Room = "999"
	assert.Equal(t, "101", s.Snapshot().Data.Rooms[0].Room, "search snapshot is not a copy")
}

func TestStore_Subscribe(t *testing.T) {
	s := NewProfileStore()
	var seen []State[schema.Profile]
	cancel := s.Subscribe(func(st State[schema.Profile]) {
		seen = append(seen, st)
	})

	s.SetLoading(true)
	s.SetProfile(schema.Profile{UserID: "u-1"})
	s.SetLoading(false)

	require.Len(t, seen, 3)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[0].HasData())
	require.NotNil(t, seen[1].Data)
	assert.Equal(t, "u-1", seen[1].Data.UserID)

	cancel()
	cancel()
	s.Clear()
	assert.Len(t, seen, 3, "received notification after cancel")
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := NewProfileStore()
	var has bool
	s.Subscribe(func(State[schema.Profile]) {
		has = s.HasProfile()
	})

	s.SetProfile(schema.Profile{UserID: "u-1"})
	assert.True(t, has, "subscriber should observe the committed value")
}

func TestStore_Concurrent(t *testing.T) {
	s := NewProfileStore()
	var wg sync.WaitGroup
	workers := 10
	iterations := 100

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				s.SetLoading(true)
				s.SetProfile(schema.Profile{UserID: fmt.Sprintf("u-%d-%d", id, j)})
				_ = s.Profile()
				if j%10 == 0 {
					s.SetError("transient")
				}
				s.SetLoading(false)
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, s.HasProfile(), "expected a profile after concurrent writes")
}

func TestStore_LoadingIsSharedByOverlappingLoads(t *testing.T) {
	s := NewProfileStore()

	// Two loads start; the first to finish clears the flag for both.
	s.SetLoading(true)
	s.SetLoading(true)
	s.SetLoading(false)
	assert.False(t, s.Snapshot().Loading)
}

type fakeIdentity struct {
	session *schema.Session
	err     error
	calls   int
}

func (f *fakeIdentity) TryGetToken() (string, error) {
	if f.session == nil {
		return "", f.err
	}
	return f.session.Raw, f.err
}

func (f *fakeIdentity) TryGetSession() (*schema.Session, error) {
	f.calls++
	return f.session, f.err
}

func TestSessionStore(t *testing.T) {
	id := &fakeIdentity{}
	s := NewSessionStore(id, nil)

	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.CurrentUser())

	id.session = &schema.Session{Raw: "query_id=1", User: &schema.WebAppUser{ID: 42, FirstName: "Ayu"}}
	require.True(t, s.IsAuthenticated(), "session should be picked up without refreshing the store")
	u := s.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, int64(42), u.ID)

	id.err = errors.New("host bridge gone")
	assert.False(t, s.IsAuthenticated(), "provider error should read as unauthenticated")
	assert.Equal(t, 5, id.calls, "provider should be consulted on every read")
}

func TestSessionStore_NilProvider(t *testing.T) {
	s := NewSessionStore(nil, nil)
	assert.False(t, s.IsAuthenticated())
}
