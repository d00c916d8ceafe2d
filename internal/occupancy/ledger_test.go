package occupancy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/store"
)

// stubRoomStore serves a single room from memory. The optional
// afterRead hook runs between the read and the write so tests can
// interleave two deltas.
type stubRoomStore struct {
	mu        sync.Mutex
	room      *model.Room
	writeErr  error
	afterRead func()
}

func (s *stubRoomStore) RoomByNumber(ctx context.Context, ownerID, number string) (*model.Room, error) {
	s.mu.Lock()
	if s.room == nil || s.room.Number != number {
		s.mu.Unlock()
		return nil, store.ErrNotFound
	}
	snapshot := *s.room
	s.mu.Unlock()
	if s.afterRead != nil {
		s.afterRead()
	}
	return &snapshot, nil
}

func (s *stubRoomStore) SetRoomState(ctx context.Context, ownerID string, roomID uint, occupancy int, status string) (int64, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil || s.room.ID != roomID {
		return 0, nil
	}
	s.room.CurrentOccupancy = occupancy
	s.room.Status = status
	return 1, nil
}

func room(occupancy int) *model.Room {
	return &model.Room{
		ID: 1, OwnerID: "owner-1", Number: "101", Type: model.RoomTypeDouble,
		Capacity: 2, CurrentOccupancy: occupancy, Status: StatusFor(occupancy, 2),
	}
}

func TestApplyDelta_IncrementFillsRoom(t *testing.T) {
	rs := &stubRoomStore{room: room(1)}
	l := NewLedger(rs)

	res, err := l.ApplyDelta(context.Background(), "owner-1", "101", +1)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 1, res.OldOccupancy)
	assert.Equal(t, 2, res.NewOccupancy)
	assert.Equal(t, model.RoomOccupied, res.NewStatus)
	assert.Equal(t, model.RoomOccupied, rs.room.Status)
}

func TestApplyDelta_DecrementFreesRoom(t *testing.T) {
	rs := &stubRoomStore{room: room(2)}
	l := NewLedger(rs)

	res, err := l.ApplyDelta(context.Background(), "owner-1", "101", -1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewOccupancy)
	assert.Equal(t, model.RoomAvailable, res.NewStatus)
}

func TestApplyDelta_ClampsAtBounds(t *testing.T) {
	// Already full: another increment stays at capacity.
	rs := &stubRoomStore{room: room(2)}
	l := NewLedger(rs)
	res, err := l.ApplyDelta(context.Background(), "owner-1", "101", +1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NewOccupancy)
	assert.Equal(t, model.RoomOccupied, res.NewStatus)

	// Already empty: another decrement stays at zero.
	rs = &stubRoomStore{room: room(0)}
	l = NewLedger(rs)
	res, err = l.ApplyDelta(context.Background(), "owner-1", "101", -1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewOccupancy)
	assert.Equal(t, model.RoomAvailable, res.NewStatus)
}

func TestApplyDelta_MissingRoomIsNoOp(t *testing.T) {
	rs := &stubRoomStore{}
	l := NewLedger(rs)

	res, err := l.ApplyDelta(context.Background(), "owner-1", "nope", +1)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, "nope", res.Number)
}

func TestApplyDelta_EmptyRoomNumberIsNoOp(t *testing.T) {
	rs := &stubRoomStore{room: room(1)}
	l := NewLedger(rs)

	res, err := l.ApplyDelta(context.Background(), "owner-1", "", +1)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, 1, rs.room.CurrentOccupancy)
}

func TestApplyDelta_RejectsOtherDeltas(t *testing.T) {
	l := NewLedger(&stubRoomStore{room: room(0)})
	_, err := l.ApplyDelta(context.Background(), "owner-1", "101", 2)
	assert.Error(t, err)
	_, err = l.ApplyDelta(context.Background(), "owner-1", "101", 0)
	assert.Error(t, err)
}

func TestApplyDelta_WriteErrorSurfaces(t *testing.T) {
	rs := &stubRoomStore{room: room(1), writeErr: errors.New("connection reset")}
	l := NewLedger(rs)

	_, err := l.ApplyDelta(context.Background(), "owner-1", "101", +1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "101")
}

func TestApplyDelta_RoomVanishedBeforeWrite(t *testing.T) {
	vanish := &stubRoomStore{room: room(1)}
	vanish.afterRead = func() {
		vanish.mu.Lock()
		vanish.room = nil
		vanish.mu.Unlock()
	}
	l := NewLedger(vanish)

	res, err := l.ApplyDelta(context.Background(), "owner-1", "101", +1)
	require.NoError(t, err)
	assert.False(t, res.Found)
}

// TestApplyDelta_ConcurrentLostUpdate demonstrates the accepted
// read-then-write race: two concurrent increments can both read the
// same starting count, so the stored value ends up one short of the
// true occupant count. The bounds still hold throughout.
func TestApplyDelta_ConcurrentLostUpdate(t *testing.T) {
	rs := &stubRoomStore{room: &model.Room{
		ID: 1, OwnerID: "owner-1", Number: "101", Type: model.RoomTypeTriple,
		Capacity: 3, CurrentOccupancy: 0, Status: model.RoomAvailable,
	}}

	firstRead := make(chan struct{})
	secondDone := make(chan struct{})
	var once sync.Once
	rs.afterRead = func() {
		once.Do(func() {
			// Hold the first caller after its read until the second
			// caller has read and written.
			close(firstRead)
			<-secondDone
		})
	}

	l := NewLedger(rs)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := l.ApplyDelta(context.Background(), "owner-1", "101", +1)
		assert.NoError(t, err)
	}()

	<-firstRead
	// Second increment runs entirely inside the first one's read/write
	// window. Disable the hook for it.
	rs.afterRead = nil
	_, err := l.ApplyDelta(context.Background(), "owner-1", "101", +1)
	require.NoError(t, err)
	close(secondDone)
	wg.Wait()

	// Two occupants were added but the stored count shows one: the
	// first writer overwrote the second's increment.
	assert.Equal(t, 1, rs.room.CurrentOccupancy)
	assert.GreaterOrEqual(t, rs.room.CurrentOccupancy, 0)
	assert.LessOrEqual(t, rs.room.CurrentOccupancy, 3)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, model.RoomAvailable, StatusFor(0, 2))
	assert.Equal(t, model.RoomAvailable, StatusFor(1, 2))
	assert.Equal(t, model.RoomOccupied, StatusFor(2, 2))
	assert.Equal(t, model.RoomOccupied, StatusFor(1, 1))
}
