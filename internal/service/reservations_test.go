package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name          string
		a, b          [2]string
		wantHalfOpen  bool
		wantInclusive bool
	}{
		{name: "adjacent", a: [2]string{"2025-01-10", "2025-01-12"}, b: [2]string{"2025-01-12", "2025-01-15"}, wantHalfOpen: false, wantInclusive: true},
		{name: "inside", a: [2]string{"2025-01-10", "2025-01-20"}, b: [2]string{"2025-01-12", "2025-01-15"}, wantHalfOpen: true, wantInclusive: true},
		{name: "partial", a: [2]string{"2025-01-10", "2025-01-13"}, b: [2]string{"2025-01-12", "2025-01-15"}, wantHalfOpen: true, wantInclusive: true},
		{name: "disjoint", a: [2]string{"2025-01-01", "2025-01-05"}, b: [2]string{"2025-01-12", "2025-01-15"}, wantHalfOpen: false, wantInclusive: false},
		{name: "identical", a: [2]string{"2025-01-12", "2025-01-15"}, b: [2]string{"2025-01-12", "2025-01-15"}, wantHalfOpen: true, wantInclusive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aStart, aEnd := date(tt.a[0]), date(tt.a[1])
			bStart, bEnd := date(tt.b[0]), date(tt.b[1])

			assert.Equal(t, tt.wantHalfOpen, Overlaps(aStart, aEnd, bStart, bEnd))
			assert.Equal(t, tt.wantHalfOpen, Overlaps(bStart, bEnd, aStart, aEnd))
			assert.Equal(t, tt.wantInclusive, OverlapsInclusive(aStart, aEnd, bStart, bEnd))
		})
	}
}

func TestAdjacentBookingsDoNotConflict(t *testing.T) {
	svc, _ := newHotel(t)

	_, err := svc.CreateReservation("RES1", "R1", "G1", date("2025-01-10"), date("2025-01-12"), 2)
	require.NoError(t, err)

	ok, err := svc.IsRoomAvailable("R1", date("2025-01-12"), date("2025-01-15"))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.CreateReservation("RES2", "R1", "G2", date("2025-01-12"), date("2025-01-15"), 1)
	require.NoError(t, err)
	assert.Len(t, svc.ListReservationsForRoom("R1"), 2)
}

func TestCreateReservation(t *testing.T) {
	type args struct {
		id, roomID, guestID string
		start, end          string
		partySize           int
	}

	tests := []struct {
		name    string
		args    args
		wantErr error
		// существующее бронирование R2 в формате start/end
		setup string
	}{
		{name: "valid", args: args{"RES2", "R2", "G1", "2025-01-10", "2025-01-12", 4}},
		{name: "bad id", args: args{"RES 2", "R2", "G1", "2025-01-10", "2025-01-12", 1}, wantErr: ErrValidation},
		{name: "end before start", args: args{"RES2", "R2", "G1", "2025-01-12", "2025-01-10", 1}, wantErr: ErrValidation},
		{name: "empty range", args: args{"RES2", "R2", "G1", "2025-01-12", "2025-01-12", 1}, wantErr: ErrValidation},
		{name: "party size zero", args: args{"RES2", "R2", "G1", "2025-01-10", "2025-01-12", 0}, wantErr: ErrValidation},
		{name: "party size too large", args: args{"RES2", "R2", "G1", "2025-01-10", "2025-01-12", 21}, wantErr: ErrValidation},
		{name: "unknown room", args: args{"RES2", "R9", "G1", "2025-01-10", "2025-01-12", 1}, wantErr: ErrNotFound},
		{name: "unknown guest", args: args{"RES2", "R2", "G9", "2025-01-10", "2025-01-12", 1}, wantErr: ErrNotFound},
		{name: "over capacity", args: args{"RES2", "R1", "G1", "2025-02-10", "2025-02-12", 3}, wantErr: ErrCapacityExceeded},
		{name: "overlapping tail", args: args{"RES2", "R2", "G2", "2025-02-04", "2025-02-06", 1}, wantErr: ErrConflict, setup: "2025-02-01/2025-02-05"},
		{name: "overlapping", args: args{"RES2", "R1", "G2", "2025-01-11", "2025-01-13", 1}, wantErr: ErrConflict},
		{name: "duplicate id", args: args{"RES1", "R2", "G1", "2025-01-10", "2025-01-12", 1}, wantErr: ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newHotel(t)
			_, err := svc.CreateReservation("RES1", "R1", "G1", date("2025-01-10"), date("2025-01-12"), 2)
			require.NoError(t, err)
			existing := 1
			if tt.setup != "" {
				bounds := strings.Split(tt.setup, "/")
				_, err := svc.CreateReservation("EXIST", "R2", "G1", date(bounds[0]), date(bounds[1]), 1)
				require.NoError(t, err)
				existing++
			}
			savesBefore := repo.saves

			res, err := svc.CreateReservation(tt.args.id, tt.args.roomID, tt.args.guestID, date(tt.args.start), date(tt.args.end), tt.args.partySize)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, svc.ListReservations(), existing)
				assert.Equal(t, savesBefore, repo.saves)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "John Doe", res.GuestName)
			assert.Equal(t, "G1", res.GuestID)
			assert.Equal(t, 2, res.Nights())
			assert.Len(t, svc.ListReservationsForGuest("G1"), 2)
		})
	}
}

func TestCreateReservationNormalizesDates(t *testing.T) {
	svc, _ := newHotel(t)

	start := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 3, 11, 0, 0, 0, time.UTC)
	res, err := svc.CreateReservation("RES1", "R1", "G1", start, end, 1)
	require.NoError(t, err)

	assert.Equal(t, date("2025-03-01"), res.StartDate)
	assert.Equal(t, date("2025-03-03"), res.EndDate)
}

func TestIsRoomAvailableErrors(t *testing.T) {
	svc, _ := newHotel(t)

	_, err := svc.IsRoomAvailable("R1", date("2025-01-12"), date("2025-01-10"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.IsRoomAvailable("R9", date("2025-01-10"), date("2025-01-12"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetAvailableRooms(date("2025-01-12"), date("2025-01-12"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancelReservation(t *testing.T) {
	svc, _ := newHotel(t)

	_, ok := svc.CancelReservation("NOPE")
	assert.False(t, ok)

	_, err := svc.CreateReservation("RES1", "R1", "G1", date("2025-01-10"), date("2025-01-12"), 2)
	require.NoError(t, err)

	cancelled, ok := svc.CancelReservation("RES1")
	require.True(t, ok)
	assert.Equal(t, "RES1", cancelled.ID)

	assert.Empty(t, svc.ListReservationsForRoom("R1"))
	assert.Empty(t, svc.ListReservationsForGuest("G1"))
	_, err = svc.GetReservation("RES1")
	assert.ErrorIs(t, err, ErrNotFound)

	// освободившиеся даты снова доступны
	_, err = svc.CreateReservation("RES2", "R1", "G2", date("2025-01-10"), date("2025-01-12"), 1)
	require.NoError(t, err)
}

func TestGetAvailableRooms(t *testing.T) {
	svc, _ := newHotel(t)

	_, err := svc.CreateReservation("RES1", "R1", "G1", date("2025-01-10"), date("2025-01-12"), 2)
	require.NoError(t, err)

	rooms, err := svc.GetAvailableRooms(date("2025-01-11"), date("2025-01-14"))
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "R2", rooms[0].ID)

	rooms, err = svc.GetAvailableRooms(date("2025-01-12"), date("2025-01-14"))
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestListReservationsOrder(t *testing.T) {
	svc, _ := newHotel(t)

	_, err := svc.CreateReservation("RES1", "R1", "G1", date("2025-03-10"), date("2025-03-12"), 1)
	require.NoError(t, err)
	_, err = svc.CreateReservation("RES2", "R2", "G1", date("2025-01-10"), date("2025-01-12"), 1)
	require.NoError(t, err)

	list := svc.ListReservationsForGuest("G1")
	require.Len(t, list, 2)
	assert.Equal(t, "RES2", list[0].ID)
	assert.Equal(t, "RES1", list[1].ID)
}

func TestConcurrentBookingsOfOneRoom(t *testing.T) {
	svc, _ := newHotel(t)

	const workers = 20

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateReservation(fmt.Sprintf("RES%d", i), "R1", "G1", date("2025-05-01"), date("2025-05-03"), 1)
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Len(t, svc.ListReservationsForRoom("R1"), 1)
}
