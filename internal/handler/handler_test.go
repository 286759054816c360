package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/hotel-desk/internal/model"
	"github.com/mmeshcher/hotel-desk/internal/service"
)

type stubService struct {
	addedRoom     model.Room
	addRoomErr    error
	removeRoomOK  bool
	removeRoomErr error
	rooms         []model.Room

	guest       model.Guest
	vipSetTo    *bool
	addedGuest  model.Guest
	addGuestErr error

	createdRes     model.Reservation
	createResErr   error
	cancelOK       bool
	available      bool
	reservation    model.Reservation
	reservationErr error

	addedPayment model.Payment
	total        decimal.Decimal

	report      model.OccupancyReport
	reportSaved bool
	savePath    string
	stats       model.Statistics
	backupDir   string
}

func (s *stubService) AddRoom(room model.Room) (model.Room, error) {
	s.addedRoom = room
	return room, s.addRoomErr
}

func (s *stubService) RemoveRoom(id string) (bool, error) { return s.removeRoomOK, s.removeRoomErr }
func (s *stubService) ListRooms() []model.Room             { return s.rooms }

func (s *stubService) SearchRoomsByCapacity(minCapacity int) []model.Room {
	var res []model.Room
	for _, r := range s.rooms {
		if r.Capacity >= minCapacity {
			res = append(res, r)
		}
	}
	return res
}

func (s *stubService) AddGuest(guest model.Guest) (model.Guest, error) {
	s.addedGuest = guest
	return guest, s.addGuestErr
}

func (s *stubService) SetGuestVIP(id string, vip bool) (model.Guest, error) {
	s.vipSetTo = &vip
	g := s.guest
	g.VIP = vip
	return g, nil
}

func (s *stubService) GetGuest(id string) (model.Guest, error)      { return s.guest, nil }
func (s *stubService) ListGuests() []model.Guest                    { return nil }
func (s *stubService) SearchGuestsByName(name string) []model.Guest { return nil }
func (s *stubService) VIPGuests() []model.Guest                     { return nil }

func (s *stubService) CreateReservation(id, roomID, guestID string, start, end time.Time, partySize int) (model.Reservation, error) {
	s.createdRes = model.Reservation{ID: id, RoomID: roomID, GuestID: guestID, StartDate: start, EndDate: end, PartySize: partySize}
	return s.createdRes, s.createResErr
}

func (s *stubService) CancelReservation(id string) (model.Reservation, bool) {
	return model.Reservation{ID: id}, s.cancelOK
}

func (s *stubService) IsRoomAvailable(roomID string, start, end time.Time) (bool, error) {
	return s.available, nil
}

func (s *stubService) GetAvailableRooms(start, end time.Time) ([]model.Room, error) {
	return s.rooms, nil
}

func (s *stubService) GetReservation(id string) (model.Reservation, error) {
	return s.reservation, s.reservationErr
}

func (s *stubService) ListReservations() []model.Reservation                       { return nil }
func (s *stubService) ListReservationsForRoom(roomID string) []model.Reservation   { return nil }
func (s *stubService) ListReservationsForGuest(guestID string) []model.Reservation { return nil }

func (s *stubService) AddPayment(payment model.Payment) (model.Payment, error) {
	s.addedPayment = payment
	return payment, nil
}

func (s *stubService) ListPaymentsForReservation(reservationID string) []model.Payment { return nil }
func (s *stubService) ListPaymentsForGuest(guestID string) []model.Payment             { return nil }

func (s *stubService) TotalPaymentsForReservation(reservationID string) decimal.Decimal {
	return s.total
}

func (s *stubService) TotalCompletedPayments() decimal.Decimal { return s.total }

func (s *stubService) GenerateOccupancyReport(start, end time.Time) model.OccupancyReport {
	return s.report
}

func (s *stubService) SaveReport(report model.OccupancyReport) (string, error) {
	s.reportSaved = true
	return s.savePath, nil
}

func (s *stubService) Statistics() model.Statistics { return s.stats }
func (s *stubService) Backup() (string, error)      { return s.backupDir, nil }

func runConsole(t *testing.T, svc Service, input ...string) string {
	t.Helper()

	var out bytes.Buffer
	h := NewHandler(svc, zap.NewNop(), strings.NewReader(strings.Join(input, "\n")+"\n"), &out)
	h.newID = func() string { return "generated-id" }

	require.NoError(t, h.Run(context.Background()))
	return out.String()
}

func TestRunExit(t *testing.T) {
	out := runConsole(t, &stubService{}, "0")

	assert.Contains(t, out, "Main Menu")
	assert.Contains(t, out, "Goodbye!")
}

func TestRunEndOfInput(t *testing.T) {
	var out bytes.Buffer
	h := NewHandler(&stubService{}, nil, strings.NewReader(""), &out)

	require.NoError(t, h.Run(context.Background()))
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestRunEndOfInputInsideCommand(t *testing.T) {
	svc := &stubService{}
	out := runConsole(t, svc, "1", "1", "R9")

	assert.Contains(t, out, "Goodbye!")
	assert.Empty(t, svc.addedRoom.ID)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	h := NewHandler(&stubService{}, nil, pr, io.Discard)

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop after cancel")
	}
}

func TestRunInvalidOption(t *testing.T) {
	out := runConsole(t, &stubService{}, "9", "0")

	assert.Contains(t, out, "Invalid option, please try again.")
}

func TestAddRoom(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		svcErr   error
		wantOut  string
		wantRoom model.Room
	}{
		{
			name:     "success",
			input:    []string{"1", "1", "R9", "909", "2", "0", "0"},
			wantOut:  "Room added",
			wantRoom: model.Room{ID: "R9", Number: "909", Capacity: 2},
		},
		{
			name:    "capacity not a number",
			input:   []string{"1", "1", "R9", "909", "two", "0", "0"},
			wantOut: "Error: invalid input",
		},
		{
			name:     "duplicate id",
			input:    []string{"1", "1", "R1", "101", "2", "0", "0"},
			svcErr:   fmt.Errorf("%w: room R1 already exists", service.ErrDuplicateID),
			wantOut:  "Error: duplicate id: room R1 already exists",
			wantRoom: model.Room{ID: "R1", Number: "101", Capacity: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{addRoomErr: tt.svcErr}
			out := runConsole(t, svc, tt.input...)

			assert.Contains(t, out, tt.wantOut)
			assert.Equal(t, tt.wantRoom, svc.addedRoom)
		})
	}
}

func TestSearchRoomsByCapacity(t *testing.T) {
	svc := &stubService{rooms: []model.Room{
		{ID: "R1", Number: "101", Capacity: 2},
		{ID: "R2", Number: "102", Capacity: 4},
	}}
	out := runConsole(t, svc, "1", "3", "3", "0", "0")

	assert.Contains(t, out, "Room 102")
	assert.NotContains(t, out, "Room 101")
}

func TestRemoveRoom(t *testing.T) {
	tests := []struct {
		name    string
		ok      bool
		err     error
		wantOut string
	}{
		{name: "removed", ok: true, wantOut: "Room removed."},
		{name: "absent", wantOut: "Room not found."},
		{name: "in use", err: service.ErrRoomInUse, wantOut: "Error: Room has active reservations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runConsole(t, &stubService{removeRoomOK: tt.ok, removeRoomErr: tt.err}, "1", "4", "R1", "0", "0")
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestAddGuestSanitizesInput(t *testing.T) {
	svc := &stubService{}
	runConsole(t, svc, "2", "1", "G7", "<Ann>", "Lee", "ann@example.com", "5551112222", "", "0", "0")

	assert.Equal(t, "G7", svc.addedGuest.ID)
	assert.Equal(t, "Ann", svc.addedGuest.FirstName)
	assert.Equal(t, "ann@example.com", svc.addedGuest.Email)
}

func TestToggleVIP(t *testing.T) {
	svc := &stubService{guest: model.Guest{ID: "G1", FirstName: "John", LastName: "Doe"}}
	out := runConsole(t, svc, "2", "5", "G1", "0", "0")

	require.NotNil(t, svc.vipSetTo)
	assert.True(t, *svc.vipSetTo)
	assert.Contains(t, out, "John Doe is now a VIP guest.")
}

func TestCreateReservation(t *testing.T) {
	input := []string{"3", "1", "RES1", "R1", "G1", "2025-01-10", "2025-01-12", "2", "0", "0"}

	t.Run("created", func(t *testing.T) {
		svc := &stubService{}
		out := runConsole(t, svc, input...)

		assert.Contains(t, out, "Reservation created")
		assert.Equal(t, "RES1", svc.createdRes.ID)
		assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), svc.createdRes.StartDate)
		assert.Equal(t, 2, svc.createdRes.PartySize)
	})

	t.Run("conflict returns to menu", func(t *testing.T) {
		svc := &stubService{createResErr: fmt.Errorf("%w: room R1", service.ErrConflict)}
		out := runConsole(t, svc, input...)

		assert.Contains(t, out, "Error: Room is not available for the selected dates")
		assert.Equal(t, 2, strings.Count(out, "--- Reservation Management ---"))
	})

	t.Run("bad date", func(t *testing.T) {
		svc := &stubService{}
		out := runConsole(t, svc, "3", "1", "RES1", "R1", "G1", "10/01/2025", "0", "0")

		assert.Contains(t, out, "date must be in YYYY-MM-DD format")
		assert.Empty(t, svc.createdRes.ID)
	})
}

func TestCheckAvailability(t *testing.T) {
	out := runConsole(t, &stubService{available: true}, "3", "5", "R1", "2025-01-10", "2025-01-12", "0", "0")
	assert.Contains(t, out, "Room is available.")

	out = runConsole(t, &stubService{}, "3", "5", "R1", "2025-01-10", "2025-01-12", "0", "0")
	assert.Contains(t, out, "Room is not available.")
}

func TestCancelReservation(t *testing.T) {
	out := runConsole(t, &stubService{}, "3", "6", "NOPE", "0", "0")
	assert.Contains(t, out, "Reservation not found.")

	out = runConsole(t, &stubService{cancelOK: true}, "3", "6", "RES1", "0", "0")
	assert.Contains(t, out, "Reservation cancelled.")
}

func TestAddPayment(t *testing.T) {
	svc := &stubService{reservation: model.Reservation{ID: "RES1", GuestID: "G1"}}
	out := runConsole(t, svc, "4", "1", "", "RES1", "", "150.50", "2", "deposit", "0", "0")

	assert.Contains(t, out, "Payment added")
	assert.Equal(t, "generated-id", svc.addedPayment.ID)
	assert.Equal(t, "RES1", svc.addedPayment.ReservationID)
	assert.Equal(t, "G1", svc.addedPayment.GuestID)
	assert.True(t, decimal.RequireFromString("150.50").Equal(svc.addedPayment.Amount))
	assert.Equal(t, model.PaymentMethodCreditCard, svc.addedPayment.Method)
	assert.Equal(t, model.PaymentStatusCompleted, svc.addedPayment.Status)
	assert.Equal(t, "deposit", svc.addedPayment.Description)
}

func TestAddPaymentByAnotherGuest(t *testing.T) {
	svc := &stubService{reservation: model.Reservation{ID: "RES1", GuestID: "G1"}}
	out := runConsole(t, svc, "4", "1", "P1", "RES1", "G2", "80", "1", "", "0", "0")

	assert.Contains(t, out, "Guest ID [G1]: ")
	assert.Equal(t, "G2", svc.addedPayment.GuestID)
	assert.Equal(t, model.PaymentMethodCash, svc.addedPayment.Method)
}

func TestAddPaymentUnknownReservation(t *testing.T) {
	svc := &stubService{reservationErr: fmt.Errorf("%w: reservation NOPE", service.ErrNotFound)}
	out := runConsole(t, svc, "4", "1", "P1", "NOPE", "0", "0")

	assert.Contains(t, out, "Error: not found: reservation NOPE")
	assert.Empty(t, svc.addedPayment.ID)
}

func TestTotals(t *testing.T) {
	svc := &stubService{total: decimal.RequireFromString("250.5")}

	out := runConsole(t, svc, "4", "4", "RES1", "5", "0", "0")
	assert.Contains(t, out, "Total completed payments for reservation RES1: 250.50")
	assert.Contains(t, out, "Total completed payments: 250.50")
}

func TestOccupancyReportExport(t *testing.T) {
	svc := &stubService{
		report: model.OccupancyReport{
			PeriodStart:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			TotalRooms:    4,
			OccupancyRate: decimal.RequireFromString("12.5"),
		},
		savePath: "reports/occupancy_20250201_120000.json",
	}
	out := runConsole(t, svc, "5", "1", "2025-01-01", "2025-01-31", "y", "0", "0")

	assert.Contains(t, out, "Period: 2025-01-01 to 2025-01-31")
	assert.Contains(t, out, "Occupancy rate: 12.50%")
	assert.True(t, svc.reportSaved)
	assert.Contains(t, out, "Report saved to reports/occupancy_20250201_120000.json")
}

func TestStatisticsAndBackup(t *testing.T) {
	svc := &stubService{
		stats:     model.Statistics{TotalRooms: 4, TotalGuests: 2, VIPGuests: 1, CompletedRevenue: decimal.NewFromInt(300)},
		backupDir: "backups/20250101_120000",
	}
	out := runConsole(t, svc, "5", "3", "4", "0", "0")

	assert.Contains(t, out, "Guests: 2 (VIP: 1)")
	assert.Contains(t, out, "Completed revenue: 300.00")
	assert.Contains(t, out, "Backup created in backups/20250101_120000")
}
