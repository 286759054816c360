package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/hotel-desk/internal/model"
)

type roomRecord struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
}

type guestRecord struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address,omitempty"`
	DateOfBirth      *string `json:"dateOfBirth"`
	RegistrationDate string  `json:"registrationDate"`
	VIPStatus        bool    `json:"vipStatus"`
}

type reservationRecord struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	GuestID   string `json:"guestId,omitempty"`
	GuestName string `json:"guestName"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	PartySize int    `json:"partySize"`
}

type paymentRecord struct {
	ID            string      `json:"id"`
	ReservationID string      `json:"reservationId"`
	GuestID       string      `json:"guestId"`
	Amount        json.Number `json:"amount"`
	PaymentMethod string      `json:"paymentMethod"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentDate   string      `json:"paymentDate"`
	TransactionID string      `json:"transactionId,omitempty"`
	Description   string      `json:"description,omitempty"`
}

type reportRecord struct {
	ReportPeriod      string `json:"reportPeriod"`
	TotalRooms        int    `json:"totalRooms"`
	TotalReservations int    `json:"totalReservations"`
	TotalGuests       int    `json:"totalGuests"`
	TotalPayments     int    `json:"totalPayments"`
	OccupancyRate     string `json:"occupancyRate"`
	GeneratedAt       string `json:"generatedAt"`
}

func toRoomRecord(r model.Room) roomRecord {
	return roomRecord{ID: r.ID, Number: r.Number, Capacity: r.Capacity}
}

func fromRoomRecord(rec roomRecord) (model.Room, error) {
	r, err := model.NewRoom(rec.ID, rec.Number, rec.Capacity)
	if err != nil {
		return model.Room{}, fmt.Errorf("%w: room %s: %v", ErrInvalidRecord, rec.ID, err)
	}
	return r, nil
}

func toGuestRecord(g model.Guest) guestRecord {
	rec := guestRecord{
		ID:               g.ID,
		FirstName:        g.FirstName,
		LastName:         g.LastName,
		Email:            g.Email,
		Phone:            g.Phone,
		Address:          g.Address,
		RegistrationDate: model.FormatDate(g.RegistrationDate),
		VIPStatus:        g.VIP,
	}
	if g.DateOfBirth != nil {
		dob := model.FormatDate(*g.DateOfBirth)
		rec.DateOfBirth = &dob
	}
	return rec
}

func fromGuestRecord(rec guestRecord) (model.Guest, error) {
	g := model.Guest{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Phone:     rec.Phone,
		Address:   rec.Address,
		VIP:       rec.VIPStatus,
	}

	if rec.RegistrationDate != "" {
		d, err := parseDate(rec.RegistrationDate)
		if err != nil {
			return model.Guest{}, fmt.Errorf("guest %s registrationDate: %w", rec.ID, err)
		}
		g.RegistrationDate = d
	}

	if rec.DateOfBirth != nil && *rec.DateOfBirth != "" {
		d, err := parseDate(*rec.DateOfBirth)
		if err != nil {
			return model.Guest{}, fmt.Errorf("guest %s dateOfBirth: %w", rec.ID, err)
		}
		g.DateOfBirth = &d
	}

	return g, nil
}

func toReservationRecord(r model.Reservation) reservationRecord {
	return reservationRecord{
		ID:        r.ID,
		RoomID:    r.RoomID,
		GuestID:   r.GuestID,
		GuestName: r.GuestName,
		StartDate: model.FormatDate(r.StartDate),
		EndDate:   model.FormatDate(r.EndDate),
		PartySize: r.PartySize,
	}
}

func fromReservationRecord(rec reservationRecord) (model.Reservation, error) {
	start, err := parseDate(rec.StartDate)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("reservation %s startDate: %w", rec.ID, err)
	}
	end, err := parseDate(rec.EndDate)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("reservation %s endDate: %w", rec.ID, err)
	}

	res, err := model.NewReservation(rec.ID, rec.RoomID, rec.GuestID, rec.GuestName, start, end, rec.PartySize)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%w: reservation %s: %v", ErrInvalidRecord, rec.ID, err)
	}
	return res, nil
}

func toPaymentRecord(p model.Payment) paymentRecord {
	return paymentRecord{
		ID:            p.ID,
		ReservationID: p.ReservationID,
		GuestID:       p.GuestID,
		Amount:        json.Number(p.Amount.String()),
		PaymentMethod: string(p.Method),
		PaymentStatus: string(p.Status),
		PaymentDate:   model.FormatTimestamp(p.PaymentDate),
		TransactionID: p.TransactionID,
		Description:   p.Description,
	}
}

func fromPaymentRecord(rec paymentRecord) (model.Payment, error) {
	amount, err := decimal.NewFromString(rec.Amount.String())
	if err != nil {
		return model.Payment{}, fmt.Errorf("%w: payment %s amount %q", ErrInvalidRecord, rec.ID, rec.Amount)
	}

	method, err := model.ParsePaymentMethod(rec.PaymentMethod)
	if err != nil {
		return model.Payment{}, fmt.Errorf("%w: payment %s: %v", ErrInvalidRecord, rec.ID, err)
	}

	status, err := model.ParsePaymentStatus(rec.PaymentStatus)
	if err != nil {
		return model.Payment{}, fmt.Errorf("%w: payment %s: %v", ErrInvalidRecord, rec.ID, err)
	}

	var paidAt time.Time
	if rec.PaymentDate != "" {
		paidAt, err = time.ParseInLocation(model.TimestampLayout, rec.PaymentDate, time.Local)
		if err != nil {
			return model.Payment{}, fmt.Errorf("%w: payment %s paymentDate %q", ErrInvalidRecord, rec.ID, rec.PaymentDate)
		}
	}

	return model.Payment{
		ID:            rec.ID,
		ReservationID: rec.ReservationID,
		GuestID:       rec.GuestID,
		Amount:        amount,
		Method:        method,
		Status:        status,
		PaymentDate:   paidAt,
		TransactionID: rec.TransactionID,
		Description:   rec.Description,
	}, nil
}

func toReportRecord(r model.OccupancyReport) reportRecord {
	return reportRecord{
		ReportPeriod:      r.Period(),
		TotalRooms:        r.TotalRooms,
		TotalReservations: r.TotalReservations,
		TotalGuests:       r.TotalGuests,
		TotalPayments:     r.TotalPayments,
		OccupancyRate:     r.Rate(),
		GeneratedAt:       model.FormatTimestamp(r.GeneratedAt),
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidRecord, s)
	}
	return t, nil
}
