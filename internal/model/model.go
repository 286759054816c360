// Package model содержит доменные сущности гостиничного сервиса.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Room описывает номер гостиницы. После создания не изменяется.
type Room struct {
	ID       string
	Number   string
	Capacity int
}

// NewRoom создаёт номер и проверяет инварианты конструирования.
func NewRoom(id, number string, capacity int) (Room, error) {
	if strings.TrimSpace(id) == "" {
		return Room{}, errors.New("room id required")
	}
	if strings.TrimSpace(number) == "" {
		return Room{}, errors.New("room number required")
	}
	if capacity <= 0 {
		return Room{}, errors.New("capacity must be > 0")
	}
	return Room{ID: id, Number: number, Capacity: capacity}, nil
}

func (r Room) String() string {
	return fmt.Sprintf("Room %s (id %s, capacity %d)", r.Number, r.ID, r.Capacity)
}

// Guest описывает зарегистрированного гостя.
type Guest struct {
	ID               string
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Address          string
	DateOfBirth      *time.Time
	RegistrationDate time.Time
	VIP              bool
}

// NewGuest создаёт гостя с датой регистрации registeredAt.
// Проверка формата полей выполняется сервисом при добавлении.
func NewGuest(id, firstName, lastName, email, phone string, registeredAt time.Time) Guest {
	return Guest{
		ID:               id,
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		Phone:            phone,
		RegistrationDate: DateOf(registeredAt),
	}
}

// FullName возвращает имя и фамилию через пробел.
func (g Guest) FullName() string {
	return g.FirstName + " " + g.LastName
}

func (g Guest) String() string {
	vip := ""
	if g.VIP {
		vip = " [VIP]"
	}
	return fmt.Sprintf("%s (id %s, %s, %s)%s", g.FullName(), g.ID, g.Email, g.Phone, vip)
}

// Reservation описывает бронирование номера на полуинтервал [StartDate, EndDate).
// GuestName хранит имя гостя на момент бронирования и используется только для отображения.
type Reservation struct {
	ID        string
	RoomID    string
	GuestID   string
	GuestName string
	StartDate time.Time
	EndDate   time.Time
	PartySize int
}

// NewReservation создаёт бронирование и проверяет инварианты конструирования.
func NewReservation(id, roomID, guestID, guestName string, start, end time.Time, partySize int) (Reservation, error) {
	if strings.TrimSpace(id) == "" {
		return Reservation{}, errors.New("reservation id required")
	}
	if strings.TrimSpace(roomID) == "" {
		return Reservation{}, errors.New("room id required")
	}
	if strings.TrimSpace(guestName) == "" {
		return Reservation{}, errors.New("guest name required")
	}
	if !start.Before(end) {
		return Reservation{}, errors.New("start date must be before end date")
	}
	if partySize <= 0 {
		return Reservation{}, errors.New("party size must be > 0")
	}
	return Reservation{
		ID:        id,
		RoomID:    roomID,
		GuestID:   guestID,
		GuestName: guestName,
		StartDate: DateOf(start),
		EndDate:   DateOf(end),
		PartySize: partySize,
	}, nil
}

// Nights возвращает количество ночей в бронировании.
func (r Reservation) Nights() int {
	return DaysBetween(r.StartDate, r.EndDate)
}

func (r Reservation) String() string {
	return fmt.Sprintf("Reservation %s: room %s, %s, %s to %s, party of %d",
		r.ID, r.RoomID, r.GuestName, FormatDate(r.StartDate), FormatDate(r.EndDate), r.PartySize)
}

// PaymentMethod описывает способ оплаты.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
)

// PaymentMethods перечисляет способы оплаты в порядке меню.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodBankTransfer,
	PaymentMethodOnline,
}

// ParsePaymentMethod разбирает способ оплаты без учёта регистра.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range PaymentMethods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// PaymentStatus описывает статус платежа.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// ParsePaymentStatus разбирает статус платежа. Пустая строка означает PENDING.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case "":
		return PaymentStatusPending, nil
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// Payment описывает платёж по бронированию.
type Payment struct {
	ID            string
	ReservationID string
	GuestID       string
	Amount        decimal.Decimal
	Method        PaymentMethod
	Status        PaymentStatus
	PaymentDate   time.Time
	TransactionID string
	Description   string
}

// NewPayment создаёт платёж в статусе PENDING с датой paidAt.
func NewPayment(id, reservationID, guestID string, amount decimal.Decimal, method PaymentMethod, paidAt time.Time) (Payment, error) {
	if strings.TrimSpace(id) == "" {
		return Payment{}, errors.New("payment id required")
	}
	if amount.IsNegative() {
		return Payment{}, errors.New("amount must not be negative")
	}
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return Payment{}, err
	}
	return Payment{
		ID:            id,
		ReservationID: reservationID,
		GuestID:       guestID,
		Amount:        amount,
		Method:        method,
		Status:        PaymentStatusPending,
		PaymentDate:   paidAt.Truncate(time.Second),
	}, nil
}

// Completed сообщает, учитывается ли платёж в суммах.
func (p Payment) Completed() bool {
	return p.Status == PaymentStatusCompleted
}

func (p Payment) String() string {
	return fmt.Sprintf("Payment %s: reservation %s, guest %s, %s via %s, %s, %s",
		p.ID, p.ReservationID, p.GuestID, p.Amount.StringFixed(2), p.Method, p.Status, FormatTimestamp(p.PaymentDate))
}
