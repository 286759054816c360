package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/hotel-desk/internal/model"
	"github.com/mmeshcher/hotel-desk/internal/validation"
)

// AddPayment сохраняет платёж. Бронирование и гость должны существовать.
// Пустой статус означает PENDING, нулевая дата платежа заменяется текущим временем.
func (s *Service) AddPayment(payment model.Payment) (model.Payment, error) {
	if !validation.IsValidID(payment.ID) {
		return model.Payment{}, fmt.Errorf("%w: invalid payment id %q", ErrValidation, payment.ID)
	}
	if payment.Amount.IsNegative() {
		return model.Payment{}, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if _, err := model.ParsePaymentMethod(string(payment.Method)); err != nil {
		return model.Payment{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	status, err := model.ParsePaymentStatus(string(payment.Status))
	if err != nil {
		return model.Payment{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	payment.Status = status

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[payment.ID]; ok {
		return model.Payment{}, fmt.Errorf("%w: payment %s already exists", ErrDuplicateID, payment.ID)
	}
	if _, ok := s.reservations[payment.ReservationID]; !ok {
		return model.Payment{}, fmt.Errorf("%w: reservation %s", ErrNotFound, payment.ReservationID)
	}
	if _, ok := s.guests[payment.GuestID]; !ok {
		return model.Payment{}, fmt.Errorf("%w: guest %s", ErrNotFound, payment.GuestID)
	}

	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = s.now().Truncate(time.Second)
	}

	s.payments[payment.ID] = payment
	s.persistPayments()

	s.logger.Info("payment added",
		zap.String("payment_id", payment.ID),
		zap.String("reservation_id", payment.ReservationID),
		zap.String("amount", payment.Amount.String()),
		zap.String("status", string(payment.Status)),
	)
	return payment, nil
}

// ListPayments возвращает все платежи по дате платежа.
func (s *Service) ListPayments() []model.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedPaymentsLocked()
}

// ListPaymentsForReservation возвращает платежи бронирования по дате платежа.
func (s *Service) ListPaymentsForReservation(reservationID string) []model.Payment {
	return s.filterPayments(func(p model.Payment) bool { return p.ReservationID == reservationID })
}

// ListPaymentsForGuest возвращает платежи гостя по дате платежа.
func (s *Service) ListPaymentsForGuest(guestID string) []model.Payment {
	return s.filterPayments(func(p model.Payment) bool { return p.GuestID == guestID })
}

// TotalPaymentsForReservation суммирует завершённые платежи бронирования.
func (s *Service) TotalPaymentsForReservation(reservationID string) decimal.Decimal {
	return sumCompleted(s.ListPaymentsForReservation(reservationID))
}

// TotalCompletedPayments суммирует все завершённые платежи.
func (s *Service) TotalCompletedPayments() decimal.Decimal {
	return sumCompleted(s.ListPayments())
}

func (s *Service) filterPayments(keep func(model.Payment) bool) []model.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []model.Payment
	for _, p := range s.sortedPaymentsLocked() {
		if keep(p) {
			res = append(res, p)
		}
	}
	return res
}

func sumCompleted(payments []model.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Completed() {
			total = total.Add(p.Amount)
		}
	}
	return total
}
