package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/hotel-desk/internal/model"
	"github.com/mmeshcher/hotel-desk/internal/validation"
)

// IsRoomAvailable сообщает, свободен ли номер на полуинтервале [start, end).
func (s *Service) IsRoomAvailable(roomID string, start, end time.Time) (bool, error) {
	if err := validateRange(start, end); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.rooms[roomID]; !ok {
		return false, fmt.Errorf("%w: room %s", ErrNotFound, roomID)
	}
	return s.roomAvailableLocked(roomID, model.DateOf(start), model.DateOf(end)), nil
}

func (s *Service) roomAvailableLocked(roomID string, start, end time.Time) bool {
	for resID := range s.byRoom[roomID] {
		res, ok := s.reservations[resID]
		if !ok {
			continue
		}
		if Overlaps(start, end, res.StartDate, res.EndDate) {
			return false
		}
	}
	return true
}

// CreateReservation бронирует номер roomID для гостя guestID на [start, end).
//
// Проверка доступности и вставка выполняются под одной блокировкой, поэтому
// два параллельных бронирования одного номера не могут пересечься.
func (s *Service) CreateReservation(id, roomID, guestID string, start, end time.Time, partySize int) (model.Reservation, error) {
	if !validation.IsValidID(id) {
		return model.Reservation{}, fmt.Errorf("%w: invalid reservation id %q", ErrValidation, id)
	}
	if err := validateRange(start, end); err != nil {
		return model.Reservation{}, err
	}
	if !validation.IsValidPartySize(partySize) {
		return model.Reservation{}, fmt.Errorf("%w: party size must be %d-%d", ErrValidation, validation.MinPartySize, validation.MaxPartySize)
	}
	start, end = model.DateOf(start), model.DateOf(end)

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return model.Reservation{}, fmt.Errorf("%w: room %s", ErrNotFound, roomID)
	}
	guest, ok := s.guests[guestID]
	if !ok {
		return model.Reservation{}, fmt.Errorf("%w: guest %s", ErrNotFound, guestID)
	}
	if partySize > room.Capacity {
		return model.Reservation{}, fmt.Errorf("%w: party size %d, room %s capacity %d", ErrCapacityExceeded, partySize, room.ID, room.Capacity)
	}
	if !s.roomAvailableLocked(roomID, start, end) {
		return model.Reservation{}, fmt.Errorf("%w: room %s, %s to %s", ErrConflict, roomID, model.FormatDate(start), model.FormatDate(end))
	}
	if _, ok := s.reservations[id]; ok {
		return model.Reservation{}, fmt.Errorf("%w: reservation %s already exists", ErrDuplicateID, id)
	}

	res, err := model.NewReservation(id, roomID, guest.ID, guest.FullName(), start, end, partySize)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.reservations[id] = res
	addToBucket(s.byRoom, roomID, id)
	addToBucket(s.byGuest, guest.ID, id)
	s.persistReservations()

	s.logger.Info("reservation created",
		zap.String("reservation_id", id),
		zap.String("room_id", roomID),
		zap.String("guest_id", guest.ID),
		zap.String("start", model.FormatDate(start)),
		zap.String("end", model.FormatDate(end)),
		zap.Int("party_size", partySize),
	)
	return res, nil
}

// CancelReservation удаляет бронирование и его записи в индексах.
// Возвращает false, если бронирование не найдено; это не ошибка.
func (s *Service) CancelReservation(id string) (model.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok {
		return model.Reservation{}, false
	}

	delete(s.reservations, id)
	removeFromBucket(s.byRoom, res.RoomID, id)
	if guestID, ok := s.guestForReservationLocked(res); ok {
		removeFromBucket(s.byGuest, guestID, id)
	}
	s.persistReservations()

	s.logger.Info("reservation cancelled", zap.String("reservation_id", id), zap.String("room_id", res.RoomID))
	return res, true
}

// GetAvailableRooms возвращает номера, свободные на [start, end), отсортированные по номеру.
func (s *Service) GetAvailableRooms(start, end time.Time) ([]model.Room, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	start, end = model.DateOf(start), model.DateOf(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []model.Room
	for _, room := range s.sortedRoomsLocked() {
		if s.roomAvailableLocked(room.ID, start, end) {
			res = append(res, room)
		}
	}
	return res, nil
}

// GetReservation возвращает бронирование по идентификатору.
func (s *Service) GetReservation(id string) (model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return model.Reservation{}, fmt.Errorf("%w: reservation %s", ErrNotFound, id)
	}
	return res, nil
}

// ListReservations возвращает все бронирования по дате заезда.
func (s *Service) ListReservations() []model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedReservationsLocked()
}

// ListReservationsForRoom возвращает бронирования номера по дате заезда.
func (s *Service) ListReservationsForRoom(roomID string) []model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bucketLocked(s.byRoom[roomID])
}

// ListReservationsForGuest возвращает бронирования гостя по дате заезда.
func (s *Service) ListReservationsForGuest(guestID string) []model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bucketLocked(s.byGuest[guestID])
}

func (s *Service) bucketLocked(bucket map[string]struct{}) []model.Reservation {
	res := make([]model.Reservation, 0, len(bucket))
	for id := range bucket {
		if r, ok := s.reservations[id]; ok {
			res = append(res, r)
		}
	}
	return sortReservations(res)
}

func validateRange(start, end time.Time) error {
	if !validation.IsValidDateRange(model.DateOf(start), model.DateOf(end)) {
		return fmt.Errorf("%w: start date must be before end date", ErrValidation)
	}
	return nil
}
