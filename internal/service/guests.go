package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/hotel-desk/internal/model"
	"github.com/mmeshcher/hotel-desk/internal/validation"
)

// AddGuest регистрирует гостя. Email должен быть уникален без учёта регистра.
func (s *Service) AddGuest(guest model.Guest) (model.Guest, error) {
	if err := validateGuest(guest); err != nil {
		return model.Guest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.guests[guest.ID]; ok {
		return model.Guest{}, fmt.Errorf("%w: guest %s already exists", ErrDuplicateID, guest.ID)
	}
	if other, ok := s.guestByEmailLocked(guest.Email); ok {
		return model.Guest{}, fmt.Errorf("%w: %s is used by guest %s", ErrDuplicateEmail, guest.Email, other.ID)
	}

	if guest.RegistrationDate.IsZero() {
		guest.RegistrationDate = s.today()
	}

	s.guests[guest.ID] = guest
	if _, ok := s.byGuest[guest.ID]; !ok {
		s.byGuest[guest.ID] = make(map[string]struct{})
	}
	s.persistGuests()

	s.logger.Info("guest added", zap.String("guest_id", guest.ID), zap.String("name", guest.FullName()))
	return guest, nil
}

// UpdateGuest полностью заменяет данные существующего гостя.
// Бронирования связаны с гостем по идентификатору и переименование их не затрагивает.
func (s *Service) UpdateGuest(guest model.Guest) (model.Guest, error) {
	if err := validateGuest(guest); err != nil {
		return model.Guest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.guests[guest.ID]
	if !ok {
		return model.Guest{}, fmt.Errorf("%w: guest %s", ErrNotFound, guest.ID)
	}
	if other, ok := s.guestByEmailLocked(guest.Email); ok && other.ID != guest.ID {
		return model.Guest{}, fmt.Errorf("%w: %s is used by guest %s", ErrDuplicateEmail, guest.Email, other.ID)
	}

	if guest.RegistrationDate.IsZero() {
		guest.RegistrationDate = current.RegistrationDate
	}

	s.guests[guest.ID] = guest
	s.persistGuests()

	s.logger.Info("guest updated", zap.String("guest_id", guest.ID), zap.Bool("vip", guest.VIP))
	return guest, nil
}

// SetGuestVIP меняет VIP-статус гостя.
func (s *Service) SetGuestVIP(id string, vip bool) (model.Guest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	guest, ok := s.guests[id]
	if !ok {
		return model.Guest{}, fmt.Errorf("%w: guest %s", ErrNotFound, id)
	}

	guest.VIP = vip
	s.guests[id] = guest
	s.persistGuests()

	s.logger.Info("guest vip status changed", zap.String("guest_id", id), zap.Bool("vip", vip))
	return guest, nil
}

// GetGuest возвращает гостя по идентификатору.
func (s *Service) GetGuest(id string) (model.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guest, ok := s.guests[id]
	if !ok {
		return model.Guest{}, fmt.Errorf("%w: guest %s", ErrNotFound, id)
	}
	return guest, nil
}

// ListGuests возвращает всех гостей, отсортированных по фамилии и имени.
func (s *Service) ListGuests() []model.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedGuestsLocked()
}

// SearchGuestsByName ищет гостей по подстроке полного имени без учёта регистра.
func (s *Service) SearchGuestsByName(name string) []model.Guest {
	term := strings.ToLower(strings.TrimSpace(name))

	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []model.Guest
	for _, g := range s.sortedGuestsLocked() {
		if strings.Contains(strings.ToLower(g.FullName()), term) {
			res = append(res, g)
		}
	}
	return res
}

// VIPGuests возвращает гостей с VIP-статусом.
func (s *Service) VIPGuests() []model.Guest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []model.Guest
	for _, g := range s.sortedGuestsLocked() {
		if g.VIP {
			res = append(res, g)
		}
	}
	return res
}

func (s *Service) guestByEmailLocked(email string) (model.Guest, bool) {
	email = strings.TrimSpace(email)
	for _, g := range s.guests {
		if strings.EqualFold(strings.TrimSpace(g.Email), email) {
			return g, true
		}
	}
	return model.Guest{}, false
}

func validateGuest(g model.Guest) error {
	if !validation.IsValidID(g.ID) {
		return fmt.Errorf("%w: invalid guest id %q", ErrValidation, g.ID)
	}
	if res := validation.ValidateGuest(g.FirstName, g.LastName, g.Email, g.Phone); !res.Valid {
		return fmt.Errorf("%w: invalid guest data: %s", ErrValidation, res.Reason)
	}
	return nil
}
