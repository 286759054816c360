package service

import (
	"errors"

	"github.com/mmeshcher/hotel-desk/internal/model"
)

// SeedSampleData заполняет пустые коллекции номеров и гостей демонстрационными данными.
func (s *Service) SeedSampleData() error {
	var errs []error

	if len(s.ListRooms()) == 0 {
		for _, r := range []model.Room{
			{ID: "R1", Number: "101", Capacity: 2},
			{ID: "R2", Number: "102", Capacity: 4},
			{ID: "R3", Number: "201", Capacity: 1},
			{ID: "R4", Number: "202", Capacity: 3},
		} {
			if _, err := s.AddRoom(r); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(s.ListGuests()) == 0 {
		today := s.today()
		john := model.NewGuest("G1", "John", "Doe", "john.doe@email.com", "5551234567", today)
		jane := model.NewGuest("G2", "Jane", "Smith", "jane.smith@email.com", "5555678901", today)
		jane.VIP = true

		for _, g := range []model.Guest{john, jane} {
			if _, err := s.AddGuest(g); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}
