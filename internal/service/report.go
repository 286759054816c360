package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/hotel-desk/internal/model"
)

var hundred = decimal.NewFromInt(100)

// GenerateOccupancyReport строит отчёт о загрузке за период [start, end] включительно.
//
// В отчёт попадают бронирования, пересекающие период с учётом обоих концов.
// Каждое бронирование добавляет все свои ночи, даже выходящие за период.
// Если номеров нет или период пуст, загрузка равна нулю.
func (s *Service) GenerateOccupancyReport(start, end time.Time) model.OccupancyReport {
	start, end = model.DateOf(start), model.DateOf(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	report := model.OccupancyReport{
		PeriodStart:   start,
		PeriodEnd:     end,
		TotalRooms:    len(s.rooms),
		TotalGuests:   len(s.guests),
		TotalPayments: len(s.payments),
		OccupancyRate: decimal.Zero,
		GeneratedAt:   s.now(),
	}

	for _, res := range s.reservations {
		if !OverlapsInclusive(res.StartDate, res.EndDate, start, end) {
			continue
		}
		report.TotalReservations++
		report.OccupiedRoomDays += res.Nights()
	}

	daysInPeriod := model.DaysBetween(start, end) + 1
	report.TotalRoomDays = len(s.rooms) * daysInPeriod
	if report.TotalRoomDays > 0 {
		report.OccupancyRate = decimal.NewFromInt(int64(report.OccupiedRoomDays)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(report.TotalRoomDays))).
			Round(2)
	}

	return report
}

// SaveReport выгружает отчёт в каталог отчётов.
func (s *Service) SaveReport(report model.OccupancyReport) (string, error) {
	path, err := s.repo.SaveReport(report)
	if err != nil {
		s.logger.Error("failed to save report", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.logger.Info("report saved", zap.String("path", path))
	return path, nil
}

// Statistics возвращает общую статистику. Активным считается бронирование,
// которое заканчивается позже сегодняшнего дня.
func (s *Service) Statistics() model.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.today()
	stats := model.Statistics{
		TotalRooms:        len(s.rooms),
		TotalGuests:       len(s.guests),
		TotalReservations: len(s.reservations),
		TotalPayments:     len(s.payments),
		CompletedRevenue:  sumCompleted(mapValues(s.payments)),
	}
	for _, g := range s.guests {
		if g.VIP {
			stats.VIPGuests++
		}
	}
	for _, res := range s.reservations {
		if res.EndDate.After(today) {
			stats.ActiveReservations++
		}
	}
	return stats
}
