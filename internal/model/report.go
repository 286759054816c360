package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OccupancyReport содержит агрегаты загрузки номеров за период.
type OccupancyReport struct {
	PeriodStart       time.Time       `json:"periodStart"`
	PeriodEnd         time.Time       `json:"periodEnd"`
	TotalRooms        int             `json:"totalRooms"`
	TotalReservations int             `json:"totalReservations"`
	TotalGuests       int             `json:"totalGuests"`
	TotalPayments     int             `json:"totalPayments"`
	OccupiedRoomDays  int             `json:"occupiedRoomDays"`
	TotalRoomDays     int             `json:"totalRoomDays"`
	OccupancyRate     decimal.Decimal `json:"occupancyRate"`
	GeneratedAt       time.Time       `json:"generatedAt"`
}

// Period возвращает период отчёта в виде "start to end".
func (r OccupancyReport) Period() string {
	return FormatDate(r.PeriodStart) + " to " + FormatDate(r.PeriodEnd)
}

// Rate возвращает процент загрузки с двумя знаками, например "42.50%".
func (r OccupancyReport) Rate() string {
	return r.OccupancyRate.StringFixed(2) + "%"
}

// Statistics содержит общую статистику системы.
type Statistics struct {
	TotalRooms         int
	TotalGuests        int
	VIPGuests          int
	TotalReservations  int
	ActiveReservations int
	TotalPayments      int
	CompletedRevenue   decimal.Decimal
}
