package model

import "time"

// Форматы дат в хранилище и в выводе.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

const secondsPerDay = 24 * 60 * 60

// DateOf отбрасывает время суток и возвращает календарную дату в UTC.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween возвращает число суток от from до to. Отрицательно, если to раньше from.
func DaysBetween(from, to time.Time) int {
	return int((DateOf(to).Unix() - DateOf(from).Unix()) / secondsPerDay)
}

// FormatDate форматирует дату как YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTimestamp форматирует момент времени как YYYY-MM-DD HH:MM:SS.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
