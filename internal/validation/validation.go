// Package validation содержит функции валидации входных данных.
// Все функции чистые и никогда не паникуют.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mmeshcher/hotel-desk/internal/model"
)

var (
	emailPattern      = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@([A-Za-z0-9.-]+\.[A-Za-z]{2,})$`)
	phonePattern      = regexp.MustCompile(`^[+]?[1-9]\d{1,14}$|^\d{10}$|^\(\d{3}\)\s?\d{3}-?\d{4}$`)
	idPattern         = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	roomNumberPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	whitespace        = regexp.MustCompile(`\s`)
	unsafeChars       = regexp.MustCompile(`[<>"'&]`)
)

// Допустимые диапазоны вместимости номера и размера группы.
const (
	MinCapacity  = 1
	MaxCapacity  = 10
	MinPartySize = 1
	MaxPartySize = 20
)

// Result описывает результат составной проверки.
type Result struct {
	Valid  bool
	Reason string
}

// Invalid возвращает отрицательный результат с причиной.
func Invalid(reason string) Result {
	return Result{Reason: reason}
}

// Ok возвращает положительный результат.
func Ok() Result {
	return Result{Valid: true}
}

// IsValidString проверяет, что строка не пустая и не состоит из пробелов.
func IsValidString(value string) bool {
	return strings.TrimSpace(value) != ""
}

// HasMinLength проверяет минимальную длину строки без учёта крайних пробелов.
func HasMinLength(value string, minLength int) bool {
	return IsValidString(value) && len([]rune(strings.TrimSpace(value))) >= minLength
}

// HasMaxLength проверяет максимальную длину строки.
func HasMaxLength(value string, maxLength int) bool {
	return len([]rune(value)) <= maxLength
}

// IsValidEmail проверяет формат адреса local@domain.tld.
func IsValidEmail(email string) bool {
	return IsValidString(email) && emailPattern.MatchString(strings.TrimSpace(email))
}

// IsValidPhone проверяет номер телефона: E.164, 10 цифр или (xxx) xxx-xxxx.
// Пробелы внутри номера игнорируются.
func IsValidPhone(phone string) bool {
	return IsValidString(phone) && phonePattern.MatchString(whitespace.ReplaceAllString(phone, ""))
}

// IsValidID проверяет идентификатор: латиница, цифры и дефис, без пробелов по краям.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}

// IsValidRoomNumber проверяет номер комнаты: латиница и цифры.
func IsValidRoomNumber(number string) bool {
	return roomNumberPattern.MatchString(number)
}

// IsInRange проверяет, что value лежит в [lo, hi].
func IsInRange(value, lo, hi int) bool {
	return value >= lo && value <= hi
}

// IsValidCapacity проверяет вместимость номера.
func IsValidCapacity(capacity int) bool {
	return IsInRange(capacity, MinCapacity, MaxCapacity)
}

// IsValidPartySize проверяет размер группы гостей.
func IsValidPartySize(partySize int) bool {
	return IsInRange(partySize, MinPartySize, MaxPartySize)
}

// IsValidDateRange проверяет, что start строго раньше end.
func IsValidDateRange(start, end time.Time) bool {
	return !start.IsZero() && !end.IsZero() && start.Before(end)
}

// IsNotPastDate проверяет, что date не раньше today.
func IsNotPastDate(date, today time.Time) bool {
	return !date.IsZero() && !model.DateOf(date).Before(model.DateOf(today))
}

// ParseDate разбирает дату в формате YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// SanitizeInput обрезает пробелы и удаляет символы <>"'&.
func SanitizeInput(input string) string {
	return unsafeChars.ReplaceAllString(strings.TrimSpace(input), "")
}

// ValidateGuest проверяет поля гостя и возвращает первую найденную причину отказа.
func ValidateGuest(firstName, lastName, email, phone string) Result {
	switch {
	case !IsValidString(firstName):
		return Invalid("first name is required")
	case !HasMinLength(firstName, 2):
		return Invalid("first name must be at least 2 characters")
	case !IsValidString(lastName):
		return Invalid("last name is required")
	case !HasMinLength(lastName, 2):
		return Invalid("last name must be at least 2 characters")
	case !IsValidEmail(email):
		return Invalid("valid email address is required")
	case !IsValidPhone(phone):
		return Invalid("valid phone number is required")
	}
	return Ok()
}
