// Package handler реализует текстовое меню гостиничного сервиса.
package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/hotel-desk/internal/model"
	"github.com/mmeshcher/hotel-desk/internal/service"
	"github.com/mmeshcher/hotel-desk/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой меню.
type Service interface {
	AddRoom(room model.Room) (model.Room, error)
	RemoveRoom(id string) (bool, error)
	ListRooms() []model.Room
	SearchRoomsByCapacity(minCapacity int) []model.Room

	AddGuest(guest model.Guest) (model.Guest, error)
	SetGuestVIP(id string, vip bool) (model.Guest, error)
	GetGuest(id string) (model.Guest, error)
	ListGuests() []model.Guest
	SearchGuestsByName(name string) []model.Guest
	VIPGuests() []model.Guest

	CreateReservation(id, roomID, guestID string, start, end time.Time, partySize int) (model.Reservation, error)
	CancelReservation(id string) (model.Reservation, bool)
	IsRoomAvailable(roomID string, start, end time.Time) (bool, error)
	GetAvailableRooms(start, end time.Time) ([]model.Room, error)
	GetReservation(id string) (model.Reservation, error)
	ListReservations() []model.Reservation
	ListReservationsForRoom(roomID string) []model.Reservation
	ListReservationsForGuest(guestID string) []model.Reservation

	AddPayment(payment model.Payment) (model.Payment, error)
	ListPaymentsForReservation(reservationID string) []model.Payment
	ListPaymentsForGuest(guestID string) []model.Payment
	TotalPaymentsForReservation(reservationID string) decimal.Decimal
	TotalCompletedPayments() decimal.Decimal

	GenerateOccupancyReport(start, end time.Time) model.OccupancyReport
	SaveReport(report model.OccupancyReport) (string, error)
	Statistics() model.Statistics
	Backup() (string, error)
}

// errInvalidInput означает, что введённое значение не удалось разобрать.
var errInvalidInput = errors.New("invalid input")

// Handler ведёт диалог с оператором через текстовое меню.
type Handler struct {
	service Service
	logger  *zap.Logger
	in      io.Reader
	out     io.Writer
	newID   func() string

	ctx   context.Context
	lines <-chan string
}

// NewHandler создаёт меню, читающее команды из in и пишущее ответы в out.
func NewHandler(s Service, logger *zap.Logger, in io.Reader, out io.Writer) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service: s,
		logger:  logger,
		in:      in,
		out:     out,
		newID:   uuid.NewString,
	}
}

// Run показывает главное меню до выбора выхода, конца ввода или отмены ctx.
// Выход и конец ввода не считаются ошибкой.
func (h *Handler) Run(ctx context.Context) error {
	h.ctx = ctx
	h.lines = readLines(ctx, h.in)

	h.println("=== Hotel Management System ===")
	err := h.runMenu(h.mainMenu())
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err == nil {
		h.println("Goodbye!")
	}
	return err
}

// readLines читает строки ввода в отдельной горутине, чтобы ожидание ввода
// прерывалось отменой ctx.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func (h *Handler) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(h.out, prompt)
	}
	select {
	case <-h.ctx.Done():
		return "", h.ctx.Err()
	case line, ok := <-h.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// askText запрашивает строку и очищает её от опасных символов.
func (h *Handler) askText(prompt string) (string, error) {
	line, err := h.readLine(prompt)
	if err != nil {
		return "", err
	}
	return validation.SanitizeInput(line), nil
}

func (h *Handler) askInt(prompt string) (int, error) {
	line, err := h.readLine(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errInvalidInput, line)
	}
	return n, nil
}

func (h *Handler) askDate(prompt string) (time.Time, error) {
	line, err := h.readLine(prompt)
	if err != nil {
		return time.Time{}, err
	}
	d, err := validation.ParseDate(line)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", errInvalidInput)
	}
	return d, nil
}

func (h *Handler) askDecimal(prompt string) (decimal.Decimal, error) {
	line, err := h.readLine(prompt)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(line)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not an amount", errInvalidInput, line)
	}
	return d, nil
}

func (h *Handler) askYesNo(prompt string) (bool, error) {
	line, err := h.readLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"), nil
}

func (h *Handler) askDateRange() (time.Time, time.Time, error) {
	start, err := h.askDate("Start date (YYYY-MM-DD): ")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := h.askDate("End date (YYYY-MM-DD): ")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (h *Handler) println(a ...any) {
	fmt.Fprintln(h.out, a...)
}

func (h *Handler) printf(format string, a ...any) {
	fmt.Fprintf(h.out, format, a...)
}

// isTerminal сообщает, что ошибка завершает работу меню.
func isTerminal(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// describeError переводит ошибку сервиса в сообщение для оператора.
func describeError(err error) string {
	switch {
	case errors.Is(err, service.ErrConflict):
		return "Room is not available for the selected dates"
	case errors.Is(err, service.ErrCapacityExceeded):
		return "Party size exceeds room capacity"
	case errors.Is(err, service.ErrRoomInUse):
		return "Room has active reservations and cannot be removed"
	case errors.Is(err, service.ErrPersistence):
		return "Storage error: " + err.Error()
	default:
		return err.Error()
	}
}
