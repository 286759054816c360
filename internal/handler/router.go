package handler

import (
	"time"

	"go.uber.org/zap"
)

type menuItem struct {
	key    string
	title  string
	action func() error
}

type menu struct {
	title string
	items []menuItem
	// exit завершает работу программы вместо возврата в предыдущее меню.
	exit bool
}

// mainMenu настраивает дерево меню сервиса.
func (h *Handler) mainMenu() menu {
	rooms := menu{title: "Room Management", items: []menuItem{
		{"1", "Add room", h.addRoom},
		{"2", "List all rooms", h.listRooms},
		{"3", "Search rooms by capacity", h.searchRoomsByCapacity},
		{"4", "Remove room", h.removeRoom},
	}}
	guests := menu{title: "Guest Management", items: []menuItem{
		{"1", "Add guest", h.addGuest},
		{"2", "List all guests", h.listGuests},
		{"3", "Search guests by name", h.searchGuests},
		{"4", "List VIP guests", h.listVIPGuests},
		{"5", "Toggle VIP status", h.toggleVIP},
	}}
	reservations := menu{title: "Reservation Management", items: []menuItem{
		{"1", "Create reservation", h.createReservation},
		{"2", "List all reservations", h.listReservations},
		{"3", "List reservations by room", h.listReservationsByRoom},
		{"4", "List reservations by guest", h.listReservationsByGuest},
		{"5", "Check room availability", h.checkAvailability},
		{"6", "Cancel reservation", h.cancelReservation},
	}}
	payments := menu{title: "Payment Management", items: []menuItem{
		{"1", "Add payment", h.addPayment},
		{"2", "List payments by reservation", h.listPaymentsByReservation},
		{"3", "List payments by guest", h.listPaymentsByGuest},
		{"4", "Total payments for reservation", h.totalForReservation},
		{"5", "Total completed payments", h.totalCompleted},
	}}
	reports := menu{title: "Reports", items: []menuItem{
		{"1", "Occupancy report", h.occupancyReport},
		{"2", "Available rooms", h.availableRooms},
		{"3", "System statistics", h.statistics},
		{"4", "Backup data", h.backup},
	}}

	return menu{title: "Main Menu", exit: true, items: []menuItem{
		{"1", "Room Management", h.submenu(rooms)},
		{"2", "Guest Management", h.submenu(guests)},
		{"3", "Reservation Management", h.submenu(reservations)},
		{"4", "Payment Management", h.submenu(payments)},
		{"5", "Reports", h.submenu(reports)},
	}}
}

func (h *Handler) submenu(m menu) func() error {
	return func() error { return h.runMenu(m) }
}

// runMenu показывает меню, пока оператор не выберет 0. Ошибки команд
// печатаются, после чего меню показывается снова.
func (h *Handler) runMenu(m menu) error {
	for {
		h.printMenu(m)

		choice, err := h.readLine("Choose an option: ")
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}

		item, ok := findItem(m, choice)
		if !ok {
			h.println("Invalid option, please try again.")
			continue
		}

		if err := h.dispatch(m, item); err != nil {
			if isTerminal(err) {
				return err
			}
			h.println("Error: " + describeError(err))
		}
	}
}

// dispatch выполняет команду и логирует её результат.
func (h *Handler) dispatch(m menu, item menuItem) error {
	start := time.Now()
	err := item.action()

	fields := []zap.Field{
		zap.String("menu", m.title),
		zap.String("command", item.title),
		zap.Duration("duration", time.Since(start)),
	}
	switch {
	case err == nil, isTerminal(err):
		h.logger.Debug("command completed", fields...)
	default:
		h.logger.Info("command failed", append(fields, zap.Error(err))...)
	}
	return err
}

func (h *Handler) printMenu(m menu) {
	h.println()
	h.printf("--- %s ---\n", m.title)
	for _, item := range m.items {
		h.printf("%s. %s\n", item.key, item.title)
	}
	if m.exit {
		h.println("0. Exit")
	} else {
		h.println("0. Back")
	}
}

func findItem(m menu, key string) (menuItem, bool) {
	for _, item := range m.items {
		if item.key == key {
			return item, true
		}
	}
	return menuItem{}, false
}
