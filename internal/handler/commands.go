package handler

import (
	"fmt"
	"strings"

	"github.com/mmeshcher/hotel-desk/internal/model"
)

func (h *Handler) addRoom() error {
	id, err := h.askText("Room ID: ")
	if err != nil {
		return err
	}
	number, err := h.askText("Room number: ")
	if err != nil {
		return err
	}
	capacity, err := h.askInt("Capacity: ")
	if err != nil {
		return err
	}

	room, err := h.service.AddRoom(model.Room{ID: id, Number: number, Capacity: capacity})
	if err != nil {
		return err
	}
	h.println("Room added: " + room.String())
	return nil
}

func (h *Handler) listRooms() error {
	printList(h, "No rooms found.", h.service.ListRooms())
	return nil
}

func (h *Handler) searchRoomsByCapacity() error {
	minCapacity, err := h.askInt("Minimum capacity: ")
	if err != nil {
		return err
	}
	printList(h, "No rooms found.", h.service.SearchRoomsByCapacity(minCapacity))
	return nil
}

func (h *Handler) removeRoom() error {
	id, err := h.askText("Room ID: ")
	if err != nil {
		return err
	}
	removed, err := h.service.RemoveRoom(id)
	if err != nil {
		return err
	}
	if !removed {
		h.println("Room not found.")
		return nil
	}
	h.println("Room removed.")
	return nil
}

func (h *Handler) addGuest() error {
	var fields [5]string
	for i, prompt := range []string{"Guest ID: ", "First name: ", "Last name: ", "Email: ", "Phone: "} {
		v, err := h.askText(prompt)
		if err != nil {
			return err
		}
		fields[i] = v
	}
	address, err := h.askText("Address (optional): ")
	if err != nil {
		return err
	}

	guest := model.Guest{
		ID:        fields[0],
		FirstName: fields[1],
		LastName:  fields[2],
		Email:     fields[3],
		Phone:     fields[4],
		Address:   address,
	}
	guest, err = h.service.AddGuest(guest)
	if err != nil {
		return err
	}
	h.println("Guest added: " + guest.String())
	return nil
}

func (h *Handler) listGuests() error {
	printList(h, "No guests found.", h.service.ListGuests())
	return nil
}

func (h *Handler) searchGuests() error {
	term, err := h.askText("Name contains: ")
	if err != nil {
		return err
	}
	printList(h, "No guests found.", h.service.SearchGuestsByName(term))
	return nil
}

func (h *Handler) listVIPGuests() error {
	printList(h, "No VIP guests found.", h.service.VIPGuests())
	return nil
}

func (h *Handler) toggleVIP() error {
	id, err := h.askText("Guest ID: ")
	if err != nil {
		return err
	}
	guest, err := h.service.GetGuest(id)
	if err != nil {
		return err
	}
	guest, err = h.service.SetGuestVIP(id, !guest.VIP)
	if err != nil {
		return err
	}
	if guest.VIP {
		h.println(guest.FullName() + " is now a VIP guest.")
	} else {
		h.println(guest.FullName() + " is no longer a VIP guest.")
	}
	return nil
}

func (h *Handler) createReservation() error {
	id, err := h.askText("Reservation ID: ")
	if err != nil {
		return err
	}
	roomID, err := h.askText("Room ID: ")
	if err != nil {
		return err
	}
	guestID, err := h.askText("Guest ID: ")
	if err != nil {
		return err
	}
	start, end, err := h.askDateRange()
	if err != nil {
		return err
	}
	partySize, err := h.askInt("Party size: ")
	if err != nil {
		return err
	}

	res, err := h.service.CreateReservation(id, roomID, guestID, start, end, partySize)
	if err != nil {
		return err
	}
	h.println("Reservation created: " + res.String())
	return nil
}

func (h *Handler) listReservations() error {
	printList(h, "No reservations found.", h.service.ListReservations())
	return nil
}

func (h *Handler) listReservationsByRoom() error {
	roomID, err := h.askText("Room ID: ")
	if err != nil {
		return err
	}
	printList(h, "No reservations found.", h.service.ListReservationsForRoom(roomID))
	return nil
}

func (h *Handler) listReservationsByGuest() error {
	guestID, err := h.askText("Guest ID: ")
	if err != nil {
		return err
	}
	printList(h, "No reservations found.", h.service.ListReservationsForGuest(guestID))
	return nil
}

func (h *Handler) checkAvailability() error {
	roomID, err := h.askText("Room ID: ")
	if err != nil {
		return err
	}
	start, end, err := h.askDateRange()
	if err != nil {
		return err
	}
	available, err := h.service.IsRoomAvailable(roomID, start, end)
	if err != nil {
		return err
	}
	if available {
		h.println("Room is available.")
	} else {
		h.println("Room is not available.")
	}
	return nil
}

func (h *Handler) cancelReservation() error {
	id, err := h.askText("Reservation ID: ")
	if err != nil {
		return err
	}
	if _, ok := h.service.CancelReservation(id); !ok {
		h.println("Reservation not found.")
		return nil
	}
	h.println("Reservation cancelled.")
	return nil
}

// addPayment записывает платёж по бронированию. Плательщиком по умолчанию
// считается гость бронирования. Платежи, принятые через меню, сразу считаются завершёнными.
func (h *Handler) addPayment() error {
	id, err := h.askText("Payment ID (blank to generate): ")
	if err != nil {
		return err
	}
	if id == "" {
		id = h.newID()
	}
	reservationID, err := h.askText("Reservation ID: ")
	if err != nil {
		return err
	}
	res, err := h.service.GetReservation(reservationID)
	if err != nil {
		return err
	}
	guestID, err := h.askText(fmt.Sprintf("Guest ID [%s]: ", res.GuestID))
	if err != nil {
		return err
	}
	if guestID == "" {
		guestID = res.GuestID
	}
	amount, err := h.askDecimal("Amount: ")
	if err != nil {
		return err
	}
	method, err := h.askPaymentMethod()
	if err != nil {
		return err
	}
	description, err := h.askText("Description (optional): ")
	if err != nil {
		return err
	}

	payment, err := h.service.AddPayment(model.Payment{
		ID:            id,
		ReservationID: res.ID,
		GuestID:       guestID,
		Amount:        amount,
		Method:        method,
		Status:        model.PaymentStatusCompleted,
		TransactionID: h.newID(),
		Description:   description,
	})
	if err != nil {
		return err
	}
	h.println("Payment added: " + payment.String())
	return nil
}

func (h *Handler) askPaymentMethod() (model.PaymentMethod, error) {
	h.println("Payment methods:")
	for i, m := range model.PaymentMethods {
		h.printf("%d. %s\n", i+1, m)
	}
	choice, err := h.askInt("Choose payment method: ")
	if err != nil {
		return "", err
	}
	if choice < 1 || choice > len(model.PaymentMethods) {
		return "", fmt.Errorf("%w: unknown payment method %d", errInvalidInput, choice)
	}
	return model.PaymentMethods[choice-1], nil
}

func (h *Handler) listPaymentsByReservation() error {
	id, err := h.askText("Reservation ID: ")
	if err != nil {
		return err
	}
	printList(h, "No payments found.", h.service.ListPaymentsForReservation(id))
	return nil
}

func (h *Handler) listPaymentsByGuest() error {
	id, err := h.askText("Guest ID: ")
	if err != nil {
		return err
	}
	printList(h, "No payments found.", h.service.ListPaymentsForGuest(id))
	return nil
}

func (h *Handler) totalForReservation() error {
	id, err := h.askText("Reservation ID: ")
	if err != nil {
		return err
	}
	total := h.service.TotalPaymentsForReservation(id)
	h.printf("Total completed payments for reservation %s: %s\n", id, total.StringFixed(2))
	return nil
}

func (h *Handler) totalCompleted() error {
	h.printf("Total completed payments: %s\n", h.service.TotalCompletedPayments().StringFixed(2))
	return nil
}

func (h *Handler) occupancyReport() error {
	start, end, err := h.askDateRange()
	if err != nil {
		return err
	}
	report := h.service.GenerateOccupancyReport(start, end)

	h.println("=== Occupancy Report ===")
	h.printf("Period: %s\n", report.Period())
	h.printf("Total rooms: %d\n", report.TotalRooms)
	h.printf("Total reservations: %d\n", report.TotalReservations)
	h.printf("Total guests: %d\n", report.TotalGuests)
	h.printf("Total payments: %d\n", report.TotalPayments)
	h.printf("Occupancy rate: %s\n", report.Rate())
	h.printf("Generated at: %s\n", model.FormatTimestamp(report.GeneratedAt))

	export, err := h.askYesNo("Export report to file? (y/n): ")
	if err != nil {
		return err
	}
	if !export {
		return nil
	}
	path, err := h.service.SaveReport(report)
	if err != nil {
		return err
	}
	h.println("Report saved to " + path)
	return nil
}

func (h *Handler) availableRooms() error {
	start, end, err := h.askDateRange()
	if err != nil {
		return err
	}
	rooms, err := h.service.GetAvailableRooms(start, end)
	if err != nil {
		return err
	}
	printList(h, "No rooms available.", rooms)
	return nil
}

func (h *Handler) statistics() error {
	st := h.service.Statistics()

	h.println("=== System Statistics ===")
	h.printf("Rooms: %d\n", st.TotalRooms)
	h.printf("Guests: %d (VIP: %d)\n", st.TotalGuests, st.VIPGuests)
	h.printf("Reservations: %d (active: %d)\n", st.TotalReservations, st.ActiveReservations)
	h.printf("Payments: %d\n", st.TotalPayments)
	h.printf("Completed revenue: %s\n", st.CompletedRevenue.StringFixed(2))
	return nil
}

func (h *Handler) backup() error {
	dir, err := h.service.Backup()
	if err != nil {
		return err
	}
	h.println("Backup created in " + dir)
	return nil
}

func printList[T fmt.Stringer](h *Handler, empty string, items []T) {
	if len(items) == 0 {
		h.println(empty)
		return
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "  "+item.String())
	}
	h.println(strings.Join(lines, "\n"))
}
