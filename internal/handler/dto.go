package handler

import (
	"time"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

// Response shapes.  Models carry no JSON tags; these types define the
// wire format.

type roomResponse struct {
	ID        uint64    `json:"id"`
	HotelID   uint64    `json:"hotelId"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Booked    *int      `json:"booked,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newRoomResponse(r model.Room, withOccupancy bool) roomResponse {
	out := roomResponse{
		ID:        r.ID,
		HotelID:   r.HotelID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if withOccupancy {
		booked := r.Booked
		out.Booked = &booked
	}
	return out
}

type bookingResponse struct {
	ID        uint64        `json:"id"`
	UserID    uint64        `json:"userId"`
	RoomID    uint64        `json:"roomId"`
	Room      *roomResponse `json:"Room,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func newBookingResponse(b *model.Booking) bookingResponse {
	out := bookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.Room != nil {
		room := newRoomResponse(*b.Room, false)
		out.Room = &room
	}
	return out
}

type ticketTypeResponse struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Price         uint32    `json:"price"`
	IsRemote      bool      `json:"isRemote"`
	IncludesHotel bool      `json:"includesHotel"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func newTicketTypeResponse(t model.TicketType) ticketTypeResponse {
	return ticketTypeResponse{
		ID:            t.ID,
		Name:          t.Name,
		Price:         t.PriceCents,
		IsRemote:      t.IsRemote,
		IncludesHotel: t.IncludesHotel,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

type ticketResponse struct {
	ID           uint64             `json:"id"`
	EnrollmentID uint64             `json:"enrollmentId"`
	TicketTypeID uint64             `json:"ticketTypeId"`
	Status       string             `json:"status"`
	TicketType   ticketTypeResponse `json:"TicketType"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

func newTicketResponse(t *model.Ticket) ticketResponse {
	return ticketResponse{
		ID:           t.ID,
		EnrollmentID: t.EnrollmentID,
		TicketTypeID: t.TicketTypeID,
		Status:       string(t.Status),
		TicketType:   newTicketTypeResponse(t.TicketType),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

type enrollmentResponse struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	Birthday  string    `json:"birthday"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newEnrollmentResponse(e *model.Enrollment) enrollmentResponse {
	return enrollmentResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Name:      e.Name,
		CPF:       e.CPF,
		Birthday:  e.Birthday.Format(dateLayout),
		Phone:     e.Phone,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type hotelResponse struct {
	ID        uint64         `json:"id"`
	Name      string         `json:"name"`
	Image     string         `json:"image"`
	Rooms     []roomResponse `json:"Rooms,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func newHotelResponse(h model.Hotel) hotelResponse {
	return hotelResponse{ID: h.ID, Name: h.Name, Image: h.Image, CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt}
}

func newHotelWithRoomsResponse(hr *service.HotelWithRooms) hotelResponse {
	out := newHotelResponse(hr.Hotel)
	out.Rooms = make([]roomResponse, 0, len(hr.Rooms))
	for _, r := range hr.Rooms {
		out.Rooms = append(out.Rooms, newRoomResponse(r, true))
	}
	return out
}
