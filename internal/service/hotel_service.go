package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// HotelService lists hotels and rooms to users whose ticket covers
// accommodation.
type HotelService struct {
	eligibility *Eligibility
	hotels      HotelStore
}

func NewHotelService(enrollments EnrollmentStore, tickets TicketStore, hotels HotelStore) *HotelService {
	return &HotelService{eligibility: NewEligibility(enrollments, tickets), hotels: hotels}
}

// HotelWithRooms is a hotel and its rooms with their current occupancy.
type HotelWithRooms struct {
	Hotel model.Hotel
	Rooms []model.Room
}

func (s *HotelService) ListHotels(ctx context.Context, userID uint64) ([]model.Hotel, error) {
	if err := s.checkAllowed(ctx, userID); err != nil {
		return nil, err
	}
	hotels, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	if len(hotels) == 0 {
		return nil, ErrNotFound
	}
	return hotels, nil
}

// GetHotelRooms returns the hotel whose id is rawID, with its rooms.  Eligibility is
// checked before the id is parsed, so an ineligible caller always gets
// ErrHotelNotAllowed.
func (s *HotelService) GetHotelRooms(ctx context.Context, userID uint64, rawID string) (*HotelWithRooms, error) {
	if err := s.checkAllowed(ctx, userID); err != nil {
		return nil, err
	}
	hotelID, err := ParseID(rawID)
	if err != nil {
		return nil, invalidData("hotelId")
	}
	hotel, err := s.hotels.FindHotelByID(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("find hotel: %w", err)
	}
	if hotel == nil {
		return nil, ErrNotFound
	}
	rooms, err := s.hotels.ListRoomsByHotel(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return &HotelWithRooms{Hotel: *hotel, Rooms: rooms}, nil
}

func (s *HotelService) checkAllowed(ctx context.Context, userID uint64) error {
	err := s.eligibility.CheckBookingEligible(ctx, userID)
	if errors.Is(err, ErrInvalidBooking) {
		return ErrHotelNotAllowed
	}
	return err
}
