package domain

import "time"

// BookingForm is the consultation request as submitted by a client
type BookingForm struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,loose_email"`
	Phone    string   `json:"phone" validate:"required,phone"`
	Gender   string   `json:"gender" validate:"required,gender"`
	Country  string   `json:"country" validate:"required"`
	Date     string   `json:"date" validate:"required,weekend"`
	Time     string   `json:"time" validate:"required,timeslot"`
	Services []string `json:"services" validate:"min=1,unique,dive,catalog"`
}

// Booking is a persisted consultation request. Bookings are never modified after creation.
type Booking struct {
	BookingID string
	UserID    string
	Name      string
	Email     string
	Phone     string
	Gender    string
	Country   string
	Date      string
	Time      string
	Services  []string
	CreatedAt time.Time
}

// BookingFilter narrows booking listings by calendar date (inclusive, YYYY-MM-DD)
type BookingFilter struct {
	From  string
	To    string
	Limit int
}

// TimeSlots lists the bookable consultation start times
var TimeSlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM",
	"05:00 PM", "06:00 PM", "07:00 PM", "08:00 PM",
	"09:00 PM", "10:00 PM",
}

// Genders lists the gender labels offered by the booking form
var Genders = []string{"Male", "Female", "Other", "Prefer not to say"}

// ServiceCatalog lists the services a booking may reference
var ServiceCatalog = []string{
	"AI Content Generation",
	"Image Recognition",
	"Data Analytics",
	"Voice Synthesis",
	"Predictive AI",
}

// BookingEvent is published after a booking is persisted
type BookingEvent struct {
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Services  []string  `json:"services"`
	CreatedAt time.Time `json:"created_at"`
}

const BookingCreatedEventType = "booking.created"
