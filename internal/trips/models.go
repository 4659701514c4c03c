package trips

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the read model of a scheduled bus trip. Trip management lives in
// another service; this core only reads schedule and pricing.
type Trip struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RouteName     string    `gorm:"type:varchar(255);not null" json:"route_name"`
	Origin        string    `gorm:"type:varchar(255);not null" json:"origin"`
	Destination   string    `gorm:"type:varchar(255);not null" json:"destination"`
	DepartureTime time.Time `gorm:"index;not null" json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	PricePerSeat  float64   `gorm:"not null" json:"price_per_seat"`
	Currency      string    `gorm:"type:varchar(3);default:'VND'" json:"currency"`
	OperatorName  string    `gorm:"type:varchar(255)" json:"operator_name"`
	BusPlate      string    `gorm:"type:varchar(20)" json:"bus_plate"`
	TotalSeats    int       `gorm:"not null" json:"total_seats"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName sets the table name for Trip
func (Trip) TableName() string {
	return "trips"
}

// HasDeparted reports whether the trip already left.
func (t *Trip) HasDeparted(now time.Time) bool {
	return !t.DepartureTime.After(now)
}

// Summary is the denormalized trip view embedded in booking responses.
type Summary struct {
	TripID        string    `json:"trip_id"`
	RouteName     string    `json:"route_name"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	OperatorName  string    `json:"operator_name"`
	BusPlate      string    `json:"bus_plate"`
}

// ToSummary builds the denormalized summary for responses.
func (t *Trip) ToSummary() Summary {
	return Summary{
		TripID:        t.ID.String(),
		RouteName:     t.RouteName,
		Origin:        t.Origin,
		Destination:   t.Destination,
		DepartureTime: t.DepartureTime,
		ArrivalTime:   t.ArrivalTime,
		OperatorName:  t.OperatorName,
		BusPlate:      t.BusPlate,
	}
}
