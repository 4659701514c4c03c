package main

import (
	"fmt"
	"log"
	"time"

	"bustix/internal/shared/config"
	"bustix/internal/shared/database"
	"bustix/internal/trips"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting BusTix Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := &Seeder{db: db}
	if err := seeder.seedTrips(); err != nil {
		log.Fatalf("Failed to seed trips: %v", err)
	}

	fmt.Println("✅ Seeding completed successfully")
}

func (s *Seeder) seedTrips() error {
	now := time.Now().Truncate(time.Hour)

	routes := []struct {
		name         string
		origin       string
		destination  string
		hoursOut     time.Duration
		duration     time.Duration
		pricePerSeat float64
		operator     string
		plate        string
		seats        int
	}{
		{"Ha Noi - Da Nang", "Ha Noi", "Da Nang", 72 * time.Hour, 14 * time.Hour, 350000, "Hoang Long", "29B-123.45", 40},
		{"Ha Noi - Hai Phong", "Ha Noi", "Hai Phong", 24 * time.Hour, 2 * time.Hour, 120000, "Hai Au", "15B-678.90", 29},
		{"Sai Gon - Da Lat", "Ho Chi Minh City", "Da Lat", 48 * time.Hour, 7 * time.Hour, 280000, "Phuong Trang", "51B-246.80", 34},
		{"Sai Gon - Can Tho", "Ho Chi Minh City", "Can Tho", 12 * time.Hour, 4 * time.Hour, 165000, "Thanh Buoi", "51B-135.79", 29},
		{"Da Nang - Hue", "Da Nang", "Hue", 96 * time.Hour, 3 * time.Hour, 140000, "Hoang Long", "43B-864.20", 40},
	}

	for _, r := range routes {
		trip := trips.Trip{
			ID:            uuid.New(),
			RouteName:     r.name,
			Origin:        r.origin,
			Destination:   r.destination,
			DepartureTime: now.Add(r.hoursOut),
			ArrivalTime:   now.Add(r.hoursOut + r.duration),
			PricePerSeat:  r.pricePerSeat,
			Currency:      "VND",
			OperatorName:  r.operator,
			BusPlate:      r.plate,
			TotalSeats:    r.seats,
		}

		if err := s.db.GetPostgreSQL().Create(&trip).Error; err != nil {
			return fmt.Errorf("failed to create trip %s: %w", r.name, err)
		}
		fmt.Printf("  🚌 Seeded trip %s departing %s\n", r.name, trip.DepartureTime.Format(time.RFC3339))
	}

	return nil
}
