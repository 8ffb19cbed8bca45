package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinebook/internal/movies"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/shows"
	"cinebook/internal/users"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting CineBook Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"bookings",
		"shows",
		"movies",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Disable foreign key constraints temporarily
	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	// Re-enable foreign key constraints
	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Users first (no dependencies)
	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	movieIDs, err := s.SeedMovies()
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	if err := s.SeedShows(movieIDs); err != nil {
		return fmt.Errorf("failed to seed shows: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates a small directory: 1 admin and 2 regular users. IDs
// mimic the identity provider's opaque format since production rows are
// synced from the webhook.
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	usersData := []users.User{
		{
			ID:    "user_seed_admin_0001",
			Name:  "Admin User",
			Email: "admin@cinebook.com",
			Role:  users.RoleAdmin,
		},
		{
			ID:    "user_seed_member_0001",
			Name:  "Ravi Kapoor",
			Email: "ravi.kapoor@example.com",
			Role:  users.RoleUser,
		},
		{
			ID:    "user_seed_member_0002",
			Name:  "Emma Clarke",
			Email: "emma.clarke@example.com",
			Role:  users.RoleUser,
		},
	}

	for i := range usersData {
		user := usersData[i]
		user.CreatedAt = time.Now()
		user.UpdatedAt = time.Now()

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.Email, err)
		}

		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return nil
}

// movieCatalog returns the demo catalog with external-style string IDs.
func movieCatalog() []movies.Movie {
	return []movies.Movie{
		{
			ID:               "324544",
			Title:            "In the Lost Lands",
			Overview:         "A queen sends the powerful and feared sorceress Gray Alys to the ghostly wilderness of the Lost Lands in search of a magical power.",
			PosterPath:       "/dDlfjR7gllmr8HTeN6rfrYhTdwX.jpg",
			BackdropPath:     "/op3qmNhvwEvyT7UFyPbIfQmKriB.jpg",
			ReleaseDate:      "2025-02-27",
			OriginalLanguage: "en",
			Tagline:          "She seeks the power to free her people.",
			Genres: movies.GenreList{
				{ID: 28, Name: "Action"},
				{ID: 14, Name: "Fantasy"},
				{ID: 12, Name: "Adventure"},
			},
			Casts: movies.CastList{
				{Name: "Milla Jovovich", ProfilePath: "/usWnHCzbADijULREZYSJ0qfM00y.jpg"},
				{Name: "Dave Bautista", ProfilePath: "/snk6JiXOOoRjPtHU5VMoy6qbd32.jpg"},
				{Name: "Arly Jover", ProfilePath: "/lXVZ6f4chRMCWUSGQwZkE7Ngj6o.jpg"},
			},
			VoteAverage: 6.4,
			Runtime:     102,
		},
		{
			ID:               "1232546",
			Title:            "Until Dawn",
			Overview:         "One year after her sister vanished, Clover and her friends head into the remote valley where she disappeared, only to find themselves stalked by a masked killer.",
			PosterPath:       "/juA4IWO52Fecx8lhAsxmDgy3M3.jpg",
			BackdropPath:     "/icFWIk1KfkWLZnugZAJEDauNZ94.jpg",
			ReleaseDate:      "2025-04-23",
			OriginalLanguage: "en",
			Tagline:          "Every night a different nightmare.",
			Genres: movies.GenreList{
				{ID: 27, Name: "Horror"},
				{ID: 9648, Name: "Mystery"},
			},
			Casts: movies.CastList{
				{Name: "Ella Rubin", ProfilePath: "/nAt3hemeVcLAgPsMLDAMYsvODVi.jpg"},
				{Name: "Michael Cimino", ProfilePath: "/tVkTElUkBQIEGCTFNK1olyFqnzY.jpg"},
				{Name: "Odessa A'zion", ProfilePath: "/j1catpnH2MekTTbEY53eXuLqptv.jpg"},
			},
			VoteAverage: 6.5,
			Runtime:     103,
		},
		{
			ID:               "552524",
			Title:            "Lilo & Stitch",
			Overview:         "The wildly funny and touching story of a lonely Hawaiian girl and the fugitive alien who helps to mend her broken family.",
			PosterPath:       "/3bN675X0K2E5QiAZVChzB5wq90B.jpg",
			BackdropPath:     "/7Zx3wDG5bBtcfk8lcnCWDOLM4Y4.jpg",
			ReleaseDate:      "2025-05-17",
			OriginalLanguage: "en",
			Tagline:          "Hold on to your ohana.",
			Genres: movies.GenreList{
				{ID: 10751, Name: "Family"},
				{ID: 35, Name: "Comedy"},
				{ID: 878, Name: "Science Fiction"},
			},
			Casts: movies.CastList{
				{Name: "Maia Kealoha", ProfilePath: "/aLVzsMPXtZGHXNLLQDott1pV4HV.jpg"},
				{Name: "Sydney Elizebeth Agudong", ProfilePath: "/hLN0Ca09KwplOgYZQAuUTEHIjUF.jpg"},
				{Name: "Chris Sanders", ProfilePath: "/4i1lOQMKUkM79MQYFZEkL7mjLBq.jpg"},
			},
			VoteAverage: 7.1,
			Runtime:     108,
		},
	}
}

// SeedMovies creates the demo movie catalog.
func (s *Seeder) SeedMovies() ([]string, error) {
	fmt.Println("  🎬 Seeding movies...")

	moviesData := movieCatalog()
	movieIDs := make([]string, 0, len(moviesData))
	for i := range moviesData {
		movie := moviesData[i]
		if err := s.db.PostgreSQL.Create(&movie).Error; err != nil {
			return nil, fmt.Errorf("failed to create movie %s: %w", movie.Title, err)
		}

		movieIDs = append(movieIDs, movie.ID)
		fmt.Printf("    ✅ Created movie: %s\n", movie.Title)
	}

	return movieIDs, nil
}

// SeedShows schedules two showtimes per movie over the coming days, with a
// couple of seats pre-booked on the first show.
func (s *Seeder) SeedShows(movieIDs []string) error {
	fmt.Println("  🎟️  Seeding shows...")

	base := time.Now().Truncate(time.Hour).Add(24 * time.Hour)

	for i, movieID := range movieIDs {
		for j := 0; j < 2; j++ {
			show := shows.Show{
				ID:            uuid.New(),
				MovieID:       movieID,
				ShowDateTime:  base.Add(time.Duration(i*6+j*3) * time.Hour),
				ShowPrice:     12.50 + float64(i)*2,
				OccupiedSeats: shows.SeatMap{},
			}

			// Give the very first show some taken seats
			if i == 0 && j == 0 {
				show.OccupiedSeats = shows.SeatMap{
					"A1": "user_seed_member_0001",
					"A2": "user_seed_member_0001",
					"B5": "user_seed_member_0002",
				}
			}

			if err := s.db.PostgreSQL.Create(&show).Error; err != nil {
				return fmt.Errorf("failed to create show for movie %s: %w", movieID, err)
			}

			fmt.Printf("    ✅ Created show: movie %s at %s\n", movieID, show.ShowDateTime.Format(time.RFC3339))
		}
	}

	return nil
}
