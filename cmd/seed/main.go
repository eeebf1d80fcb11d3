package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"sportslot/internal/auth"
	"sportslot/internal/config"
	"sportslot/internal/db"
	"sportslot/internal/logger"
	"sportslot/internal/roster"
	"sportslot/internal/slot"
	"sportslot/internal/user"
)

// seed provisions users from a roster CSV (group, last name, first name,
// optional role) and, optionally, the slot catalog from a second CSV
// (facility, title, weekday, start, end, capacity, active).
func main() {
	rosterPath := flag.String("roster", "", "path to the roster CSV (required)")
	slotsPath := flag.String("slots", "", "path to the slot catalog CSV (optional)")
	domain := flag.String("domain", "sportslot.local", "email domain for generated logins")
	password := flag.String("password", "", "initial password for every account (required with -roster)")
	flag.Parse()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	if *rosterPath != "" {
		if *password == "" {
			logger.Fatal("-password is required when seeding a roster")
		}
		if err := seedRoster(ctx, database, *rosterPath, *domain, *password); err != nil {
			logger.Fatalf("Roster seeding failed: %v", err)
		}
	}

	if *slotsPath != "" {
		if err := seedSlots(ctx, database, *slotsPath); err != nil {
			logger.Fatalf("Slot seeding failed: %v", err)
		}
	}

	if *rosterPath == "" && *slotsPath == "" {
		flag.Usage()
		os.Exit(2)
	}
}

func seedRoster(ctx context.Context, database *sqlx.DB, path, domain, password string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	members, err := roster.Parse(f, domain)
	if err != nil {
		return err
	}
	if err := roster.Validate(members); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	repo := user.NewRepository(database)

	// The roster carries exactly one admin; the database must not end up
	// with more than one either.
	existingAdmins, err := repo.CountByRole(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	created, skipped := 0, 0

	for _, m := range members {
		exists, err := repo.EmailExists(ctx, m.Email)
		if err != nil {
			return err
		}
		if exists {
			skipped++
			continue
		}

		if m.Role == auth.RoleAdmin && existingAdmins > 0 {
			return fmt.Errorf("an ADMIN account already exists; refusing to create a second one for %s", m.Email)
		}

		if _, err := repo.Create(ctx, m.FirstName, m.LastName, m.GroupLabel, m.Role, m.Email, hash); err != nil {
			return fmt.Errorf("create %s: %w", m.Email, err)
		}
		created++
	}

	logger.Info("Roster seeded", "created", created, "skipped", skipped)
	return nil
}

func seedSlots(ctx context.Context, database *sqlx.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	slots, err := parseSlotCatalog(f)
	if err != nil {
		return err
	}

	repo := slot.NewRepository(database)
	for _, s := range slots {
		if _, err := repo.CreateSlot(ctx, s); err != nil {
			return fmt.Errorf("create slot %q: %w", s.Title, err)
		}
	}

	logger.Info("Slot catalog seeded", "count", len(slots))
	return nil
}

func parseSlotCatalog(r io.Reader) ([]*slot.Slot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	var slots []*slot.Slot
	for i, rec := range records {
		if len(rec) < 5 {
			return nil, fmt.Errorf("slot line %d: expected facility, title, weekday, start, end", i+1)
		}

		facility := strings.ToUpper(strings.TrimSpace(rec[0]))
		if !slot.ValidFacility(facility) {
			return nil, fmt.Errorf("slot line %d: unknown facility %q", i+1, rec[0])
		}

		weekday, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil || weekday < 1 || weekday > 7 {
			return nil, fmt.Errorf("slot line %d: weekday must be 1..7", i+1)
		}

		s := &slot.Slot{
			Facility:  facility,
			Title:     strings.TrimSpace(rec[1]),
			Weekday:   weekday,
			StartTime: strings.TrimSpace(rec[3]),
			EndTime:   strings.TrimSpace(rec[4]),
			Active:    true,
		}

		if len(rec) > 5 && strings.TrimSpace(rec[5]) != "" {
			cap, err := strconv.Atoi(strings.TrimSpace(rec[5]))
			if err != nil || cap <= 0 {
				return nil, fmt.Errorf("slot line %d: capacity must be a positive integer", i+1)
			}
			s.Capacity = &cap
		}

		if len(rec) > 6 && strings.TrimSpace(rec[6]) != "" {
			active, err := strconv.ParseBool(strings.TrimSpace(rec[6]))
			if err != nil {
				return nil, fmt.Errorf("slot line %d: active must be a boolean", i+1)
			}
			s.Active = active
		}

		slots = append(slots, s)
	}

	return slots, nil
}
