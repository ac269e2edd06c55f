package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"venuebook/internal/database"
	"venuebook/internal/domain"
	"venuebook/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "venuebook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM price_conditions")
	db.Exec("DELETE FROM payment_rules")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM recurring_reservations")
	db.Exec("DELETE FROM availability_rules")
	db.Exec("DELETE FROM spaces")
	db.Exec("DELETE FROM venues")
	db.Exec("DELETE FROM user_tags")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM organizations")

	ctx := context.Background()

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@venuebook.dev",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@venuebook.dev / admin123")

	org := domain.Organization{
		Name:                       "Acme Makers Club",
		AllowsRecurringReservation: true,
	}
	db.Create(&org)

	members := []domain.User{}
	for i, email := range []string{"alice@example.com", "bob@example.com", "carol@example.com"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("member123"), bcrypt.DefaultCost)
		u := domain.User{
			Email:          email,
			PasswordHash:   string(hash),
			Role:           domain.RoleMember,
			Name:           fmt.Sprintf("Member %d", i+1),
			OrganizationID: &org.ID,
		}
		db.Create(&u)
		members = append(members, u)
	}

	ownerHash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
	owner := domain.User{
		Email:        "owner@venuebook.dev",
		PasswordHash: string(ownerHash),
		Role:         domain.RoleVenueOwner,
		Name:         "Venue Owner",
	}
	db.Create(&owner)

	// ================== VENUES ==================
	log.Println("Creating venues...")

	venue := domain.Venue{
		OwnerID:      owner.ID,
		Name:         "Downtown Community Hall",
		TimezoneID:   "America/New_York",
		DisplayStart: 8 * 60,
		DisplayEnd:   22 * 60,
	}
	db.Create(&venue)

	spaces := []domain.Space{
		{VenueID: venue.ID, Name: "Main Hall", Capacity: 120, IsActive: true},
		{VenueID: venue.ID, Name: "Meeting Room A", Capacity: 12, IsActive: true},
		{VenueID: venue.ID, Name: "Rehearsal Studio", Capacity: 25, IsActive: true},
	}
	for i := range spaces {
		db.Create(&spaces[i])
	}

	// Open 09:00-18:00 on weekdays, 10:00-17:00 on Saturday, closed Sunday.
	ruleRepo := repository.NewAvailabilityRuleRepository(db)
	for dow := 1; dow <= 5; dow++ {
		d := dow
		rule := domain.AvailabilityRule{
			VenueID:     venue.ID,
			DayOfWeek:   &d,
			StartMinute: 9 * 60,
			EndMinute:   18 * 60,
		}
		if err := ruleRepo.Create(ctx, &rule); err != nil {
			log.Fatal("seed availability rule:", err)
		}
	}
	sat := 6
	if err := ruleRepo.Create(ctx, &domain.AvailabilityRule{
		VenueID:     venue.ID,
		DayOfWeek:   &sat,
		StartMinute: 10 * 60,
		EndMinute:   17 * 60,
	}); err != nil {
		log.Fatal("seed availability rule:", err)
	}

	// ================== PRICING ==================
	log.Println("Creating payment rules...")

	paymentRuleRepo := repository.NewPaymentRuleRepository(db)

	base := domain.PaymentRule{
		VenueID:        venue.ID,
		Priority:       10,
		RuleType:       domain.RuleBaseRate,
		Name:           "Hourly base rate",
		PricePerPeriod: decimal.RequireFromString("20.00"),
		PeriodMinutes:  60,
	}
	if err := paymentRuleRepo.Create(ctx, &base); err != nil {
		log.Fatal("seed payment rule:", err)
	}

	evening := 17 * 60
	midnight := 24 * 60
	peak := domain.PaymentRule{
		VenueID:     venue.ID,
		Priority:    20,
		RuleType:    domain.RuleMultiplier,
		Name:        "Evening peak",
		Multiplier:  decimal.RequireFromString("1.5"),
		StartMinute: &evening,
		EndMinute:   &midnight,
	}
	if err := paymentRuleRepo.Create(ctx, &peak); err != nil {
		log.Fatal("seed payment rule:", err)
	}

	memberDiscount := domain.PaymentRule{
		VenueID:      venue.ID,
		Priority:     30,
		RuleType:     domain.RuleDiscount,
		Name:         "Member discount",
		DiscountRate: decimal.RequireFromString("0.10"),
		Conditions: []domain.PriceCondition{
			{RequiredTags: []string{"member"}},
		},
	}
	if err := paymentRuleRepo.Create(ctx, &memberDiscount); err != nil {
		log.Fatal("seed payment rule:", err)
	}

	cleaning := domain.PaymentRule{
		VenueID:        venue.ID,
		Priority:       40,
		RuleType:       domain.RuleFlatFee,
		Name:           "Cleaning fee",
		PricePerPeriod: decimal.RequireFromString("15.00"),
		SpaceIDs:       []int64{spaces[0].ID},
	}
	if err := paymentRuleRepo.Create(ctx, &cleaning); err != nil {
		log.Fatal("seed payment rule:", err)
	}

	for _, m := range members {
		db.Create(&domain.UserTag{UserID: m.ID, VenueID: venue.ID, Tag: "member"})
	}

	// ================== RESERVATIONS ==================
	log.Println("Creating sample reservations...")

	loc, _ := time.LoadLocation(venue.TimezoneID)
	nextMonday := time.Now().In(loc).AddDate(0, 0, 8-int(time.Now().In(loc).Weekday()))
	start := time.Date(nextMonday.Year(), nextMonday.Month(), nextMonday.Day(), 10, 0, 0, 0, loc)

	reservationRepo := repository.NewReservationRepository(db)
	r := domain.Reservation{
		SpaceID:     spaces[1].ID,
		StartTime:   start.UTC(),
		EndTime:     start.Add(2 * time.Hour).UTC(),
		Status:      domain.ReservationConfirmed,
		Description: "Weekly sync",
		CreatedByID: members[0].ID,
		UserID:      members[0].ID,
	}
	if err := reservationRepo.CreateChecked(ctx, &r); err != nil {
		log.Fatal("seed reservation:", err)
	}

	log.Println("Seed complete.")
}
