package main

import (
	"context"
	"log"
	"os"
	"time"

	"glowstudio/internal/database"
	"glowstudio/internal/domain"
	"glowstudio/internal/repository"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = "glowstudio.db"
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM appointments")
	db.Exec("DELETE FROM coupons")
	db.Exec("DELETE FROM availability_rules")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	services := repository.NewServiceRepository(db)
	rules := repository.NewAvailabilityRepository(db)
	coupons := repository.NewCouponRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@glowstudio.local",
		FullName:     "Valentina Suárez",
		Phone:        "+54 9 11 5555 0100",
		PasswordHash: string(adminHash),
		IsActive:     true,
		IsAdmin:      true,
	}
	if err := users.Create(ctx, &admin); err != nil {
		log.Fatal("admin create failed:", err)
	}
	log.Println("Admin created: admin@glowstudio.local / admin123")

	clientHash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
	client := domain.User{
		Email:        "camila@example.com",
		FullName:     "Camila Fernández",
		Phone:        "+54 9 11 5555 0142",
		PasswordHash: string(clientHash),
		IsActive:     true,
	}
	if err := users.Create(ctx, &client); err != nil {
		log.Fatal("client create failed:", err)
	}

	// ================== SERVICES ==================
	log.Println("Creating services...")

	catalog := []domain.Service{
		{Name: "Lash Lifting", Description: "Curvatura natural de pestañas con nutrición", DurationMinutes: 60, Price: 18000, Category: "lashes", IsActive: true},
		{Name: "Extensiones Clásicas", Description: "Extensión pelo a pelo, efecto natural", DurationMinutes: 120, Price: 32000, Category: "lashes", IsActive: true},
		{Name: "Brow Lamination", Description: "Laminado y perfilado de cejas", DurationMinutes: 45, Price: 15000, Category: "brows", IsActive: true},
		{Name: "Perfilado con Henna", Description: "Diseño de cejas con tintura henna", DurationMinutes: 40, Price: 12000, Category: "brows", IsActive: true},
		{Name: "Limpieza Facial Profunda", Description: "Limpieza con extracción e hidratación", DurationMinutes: 75, Price: 25000, Category: "skin", IsActive: true},
	}
	for i := range catalog {
		if err := services.Create(ctx, &catalog[i]); err != nil {
			log.Fatal("service create failed:", err)
		}
	}

	// ================== AVAILABILITY ==================
	// Monday-Friday 09:00-20:00, Saturday 10:00-14:00, Sunday closed.
	log.Println("Creating availability rules...")

	for day := 0; day <= 4; day++ {
		d := day
		rule := domain.AvailabilityRule{DayOfWeek: &d, StartTime: "09:00", EndTime: "20:00", IsAvailable: true}
		if err := rules.Create(ctx, &rule); err != nil {
			log.Fatal("availability create failed:", err)
		}
	}
	saturday := 5
	if err := rules.Create(ctx, &domain.AvailabilityRule{DayOfWeek: &saturday, StartTime: "10:00", EndTime: "14:00", IsAvailable: true}); err != nil {
		log.Fatal("availability create failed:", err)
	}

	// ================== COUPONS ==================
	log.Println("Creating coupons...")

	maxUses := 100
	until := time.Now().AddDate(0, 3, 0)
	welcome := domain.Coupon{
		Code:        "BIENVENIDA10",
		Description: "10% off en tu primera reserva",
		Type:        domain.DiscountPercentage,
		Value:       10,
		MaxUses:     &maxUses,
		ValidUntil:  &until,
		IsActive:    true,
	}
	if err := coupons.Create(ctx, &welcome); err != nil {
		log.Fatal("coupon create failed:", err)
	}

	log.Println("Seed completed.")
}
