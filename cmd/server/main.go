// BiciFix Pro - workshop work-order management backend
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/samuymanu/bici-fix-pro/internal/config"
	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/notify"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
	"github.com/samuymanu/bici-fix-pro/internal/repository/sqlite"
	"github.com/samuymanu/bici-fix-pro/internal/server"
)

func main() {
	cfg, err := config.Load("config.json")
	if err != nil {
		// No logger yet
		panic(err)
	}

	logger := newLogger(cfg.Debug)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting", zap.String("workshop", cfg.Workshop.Name), zap.Bool("debug", cfg.Debug))

	db, err := sqlite.New(cfg.GetDatabasePath())
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database initialized", zap.String("path", cfg.GetDatabasePath()))

	repos := &repository.Repositories{
		Orders:      sqlite.NewOrderRepo(db),
		Customers:   sqlite.NewCustomerRepo(db),
		Bicycles:    sqlite.NewBicycleRepo(db),
		Parts:       sqlite.NewCatalogPartRepo(db),
		Technicians: sqlite.NewTechnicianRepo(db),
		Users:       sqlite.NewUserRepo(db),
		Settings:    sqlite.NewSettingsRepo(db),
	}

	ctx := context.Background()

	if err := createDefaultAdmin(ctx, repos, logger); err != nil {
		logger.Warn("could not create default admin", zap.Error(err))
	}

	if os.Getenv("SEED_DATA") == "true" {
		seedWorkshopData(ctx, repos, logger)
	}

	// Continue today's order number sequence after a restart
	numbers := domain.NewNumberGenerator()
	if last, err := repos.Orders.LastNumberForDay(ctx, domain.DayPrefix(time.Now())); err != nil {
		logger.Warn("could not resume order number sequence", zap.Error(err))
	} else if last != "" {
		if err := numbers.Resume(last, time.Now()); err != nil {
			logger.Warn("could not resume order number sequence", zap.Error(err))
		}
	}

	// Real delivery is out of scope; the mock providers record the
	// attempt on the order so the history is complete.
	dispatcher := notify.NewDispatcher(logger)
	dispatcher.Register(domain.ChannelWhatsApp, &notify.MockProvider{})
	dispatcher.Register(domain.ChannelSMS, &notify.MockProvider{})
	dispatcher.Register(domain.ChannelEmail, &notify.MockProvider{})

	srv := server.New(cfg, repos, numbers, dispatcher, logger)

	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

// createDefaultAdmin creates a default admin user if no users exist
func createDefaultAdmin(ctx context.Context, repos *repository.Repositories, logger *zap.Logger) error {
	count, err := repos.Users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// Password: admin123 (CHANGE IN PRODUCTION!)
	hash, err := sqlite.HashPassword("admin123")
	if err != nil {
		return err
	}

	admin := &domain.User{
		Email:        "admin@bicifix.pro",
		PasswordHash: hash,
		Name:         "Administrador",
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now(),
	}
	if err := repos.Users.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("default admin user created",
		zap.String("email", admin.Email),
		zap.String("password", "admin123 - change this in production"))
	return nil
}

// seedWorkshopData loads the starter spare-part catalog and a couple
// of technicians, for demos and fresh installs.
func seedWorkshopData(ctx context.Context, repos *repository.Repositories, logger *zap.Logger) {
	logger.Info("seeding workshop data")

	intPtr := func(n int) *int { return &n }

	parts := []domain.CatalogPart{
		{ID: "freno_001", Name: "Pastillas de freno Shimano", UnitPrice: decimal.NewFromInt(25000), Category: domain.PartBrakes, Description: "Pastillas de freno compatibles con Shimano", Stock: intPtr(20)},
		{ID: "freno_002", Name: "Cable de freno", UnitPrice: decimal.NewFromInt(8000), Category: domain.PartBrakes, Description: "Cable de acero inoxidable", Stock: intPtr(50)},
		{ID: "freno_003", Name: "Funda cable freno", UnitPrice: decimal.NewFromInt(5000), Category: domain.PartBrakes, Description: "Funda protectora para cable de freno", Stock: intPtr(50)},
		{ID: "trans_001", Name: "Cadena KMC 11 velocidades", UnitPrice: decimal.NewFromInt(35000), Category: domain.PartTransmission, Description: "Cadena de 11 velocidades", Stock: intPtr(15)},
		{ID: "trans_002", Name: "Cassette 11-32T", UnitPrice: decimal.NewFromInt(45000), Category: domain.PartTransmission, Description: "Cassette de 11 velocidades", Stock: intPtr(10)},
		{ID: "trans_003", Name: "Desviador trasero", UnitPrice: decimal.NewFromInt(85000), Category: domain.PartTransmission, Description: "Desviador trasero Shimano", Stock: intPtr(5)},
		{ID: "trans_004", Name: "Cable cambio", UnitPrice: decimal.NewFromInt(6000), Category: domain.PartTransmission, Description: "Cable para cambios", Stock: intPtr(40)},
		{ID: "rueda_001", Name: "Llanta 26\" MTB", UnitPrice: decimal.NewFromInt(120000), Category: domain.PartWheels, Description: "Llanta para montaña 26 pulgadas", Stock: intPtr(8)},
		{ID: "rueda_002", Name: "Radio acero inoxidable", UnitPrice: decimal.NewFromInt(2000), Category: domain.PartWheels, Description: "Radio individual", Stock: intPtr(200)},
		{ID: "rueda_003", Name: "Cámara 26\"", UnitPrice: decimal.NewFromInt(12000), Category: domain.PartWheels, Description: "Cámara de aire 26 pulgadas", Stock: intPtr(30)},
		{ID: "acc_001", Name: "Manubrio MTB", UnitPrice: decimal.NewFromInt(65000), Category: domain.PartAccessories, Description: "Manubrio de aluminio para montaña", Stock: intPtr(6)},
		{ID: "acc_002", Name: "Sillin deportivo", UnitPrice: decimal.NewFromInt(45000), Category: domain.PartAccessories, Description: "Sillin ergonómico", Stock: intPtr(10)},
		{ID: "acc_003", Name: "Pedales aluminio", UnitPrice: decimal.NewFromInt(35000), Category: domain.PartAccessories, Description: "Pedales de aluminio antideslizantes", Stock: intPtr(12)},
	}
	for i := range parts {
		if err := repos.Parts.Create(ctx, &parts[i]); err != nil {
			logger.Debug("seed part skipped", zap.String("id", parts[i].ID), zap.Error(err))
		}
	}

	technicians := []domain.Technician{
		{ID: uuid.NewString(), Name: "Carlos García", Specialties: []string{"frenos", "transmision"}, Active: true},
		{ID: uuid.NewString(), Name: "Ana Rodríguez", Specialties: []string{"suspension", "ruedas"}, Active: true},
		{ID: uuid.NewString(), Name: "Luis Martínez", Specialties: []string{"electrica", "accesorios"}, Active: true},
	}
	for i := range technicians {
		if err := repos.Technicians.Create(ctx, &technicians[i]); err != nil {
			logger.Debug("seed technician skipped", zap.String("name", technicians[i].Name), zap.Error(err))
		}
	}

	logger.Info("workshop data seeded",
		zap.Int("parts", len(parts)),
		zap.Int("technicians", len(technicians)))
}
