package db

import (
	"os"

	"github.com/RasParker/modular-maestro-sub000/models"
	"github.com/RasParker/modular-maestro-sub000/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		utils.LogError(err, "Warning: impossible to load the .env file")
		utils.LogInfo("The environment variable DB_URL must be defined in the system environment")
	}

	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		utils.LogError(nil, "Variable DB_URL not defined")
		panic("Database URL not configured")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
		// unique violations must come back as gorm.ErrDuplicatedKey so the
		// activation service can map them to idempotent outcomes
		TranslateError: true,
	})
	if err != nil {
		utils.LogError(err, "Error connecting to the database")
		panic("Could not connect to the database")
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.SubscriptionTier{},
		&models.Subscription{},
		&models.PaymentTransaction{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.Report{},
		&models.Notification{},
	)
	if err != nil {
		utils.LogError(err, "Error migrating database")
		panic("Could not migrate database")
	}

	// AutoMigrate cannot express a partial index, so the one-active-
	// subscription-per-(fan,creator) invariant is created by hand.
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_one_active
		ON subscriptions (fan_id, creator_id) WHERE status = 'active'`).Error; err != nil {
		utils.LogError(err, "Error creating partial unique index on subscriptions")
		panic("Could not create subscription uniqueness index")
	}

	utils.LogSuccess("Database connection successful")
}
