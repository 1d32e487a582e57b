// Package bootstrap establishes runtime dependencies shared by the server
// and the auxiliary commands.
package bootstrap

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"

	"aura/internal/cache"
	"aura/internal/config"
	"aura/internal/database"
	"aura/internal/models"
	"aura/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// systemUserID is the built-in account that owns the General list. It
// carries no usable credentials.
const systemUserID uint = 1

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis, seeds the built-in General list,
// and optionally loads demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := EnsureGeneralList(db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap the General list: %w", err)
	}

	if opts.SeedDemoData {
		if err := seed.Run(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// EnsureGeneralList guarantees the system user and the General list exist
// with their well-known IDs. Both inserts are idempotent.
func EnsureGeneralList(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var system models.User
		findErr := tx.First(&system, systemUserID).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			// The placeholder password is random and never disclosed, so
			// the system account cannot be logged into.
			secret := make([]byte, 32)
			if _, err := rand.Read(secret); err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword(secret, bcrypt.MinCost)
			if err != nil {
				return err
			}
			system = models.User{
				ID:             systemUserID,
				Username:       "aura_system",
				Email:          "system@aura.local",
				Password:       string(hash),
				DisplayName:    "Aura",
				DefaultPrivacy: models.PrivacyPublic,
			}
			if err := tx.Create(&system).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		}

		var general models.List
		findErr = tx.First(&general, models.GeneralListID).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			general = models.List{
				ID:           models.GeneralListID,
				Name:         "General",
				Description:  "The default list for everyone's posts",
				OwnerID:      systemUserID,
				PrivacyLevel: models.PrivacyPublic,
			}
			if err := tx.Create(&general).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		}

		// Explicit ID insertion leaves the sequences behind on PostgreSQL.
		if tx.Dialector.Name() == "postgres" {
			for _, table := range []string{"users", "lists"} {
				if err := tx.Exec(fmt.Sprintf(`
					SELECT setval(
						pg_get_serial_sequence('%s', 'id'),
						GREATEST((SELECT COALESCE(MAX(id), 1) FROM %s), 1),
						true
					)
				`, table, table)).Error; err != nil {
					return fmt.Errorf("failed to reset %s sequence: %w", table, err)
				}
			}
		}

		return nil
	})
}

// EnsureAdminUser creates an admin dashboard account if none exists with
// the given username. Used by the admin provisioning command.
func EnsureAdminUser(db *gorm.DB, username, email, password string) (*models.AdminUser, bool, error) {
	var existing models.AdminUser
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	admin := &models.AdminUser{Username: username, Email: email, Password: string(hash)}
	if err := db.Create(admin).Error; err != nil {
		return nil, false, err
	}
	log.Printf("admin user %q provisioned", username)
	return admin, true, nil
}
