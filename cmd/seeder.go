package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/church-management/internal/auth"
	"github.com/frahmantamala/church-management/internal/core/datamodel/content"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	clearAgenda       bool
	superuserUsername string
	superuserPassword string
	superuserEmail    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the week days and an initial superuser",
	Long:  `Create the seven agenda days and, when --superuser-username is given, an approved secretary holding the superuser flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to init gorm: %w", err)
		}

		if clearAgenda {
			if err := clearWeekDays(db); err != nil {
				return err
			}
		}
		if err := seedWeekDays(db); err != nil {
			return err
		}
		fmt.Println("Seeded agenda week days")

		if superuserUsername == "" {
			return nil
		}
		created, err := seedSuperuser(db, superuserUsername, superuserPassword, superuserEmail, cfg.Security.BCryptCost)
		if err != nil {
			return err
		}
		if created {
			fmt.Println("Seeded superuser:", superuserUsername)
		} else {
			fmt.Println("superuser already exists; ensured flags:", superuserUsername)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearAgenda, "clear", false, "delete agenda days and their events before seeding")
	seedCmd.Flags().StringVar(&superuserUsername, "superuser-username", "", "username of the initial superuser")
	seedCmd.Flags().StringVar(&superuserPassword, "superuser-password", "", "password of the initial superuser")
	seedCmd.Flags().StringVar(&superuserEmail, "superuser-email", "", "email of the initial superuser")
}

func clearWeekDays(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&content.Event{}).Error; err != nil {
			return fmt.Errorf("clear eventos: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&content.WeekDay{}).Error; err != nil {
			return fmt.Errorf("clear dias_semana: %w", err)
		}
		return nil
	})
}

// seedWeekDays makes sure one row exists for each day 0 (Sunday) to 6.
func seedWeekDays(db *gorm.DB) error {
	days := make([]content.WeekDay, 0, 7)
	for d := 0; d <= 6; d++ {
		days = append(days, content.WeekDay{Day: d})
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nome"}},
		DoNothing: true,
	}).Create(&days).Error
	if err != nil {
		return fmt.Errorf("seed dias_semana: %w", err)
	}
	return nil
}

func seedSuperuser(db *gorm.DB, username, password, email string, bcryptCost int) (bool, error) {
	var existing userDatamodel.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		err = db.Model(&existing).Updates(map[string]interface{}{
			"is_superuser": true,
			"is_staff":     true,
			"ativo":        true,
		}).Error
		if err != nil {
			return false, fmt.Errorf("promote %s: %w", username, err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup %s: %w", username, err)
	}

	if len(password) < 8 {
		return false, errors.New("--superuser-password must have at least 8 characters")
	}
	hash, err := auth.HashPassword(password, bcryptCost)
	if err != nil {
		return false, err
	}

	now := time.Now()
	u := userDatamodel.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Profile:      userDatamodel.Profile{FullName: username},
		Role:         userDatamodel.RoleSecretary,
		Approved:     true,
		ApprovedAt:   &now,
		RegisteredAt: now,
		Active:       true,
		IsSuperuser:  true,
		IsStaff:      true,
	}
	if err := db.Create(&u).Error; err != nil {
		return false, fmt.Errorf("create %s: %w", username, err)
	}
	return true, nil
}
