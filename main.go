package main

import (
	"flag"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/config"
	"github.com/bkoncius/Book-recommendation-app/internal/database"
	"github.com/bkoncius/Book-recommendation-app/internal/logging"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/router"
	"github.com/bkoncius/Book-recommendation-app/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	promote := flag.String("promote", "", "promote the user with this email to admin, then exit")
	flag.Parse()

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is required")
	}

	logger := logging.New(cfg.Log)

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("init database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate database")
	}

	// role changes happen only through this out-of-band action, never via
	// the API
	if *promote != "" {
		if err := promoteAdmin(db, *promote); err != nil {
			logger.Fatal().Err(err).Str("email", *promote).Msg("promote user")
		}
		logger.Info().Str("email", *promote).Msg("user promoted to admin")
		return
	}

	// setup router
	r := router.SetupRouter(cfg, db, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("run server")
	}
}

func promoteAdmin(db *gorm.DB, email string) error {
	res := db.Model(&models.User{}).
		Where("email = ?", util.NormalizeEmail(email)).
		Update("role", models.RoleAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no user with email %q", email)
	}
	return nil
}
