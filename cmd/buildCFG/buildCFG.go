// Package buildCFG translates the raw yaml configuration into the typed
// structs the rest of the process consumes.
package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"mergington/internal/mailer"
)

type ServerConfig struct {
	Port      string
	StaticDir string
}

type RabbitConfig struct {
	Enabled  bool
	Url      string
	Exchange string
	Queue    string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8000"
		log.Warn().Msg("server.port not set, defaulting to 8000")
	}

	staticDir := cfg.GetString("server.static_dir")
	if staticDir == "" {
		staticDir = "./static"
	}

	return ServerConfig{Port: port, StaticDir: staticDir}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("database.master_dsn is required")
	}

	maxOpen := cfg.GetInt("database.max_open_conns")
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := cfg.GetInt("database.max_idle_conns")
	if maxIdle <= 0 {
		maxIdle = 5
	}

	opts := &dbpg.Options{
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: time.Hour,
	}

	log.Info().Int("max_open", maxOpen).Int("max_idle", maxIdle).Msg("DB pool configured")
	return masterDSN, nil, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Enabled:  cfg.GetBool("rabbit.enabled"),
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}

	if !rc.Enabled {
		log.Info().Msg("RabbitMQ notifications disabled")
		return rc, nil
	}
	if rc.Url == "" {
		return rc, fmt.Errorf("rabbit.url is required when rabbit.enabled is true")
	}
	if rc.Exchange == "" {
		rc.Exchange = "enrollments"
	}
	if rc.Queue == "" {
		rc.Queue = "enrollment-notifications"
	}
	return rc, nil
}

func BuildSMTPConfig(cfg *config.Config) mailer.Config {
	port := cfg.GetString("smtp.port")
	if port == "" {
		port = "587"
	}
	return mailer.Config{
		Host:     cfg.GetString("smtp.host"),
		Port:     port,
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}
}
