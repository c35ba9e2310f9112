package jobs

import (
	"fmt"
	"log"

	"XuLyNoSaas/internal/config"
	"XuLyNoSaas/internal/logger"
	"XuLyNoSaas/internal/serviceiface"
	"XuLyNoSaas/internal/storage"
)

type CronService struct {
	config map[string]interface{}
	root   *storage.SafeRoot
}

func NewCronService(cfg map[string]interface{}, root *storage.SafeRoot) serviceiface.Service {
	return &CronService{
		config: cfg,
		root:   root,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	sweeperConfig := SweeperConfig{
		Schedule:   config.TempSweepSchedule(),
		MaxAgeMins: config.TempSweepAfterMinutes(),
		TimeZone:   config.DefaultTimeZone,
	}

	// services.yaml overrides
	if s.config != nil {
		if schedule, ok := s.config["sweep_schedule"].(string); ok && schedule != "" {
			sweeperConfig.Schedule = schedule
		}
		if maxAge, ok := s.config["sweep_max_age_minutes"].(int); ok && maxAge > 0 {
			sweeperConfig.MaxAgeMins = maxAge
		}
	}

	if err := RunTempSweeper(sweeperConfig, s.root); err != nil {
		return fmt.Errorf("failed to start temp sweeper: %v", err)
	}

	logger.Audit("Cron service started with temp sweeper")
	log.Println("Cron service started, temp sweeper scheduled")
	return nil
}

func (s *CronService) Stop() error {
	return nil
}
