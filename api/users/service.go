package users

import (
	"database/sql"

	"XuLyNoSaas/internal/serviceiface"
)

type UsersService struct {
	config map[string]interface{}
	db     *sql.DB
}

func NewUsersService(cfg map[string]interface{}, db *sql.DB) serviceiface.Service {
	return &UsersService{config: cfg, db: db}
}

func (s *UsersService) Name() string {
	return "users"
}

func (s *UsersService) Start() error {
	go StartUserService(s.db)
	return nil
}

func (s *UsersService) Stop() error {
	return nil
}
