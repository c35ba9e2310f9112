package cases

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"XuLyNoSaas/internal/serviceiface"
	"XuLyNoSaas/internal/storage"
)

type CasesService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	root   *storage.SafeRoot
}

func NewCasesService(cfg map[string]interface{}, pool *pgxpool.Pool, root *storage.SafeRoot) serviceiface.Service {
	return &CasesService{config: cfg, pool: pool, root: root}
}

func (s *CasesService) Name() string {
	return "cases"
}

func (s *CasesService) Start() error {
	go StartCaseService(s.pool, s.root)
	return nil
}

func (s *CasesService) Stop() error {
	return nil
}
