package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"XuLyNoSaas/internal/logger"
	"XuLyNoSaas/internal/serviceiface"
)

// UserSession is the authenticated identity handed to the rest of the
// system: the storage planner uses the display name, the audit trail the
// employee code.
type UserSession struct {
	SessionID     string `json:"session_id"`
	EmployeeCode  string `json:"employee_code"`
	Username      string `json:"username"`
	Fullname      string `json:"fullname"`
	Dept          string `json:"dept"`
	Role          string `json:"role"`
	BranchCode    string `json:"branch_code"`
	LastLoginTime string `json:"last_login_time"`
	ClientIP      string `json:"-"`
	IsLoggedIn    bool   `json:"-"`
}

type AuthService struct {
	db         *sql.DB
	maxUsers   int
	sessions   map[string]*UserSession // keyed by session id
	byEmployee map[string]*UserSession
	mu         sync.Mutex
	stopCh     chan struct{}
}

func NewAuthService(db *sql.DB, maxUsers int) serviceiface.Service {
	if maxUsers <= 0 {
		maxUsers = 200
	}
	return &AuthService{
		db:         db,
		maxUsers:   maxUsers,
		sessions:   make(map[string]*UserSession),
		byEmployee: make(map[string]*UserSession),
		stopCh:     make(chan struct{}),
	}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	go a.sessionCleaner()
	return nil
}

func (a *AuthService) Stop() error {
	close(a.stopCh)
	return nil
}

func (a *AuthService) Login(username, password, clientIP string) (*UserSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range a.sessions {
		if s.Username == username && s.IsLoggedIn {
			s.LastLoginTime = time.Now().Format(time.RFC3339)
			s.ClientIP = clientIP
			logger.Audit(fmt.Sprintf("User %s re-logged in, returning existing session", username))
			return s, nil
		}
	}

	if len(a.sessions) >= a.maxUsers {
		return nil, errors.New("maximum concurrent users reached")
	}

	var (
		employeeCode, fullname string
		dept, role, branchCode sql.NullString
	)
	query := `
	SELECT employee_code, fullname, dept, role, branch_code
	FROM users
	WHERE username = $1 AND password = crypt($2, password)
	`
	err := a.db.QueryRow(query, username, password).Scan(
		&employeeCode, &fullname, &dept, &role, &branchCode,
	)
	if err != nil {
		return nil, errors.New("invalid credentials or user not found")
	}

	session := &UserSession{
		SessionID:     uuid.NewString(),
		EmployeeCode:  employeeCode,
		Username:      username,
		Fullname:      fullname,
		Dept:          dept.String,
		Role:          role.String,
		BranchCode:    branchCode.String,
		LastLoginTime: time.Now().Format(time.RFC3339),
		ClientIP:      clientIP,
		IsLoggedIn:    true,
	}
	a.sessions[session.SessionID] = session
	a.byEmployee[employeeCode] = session

	logger.Audit(fmt.Sprintf("User logged in: %s (%s)", username, employeeCode))
	return session, nil
}

func (a *AuthService) Logout(sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, exists := a.sessions[sessionID]
	if !exists {
		return errors.New("session not found")
	}
	delete(a.sessions, sessionID)
	delete(a.byEmployee, session.EmployeeCode)

	logger.Audit("User logged out: " + session.EmployeeCode)
	return nil
}

func (a *AuthService) GetActiveSessions() []*UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessions := make([]*UserSession, 0, len(a.sessions))
	for _, s := range a.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// SessionByEmployee resolves the active session for an employee code.
func (a *AuthService) SessionByEmployee(employeeCode string) *UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.byEmployee[employeeCode]
}

const sessionMaxIdle = 24 * time.Hour

func (a *AuthService) sessionCleaner() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.expireStaleSessions()
		}
	}
}

func (a *AuthService) expireStaleSessions() {
	a.mu.Lock()
	defer a.mu.Unlock()
	cutoff := time.Now().Add(-sessionMaxIdle)
	for id, s := range a.sessions {
		last, err := time.Parse(time.RFC3339, s.LastLoginTime)
		if err != nil || last.Before(cutoff) {
			delete(a.sessions, id)
			delete(a.byEmployee, s.EmployeeCode)
			logger.Audit("Session expired for " + s.EmployeeCode)
		}
	}
}

var globalAuthService *AuthService

func SetGlobalAuthService(svc *AuthService) {
	globalAuthService = svc
}

// GetActiveSessions returns active sessions from the global AuthService.
func GetActiveSessions() []*UserSession {
	if globalAuthService == nil {
		return nil
	}
	return globalAuthService.GetActiveSessions()
}

// SessionByEmployee resolves an employee's session via the global service.
func SessionByEmployee(employeeCode string) *UserSession {
	if globalAuthService == nil {
		return nil
	}
	return globalAuthService.SessionByEmployee(employeeCode)
}
