package users

import (
	"database/sql"
	"errors"
)

// User is an account row without the password column. Passwords are hashed
// with pgcrypto and never leave the database.
type User struct {
	EmployeeCode string `json:"employee_code"`
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	Dept         string `json:"dept"`
	Role         string `json:"role"`
	BranchCode   string `json:"branch_code"`
}

var ErrUserNotFound = errors.New(errMsgUserNotFound)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `employee_code, username, fullname,
	COALESCE(dept, ''), COALESCE(role, ''), COALESCE(branch_code, '')`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.EmployeeCode, &u.Username, &u.Fullname,
		&u.Dept, &u.Role, &u.BranchCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists reports whether the username or employee code is already taken.
func (s *Store) Exists(username, employeeCode string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM users WHERE username = $1 OR employee_code = $2`,
		username, employeeCode).Scan(&n)
	return n > 0, err
}

// Create inserts the account with a bcrypt-hashed password. The hash is
// produced inside Postgres so login's crypt() check sees the same scheme.
func (s *Store) Create(u *User, password string) error {
	_, err := s.db.Exec(
		`INSERT INTO users (employee_code, username, password, fullname, dept, role, branch_code)
		 VALUES ($1, $2, crypt($3, gen_salt('bf')), $4, $5, $6, NULLIF($7, ''))`,
		u.EmployeeCode, u.Username, password, u.Fullname, u.Dept, u.Role, u.BranchCode)
	return err
}

func (s *Store) listUsers(query string, args ...interface{}) ([]*User, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.EmployeeCode, &u.Username, &u.Fullname,
			&u.Dept, &u.Role, &u.BranchCode); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (s *Store) ListAll() ([]*User, error) {
	return s.listUsers(`SELECT ` + userColumns + ` FROM users ORDER BY fullname`)
}

// ListManagedOfficers returns the rank-and-file officers a department head
// supervises: same department, same branch.
func (s *Store) ListManagedOfficers(dept, branchCode string) ([]*User, error) {
	return s.listUsers(
		`SELECT `+userColumns+` FROM users
		 WHERE role = 'employee' AND dept = $1 AND COALESCE(branch_code, '') = $2
		 ORDER BY fullname`, dept, branchCode)
}

func (s *Store) ByEmployeeCode(employeeCode string) (*User, error) {
	return scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE employee_code = $1`, employeeCode))
}

// Update overwrites the mutable profile fields. Empty inputs keep the
// current value.
func (s *Store) Update(employeeCode, fullname, dept, role, branchCode string) (*User, error) {
	return scanUser(s.db.QueryRow(
		`UPDATE users SET
			fullname    = COALESCE(NULLIF($2, ''), fullname),
			dept        = COALESCE(NULLIF($3, ''), dept),
			role        = COALESCE(NULLIF($4, ''), role),
			branch_code = COALESCE(NULLIF($5, ''), branch_code)
		 WHERE employee_code = $1
		 RETURNING `+userColumns, employeeCode, fullname, dept, role, branchCode))
}

func (s *Store) SetPassword(employeeCode, password string) error {
	res, err := s.db.Exec(
		`UPDATE users SET password = crypt($2, gen_salt('bf')) WHERE employee_code = $1`,
		employeeCode, password)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) Delete(employeeCode string) error {
	res, err := s.db.Exec(`DELETE FROM users WHERE employee_code = $1`, employeeCode)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
