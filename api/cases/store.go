package cases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"XuLyNoSaas/api/cases/importer"
	"XuLyNoSaas/api/constants"
	"XuLyNoSaas/api/utils"
)

// ErrCaseNotFound is returned when a case id does not exist.
var ErrCaseNotFound = errors.New(constants.ErrMsgCaseNotFound)

// ErrDocumentNotFound is returned when a document id does not exist.
var ErrDocumentNotFound = errors.New(constants.ErrMsgDocumentNotFound)

// Store gives the handlers and the importer their database access. All debt
// amounts travel as decimal and are cast to text on the way out so nothing
// silently rounds through float64.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const caseColumns = `case_id, customer_code, customer_name, COALESCE(address, ''),
	outstanding_debt::text, case_type, state, COALESCE(assigned_employee_code, ''),
	created_date, last_modified_date`

func scanCase(row pgx.Row) (*DebtCase, error) {
	var c DebtCase
	var debt string
	err := row.Scan(&c.CaseID, &c.CustomerCode, &c.CustomerName, &c.Address,
		&debt, &c.CaseType, &c.State, &c.AssignedEmployeeCode,
		&c.CreatedDate, &c.LastModifiedDate)
	if err != nil {
		return nil, err
	}
	c.OutstandingDebt, err = decimal.NewFromString(debt)
	if err != nil {
		return nil, fmt.Errorf("bad outstanding_debt for case %s: %w", c.CaseID, err)
	}
	return &c, nil
}

// FindByCustomerAndType implements importer.CaseStore. A (nil, nil) return
// means no case exists for the pair yet.
func (s *Store) FindByCustomerAndType(ctx context.Context, customerCode, caseType string) (*importer.CaseRef, error) {
	var caseID string
	err := s.pool.QueryRow(ctx,
		`SELECT case_id FROM debt_cases WHERE customer_code = $1 AND case_type = $2`,
		customerCode, caseType).Scan(&caseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &importer.CaseRef{CaseID: caseID}, nil
}

// CreateCase implements importer.CaseStore. New cases always start in the
// initial state regardless of what the sheet says.
func (s *Store) CreateCase(ctx context.Context, customer *importer.AggregatedCustomer) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO debt_cases
			(case_id, customer_code, customer_name, outstanding_debt, case_type, state,
			 assigned_employee_code, created_date, last_modified_date)
		 VALUES ($1, $2, $3, $4::numeric, $5, $6, NULLIF($7, ''), NOW(), NOW())`,
		uuid.NewString(), customer.CustomerCode, customer.CustomerName,
		customer.OutstandingDebt.String(), customer.CaseType,
		constants.StatusNew, customer.AssignedEmployeeCode)
	return err
}

// UpdateDebtAndAssignee implements importer.CaseStore. Only the debt figure
// and the assignee follow the newest sheet; state and history are untouched.
func (s *Store) UpdateDebtAndAssignee(ctx context.Context, caseID string, debt decimal.Decimal, employeeCode string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE debt_cases
		 SET outstanding_debt = $2::numeric,
		     assigned_employee_code = NULLIF($3, ''),
		     last_modified_date = NOW()
		 WHERE case_id = $1`,
		caseID, debt.String(), employeeCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCaseNotFound
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, caseID string) (*DebtCase, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+caseColumns+` FROM debt_cases WHERE case_id = $1`, caseID)
	c, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCaseNotFound
	}
	return c, err
}

func (s *Store) listCases(ctx context.Context, query string, args ...any) ([]*DebtCase, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*DebtCase, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListAll returns every case, freshest activity first. Leadership roles use
// this view.
func (s *Store) ListAll(ctx context.Context) ([]*DebtCase, error) {
	return s.listCases(ctx,
		`SELECT `+caseColumns+` FROM debt_cases ORDER BY last_modified_date DESC`)
}

// ListByEmployee returns only the cases assigned to one officer.
func (s *Store) ListByEmployee(ctx context.Context, employeeCode string) ([]*DebtCase, error) {
	return s.listCases(ctx,
		`SELECT `+caseColumns+` FROM debt_cases
		 WHERE assigned_employee_code = $1
		 ORDER BY last_modified_date DESC`, employeeCode)
}

// UpdateStatus moves a case to a new state and bumps last_modified_date.
func (s *Store) UpdateStatus(ctx context.Context, caseID, newState string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE debt_cases SET state = $2, last_modified_date = NOW() WHERE case_id = $1`,
		caseID, newState)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCaseNotFound
	}
	return nil
}

// Touch bumps last_modified_date only, used when an attached artifact changes.
func (s *Store) Touch(ctx context.Context, caseID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE debt_cases SET last_modified_date = NOW() WHERE case_id = $1`, caseID)
	return err
}

func (s *Store) CreateDocument(ctx context.Context, doc *CaseDocument) error {
	if doc.DocumentID == "" {
		doc.DocumentID = uuid.NewString()
	}
	return s.pool.QueryRow(ctx,
		`INSERT INTO case_documents
			(document_id, case_id, original_filename, file_path, mime_type, file_size,
			 document_type, file_checksum, uploaded_by_employee_code, upload_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 RETURNING upload_date`,
		doc.DocumentID, doc.CaseID, doc.OriginalFilename, doc.FilePath,
		doc.MimeType, doc.FileSize, doc.DocumentType, doc.FileChecksum,
		doc.UploadedByEmployee).
		Scan(&doc.UploadDate)
}

func (s *Store) DocumentByID(ctx context.Context, documentID string) (*CaseDocument, error) {
	var d CaseDocument
	err := s.pool.QueryRow(ctx,
		`SELECT document_id, case_id, original_filename, file_path, mime_type,
		        file_size, document_type, file_checksum, uploaded_by_employee_code,
		        upload_date
		 FROM case_documents WHERE document_id = $1`, documentID).
		Scan(&d.DocumentID, &d.CaseID, &d.OriginalFilename, &d.FilePath,
			&d.MimeType, &d.FileSize, &d.DocumentType, &d.FileChecksum,
			&d.UploadedByEmployee, &d.UploadDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) DocumentsByCase(ctx context.Context, caseID string) ([]*CaseDocument, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT document_id, case_id, original_filename, file_path, mime_type,
		        file_size, document_type, file_checksum, uploaded_by_employee_code,
		        upload_date
		 FROM case_documents WHERE case_id = $1 ORDER BY upload_date DESC`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*CaseDocument, 0)
	for rows.Next() {
		var d CaseDocument
		if err := rows.Scan(&d.DocumentID, &d.CaseID, &d.OriginalFilename,
			&d.FilePath, &d.MimeType, &d.FileSize, &d.DocumentType,
			&d.FileChecksum, &d.UploadedByEmployee, &d.UploadDate); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// DeleteDocument removes the metadata row. Physical file removal is the
// caller's job and happens before this call.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM case_documents WHERE document_id = $1`, documentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *Store) CreateUpdate(ctx context.Context, u *CaseUpdate) error {
	if u.UpdateID == "" {
		u.UpdateID = uuid.NewString()
	}
	return s.pool.QueryRow(ctx,
		`INSERT INTO case_updates
			(update_id, case_id, update_content, created_by_employee_code, created_date)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING created_date`,
		u.UpdateID, u.CaseID, u.UpdateContent, u.CreatedByEmployeeCode).
		Scan(&u.CreatedDate)
}

// CountUpdatesByCase backs the pagination stats on the update feed.
func (s *Store) CountUpdatesByCase(ctx context.Context, caseID string) (int, error) {
	return utils.CountTotal(ctx, s.pool,
		`SELECT COUNT(*) FROM case_updates WHERE case_id = $1`, caseID)
}

func (s *Store) UpdatesByCase(ctx context.Context, caseID string, limit, offset int) ([]*CaseUpdate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT update_id, case_id, update_content, created_by_employee_code, created_date
		 FROM case_updates WHERE case_id = $1
		 ORDER BY created_date DESC
		 LIMIT $2 OFFSET $3`, caseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*CaseUpdate, 0)
	for rows.Next() {
		var u CaseUpdate
		if err := rows.Scan(&u.UpdateID, &u.CaseID, &u.UpdateContent,
			&u.CreatedByEmployeeCode, &u.CreatedDate); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}
