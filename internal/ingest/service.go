package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	customerdomain "github.com/creditdesk/backend/internal/domain/customer"
	eligibilitydomain "github.com/creditdesk/backend/internal/domain/eligibility"
	loandomain "github.com/creditdesk/backend/internal/domain/loan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/sha3"
)

const dateLayout = "2006-01-02"

var customerHeaders = []string{
	"customer_id",
	"first_name",
	"last_name",
	"age",
	"phone_number",
	"monthly_salary",
	"approved_limit",
	"current_debt",
}

var loanHeaders = []string{
	"customer_id",
	"loan_id",
	"loan_amount",
	"tenure",
	"interest_rate",
	"monthly_payment",
	"emis_paid_on_time",
	"start_date",
	"end_date",
}

type CustomerRepository interface {
	Create(ctx context.Context, in customerdomain.CreateInput) (*customerdomain.Entity, error)
	GetByPhone(ctx context.Context, phoneNumber int64) (*customerdomain.Entity, error)
	GetByID(ctx context.Context, id int64) (*customerdomain.Entity, error)
	RecomputeCurrentDebt(ctx context.Context, id int64) error
}

type LoanRepository interface {
	Create(ctx context.Context, in loandomain.CreateInput) (*loandomain.Entity, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	customerRepo CustomerRepository
	loanRepo     LoanRepository
	jobRepo      JobRepository
	notifier     Notifier
	dir          string
}

func NewService(customerRepo CustomerRepository, loanRepo LoanRepository, jobRepo JobRepository, notifier Notifier, dir string) *Service {
	return &Service{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		jobRepo:      jobRepo,
		notifier:     notifier,
		dir:          dir,
	}
}

// Enqueue stores the uploaded file under the ingest dir and queues a job
// for the worker. The keccak digest of the content is kept on the job so
// operators can spot duplicate uploads.
func (s *Service) Enqueue(ctx context.Context, kind, fileName string, src io.Reader) (*Job, error) {
	if kind != KindCustomers && kind != KindLoans {
		return nil, fmt.Errorf("unsupported_ingest_kind")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	path := filepath.Join(s.dir, jobID+".csv")
	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	digest := sha3.NewLegacyKeccak256()
	if _, err := io.Copy(io.MultiWriter(dst, digest), src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	return s.jobRepo.Enqueue(ctx, EnqueueInput{
		ID:         jobID,
		Kind:       kind,
		FileName:   fileName,
		FilePath:   path,
		FileDigest: digest.Sum(nil),
	})
}

func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// Run executes a claimed job. A per-row failure is recorded and skipped; a
// whole-file failure (missing file, bad header) returns an error so the
// worker can retry and eventually fail the job without partial silent
// success.
func (s *Service) Run(ctx context.Context, job Job) (*Result, error) {
	f, err := os.Open(job.FilePath)
	if err != nil {
		return nil, fmt.Errorf("ingest_file_unreadable: %w", err)
	}
	defer f.Close()

	switch job.Kind {
	case KindCustomers:
		return s.loadCustomers(ctx, job.ID, f)
	case KindLoans:
		return s.loadLoans(ctx, job.ID, f)
	default:
		return nil, fmt.Errorf("unsupported_ingest_kind")
	}
}

func (s *Service) loadCustomers(ctx context.Context, jobID string, r io.Reader) (*Result, error) {
	rows, err := readRows(r, customerHeaders)
	if err != nil {
		return nil, err
	}

	res := &Result{TotalRows: int32(len(rows)), RowErrors: []string{}}
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header

		phone, err := strconv.ParseInt(strings.TrimSpace(row[4]), 10, 64)
		if err != nil {
			res.fail(rowNum, "phone_number must be an integer")
			continue
		}
		if existing, err := s.customerRepo.GetByPhone(ctx, phone); err == nil && existing != nil {
			res.SkippedRows++
			continue
		}

		age, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 32)
		if err != nil || age <= 0 {
			res.fail(rowNum, "age must be a positive integer")
			continue
		}
		salary, err := parseDecimal(row[5])
		if err != nil || !salary.IsPositive() {
			res.fail(rowNum, "monthly_salary must be a positive number")
			continue
		}
		limit, err := parseDecimal(row[6])
		if err != nil {
			res.fail(rowNum, "approved_limit must be a number")
			continue
		}
		if limit.IsZero() {
			limit = customerdomain.DeriveApprovedLimit(salary)
		}
		debt := decimal.Zero
		if strings.TrimSpace(row[7]) != "" {
			if debt, err = parseDecimal(row[7]); err != nil {
				res.fail(rowNum, "current_debt must be a number")
				continue
			}
		}

		_, err = s.customerRepo.Create(ctx, customerdomain.CreateInput{
			FirstName:     strings.TrimSpace(row[1]),
			LastName:      strings.TrimSpace(row[2]),
			Age:           int32(age),
			PhoneNumber:   phone,
			MonthlySalary: salary,
			ApprovedLimit: limit,
			CurrentDebt:   debt,
		})
		if err != nil {
			res.fail(rowNum, err.Error())
			continue
		}
		res.CreatedRows++

		if s.notifier != nil && res.CreatedRows%100 == 0 {
			s.notifier.JobProgress(jobID, res.CreatedRows, res.TotalRows)
		}
	}
	return res, nil
}

func (s *Service) loadLoans(ctx context.Context, jobID string, r io.Reader) (*Result, error) {
	rows, err := readRows(r, loanHeaders)
	if err != nil {
		return nil, err
	}

	res := &Result{TotalRows: int32(len(rows)), RowErrors: []string{}}
	for i, row := range rows {
		rowNum := i + 2

		customerID, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			res.fail(rowNum, "customer_id must be an integer")
			continue
		}
		loanID, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			res.fail(rowNum, "loan_id must be an integer")
			continue
		}

		if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
			res.fail(rowNum, fmt.Sprintf("customer %d not found", customerID))
			continue
		}
		if exists, err := s.loanRepo.Exists(ctx, loanID); err == nil && exists {
			res.SkippedRows++
			continue
		}

		amount, err := parseDecimal(row[2])
		if err != nil || !amount.IsPositive() {
			res.fail(rowNum, "loan_amount must be a positive number")
			continue
		}
		tenure, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 32)
		if err != nil || tenure < 1 || tenure > 600 {
			res.fail(rowNum, "tenure must be between 1 and 600 months")
			continue
		}
		rate, err := parseDecimal(row[4])
		if err != nil || rate.IsNegative() {
			res.fail(rowNum, "interest_rate must be a non-negative number")
			continue
		}
		emisOnTime := int64(0)
		if strings.TrimSpace(row[6]) != "" {
			if emisOnTime, err = strconv.ParseInt(strings.TrimSpace(row[6]), 10, 32); err != nil || emisOnTime < 0 {
				res.fail(rowNum, "emis_paid_on_time must be a non-negative integer")
				continue
			}
		}
		startDate, err := time.Parse(dateLayout, strings.TrimSpace(row[7]))
		if err != nil {
			res.fail(rowNum, "start_date must be YYYY-MM-DD")
			continue
		}
		endDate, err := time.Parse(dateLayout, strings.TrimSpace(row[8]))
		if err != nil {
			res.fail(rowNum, "end_date must be YYYY-MM-DD")
			continue
		}

		// derive the EMI when the source row carries no monthly payment
		var monthly decimal.Decimal
		if strings.TrimSpace(row[5]) != "" {
			if monthly, err = parseDecimal(row[5]); err != nil {
				res.fail(rowNum, "monthly_payment must be a number")
				continue
			}
		} else {
			monthly = eligibilitydomain.EMI(amount, rate, int32(tenure))
		}

		_, err = s.loanRepo.Create(ctx, loandomain.CreateInput{
			ID:               loanID,
			CustomerID:       customerID,
			LoanAmount:       amount,
			TenureMonths:     int32(tenure),
			InterestRate:     rate,
			MonthlyRepayment: monthly,
			EMIsPaidOnTime:   int32(emisOnTime),
			StartDate:        startDate,
			EndDate:          endDate,
		})
		if err != nil {
			res.fail(rowNum, err.Error())
			continue
		}
		if err := s.customerRepo.RecomputeCurrentDebt(ctx, customerID); err != nil {
			res.fail(rowNum, err.Error())
			continue
		}
		res.CreatedRows++

		if s.notifier != nil && res.CreatedRows%50 == 0 {
			s.notifier.JobProgress(jobID, res.CreatedRows, res.TotalRows)
		}
	}
	return res, nil
}

func (r *Result) fail(rowNum int, msg string) {
	r.FailedRows++
	if len(r.RowErrors) < maxRowErrors {
		r.RowErrors = append(r.RowErrors, fmt.Sprintf("Row %d: %s", rowNum, msg))
	}
}

func readRows(r io.Reader, expected []string) ([][]string, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid_csv")
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("csv must include header and at least one data row")
	}
	if err := validateHeader(rows[0], expected); err != nil {
		return nil, err
	}
	return rows[1:], nil
}

func validateHeader(header, expected []string) error {
	if len(header) < len(expected) {
		return fmt.Errorf("invalid column count")
	}
	for i, want := range expected {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("expected header %q at position %d", want, i+1)
		}
	}
	return nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
