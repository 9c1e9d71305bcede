package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var ErrPhoneTaken = errors.New("phone_number_taken")

var lakh = decimal.NewFromInt(100_000)

// DeriveApprovedLimit is 36x monthly salary rounded half-to-even to the
// nearest lakh. The limit is fixed at registration and never recomputed.
func DeriveApprovedLimit(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(decimal.NewFromInt(36)).Div(lakh).RoundBank(0).Mul(lakh)
}

type RegisterInput struct {
	FirstName     string
	LastName      string
	Age           int32
	PhoneNumber   int64
	MonthlyIncome decimal.Decimal
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Entity, error) {
	if err := validateRegisterInput(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByPhone(ctx, in.PhoneNumber)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check phone number: %w", err)
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	return s.repo.Create(ctx, CreateInput{
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Age:           in.Age,
		PhoneNumber:   in.PhoneNumber,
		MonthlySalary: in.MonthlyIncome,
		ApprovedLimit: DeriveApprovedLimit(in.MonthlyIncome),
		CurrentDebt:   decimal.Zero,
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Entity, error) {
	return s.repo.GetByID(ctx, id)
}

func validateRegisterInput(in RegisterInput) error {
	if strings.TrimSpace(in.FirstName) == "" {
		return &FieldError{Field: "first_name", Message: "required"}
	}
	if strings.TrimSpace(in.LastName) == "" {
		return &FieldError{Field: "last_name", Message: "required"}
	}
	if in.Age < 18 || in.Age > 120 {
		return &FieldError{Field: "age", Message: "must be between 18 and 120"}
	}
	if in.PhoneNumber < 1_000_000_000 || in.PhoneNumber > 9_999_999_999 {
		return &FieldError{Field: "phone_number", Message: "must be a valid 10-digit number"}
	}
	if !in.MonthlyIncome.IsPositive() {
		return &FieldError{Field: "monthly_income", Message: "must be greater than 0"}
	}
	return nil
}
