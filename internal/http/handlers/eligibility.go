package handlers

import (
	"context"
	"errors"
	"net/http"

	applicationdomain "github.com/creditdesk/backend/internal/domain/application"
	eligibilitydomain "github.com/creditdesk/backend/internal/domain/eligibility"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type EligibilityService interface {
	CheckEligibility(ctx context.Context, req applicationdomain.EligibilityRequest) (*eligibilitydomain.Decision, error)
	CreateLoan(ctx context.Context, req applicationdomain.EligibilityRequest) (*applicationdomain.CreateLoanResult, error)
}

type EligibilityHandler struct {
	service EligibilityService
}

func NewEligibilityHandler(service EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{service: service}
}

type loanRequest struct {
	CustomerID   int64           `json:"customer_id" binding:"required"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Tenure       int32           `json:"tenure" binding:"required"`
}

func (r loanRequest) validate() string {
	if !r.LoanAmount.IsPositive() {
		return "loan_amount must be greater than 0"
	}
	if r.InterestRate.IsNegative() || r.InterestRate.GreaterThan(decimal.NewFromInt(50)) {
		return "interest_rate must be between 0 and 50"
	}
	if r.Tenure < 1 || r.Tenure > 600 {
		return "tenure must be between 1 and 600 months"
	}
	return ""
}

// CheckEligibility is the read-only quote path. Rejections still return
// 200; only validation and lookup failures use error statuses.
func (h *EligibilityHandler) CheckEligibility(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": msg})
		return
	}

	d, err := h.service.CheckEligibility(c.Request.Context(), applicationdomain.EligibilityRequest{
		CustomerID:   req.CustomerID,
		Amount:       req.LoanAmount,
		AnnualRate:   req.InterestRate,
		TenureMonths: req.Tenure,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "eligibility_check_failed"})
		return
	}

	correctedRate := d.RequestedRate
	if d.CorrectedRate != nil {
		correctedRate = *d.CorrectedRate
	}
	c.JSON(http.StatusOK, gin.H{
		"customer_id":             req.CustomerID,
		"approval":                d.Approved,
		"interest_rate":           d.RequestedRate.InexactFloat64(),
		"corrected_interest_rate": correctedRate.InexactFloat64(),
		"tenure":                  req.Tenure,
		"monthly_installment":     d.EMI.InexactFloat64(),
	})
}

// CreateLoan is the booking path. A business rejection is recorded and
// returned with a 400 by convention, unlike the quote path.
func (h *EligibilityHandler) CreateLoan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": msg})
		return
	}

	result, err := h.service.CreateLoan(c.Request.Context(), applicationdomain.EligibilityRequest{
		CustomerID:   req.CustomerID,
		Amount:       req.LoanAmount,
		AnnualRate:   req.InterestRate,
		TenureMonths: req.Tenure,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create_loan_failed"})
		return
	}

	status := http.StatusOK
	if !result.Decision.Approved {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"loan_id":             result.LoanID,
		"customer_id":         req.CustomerID,
		"loan_approved":       result.Decision.Approved,
		"message":             result.Decision.Message,
		"monthly_installment": result.Decision.EMI.InexactFloat64(),
	})
}
