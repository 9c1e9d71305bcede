package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	loandomain "github.com/creditdesk/backend/internal/domain/loan"
	"github.com/gin-gonic/gin"
)

type LoanService interface {
	GetLoan(ctx context.Context, loanID int64) (*loandomain.View, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]loandomain.CustomerLoanItem, error)
}

type LoanHandler struct {
	loanService LoanService
}

func NewLoanHandler(loanService LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

func (h *LoanHandler) ViewLoan(c *gin.Context) {
	loanID, err := strconv.ParseInt(strings.TrimSpace(c.Param("loanId")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_loan_id"})
		return
	}

	view, err := h.loanService.GetLoan(c.Request.Context(), loanID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "loan_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loan_id": view.Loan.ID,
		"customer": gin.H{
			"customer_id":  view.Customer.ID,
			"first_name":   view.Customer.FirstName,
			"last_name":    view.Customer.LastName,
			"phone_number": view.Customer.PhoneNumber,
			"age":          view.Customer.Age,
		},
		"loan_amount":         view.Loan.LoanAmount.InexactFloat64(),
		"interest_rate":       view.EffectiveRate.InexactFloat64(),
		"loan_approved":       view.Approved,
		"monthly_installment": view.Loan.MonthlyRepayment.InexactFloat64(),
		"tenure":              view.Loan.TenureMonths,
	})
}

func (h *LoanHandler) ViewLoansByCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(strings.TrimSpace(c.Param("customerId")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_customer_id"})
		return
	}

	items, err := h.loanService.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found"})
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, gin.H{
			"loan_id":             item.Loan.ID,
			"loan_amount":         item.Loan.LoanAmount.InexactFloat64(),
			"loan_approved":       item.Approved,
			"interest_rate":       item.Loan.InterestRate.InexactFloat64(),
			"monthly_installment": item.Loan.MonthlyRepayment.InexactFloat64(),
			"repayments_left":     item.RepaymentsLeft,
		})
	}
	c.JSON(http.StatusOK, out)
}
