package handlers

import (
	"context"
	"errors"
	"net/http"

	customerdomain "github.com/creditdesk/backend/internal/domain/customer"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CustomerService interface {
	Register(ctx context.Context, in customerdomain.RegisterInput) (*customerdomain.Entity, error)
}

type CustomerHandler struct {
	customerService CustomerService
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) Register(c *gin.Context) {
	var req struct {
		FirstName     string          `json:"first_name"`
		LastName      string          `json:"last_name"`
		Age           int32           `json:"age"`
		PhoneNumber   int64           `json:"phone_number"`
		MonthlyIncome decimal.Decimal `json:"monthly_income"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	cust, err := h.customerService.Register(c.Request.Context(), customerdomain.RegisterInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		PhoneNumber:   req.PhoneNumber,
		MonthlyIncome: req.MonthlyIncome,
	})
	if err != nil {
		var fieldErr *customerdomain.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "field": fieldErr.Field, "message": fieldErr.Message})
			return
		}
		if errors.Is(err, customerdomain.ErrPhoneTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "field": "phone_number", "message": "already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register_failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"customer_id":    cust.ID,
		"name":           cust.FullName(),
		"age":            cust.Age,
		"monthly_income": cust.MonthlySalary.InexactFloat64(),
		"approved_limit": cust.ApprovedLimit.InexactFloat64(),
		"phone_number":   cust.PhoneNumber,
	})
}
