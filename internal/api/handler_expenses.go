package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"squarepg-backend/internal/model"
	"squarepg-backend/internal/mw"
)

// ListExpenses handles GET /api/expenses.
func (h *Handler) ListExpenses(c *gin.Context) {
	sess := mw.GetSession(c)
	expenses, err := h.store.Expenses(c.Request.Context(), sess.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve expenses"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

type createExpenseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Category    string  `json:"category"`
	Date        string  `json:"date" binding:"required"`
	Description string  `json:"description"`
}

// CreateExpense handles POST /api/expenses.
func (h *Handler) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := mw.GetSession(c)
	expense := model.Expense{
		OwnerID:     sess.UserID,
		Title:       req.Title,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		Description: req.Description,
	}
	if expense.Category == "" {
		expense.Category = "Other"
	}
	if err := h.store.CreateExpense(c.Request.Context(), &expense); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// DeleteExpense handles DELETE /api/expenses/:id.
func (h *Handler) DeleteExpense(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid expense ID"})
		return
	}

	sess := mw.GetSession(c)
	rows, err := h.store.DeleteExpense(c.Request.Context(), sess.UserID, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
