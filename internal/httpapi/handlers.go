package httpapi

import (
	"errors"
	"net/http"
	"time"

	"newsdesk-platform/internal/auth"
	"newsdesk-platform/internal/expenses"
	"newsdesk-platform/internal/reporting"
	"newsdesk-platform/internal/tasks"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth     *auth.Manager
	Tasks    *tasks.Service
	Expenses *expenses.Service
	Reports  *reporting.Service
}

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, role required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	AssigneeID  string     `json:"assignee_id"`
	Location    string     `json:"location"`
	Deadline    *time.Time `json:"deadline"`

	Deliverables []string `json:"deliverables"`

	BudgetAmount float64 `json:"budget_amount"`
	Currency     string  `json:"currency"`
}

func (h Handlers) CreateTask(c *gin.Context) {
	if h.Tasks == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "tasks not configured"})
		return
	}
	creatorID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id required"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	created, err := h.Tasks.CreateTask(c.Request.Context(), tasks.Task{
		Title:        req.Title,
		Description:  req.Description,
		Type:         tasks.TaskType(req.Type),
		Priority:     tasks.Priority(req.Priority),
		CreatorID:    creatorID,
		AssigneeID:   req.AssigneeID,
		Location:     req.Location,
		Deadline:     req.Deadline,
		Deliverables: req.Deliverables,
		BudgetAmount: req.BudgetAmount,
		Currency:     req.Currency,
	})
	if err != nil {
		abortTaskErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h Handlers) GetTask(c *gin.Context) {
	if h.Tasks == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "tasks not configured"})
		return
	}
	task, err := h.Tasks.Get(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		abortTaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// SendAssignment pushes the task to its assignee over WhatsApp and marks it SENT.
func (h Handlers) SendAssignment(c *gin.Context) {
	if h.Tasks == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "tasks not configured"})
		return
	}
	task, err := h.Tasks.SendAssignment(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		abortTaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CancelTask is an editor override; it bypasses the reply-driven transition
// table. RBAC: editor or admin.
func (h Handlers) CancelTask(c *gin.Context) {
	if h.Tasks == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "tasks not configured"})
		return
	}
	actorID, _ := auth.UserID(c.Request.Context())
	actorRole, _ := auth.Role(c.Request.Context())

	ctx := tasks.WithClientIP(c.Request.Context(), c.ClientIP())
	task, err := h.Tasks.Cancel(ctx, c.Param("task_id"), actorID, actorRole)
	if err != nil {
		abortTaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type reassignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// ReassignTask is an editor override. RBAC: editor or admin.
func (h Handlers) ReassignTask(c *gin.Context) {
	if h.Tasks == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "tasks not configured"})
		return
	}
	actorID, _ := auth.UserID(c.Request.Context())
	actorRole, _ := auth.Role(c.Request.Context())

	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.AssigneeID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "assignee_id required"})
		return
	}

	ctx := tasks.WithClientIP(c.Request.Context(), c.ClientIP())
	task, err := h.Tasks.Reassign(ctx, c.Param("task_id"), req.AssigneeID, actorID, actorRole)
	if err != nil {
		abortTaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// --- Expenses ---

func (h Handlers) ListTaskExpenses(c *gin.Context) {
	if h.Expenses == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "expenses not configured"})
		return
	}
	list, err := h.Expenses.ListByTask(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		abortExpenseErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": list})
}

func (h Handlers) ApproveExpense(c *gin.Context) {
	h.reviewExpense(c, true)
}

func (h Handlers) RejectExpense(c *gin.Context) {
	h.reviewExpense(c, false)
}

func (h Handlers) reviewExpense(c *gin.Context, approve bool) {
	if h.Expenses == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "expenses not configured"})
		return
	}
	reviewerID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id required"})
		return
	}

	var e expenses.Expense
	if approve {
		e, err = h.Expenses.Approve(c.Request.Context(), c.Param("expense_id"), reviewerID)
	} else {
		e, err = h.Expenses.Reject(c.Request.Context(), c.Param("expense_id"), reviewerID)
	}
	if err != nil {
		abortExpenseErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// --- Reporting ---

func (h Handlers) TasksSummary(c *gin.Context) {
	if h.Reports == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	rng, ok := parseRange(c)
	if !ok {
		return
	}
	sum, err := h.Reports.TasksSummary(c.Request.Context(), reporting.TasksSummaryRequest{
		Range:      rng,
		AssigneeID: c.Query("assignee_id"),
	})
	if err != nil {
		abortReportErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h Handlers) ExpenseSummary(c *gin.Context) {
	if h.Reports == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	rng, ok := parseRange(c)
	if !ok {
		return
	}
	sum, err := h.Reports.ExpenseSummary(c.Request.Context(), reporting.ExpenseSummaryRequest{
		Range:  rng,
		TaskID: c.Query("task_id"),
	})
	if err != nil {
		abortReportErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// --- helpers ---

func parseRange(c *gin.Context) (reporting.TimeRange, bool) {
	from, err1 := time.Parse(time.RFC3339, c.Query("from"))
	to, err2 := time.Parse(time.RFC3339, c.Query("to"))
	if err1 != nil || err2 != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from and to must be RFC3339 timestamps"})
		return reporting.TimeRange{}, false
	}
	return reporting.TimeRange{From: from, To: to}, true
}

func abortTaskErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, tasks.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func abortExpenseErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, expenses.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "expense not found"})
	case errors.Is(err, expenses.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, expenses.ErrAlreadyReviewed):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "expense already reviewed"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func abortReportErr(c *gin.Context, err error) {
	if errors.Is(err, reporting.ErrInvalidRequest) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid reporting request"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
