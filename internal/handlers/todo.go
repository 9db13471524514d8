package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	dom "github.com/shovanmaity/chaos-demo-app/internal/domain"
	"github.com/shovanmaity/chaos-demo-app/internal/dto"
	"github.com/shovanmaity/chaos-demo-app/internal/store"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	store *store.Store
}

func NewTodoHandler(st *store.Store) *TodoHandler {
	return &TodoHandler{store: st}
}

// Create godoc
// @Summary      Create a todo
// @Description  The todo expires automatically five minutes after creation.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.store.Create(req.Title, req.Description)
	if err != nil {
		if errors.Is(err, store.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, todoToResponse(t, time.Now()))
}

// List godoc
// @Summary      List all live todos
// @Tags         todos
// @Produce      json
// @Success      200  {object}  dto.ListTodosResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	list := h.store.List()
	c.JSON(http.StatusOK, todosToListResponse(list, time.Now()))
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t, time.Now()))
}

// Update godoc
// @Summary      Update a todo
// @Description  Partial update: absent fields keep their current values.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.store.Update(id, store.Patch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, store.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t, time.Now()))
}

// Toggle godoc
// @Summary      Toggle a todo's completed flag
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [patch]
func (h *TodoHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.store.Toggle(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t, time.Now()))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats godoc
// @Summary      Count live todos
// @Tags         todos
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /stats [get]
func (h *TodoHandler) Stats(c *gin.Context) {
	st := h.store.Stats()
	c.JSON(http.StatusOK, dto.StatsResponse{
		Total:     st.Total,
		Completed: st.Completed,
		Pending:   st.Pending,
	})
}

// BuildSnapshot assembles the todos-plus-stats payload broadcast by the
// websocket hub.
func BuildSnapshot(st *store.Store) dto.SnapshotResponse {
	now := time.Now()
	stats := st.Stats()
	return dto.SnapshotResponse{
		Todos: todosToListResponse(st.List(), now),
		Stats: dto.StatsResponse{
			Total:     stats.Total,
			Completed: stats.Completed,
			Pending:   stats.Pending,
		},
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func todoToResponse(t dom.Todo, now time.Time) dto.TodoResponse {
	return dto.TodoResponse{
		ID:                   t.ID,
		Title:                t.Title,
		Description:          t.Description,
		Completed:            t.Completed,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
		ExpiresAt:            t.ExpiresAt,
		TimeRemainingSeconds: int64(t.ExpiresAt.Sub(now).Seconds()),
	}
}

func todosToListResponse(list []dom.Todo, now time.Time) dto.ListTodosResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i], now)
	}
	return dto.ListTodosResponse{Todos: out, Count: len(out)}
}
