package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mining_webapp/internal/http/middleware"
	"mining_webapp/internal/repository"
	"mining_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTasks returns all active tasks with the user's completion status.
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tasks, err := h.Tasks.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CompleteTask marks a task done for the user and pays its rewards once.
func (h *Handler) CompleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.Tasks.Complete(c.Request.Context(), userID, taskID)
	middleware.CountOp("task_complete", err)
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, service.ErrTaskAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "task already completed"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete task"})
	default:
		c.JSON(http.StatusOK, gin.H{"task": task})
	}
}
