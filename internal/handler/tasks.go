package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/handler/dto"
	"github.com/mtlprog/taskflow/internal/middleware"
	"github.com/mtlprog/taskflow/internal/service"
)

// HeaderDataSource reports whether a read came from the cache, the store,
// or was degraded because the store failed.
const HeaderDataSource = "X-Data-Source"

// handleListTasks returns every task, newest first. A store failure yields
// an empty list rather than an error.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, source := h.tasks.ListTasks(r.Context())

	w.Header().Set(HeaderDataSource, string(source))
	respondJSON(w, http.StatusOK, dto.OK(tasks))
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, dto.MsgInvalidJSON)
		return
	}
	if err := dto.Validate(req); err != nil {
		respondDomainError(w, err)
		return
	}

	id, err := h.tasks.CreateTask(r.Context(), service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondWriteError(w, err, dto.MsgCreateFailed)
		return
	}

	h.logActivity(r, domain.ActionCreateTask, "Created task: "+req.Title)

	respondJSON(w, http.StatusOK, dto.OK(dto.CreatedTask{ID: id}))
}

func (h *Handler) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, dto.MsgInvalidJSON)
		return
	}
	if err := dto.Validate(req); err != nil {
		respondDomainError(w, err)
		return
	}

	// An unknown id is reported the same way as a failed write.
	updated, err := h.tasks.UpdateTaskStatus(r.Context(), taskID, domain.TaskStatus(req.Status))
	if err != nil {
		respondWriteError(w, err, dto.MsgUpdateFailed)
		return
	}
	if !updated {
		respondError(w, http.StatusInternalServerError, dto.MsgUpdateFailed)
		return
	}

	h.logActivity(r, domain.ActionUpdateTaskStatus, fmt.Sprintf("Updated task %s to %s", taskID, req.Status))

	respondJSON(w, http.StatusOK, dto.OK(nil))
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")

	deleted, err := h.tasks.DeleteTask(r.Context(), taskID)
	if err != nil {
		respondWriteError(w, err, dto.MsgDeleteFailed)
		return
	}
	if !deleted {
		respondError(w, http.StatusInternalServerError, dto.MsgDeleteFailed)
		return
	}

	h.logActivity(r, domain.ActionDeleteTask, "Deleted task "+taskID)

	respondJSON(w, http.StatusOK, dto.OK(nil))
}

// handleGetUserStats returns task counts for one assignee. Stats may lag
// task mutations by up to service.UserStatsTTL.
func (h *Handler) handleGetUserStats(w http.ResponseWriter, r *http.Request) {
	stats, source := h.tasks.GetUserStats(r.Context(), r.PathValue("id"))

	w.Header().Set(HeaderDataSource, string(source))
	respondJSON(w, http.StatusOK, dto.OK(stats))
}

func (h *Handler) logActivity(r *http.Request, action, details string) {
	client := middleware.ClientInfoFromContext(r.Context())
	h.activity.Log(r.Context(), domain.ActivityLog{
		UserID:    client.UserID,
		Action:    action,
		Details:   details,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	})
}
