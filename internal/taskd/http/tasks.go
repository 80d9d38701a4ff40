package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/service"
	"github.com/aussiebroadwan/taskd/pkg/httpx"
	"github.com/aussiebroadwan/taskd/pkg/taskdsdk"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

// HandleCreate creates a task owned by the caller.
//
//	@Summary	Create task
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		taskdsdk.CreateTaskRequest	true	"Task"
//	@Success	201		{object}	taskdsdk.Task
//	@Failure	400		{object}	taskdsdk.ErrorResponse
//	@Failure	401		{object}	taskdsdk.ErrorResponse
//	@Router		/v1/tasks [post].
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req taskdsdk.CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := h.TaskService.Create(r.Context(), caller.AccountID, domain.NewTask{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, t)
}

// HandleList returns the caller's tasks, newest first.
//
//	@Summary	List own tasks
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Produce	json
//	@Param		page	query		int	false	"Page number, from 1"	default(1)
//	@Param		limit	query		int	false	"Page size, at most 100"	default(10)
//	@Success	200		{object}	taskdsdk.TaskPage
//	@Failure	400		{object}	taskdsdk.ErrorResponse
//	@Failure	401		{object}	taskdsdk.ErrorResponse
//	@Router		/v1/tasks [get].
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	req, err := parsePageRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	page, err := h.TaskService.ListOwned(r.Context(), caller.AccountID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, page)
}

// parsePageRequest reads ?page and ?limit. A value that is present must be
// an integer of at least 1; limit is capped later by the service.
func parsePageRequest(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()
	fields := make(map[string]string)

	parse := func(name string) int {
		if !q.Has(name) {
			return 0
		}
		n, err := strconv.Atoi(q.Get(name))
		if err != nil || n < 1 {
			fields[name] = "must be an integer of at least 1"
			return 0
		}
		return n
	}

	req := domain.PageRequest{Page: parse("page"), Limit: parse("limit")}
	if len(fields) > 0 {
		return domain.PageRequest{}, &service.ValidationError{Fields: fields}
	}
	return req, nil
}

// HandleGet fetches any task by id.
//
//	@Summary	Get task
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Task id"
//	@Success	200	{object}	taskdsdk.Task
//	@Failure	401	{object}	taskdsdk.ErrorResponse
//	@Failure	404	{object}	taskdsdk.ErrorResponse
//	@Router		/v1/tasks/{id} [get].
func (h *TasksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.TaskService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, t)
}

// HandleUpdate patches a task the caller owns.
//
//	@Summary	Update task
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Task id"
//	@Param		request	body		taskdsdk.UpdateTaskRequest	true	"Fields to change"
//	@Success	200		{object}	taskdsdk.Task
//	@Failure	400		{object}	taskdsdk.ErrorResponse
//	@Failure	401		{object}	taskdsdk.ErrorResponse
//	@Failure	403		{object}	taskdsdk.ErrorResponse	"Task belongs to another account"
//	@Failure	404		{object}	taskdsdk.ErrorResponse
//	@Router		/v1/tasks/{id} [patch].
func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req taskdsdk.UpdateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := h.TaskService.Update(r.Context(), r.PathValue("id"), caller.AccountID, domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, t)
}

// HandleDelete deletes a task the caller owns.
//
//	@Summary	Delete task
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Task id"
//	@Success	204
//	@Failure	401	{object}	taskdsdk.ErrorResponse
//	@Failure	403	{object}	taskdsdk.ErrorResponse	"Task belongs to another account"
//	@Failure	404	{object}	taskdsdk.ErrorResponse
//	@Router		/v1/tasks/{id} [delete].
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.Delete(r.Context(), r.PathValue("id"), caller.AccountID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
