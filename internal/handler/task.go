package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/model"
	"github.com/BuzzLyutic/tasklist/internal/notify"
	"github.com/BuzzLyutic/tasklist/internal/service"
	"github.com/BuzzLyutic/tasklist/pkg/respond"
)

type TaskHandler struct {
	store  *service.TaskStore
	hub    *notify.Hub
	logger *zap.Logger
}

type taskRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Priority string `json:"priority"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func NewTaskHandler(store *service.TaskStore, hub *notify.Hub, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		store:  store,
		hub:    hub,
		logger: logger,
	}
}

// Routes mounts the task API; intended under /api/tasks.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/order", h.Reorder)
	r.Get("/stats", h.Stats)
	r.Get("/notifications", h.Notifications)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/toggle", h.Toggle)
	})
	return r
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := model.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	sortKey, err := model.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, h.store.View(filter, sortKey))
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := respond.Decode(r, &req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.store.Add(r.Context(), req.Title, req.Date, req.Priority)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%s", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.store.Edit(r.Context(), chi.URLParam(r, "id"), req.Title, req.Date, req.Priority)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.ToggleComplete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Reorder(r.Context(), req.IDs); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, h.store.View(model.FilterAll, model.SortCustom))
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, h.store.Stats())
}

// Notifications streams notifications as server-sent events until the
// client goes away.
func (h *TaskHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.Error(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events := make(chan notify.Notification, 16)
	cancel := h.hub.Subscribe(func(n notify.Notification) {
		select {
		case events <- n:
		default:
		}
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case n := <-events:
			data, err := json.Marshal(n)
			if err != nil {
				h.logger.Error("failed to encode notification", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.Severity, data)
			flusher.Flush()
		}
	}
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
