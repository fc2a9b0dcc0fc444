package handler

import (
	"net/http"

	"clinicbook/internal/admin/service"
	httputil "clinicbook/pkg/http"
	"clinicbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AdminHandler struct {
	service service.AdminService
	log     *logger.Logger
}

func NewAdminHandler(service service.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log,
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}
	h.writeSuccess(w, "Dashboard", dashboard)
}

func (h *AdminHandler) TodayAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	views, err := h.service.TodayAppointments(r.Context())
	if err != nil {
		h.writeError(w, "TodayAppointments", err)
		return
	}
	h.writeSuccess(w, "TodayAppointments", views)
}

func (h *AdminHandler) AllAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	views, err := h.service.AllAppointments(r.Context())
	if err != nil {
		h.writeError(w, "AllAppointments", err)
		return
	}
	h.writeSuccess(w, "AllAppointments", views)
}

func (h *AdminHandler) PendingNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	views, err := h.service.PendingNotifications(r.Context())
	if err != nil {
		h.writeError(w, "PendingNotifications", err)
		return
	}
	h.writeSuccess(w, "PendingNotifications", views)
}

// MarkSent answers 204 whether or not the notification was still pending.
func (h *AdminHandler) MarkSent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkSent(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "MarkSent", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *AdminHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AdminHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/dashboard", h.Dashboard)
	router.GET("/api/v1/admin/appointments", h.AllAppointments)
	router.GET("/api/v1/admin/appointments/today", h.TodayAppointments)
	router.GET("/api/v1/admin/notifications", h.PendingNotifications)
	router.POST("/api/v1/admin/notifications/:id/sent", h.MarkSent)
}
