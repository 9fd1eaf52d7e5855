package agenda

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"herd-health/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/agenda", timelineHandler(svc))

	// Máquina aplicar/reabrir sobre el refuerzo pendiente de un registro.
	// (Para obligaciones de calendario están /calendar/{id}/complete|reopen.)
	r.Post("/treatments/{recordID}/apply", applyTreatmentHandler(svc))
}

type entryResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Icon        string    `json:"icon"`
	Completed   bool      `json:"completed"`
	Source      string    `json:"source"`
}

type timelineResponse struct {
	Upcoming []entryResponse `json:"upcoming"`
	Overdue  []entryResponse `json:"overdue"`
	Past     []entryResponse `json:"past"`
}

// timelineHandler godoc
// @Summary Agenda unificada
// @Description Devuelve la agenda clasificada del usuario: próximas (7 días), vencidas e historial (30 días). Se recalcula en cada lectura a partir del calendario y los refuerzos pendientes.
// @Tags agenda
// @Produce json
// @Success 200 {object} timelineResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /agenda [get]
func timelineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tl, err := svc.Timeline(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, timelineResponse{
			Upcoming: toEntryResponses(tl.Upcoming),
			Overdue:  toEntryResponses(tl.Overdue),
			Past:     toEntryResponses(tl.Past),
		})
	}
}

type applyTreatmentRequest struct {
	AppliedAt    string `json:"applied_at"` // YYYY-MM-DD opcional, default hoy
	Lot          string `json:"lot"`
	Manufacturer string `json:"manufacturer"`
	Responsible  string `json:"responsible"`
	Notes        string `json:"notes"`

	ScheduleFollowUp bool   `json:"schedule_follow_up"`
	FollowUpDate     string `json:"follow_up_date"` // YYYY-MM-DD opcional
}

// applyTreatmentHandler godoc
// @Summary Aplicar refuerzo pendiente
// @Description Marca como aplicado el refuerzo pendiente de un registro: crea un registro nuevo con su propio next-due (el histórico no se muta). Con schedule_follow_up=true agenda además la obligación del próximo ciclo.
// @Tags agenda
// @Accept json
// @Produce json
// @Param recordID path string true "ID del registro de tratamiento"
// @Param payload body applyTreatmentRequest true "Metadata de la aplicación"
// @Success 204 {string} string ""
// @Failure 400 {string} string "invalid json / fechas inválidas"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "record not found"
// @Router /treatments/{recordID}/apply [post]
func applyTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req applyTreatmentRequest
		if r.Body != nil {
			// body opcional: aplicar "hoy" sin metadata es válido
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		in := ApplyInput{
			Lot:              req.Lot,
			Manufacturer:     req.Manufacturer,
			Responsible:      req.Responsible,
			Notes:            req.Notes,
			ScheduleFollowUp: req.ScheduleFollowUp,
		}

		if strings.TrimSpace(req.AppliedAt) != "" {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(req.AppliedAt))
			if err != nil {
				http.Error(w, "applied_at must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.AppliedAt = t
		}
		if strings.TrimSpace(req.FollowUpDate) != "" {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(req.FollowUpDate))
			if err != nil {
				http.Error(w, "follow_up_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.FollowUpDate = &t
		}

		err := svc.MarkApplied(r.Context(), claims.UserID, TreatmentRef{RecordID: chi.URLParam(r, "recordID")}, in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "record not found", http.StatusNotFound)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toEntryResponses(entries []Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Date:        e.Date,
			Category:    e.Category,
			Icon:        e.Icon,
			Completed:   e.Completed,
			Source:      string(e.Source),
		})
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
