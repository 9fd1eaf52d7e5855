package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"herd-health/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/calendar", func(cr chi.Router) {
		cr.Post("/", createObligationHandler(svc))
		cr.Get("/", listObligationsHandler(svc))

		cr.Post("/{obligationID}/complete", completeObligationHandler(svc))
		cr.Post("/{obligationID}/reopen", reopenObligationHandler(svc))
		cr.Delete("/{obligationID}", deleteObligationHandler(svc))
	})
}

type createObligationRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD
	Category    string `json:"category" enums:"task,appointment,maintenance,health,feeding,treatment"`
	Icon        string `json:"icon"`
}

type obligationResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Icon        string    `json:"icon"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createObligationHandler godoc
// @Summary Crear obligación de calendario
// @Description Crea una entrada ad hoc o agenda un tratamiento futuro (category=treatment). Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags calendar
// @Accept json
// @Produce json
// @Param payload body createObligationRequest true "Datos de la obligación; date en formato YYYY-MM-DD"
// @Success 201 {object} obligationResponse
// @Failure 400 {string} string "invalid json / title requerido / category desconocida"
// @Failure 401 {string} string "unauthorized"
// @Router /calendar [post]
func createObligationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createObligationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		o, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Title:       req.Title,
			Description: req.Description,
			Date:        d,
			Category:    Category(strings.TrimSpace(req.Category)),
			Icon:        req.Icon,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toObligationResponse(o))
	}
}

func listObligationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]obligationResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toObligationResponse(o))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func completeObligationHandler(svc *Service) http.HandlerFunc {
	return obligationStateHandler(svc, (*Service).Complete)
}

func reopenObligationHandler(svc *Service) http.HandlerFunc {
	return obligationStateHandler(svc, (*Service).Reopen)
}

func obligationStateHandler(svc *Service, op func(*Service, context.Context, string, string) (Obligation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		updated, err := op(svc, r.Context(), chi.URLParam(r, "obligationID"), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "obligation not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toObligationResponse(updated))
	}
}

func deleteObligationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "obligationID"), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "obligation not found", http.StatusNotFound)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toObligationResponse(o Obligation) obligationResponse {
	return obligationResponse{
		ID:          o.ID,
		OwnerUserID: o.OwnerUserID,
		Title:       o.Title,
		Description: o.Description,
		Date:        o.Date,
		Category:    string(o.Category),
		Icon:        o.Icon,
		Completed:   o.Completed,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
