package animals

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
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))
	})
}

type createAnimalRequest struct {
	Tag       string `json:"tag"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD opcional
	Phase     string `json:"phase"`
	Batch     string `json:"batch"`
	Notes     string `json:"notes"`
}

type animalResponse struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"owner_user_id"`
	Tag         string     `json:"tag"`
	Name        string     `json:"name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Phase       string     `json:"phase"`
	Batch       string     `json:"batch"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type updateAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Tag   *string `json:"tag"`
	Name  *string `json:"name"`
	Phase *string `json:"phase"`
	Batch *string `json:"batch"`
	Notes *string `json:"notes"`
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Registra un animal del rodeo para el usuario autenticado. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body createAnimalRequest true "Datos del animal; birth_date en formato YYYY-MM-DD"
// @Success 201 {object} animalResponse
// @Failure 400 {string} string "invalid json / tag requerido / phase desconocida"
// @Failure 401 {string} string "unauthorized"
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Tag:       req.Tag,
			Name:      req.Name,
			BirthDate: bd,
			Phase:     req.Phase,
			Batch:     req.Batch,
			Notes:     req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar animales
// @Description Lista los animales del usuario autenticado. Permite filtrar por lote exacto con `batch`.
// @Tags animals
// @Produce json
// @Param batch query string false "Etiqueta de lote (match exacto, case-sensitive)"
// @Success 200 {array} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			items []Animal
			err   error
		)
		if batch, has := batchParam(r); has {
			items, err = svc.ListByBatch(r.Context(), claims.UserID, batch)
		} else {
			items, err = svc.ListByOwner(r.Context(), claims.UserID)
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil || a.OwnerUserID != claims.UserID {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateAnimalRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, UpdateInput{
			Tag:   req.Tag,
			Name:  req.Name,
			Phase: req.Phase,
			Batch: req.Batch,
			Notes: req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "animal not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(updated))
	}
}

// batchParam distingue "?batch=" presente (aunque vacío) de ausente:
// un lote referenciado sin animales debe devolver lista vacía, no el rodeo entero.
func batchParam(r *http.Request) (string, bool) {
	if !r.URL.Query().Has("batch") {
		return "", false
	}
	return r.URL.Query().Get("batch"), true
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:          a.ID,
		OwnerUserID: a.OwnerUserID,
		Tag:         a.Tag,
		Name:        a.Name,
		BirthDate:   a.BirthDate,
		Phase:       string(a.Phase),
		Batch:       a.Batch,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
