package treatments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"herd-health/internal/domain/catalog"
	"herd-health/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/treatment-types", listTreatmentTypesHandler(svc))

	r.Route("/treatments", func(tr chi.Router) {
		tr.Post("/", registerTreatmentHandler(svc))
		tr.Post("/preview", previewNextDueHandler(svc))
	})

	r.Get("/animals/{animalID}/treatments", listAnimalTreatmentsHandler(svc))
}

// registerTreatmentRequest es el cuerpo para registrar un tratamiento.
// scope decide el target: "animal" requiere animal_id, "batch" requiere batch.
type registerTreatmentRequest struct {
	Scope    string `json:"scope" enums:"animal,batch"`
	AnimalID string `json:"animal_id"`
	Batch    string `json:"batch"`

	TreatmentTypeID string `json:"treatment_type_id"`
	AppliedAt       string `json:"applied_at"` // YYYY-MM-DD

	NextDue string `json:"next_due"` // YYYY-MM-DD opcional, override manual

	Lot          string `json:"lot"`
	Manufacturer string `json:"manufacturer"`
	Responsible  string `json:"responsible"`
	Notes        string `json:"notes"`
}

type recordResponse struct {
	ID              string     `json:"id"`
	OwnerUserID     string     `json:"owner_user_id"`
	AnimalID        string     `json:"animal_id"`
	TreatmentTypeID string     `json:"treatment_type_id"`
	AppliedAt       time.Time  `json:"applied_at"`
	NextDue         *time.Time `json:"next_due,omitempty"`
	Lot             string     `json:"lot"`
	Manufacturer    string     `json:"manufacturer"`
	Responsible     string     `json:"responsible"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
}

type treatmentTypeResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	IntervalMonths int      `json:"interval_months"`
	MinAgeMonths   int      `json:"min_age_months"`
	MaxAgeMonths   int      `json:"max_age_months"`
	Phases         []string `json:"phases,omitempty"`
}

// registerTreatmentHandler godoc
// @Summary Registrar tratamiento (animal o lote)
// @Description Registra la aplicación de un tratamiento. Con scope=batch hace fan-out a todos los animales del lote en una sola inserción agrupada (todo-o-nada). Un lote vacío o desconocido responde 404.
// @Tags treatments
// @Accept json
// @Produce json
// @Param payload body registerTreatmentRequest true "Datos del tratamiento; fechas en formato YYYY-MM-DD"
// @Success 201 {array} recordResponse
// @Failure 400 {string} string "invalid json / scope inválido / falta treatment_type_id"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "unknown treatment type / batch not found or empty"
// @Router /treatments [post]
func registerTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req registerTreatmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		target, err := targetFromRequest(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		appliedAt, err := time.Parse("2006-01-02", strings.TrimSpace(req.AppliedAt))
		if err != nil {
			http.Error(w, "applied_at must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var override *time.Time
		if strings.TrimSpace(req.NextDue) != "" {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(req.NextDue))
			if err != nil {
				http.Error(w, "next_due must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			override = &t
		}

		recs, err := svc.Register(r.Context(), claims.UserID, target, RegisterInput{
			TreatmentTypeID: req.TreatmentTypeID,
			AppliedAt:       appliedAt,
			NextDueOverride: override,
			Lot:             req.Lot,
			Manufacturer:    req.Manufacturer,
			Responsible:     req.Responsible,
			Notes:           req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, catalog.ErrUnknownType), errors.Is(err, ErrBatchEmpty):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := make([]recordResponse, 0, len(recs))
		for _, rec := range recs {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

type previewRequest struct {
	TreatmentTypeID string `json:"treatment_type_id"`
	AppliedAt       string `json:"applied_at"` // YYYY-MM-DD
}

type previewResponse struct {
	NextDue *time.Time `json:"next_due"`
}

// previewNextDueHandler calcula la fecha de refuerzo sin escribir nada.
func previewNextDueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		appliedAt, err := time.Parse("2006-01-02", strings.TrimSpace(req.AppliedAt))
		if err != nil {
			http.Error(w, "applied_at must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		due, err := svc.Preview(appliedAt, req.TreatmentTypeID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, previewResponse{NextDue: due})
	}
}

func listTreatmentTypesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		types := svc.catalog.List()
		out := make([]treatmentTypeResponse, 0, len(types))
		for _, t := range types {
			phases := make([]string, 0, len(t.Phases))
			for _, p := range t.Phases {
				phases = append(phases, string(p))
			}
			out = append(out, treatmentTypeResponse{
				ID:             t.ID,
				Name:           t.Name,
				IntervalMonths: t.IntervalMonths,
				MinAgeMonths:   t.MinAgeMonths,
				MaxAgeMonths:   t.MaxAgeMonths,
				Phases:         phases,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func listAnimalTreatmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		animalID := chi.URLParam(r, "animalID")

		// El animal debe ser del owner autenticado.
		a, err := svc.dir.GetByID(r.Context(), animalID)
		if err != nil || a.OwnerUserID != claims.UserID {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByAnimal(r.Context(), animalID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func targetFromRequest(req registerTreatmentRequest) (Target, error) {
	switch strings.TrimSpace(req.Scope) {
	case "animal":
		if strings.TrimSpace(req.AnimalID) == "" {
			return nil, errors.New("animal_id required for scope animal")
		}
		return Individual{AnimalID: strings.TrimSpace(req.AnimalID)}, nil
	case "batch":
		if req.Batch == "" {
			return nil, errors.New("batch required for scope batch")
		}
		return Batch{Label: req.Batch}, nil
	default:
		return nil, errors.New("scope must be animal or batch")
	}
}

func toRecordResponse(rec Record) recordResponse {
	return recordResponse{
		ID:              rec.ID,
		OwnerUserID:     rec.OwnerUserID,
		AnimalID:        rec.AnimalID,
		TreatmentTypeID: rec.TreatmentTypeID,
		AppliedAt:       rec.AppliedAt,
		NextDue:         rec.NextDue,
		Lot:             rec.Lot,
		Manufacturer:    rec.Manufacturer,
		Responsible:     rec.Responsible,
		Notes:           rec.Notes,
		CreatedAt:       rec.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
