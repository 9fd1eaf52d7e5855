package alerts

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"herd-health/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/notifications", func(nr chi.Router) {
		nr.Get("/", listNotificationsHandler(store))
		nr.Get("/unread-count", unreadCountHandler(store))

		nr.Post("/{notificationID}/read", markReadHandler(store))
		nr.Delete("/{notificationID}", dismissNotificationHandler(store))
		nr.Delete("/", dismissAllHandler(store))
	})
}

type notificationResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Kind        string    `json:"kind"`
	Channel     string    `json:"channel"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type unreadCountResponse struct {
	Unread int `json:"unread"`
}

// listNotificationsHandler godoc
// @Summary Listar notificaciones
// @Description Lista las notificaciones del usuario, más recientes primero. Salen del cache compartido del proceso, no de storage.
// @Tags notifications
// @Produce json
// @Success 200 {array} notificationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /notifications [get]
func listNotificationsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items := store.ListByOwner(claims.UserID)
		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNotificationResponse(n))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func unreadCountHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		writeJSON(w, http.StatusOK, unreadCountResponse{Unread: store.UnreadCount(claims.UserID)})
	}
}

func markReadHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := store.MarkRead(chi.URLParam(r, "notificationID"), claims.UserID); err != nil {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func dismissNotificationHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := store.Delete(chi.URLParam(r, "notificationID"), claims.UserID); err != nil {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func dismissAllHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		store.Clear(claims.UserID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func toNotificationResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:          n.ID,
		OwnerUserID: n.OwnerUserID,
		Title:       n.Title,
		Message:     n.Message,
		Kind:        string(n.Kind),
		Channel:     string(n.Channel),
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
