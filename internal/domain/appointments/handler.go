package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"health-assistant-api/internal/domain/schedule"
	"health-assistant-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))

		ar.Get("/{appointmentID}", getAppointmentHandler(svc))
		ar.Put("/{appointmentID}", updateAppointmentHandler(svc))
		ar.Delete("/{appointmentID}", deleteAppointmentHandler(svc))
	})
}

type appointmentRequest struct {
	DoctorName string `json:"doctor_name"`
	Specialty  string `json:"specialty"`
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM 24h
	Location   string `json:"location"`
	Notes      string `json:"notes"`
	Status     Status `json:"status" enums:"scheduled,completed,cancelled"` // opcional, default scheduled
}

type appointmentResponse struct {
	ID         string    `json:"id"`
	DoctorName string    `json:"doctor_name"`
	Specialty  string    `json:"specialty,omitempty"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Status     Status    `json:"status"`
	StartsAt   time.Time `json:"starts_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// createAppointmentHandler godoc
// @Summary Reservar turno
// @Description Crea un turno médico para el usuario autenticado. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags appointments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body appointmentRequest true "Datos del turno; date en YYYY-MM-DD, time en HH:MM"
// @Success 201 {object} appointmentResponse
// @Failure 400 {string} string "invalid json / fecha u hora inválidas"
// @Failure 401 {string} string "unauthorized"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req appointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := toCreateInput(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

// listAppointmentsHandler godoc
// @Summary Listar turnos
// @Description Lista los turnos del usuario ordenados por fecha+hora ascendente. `when` filtra upcoming (presente o futuro) / past; `q` busca en médico, especialidad y lugar.
// @Tags appointments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param when query string false "upcoming, past o all (default all)"
// @Param q query string false "Búsqueda case-insensitive"
// @Success 200 {array} appointmentResponse
// @Failure 400 {string} string "when inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		when, ok := ParseWhenFilter(r.URL.Query().Get("when"))
		if !ok {
			http.Error(w, "when must be one of upcoming, past, all", http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID, Filter{
			When:  when,
			Query: r.URL.Query().Get("q"),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getAppointmentHandler godoc
// @Summary Obtener un turno
// @Tags appointments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID del turno"
// @Success 200 {object} appointmentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "appointment not found"
// @Router /appointments/{appointmentID} [get]
func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.Get(r.Context(), chi.URLParam(r, "appointmentID"), claims.UserID)
		if err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// updateAppointmentHandler godoc
// @Summary Editar turno
// @Description Reemplaza los campos mutables del turno (full replace). Sirve también para cambiar el status (completed/cancelled).
// @Tags appointments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID del turno"
// @Param payload body appointmentRequest true "Registro completo del turno"
// @Success 200 {object} appointmentResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "appointment not found"
// @Router /appointments/{appointmentID} [put]
func updateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req appointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := toCreateInput(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "appointmentID"), claims.UserID, in)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "appointment not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// deleteAppointmentHandler godoc
// @Summary Eliminar turno
// @Tags appointments
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID del turno"
// @Success 204 {string} string "sin contenido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "appointment not found"
// @Router /appointments/{appointmentID} [delete]
func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "appointmentID"), claims.UserID); err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toCreateInput(req appointmentRequest) (CreateInput, error) {
	in := CreateInput{
		DoctorName: req.DoctorName,
		Specialty:  req.Specialty,
		Time:       req.Time,
		Location:   req.Location,
		Notes:      req.Notes,
		Status:     req.Status,
	}

	if strings.TrimSpace(req.Date) != "" {
		t, err := schedule.ParseDate(req.Date)
		if err != nil {
			return CreateInput{}, errors.New("date must be YYYY-MM-DD")
		}
		in.Date = &t
	}

	return in, nil
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:         a.ID,
		DoctorName: a.DoctorName,
		Specialty:  a.Specialty,
		Date:       a.Date.Format(schedule.DateLayout),
		Time:       a.Time,
		Location:   a.Location,
		Notes:      a.Notes,
		Status:     a.Status,
		StartsAt:   a.StartsAt(),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos
// módulos para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
