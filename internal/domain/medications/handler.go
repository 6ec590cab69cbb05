package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"health-assistant-api/internal/domain/schedule"
	"health-assistant-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const defaultSummarySize = 3

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))

		// Resumen "próximas tomas" para el dashboard
		mr.Get("/summary", upcomingSummaryHandler(svc))

		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Put("/{medicationID}", updateMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc))
	})
}

// medicationRequest es el cuerpo de alta/edición de un medicamento.
// La edición es reemplazo completo de los campos mutables (no PATCH).
type medicationRequest struct {
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Frequency string   `json:"frequency" enums:"once-daily,twice-daily,three-times-daily,four-times-daily,every-other-day,weekly,as-needed"`
	TimeOfDay []string `json:"time_of_day"` // "HH:MM" 24h
	StartDate string   `json:"start_date"`  // YYYY-MM-DD
	EndDate   string   `json:"end_date"`    // YYYY-MM-DD, opcional

	Instructions string `json:"instructions"`
	PrescribedBy string `json:"prescribed_by"`
	Reason       string `json:"reason"`
	Refills      int    `json:"refills"`
	Pharmacy     string `json:"pharmacy"`
	Notes        string `json:"notes"`
}

// medicationResponse es el medicamento devuelto por la API, con sus
// campos derivados (next_dose, is_active, bucket, due_soon). Los
// derivados se recalculan en cada lectura, nunca se persisten.
type medicationResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Frequency string   `json:"frequency"`
	TimeOfDay []string `json:"time_of_day"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date,omitempty"`

	Instructions string `json:"instructions,omitempty"`
	PrescribedBy string `json:"prescribed_by,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Refills      int    `json:"refills"`
	Pharmacy     string `json:"pharmacy,omitempty"`
	Notes        string `json:"notes,omitempty"`

	NextDose *time.Time      `json:"next_dose"`
	IsActive bool            `json:"is_active"`
	Bucket   schedule.Bucket `json:"bucket"`
	DueSoon  bool            `json:"due_soon"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createMedicationHandler godoc
// @Summary Registrar medicamento
// @Description Crea un medicamento para el usuario autenticado. time_of_day debe traer al menos un horario HH:MM válido; end_date, si viene, no puede ser anterior a start_date. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body medicationRequest true "Datos del medicamento; fechas en YYYY-MM-DD"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / errores de validación del schedule"
// @Failure 401 {string} string "unauthorized"
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req medicationRequest
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

		writeJSON(w, http.StatusCreated, toMedicationResponse(a))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos
// @Description Lista los medicamentos del usuario anotados con next_dose / is_active / bucket / due_soon, filtrados por bucket temporal y búsqueda libre. Orden: próxima toma ascendente, sin próxima toma al final.
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param status query string false "Bucket a mostrar: current, past, future o all (default all)"
// @Param q query string false "Búsqueda case-insensitive en nombre, prescriptor, motivo y farmacia"
// @Success 200 {array} medicationResponse
// @Failure 400 {string} string "status inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		status, ok := ParseStatusFilter(r.URL.Query().Get("status"))
		if !ok {
			http.Error(w, "status must be one of current, past, future, all", http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID, Filter{
			Status: status,
			Query:  r.URL.Query().Get("q"),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toMedicationResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// upcomingSummaryHandler godoc
// @Summary Próximas tomas
// @Description Devuelve los N medicamentos activos con toma más cercana (default 3), para los widgets de resumen. Medicamentos sin next_dose calculable quedan fuera.
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param limit query int false "Cantidad máxima (1-20). Por defecto 3"
// @Success 200 {array} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /medications/summary [get]
func upcomingSummaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := defaultSummarySize
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 20 {
				limit = n
			}
		}

		items, err := svc.UpcomingSummary(r.Context(), claims.UserID, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toMedicationResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Obtener un medicamento
// @Description Devuelve un medicamento del usuario, anotado para el instante de la consulta.
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.Get(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID)
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(a))
	}
}

// updateMedicationHandler godoc
// @Summary Editar medicamento
// @Description Reemplaza todos los campos mutables del medicamento (full replace). Mismas validaciones que el alta.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Param payload body medicationRequest true "Registro completo del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid json / errores de validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [put]
func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req medicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := toCreateInput(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID, in)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medication not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(a))
	}
}

// deleteMedicationHandler godoc
// @Summary Eliminar medicamento
// @Tags medications
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 204 {string} string "sin contenido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID); err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toCreateInput(req medicationRequest) (CreateInput, error) {
	in := CreateInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		TimeOfDay: req.TimeOfDay,

		Instructions: req.Instructions,
		PrescribedBy: req.PrescribedBy,
		Reason:       req.Reason,
		Refills:      req.Refills,
		Pharmacy:     req.Pharmacy,
		Notes:        req.Notes,
	}

	if strings.TrimSpace(req.StartDate) != "" {
		t, err := schedule.ParseDate(req.StartDate)
		if err != nil {
			return CreateInput{}, errors.New("start_date must be YYYY-MM-DD")
		}
		in.StartDate = &t
	}
	if strings.TrimSpace(req.EndDate) != "" {
		t, err := schedule.ParseDate(req.EndDate)
		if err != nil {
			return CreateInput{}, errors.New("end_date must be YYYY-MM-DD")
		}
		in.EndDate = &t
	}

	return in, nil
}

func toMedicationResponse(a Annotated) medicationResponse {
	resp := medicationResponse{
		ID:        a.ID,
		Name:      a.Name,
		Dosage:    a.Dosage,
		Frequency: string(a.Frequency),
		TimeOfDay: a.TimeOfDay,
		StartDate: a.StartDate.Format(schedule.DateLayout),

		Instructions: a.Instructions,
		PrescribedBy: a.PrescribedBy,
		Reason:       a.Reason,
		Refills:      a.Refills,
		Pharmacy:     a.Pharmacy,
		Notes:        a.Notes,

		NextDose: a.NextDose,
		IsActive: a.Active,
		Bucket:   a.Bucket,
		DueSoon:  a.DueSoon,

		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	if a.EndDate != nil {
		resp.EndDate = a.EndDate.Format(schedule.DateLayout)
	}
	return resp
}

// writeJSON está duplicado intencionalmente en handlers de distintos
// módulos para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
