package profile

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
	r.Route("/profile", func(pr chi.Router) {
		pr.Get("/", getProfileHandler(svc))
		pr.Put("/", putProfileHandler(svc))
	})
}

type profileRequest struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD opcional
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`

	BloodType  string `json:"blood_type"`
	Allergies  string `json:"allergies"`
	Conditions string `json:"conditions"`

	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`

	PushoverKey string `json:"pushover_key"`
}

type profileResponse struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Phone       string `json:"phone,omitempty"`

	BloodType  string `json:"blood_type,omitempty"`
	Allergies  string `json:"allergies,omitempty"`
	Conditions string `json:"conditions,omitempty"`

	EmergencyContact string `json:"emergency_contact,omitempty"`
	EmergencyPhone   string `json:"emergency_phone,omitempty"`

	PushoverKey string `json:"pushover_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// getProfileHandler godoc
// @Summary Obtener perfil del paciente
// @Tags profile
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "profile not found"
// @Router /profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// putProfileHandler godoc
// @Summary Crear o reemplazar perfil
// @Description Upsert del perfil del usuario autenticado (full replace). pushover_key habilita los recordatorios push de tomas.
// @Tags profile
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body profileRequest true "Perfil completo"
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "invalid json / full_name requerido"
// @Failure 401 {string} string "unauthorized"
// @Router /profile [put]
func putProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req profileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := PutInput{
			FullName:         req.FullName,
			Gender:           req.Gender,
			Phone:            req.Phone,
			BloodType:        req.BloodType,
			Allergies:        req.Allergies,
			Conditions:       req.Conditions,
			EmergencyContact: req.EmergencyContact,
			EmergencyPhone:   req.EmergencyPhone,
			PushoverKey:      req.PushoverKey,
		}

		if strings.TrimSpace(req.DateOfBirth) != "" {
			t, err := schedule.ParseDate(req.DateOfBirth)
			if err != nil {
				http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.DateOfBirth = &t
		}

		p, err := svc.Put(r.Context(), claims.UserID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "full_name is required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func toProfileResponse(p Profile) profileResponse {
	resp := profileResponse{
		FullName:         p.FullName,
		Gender:           p.Gender,
		Phone:            p.Phone,
		BloodType:        p.BloodType,
		Allergies:        p.Allergies,
		Conditions:       p.Conditions,
		EmergencyContact: p.EmergencyContact,
		EmergencyPhone:   p.EmergencyPhone,
		PushoverKey:      p.PushoverKey,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.DateOfBirth != nil {
		resp.DateOfBirth = p.DateOfBirth.Format(schedule.DateLayout)
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
