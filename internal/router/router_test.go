package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"health-assistant-api/internal/router"
)

type medicationJSON struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	TimeOfDay []string `json:"time_of_day"`
	NextDose  *string  `json:"next_dose"`
	IsActive  bool     `json:"is_active"`
	Bucket    string   `json:"bucket"`
}

func TestHTTP_EndToEnd_Medications(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "patient-1"

	// 1) Alta de un medicamento vigente (abierto, sin end_date)
	medID := createMedication(t, ts.URL, userID, map[string]any{
		"name":        "Ibuprofeno",
		"dosage":      "400mg",
		"frequency":   "twice-daily",
		"time_of_day": []string{"08:00", "20:00"},
		"start_date":  "2000-01-01",
	})

	// 2) Alta de un tratamiento ya terminado
	createMedication(t, ts.URL, userID, map[string]any{
		"name":        "Amoxicilina",
		"dosage":      "500mg",
		"frequency":   "three-times-daily",
		"time_of_day": []string{"07:00", "15:00", "23:00"},
		"start_date":  "2000-01-01",
		"end_date":    "2000-01-10",
	})

	// 3) Alta de un tratamiento futuro
	createMedication(t, ts.URL, userID, map[string]any{
		"name":        "Vitamina D",
		"dosage":      "1000 UI",
		"frequency":   "once-daily",
		"time_of_day": []string{"09:00"},
		"start_date":  "2099-01-01",
	})

	// 4) Listado completo: 3 ítems, con derivados calculados
	{
		st, body := doReq(t, ts.URL, "GET", "/medications", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}
		var items []medicationJSON
		if err := json.Unmarshal(body, &items); err != nil {
			t.Fatalf("unmarshal list: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 medications, got %d", len(items))
		}
		for _, it := range items {
			if it.Name == "Ibuprofeno" {
				if !it.IsActive || it.Bucket != "current" {
					t.Errorf("Ibuprofeno: active=%v bucket=%s", it.IsActive, it.Bucket)
				}
				if it.NextDose == nil {
					t.Errorf("Ibuprofeno: next_dose nil para medicamento vigente")
				}
			}
			if it.Name == "Amoxicilina" && it.Bucket != "past" {
				t.Errorf("Amoxicilina bucket = %s, want past", it.Bucket)
			}
			if it.Name == "Vitamina D" && it.Bucket != "future" {
				t.Errorf("Vitamina D bucket = %s, want future", it.Bucket)
			}
		}
	}

	// 5) Filtro por estado
	{
		st, body := doReq(t, ts.URL, "GET", "/medications?status=current", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list current, got %d body=%s", st, string(body))
		}
		var items []medicationJSON
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].Name != "Ibuprofeno" {
			t.Fatalf("status=current: got %+v", items)
		}
	}

	// 6) Búsqueda por texto
	{
		st, body := doReq(t, ts.URL, "GET", "/medications?q=amoxi", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 search, got %d body=%s", st, string(body))
		}
		var items []medicationJSON
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].Name != "Amoxicilina" {
			t.Fatalf("q=amoxi: got %+v", items)
		}
	}

	// 7) Filtro inválido => 400
	{
		st, _ := doReq(t, ts.URL, "GET", "/medications?status=nope", userID, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown status, got %d", st)
		}
	}

	// 8) Resumen de próximas tomas: solo el medicamento vigente
	{
		st, body := doReq(t, ts.URL, "GET", "/medications/summary", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 summary, got %d body=%s", st, string(body))
		}
		var items []medicationJSON
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].Name != "Ibuprofeno" {
			t.Fatalf("summary: got %+v", items)
		}
	}

	// 9) Edición completa y relectura
	{
		st, body := doReq(t, ts.URL, "PUT", "/medications/"+medID, userID, map[string]any{
			"name":        "Ibuprofeno 600",
			"dosage":      "600mg",
			"frequency":   "once-daily",
			"time_of_day": []string{"10:00"},
			"start_date":  "2000-01-01",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/medications/"+medID, userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get, got %d body=%s", st, string(body))
		}
		var got medicationJSON
		_ = json.Unmarshal(body, &got)
		if got.Name != "Ibuprofeno 600" || len(got.TimeOfDay) != 1 {
			t.Fatalf("after update: %+v", got)
		}
	}

	// 10) Otro usuario no ve ni puede tocar el medicamento
	{
		st, _ := doReq(t, ts.URL, "GET", "/medications/"+medID, "patient-2", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 cross-user get, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/medications/"+medID, "patient-2", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 cross-user delete, got %d", st)
		}
	}

	// 11) Borrado por el dueño
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/medications/"+medID, userID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/medications/"+medID, userID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_Medications_ValidationAndAuth(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// Sin identidad => 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/medications", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", st)
		}
	}

	// end_date anterior a start_date => 400
	{
		st, body := doReq(t, ts.URL, "POST", "/medications", "patient-1", map[string]any{
			"name":        "Mal cargado",
			"dosage":      "1",
			"frequency":   "once-daily",
			"time_of_day": []string{"08:00"},
			"start_date":  "2025-03-10",
			"end_date":    "2025-03-01",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 end<start, got %d body=%s", st, string(body))
		}
	}

	// Horario no parseable => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/medications", "patient-1", map[string]any{
			"name":        "Mal cargado",
			"dosage":      "1",
			"frequency":   "once-daily",
			"time_of_day": []string{"25:99"},
			"start_date":  "2025-03-10",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 bad time_of_day, got %d", st)
		}
	}

	// Frecuencia desconocida => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/medications", "patient-1", map[string]any{
			"name":        "Mal cargado",
			"dosage":      "1",
			"frequency":   "hourly",
			"time_of_day": []string{"08:00"},
			"start_date":  "2025-03-10",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 unknown frequency, got %d", st)
		}
	}
}

func TestHTTP_EndToEnd_AppointmentsAndProfile(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "patient-1"

	// Turno futuro
	apptID := createAppointment(t, ts.URL, userID, map[string]any{
		"doctor_name": "Dra. Suárez",
		"specialty":   "Cardiología",
		"date":        "2099-06-15",
		"time":        "10:30",
		"location":    "Consultorio 4",
	})

	// Turno pasado
	createAppointment(t, ts.URL, userID, map[string]any{
		"doctor_name": "Dr. Paz",
		"date":        "2000-01-15",
		"time":        "09:00",
	})

	// Filtro upcoming
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments?when=upcoming", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 upcoming, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].ID != apptID {
			t.Fatalf("when=upcoming: got %+v", items)
		}
		if items[0].Status != "scheduled" {
			t.Errorf("default status = %s, want scheduled", items[0].Status)
		}
	}

	// Perfil: 404 hasta el primer PUT, luego upsert completo
	{
		st, _ := doReq(t, ts.URL, "GET", "/profile", userID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 profile before put, got %d", st)
		}

		st, body := doReq(t, ts.URL, "PUT", "/profile", userID, map[string]any{
			"full_name":    "Ana Pérez",
			"blood_type":   "0+",
			"pushover_key": "u-key-1",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 put profile, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/profile", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get profile, got %d body=%s", st, string(body))
		}
		var p struct {
			FullName    string `json:"full_name"`
			PushoverKey string `json:"pushover_key"`
		}
		_ = json.Unmarshal(body, &p)
		if p.FullName != "Ana Pérez" || p.PushoverKey != "u-key-1" {
			t.Fatalf("profile roundtrip: %+v", p)
		}
	}

	// El perfil es por usuario
	{
		st, _ := doReq(t, ts.URL, "GET", "/profile", "patient-2", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 profile other user, got %d", st)
		}
	}
}

func createMedication(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medications", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create medication: missing id body=%s", string(body))
	}
	return resp.ID
}

func createAppointment(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/appointments", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create appointment, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create appointment: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
