package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "health-assistant-api/internal/adapters/storage/memory"
	pg "health-assistant-api/internal/adapters/storage/postgres"
	"health-assistant-api/internal/domain/appointments"
	"health-assistant-api/internal/domain/medications"
	"health-assistant-api/internal/domain/profile"
	"health-assistant-api/internal/middleware"
	"health-assistant-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "health-assistant-api/docs"
)

// Repos agrupa los repositorios de todos los módulos, para que main
// pueda compartirlos con el scheduler de recordatorios.
type Repos struct {
	Medications  medications.Repository
	Appointments appointments.Repository
	Profiles     profile.Repository
}

// MemoryRepos arma el set in-memory completo (dev y tests).
func MemoryRepos() Repos {
	return Repos{
		Medications:  mem.NewMedicationsRepo(),
		Appointments: mem.NewAppointmentsRepo(),
		Profiles:     mem.NewProfileRepo(),
	}
}

// PostgresRepos arma el set sobre una conexión ya abierta.
func PostgresRepos(db *sql.DB) Repos {
	return Repos{
		Medications:  pg.NewMedicationsRepo(db),
		Appointments: pg.NewAppointmentsRepo(db),
		Profiles:     pg.NewProfileRepo(db),
	}
}

func (r Repos) complete() bool {
	return r.Medications != nil && r.Appointments != nil && r.Profiles != nil
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: repos ya armados (main los comparte con el scheduler).
	// Si falta alguno, se resuelve por env: DB_DSN => Postgres; si no,
	// in-memory.
	Repos Repos
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	repos := opts.Repos
	if !repos.complete() {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			if db, err := pg.Open(dsn); err == nil {
				repos = PostgresRepos(db)
			}
		}
	}
	if !repos.complete() {
		repos = MemoryRepos()
	}

	// Services por módulo
	medsSvc := medications.NewService(repos.Medications)
	apptsSvc := appointments.NewService(repos.Appointments)
	profileSvc := profile.NewService(repos.Profiles)

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc)
	appointments.RegisterRoutes(r, apptsSvc)
	profile.RegisterRoutes(r, profileSvc)

	return r
}
