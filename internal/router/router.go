package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "herd-health/internal/adapters/storage/memory"
	pg "herd-health/internal/adapters/storage/postgres"
	sqlitedb "herd-health/internal/adapters/storage/sqlite"
	"herd-health/internal/domain/agenda"
	"herd-health/internal/domain/alerts"
	"herd-health/internal/domain/animals"
	"herd-health/internal/domain/calendar"
	"herd-health/internal/domain/catalog"
	"herd-health/internal/domain/treatments"
	"herd-health/internal/middleware"
	"herd-health/internal/platform/logger"
	"herd-health/internal/ports/auth"

	_ "herd-health/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa ese *sql.DB como Postgres. Si no, decide
	// por env: DB_DSN => Postgres, SQLITE_PATH => SQLite, sino in-memory.
	DB *sql.DB

	Logger logger.Logger // nil => NewFromEnv

	// DisableCron evita el scheduler de medianoche (tests).
	DisableCron bool
}

// Deps expone lo construido por NewRouter que el caller necesita
// para el shutdown ordenado.
type Deps struct {
	Handler http.Handler
	Cron    *cron.Cron // nil si DisableCron
}

func NewRouter(opts Options) Deps {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		animalRepo animals.Repository
		trtRepo    treatments.Repository
		calRepo    calendar.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres no disponible, sigo con otro storage", map[string]any{"error": err.Error()})
			}
		}
	}

	switch {
	case db != nil:
		animalRepo = pg.NewAnimalsRepo(db)
		trtRepo = pg.NewTreatmentsRepo(db)
		calRepo = pg.NewCalendarRepo(db)
	case os.Getenv("SQLITE_PATH") != "":
		sdb, err := sqlitedb.Open(os.Getenv("SQLITE_PATH"))
		if err != nil {
			log.Error("sqlite no disponible, sigo en memoria", map[string]any{"error": err.Error()})
			animalRepo = mem.NewAnimalsRepo()
			trtRepo = mem.NewTreatmentsRepo()
			calRepo = mem.NewCalendarRepo()
		} else {
			animalRepo = sqlitedb.NewAnimalsRepo(sdb)
			trtRepo = sqlitedb.NewTreatmentsRepo(sdb)
			calRepo = sqlitedb.NewCalendarRepo(sdb)
		}
	default:
		animalRepo = mem.NewAnimalsRepo()
		trtRepo = mem.NewTreatmentsRepo()
		calRepo = mem.NewCalendarRepo()
	}

	cat := catalog.Default()

	// Services por módulo
	animalsSvc := animals.NewService(animalRepo)
	trtSvc := treatments.NewService(trtRepo, animalsSvc, cat)
	calSvc := calendar.NewService(calRepo)
	agendaSvc := agenda.NewService(calSvc, trtRepo, cat)

	// Motor de alertas: cada mutación dispara una evaluación del dueño.
	store := alerts.NewStore()
	engine := alerts.NewEngine(store, trtRepo, calRepo, animalRepo, cat, log)
	trtSvc.OnChange(engine.DataChanged)
	calSvc.OnChange(engine.DataChanged)
	agendaSvc.OnChange(engine.DataChanged)

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	treatments.RegisterRoutes(r, trtSvc)
	calendar.RegisterRoutes(r, calSvc)
	agenda.RegisterRoutes(r, agendaSvc)
	alerts.RegisterRoutes(r, store)

	deps := Deps{Handler: r}
	if !opts.DisableCron {
		deps.Cron = engine.StartDailyReevaluation()
	}
	return deps
}
