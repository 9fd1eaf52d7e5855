package alerts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"herd-health/internal/domain/animals"
	"herd-health/internal/domain/calendar"
	"herd-health/internal/domain/catalog"
	"herd-health/internal/domain/treatments"
	"herd-health/internal/platform/logger"

	"github.com/google/uuid"
)

// Engine re-evalúa la agenda de un owner cuando cambian sus datos y emite
// alertas deduplicadas por los vencimientos nuevos.
//
// Ciclo por owner: Idle -> (cambio de datos) -> Evaluating -> Idle.
// La evaluación calcula un fingerprint de "hoy" + ids vencidos; si no cambió
// respecto del último visto, es no-op (evita re-alertar en cada re-render o
// poll sin cambios reales).
type Engine struct {
	store      *Store
	trtRepo    treatments.Repository
	calRepo    calendar.Repository
	animalRepo animals.Repository
	catalog    *catalog.Catalog
	log        logger.Logger
	now        func() time.Time

	// mu serializa la evaluación: el check del fingerprint y la emisión son
	// check-then-act y no debe colarse otra evaluación en el medio.
	mu     sync.Mutex
	lastFP map[string]string
}

func NewEngine(store *Store, trtRepo treatments.Repository, calRepo calendar.Repository, animalRepo animals.Repository, cat *catalog.Catalog, log logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		store:      store,
		trtRepo:    trtRepo,
		calRepo:    calRepo,
		animalRepo: animalRepo,
		catalog:    cat,
		log:        log,
		now:        time.Now,
		lastFP:     make(map[string]string),
	}
}

func (e *Engine) Store() *Store {
	return e.store
}

// DataChanged es el hook que cuelgan los servicios de treatments/calendar.
// Evalúa sincrónicamente; los errores se loguean y no cortan el ciclo.
func (e *Engine) DataChanged(ownerUserID string) {
	if _, err := e.Evaluate(context.Background(), ownerUserID); err != nil {
		e.log.Error("overdue evaluation failed", map[string]any{
			"owner": ownerUserID,
			"err":   err.Error(),
		})
	}
}

// Evaluate corre una pasada de evaluación para el owner y devuelve cuántas
// notificaciones nuevas emitió.
func (e *Engine) Evaluate(ctx context.Context, ownerUserID string) (int, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return 0, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	today := treatments.DateOnly(e.now())

	recs, err := e.trtRepo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return 0, err
	}
	obs, err := e.calRepo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return 0, err
	}

	overdueRecs := make([]treatments.Record, 0)
	for _, r := range recs {
		if r.NextDue != nil && treatments.DateOnly(*r.NextDue).Before(today) {
			overdueRecs = append(overdueRecs, r)
		}
	}

	overdueObs := make([]calendar.Obligation, 0)
	for _, o := range obs {
		if o.Category != calendar.CategoryTreatment || o.Completed {
			continue
		}
		if treatments.DateOnly(o.Date).Before(today) {
			overdueObs = append(overdueObs, o)
		}
	}

	fp := fingerprint(today, overdueRecs, overdueObs)
	if e.lastFP[ownerUserID] == fp {
		return 0, nil
	}

	emitted := 0
	for _, r := range overdueRecs {
		title, msg := e.recordAlert(ctx, r, today)
		if e.emit(ownerUserID, title, msg, today) {
			emitted++
		}
	}
	for _, o := range overdueObs {
		days := daysBetween(treatments.DateOnly(o.Date), today)
		title := "Tratamiento agendado vencido"
		msg := fmt.Sprintf("%s venció hace %d dia(s)", o.Title, days)
		if e.emit(ownerUserID, title, msg, today) {
			emitted++
		}
	}

	e.lastFP[ownerUserID] = fp
	return emitted, nil
}

// EvaluateAll re-evalúa todos los owners ya vistos por el motor (la usa el
// cron de medianoche: al cambiar "hoy" cambia el fingerprint). Un error en
// un owner se loguea y no frena a los demás.
func (e *Engine) EvaluateAll(ctx context.Context) {
	e.mu.Lock()
	owners := make([]string, 0, len(e.lastFP))
	for o := range e.lastFP {
		owners = append(owners, o)
	}
	e.mu.Unlock()

	sort.Strings(owners)
	for _, o := range owners {
		if _, err := e.Evaluate(ctx, o); err != nil {
			e.log.Error("overdue evaluation failed", map[string]any{
				"owner": o,
				"err":   err.Error(),
			})
		}
	}
}

func (e *Engine) recordAlert(ctx context.Context, r treatments.Record, today time.Time) (title, msg string) {
	days := daysBetween(treatments.DateOnly(*r.NextDue), today)

	name := r.TreatmentTypeID
	if tt, err := e.catalog.Get(r.TreatmentTypeID); err == nil {
		name = tt.Name
	}

	label := r.AnimalID
	if a, err := e.animalRepo.GetByID(ctx, r.AnimalID); err == nil {
		label = a.Tag
		if a.Name != "" {
			label = a.Name + " (" + a.Tag + ")"
		}
	}

	title = "Tratamiento vencido"
	msg = fmt.Sprintf("%s de %s venció hace %d dia(s)", name, label, days)
	return title, msg
}

// emit aplica el predicado de dedup del mismo día y publica si corresponde.
// Sin await entre el check y el Publish: el dedup es seguro bajo e.mu.
func (e *Engine) emit(ownerUserID, title, msg string, today time.Time) bool {
	if e.store.HasUnreadSameDay(ownerUserID, title, msg, today) {
		return false
	}
	e.store.Publish(Notification{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Title:       title,
		Message:     msg,
		Kind:        KindWarning,
		Channel:     ChannelInApp,
		Read:        false,
		CreatedAt:   e.now(),
	})
	return true
}

// fingerprint identifica el estado de vencimientos de hoy: fecha + ids
// vencidos ordenados. Igual fingerprint => evaluación no-op.
func fingerprint(today time.Time, recs []treatments.Record, obs []calendar.Obligation) string {
	ids := make([]string, 0, len(recs)+len(obs))
	for _, r := range recs {
		ids = append(ids, "t:"+r.ID)
	}
	for _, o := range obs {
		ids = append(ids, "c:"+o.ID)
	}
	sort.Strings(ids)
	return today.Format("2006-01-02") + "|" + strings.Join(ids, ",")
}

func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d.Hours() / 24)
	if d%(24*time.Hour) != 0 {
		days++ // techo: una fracción de día cuenta entero
	}
	return days
}
