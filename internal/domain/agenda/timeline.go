package agenda

import (
	"sort"
	"time"

	"herd-health/internal/domain/calendar"
	"herd-health/internal/domain/treatments"
)

const (
	upcomingWindowDays = 7
	pastWindowDays     = 30
)

// BuildTimeline proyecta las dos fuentes en la agenda unificada y clasifica.
//
// Función pura sobre snapshots inmutables de sus entradas: se recalcula en
// cada lectura, nunca se cachea, así la vista siempre es consistente con los
// últimos datos. Toda comparación es fecha-solo (hora y zona se descartan
// antes de comparar, para evitar off-by-one por medianoche local).
//
// Reglas:
//   - Upcoming: hoy <= fecha <= hoy+7 y no cumplida. Orden por fecha asc.
//   - Overdue:  fecha < hoy y no cumplida. Orden por fecha asc.
//   - Past:     hoy-30 <= fecha < hoy, O cumplida (sin importar fecha).
//     Orden por fecha desc (más reciente primero).
//
// Empates de fecha: estable, en el orden de llegada (garantía deliberadamente
// laxa, sin clave secundaria).
func BuildTimeline(today time.Time, obs []calendar.Obligation, recs []treatments.Record) Timeline {
	entries := merge(obs, recs)

	t0 := treatments.DateOnly(today)
	upcomingCut := t0.AddDate(0, 0, upcomingWindowDays)
	pastCut := t0.AddDate(0, 0, -pastWindowDays)

	var tl Timeline
	for _, e := range entries {
		d := treatments.DateOnly(e.Date)

		if !e.Completed && !d.Before(t0) && !d.After(upcomingCut) {
			tl.Upcoming = append(tl.Upcoming, e)
		}
		if !e.Completed && d.Before(t0) {
			tl.Overdue = append(tl.Overdue, e)
		}
		if (d.Before(t0) && !d.Before(pastCut)) || e.Completed {
			tl.Past = append(tl.Past, e)
		}
	}

	sort.SliceStable(tl.Upcoming, func(i, j int) bool {
		return tl.Upcoming[i].Date.Before(tl.Upcoming[j].Date)
	})
	sort.SliceStable(tl.Overdue, func(i, j int) bool {
		return tl.Overdue[i].Date.Before(tl.Overdue[j].Date)
	})
	sort.SliceStable(tl.Past, func(i, j int) bool {
		return tl.Past[i].Date.After(tl.Past[j].Date)
	})

	return tl
}

// merge toma las obligaciones de calendario verbatim y proyecta cada registro
// de tratamiento con refuerzo pendiente en una entrada sintética: fecha = due,
// category = treatment, completed = siempre false (un refuerzo pendiente no
// está cumplido por construcción; el cumplimiento es un registro NUEVO, no una
// mutación de este).
func merge(obs []calendar.Obligation, recs []treatments.Record) []Entry {
	out := make([]Entry, 0, len(obs)+len(recs))

	for _, o := range obs {
		out = append(out, Entry{
			ID:          o.ID,
			Title:       o.Title,
			Description: o.Description,
			Date:        o.Date,
			Category:    string(o.Category),
			Icon:        o.Icon,
			Completed:   o.Completed,
			Source:      SourceCalendar,
		})
	}

	for _, r := range recs {
		if r.NextDue == nil {
			continue
		}
		out = append(out, Entry{
			ID:        r.ID,
			Title:     r.TreatmentTypeID,
			Date:      *r.NextDue,
			Category:  string(calendar.CategoryTreatment),
			Icon:      "syringe",
			Completed: false,
			Source:    SourceTreatment,
		})
	}

	return out
}
