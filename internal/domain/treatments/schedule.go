package treatments

import "time"

// NextDue calcula la fecha del refuerzo: appliedAt + intervalMonths meses
// calendario, preservando el día del mes y clampeando al último día del mes
// destino si el día desborda (31/01 + 1 mes => 28/02 o 29/02).
//
// AddDate de la stdlib normaliza el desborde (31/01 + 1 mes => 02/03 o 03/03),
// así que el clamp es explícito.
//
// intervalMonths <= 0 => nil (dosis única, sin refuerzo).
// Pura y sin efectos; el resultado es fecha-solo en UTC.
func NextDue(appliedAt time.Time, intervalMonths int) *time.Time {
	if intervalMonths <= 0 {
		return nil
	}

	y, m, d := appliedAt.Date()

	// Primer día del mes destino; time.Date normaliza el mes fuera de rango.
	first := time.Date(y, m+time.Month(intervalMonths), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}

	due := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
	return &due
}

// DateOnly trunca a medianoche UTC preservando el día calendario del valor
// en su propia zona. Evita corrimientos de un día al comparar fechas que
// llegaron con hora/zona local.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
