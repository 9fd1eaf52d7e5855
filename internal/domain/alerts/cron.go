package alerts

import (
	"context"

	"github.com/robfig/cron/v3"
)

// StartDailyReevaluation agenda la re-evaluación de medianoche: el
// fingerprint incluye "hoy", así que el cambio de fecha habilita alertas
// nuevas aunque ningún dato haya cambiado. Devuelve el cron para que el
// caller lo frene en shutdown.
func (e *Engine) StartDailyReevaluation() *cron.Cron {
	c := cron.New()
	// @midnight == "0 0 * * *"
	_, _ = c.AddFunc("@midnight", func() {
		e.EvaluateAll(context.Background())
	})
	c.Start()
	return c
}
