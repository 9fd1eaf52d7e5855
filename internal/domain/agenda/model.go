package agenda

import "time"

// Source indica de qué módulo salió una entrada de la agenda unificada.
type Source string

const (
	SourceCalendar  Source = "calendar"
	SourceTreatment Source = "treatment"
)

// Entry es la proyección efímera de una obligación: se calcula en cada
// lectura a partir de calendar + treatments y nunca se persiste ni cachea.
type Entry struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Category    string
	Icon        string
	Completed   bool
	Source      Source
}

// Timeline es la vista clasificada de todas las obligaciones.
// Una entrada vencida reciente y sin cumplir aparece en Overdue Y en Past:
// Past es la vista de historial de los últimos 30 días.
type Timeline struct {
	Upcoming []Entry
	Overdue  []Entry
	Past     []Entry
}

// ObligationRef identifica la obligación sobre la que opera la máquina de
// estados aplicar/reabrir. Variante cerrada con switch exhaustivo.
type ObligationRef interface {
	isRef()
}

// CalendarRef referencia una obligación de calendario.
type CalendarRef struct {
	ObligationID string
}

// TreatmentRef referencia el refuerzo pendiente de un registro de tratamiento.
type TreatmentRef struct {
	RecordID string
}

func (CalendarRef) isRef()  {}
func (TreatmentRef) isRef() {}
