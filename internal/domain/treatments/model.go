package treatments

import "time"

// Record es la aplicación de un tratamiento a UN animal.
// El registro histórico es inmutable: una corrección se expresa creando
// un registro nuevo, nunca mutando este.
type Record struct {
	ID          string
	OwnerUserID string

	AnimalID        string
	TreatmentTypeID string

	AppliedAt time.Time

	// NextDue solo existe si el tipo de tratamiento tiene intervalo
	// (o si el caller lo fijó a mano). Fecha-solo, medianoche UTC.
	NextDue *time.Time

	Lot          string
	Manufacturer string
	Responsible  string
	Notes        string

	CreatedAt time.Time
}
