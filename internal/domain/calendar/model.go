package calendar

import "time"

// Category clasifica una obligación del calendario.
// Variante cerrada: los consumos hacen switch/validación exhaustiva.
type Category string

const (
	CategoryTask        Category = "task"
	CategoryAppointment Category = "appointment"
	CategoryMaintenance Category = "maintenance"
	CategoryHealth      Category = "health"
	CategoryFeeding     Category = "feeding"
	CategoryTreatment   Category = "treatment"
)

var KnownCategories = []Category{
	CategoryTask,
	CategoryAppointment,
	CategoryMaintenance,
	CategoryHealth,
	CategoryFeeding,
	CategoryTreatment,
}

func IsKnownCategory(c Category) bool {
	for _, k := range KnownCategories {
		if k == c {
			return true
		}
	}
	return false
}

// Obligation es una entrada de calendario: tarea ad hoc del owner o un
// tratamiento agendado a futuro (category = treatment, completed = false
// mientras no se aplique).
//
// Una obligación de tratamiento completada es evidencia de cumplimiento pero
// es distinta de un treatments.Record salvo vínculo explícito.
type Obligation struct {
	ID          string
	OwnerUserID string

	Title       string
	Description string

	// Date es fecha-solo (medianoche UTC).
	Date time.Time

	Category Category
	Icon     string

	Completed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
