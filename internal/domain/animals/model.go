package animals

import "time"

// Phase define la fase productiva del animal.
// @Enum calf, heifer, lactating, dry, pre_calving
type Phase string

const (
	PhaseCalf       Phase = "calf"
	PhaseHeifer     Phase = "heifer"
	PhaseLactating  Phase = "lactating"
	PhaseDry        Phase = "dry"
	PhasePreCalving Phase = "pre_calving"
)

// KnownPhases lista las fases válidas (para validación estricta).
var KnownPhases = []Phase{
	PhaseCalf,
	PhaseHeifer,
	PhaseLactating,
	PhaseDry,
	PhasePreCalving,
}

func IsKnownPhase(p Phase) bool {
	for _, k := range KnownPhases {
		if k == p {
			return true
		}
	}
	return false
}

// Animal representa un animal del rodeo registrado por un owner.
//
// Tag es texto libre y significativo por owner, pero NO se exige único:
// dos animales con el mismo tag son targets válidos para el resolver de lotes.
// Batch es la etiqueta de lote (texto libre); puede referenciarse antes de
// que ningún animal la lleve.
type Animal struct {
	ID          string
	OwnerUserID string

	Tag  string // caravana / identificación visible (requerido)
	Name string

	BirthDate *time.Time
	Phase     Phase
	Batch     string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
