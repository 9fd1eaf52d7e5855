package treatments

// Target es el scope de un registro de tratamiento: un animal puntual o un
// lote completo. Variante cerrada: cada consumo hace type switch exhaustivo,
// agregar un scope nuevo obliga a tocar todos los switches.
type Target interface {
	isTarget()
}

// Individual apunta a un animal explícito.
type Individual struct {
	AnimalID string
}

// Batch apunta a todos los animales cuya etiqueta de lote coincide
// exactamente (case-sensitive) con Label.
type Batch struct {
	Label string
}

func (Individual) isTarget() {}
func (Batch) isTarget()      {}
