package catalog

import (
	"errors"
	"strings"

	"herd-health/internal/domain/animals"
)

var (
	ErrUnknownType  = errors.New("unknown treatment type")
	ErrInvalidInput = errors.New("invalid input")
)

// TreatmentType es data de referencia inmutable: el core nunca la muta.
// IntervalMonths == 0 significa dosis única (sin refuerzo).
// MinAgeMonths/MaxAgeMonths == 0 significa sin límite.
type TreatmentType struct {
	ID   string
	Name string

	IntervalMonths int

	MinAgeMonths int
	MaxAgeMonths int

	// Phases vacío = aplicable a cualquier fase.
	Phases []animals.Phase
}

// AppliesToPhase indica si el tipo es aplicable a la fase dada.
func (t TreatmentType) AppliesToPhase(p animals.Phase) bool {
	if len(t.Phases) == 0 {
		return true
	}
	for _, ph := range t.Phases {
		if ph == p {
			return true
		}
	}
	return false
}

// Catalog es lookup de solo lectura por id.
// Un id desconocido es error fatal para la operación, no un default recuperable.
type Catalog struct {
	byID  map[string]TreatmentType
	order []string
}

func New(types []TreatmentType) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]TreatmentType, len(types))}
	for _, t := range types {
		id := strings.TrimSpace(t.ID)
		if id == "" || strings.TrimSpace(t.Name) == "" {
			return nil, ErrInvalidInput
		}
		if _, dup := c.byID[id]; dup {
			return nil, ErrInvalidInput
		}
		if t.IntervalMonths < 0 || t.MinAgeMonths < 0 || t.MaxAgeMonths < 0 {
			return nil, ErrInvalidInput
		}
		t.ID = id
		c.byID[id] = t
		c.order = append(c.order, id)
	}
	return c, nil
}

func (c *Catalog) Get(id string) (TreatmentType, error) {
	t, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return TreatmentType{}, ErrUnknownType
	}
	return t, nil
}

func (c *Catalog) List() []TreatmentType {
	out := make([]TreatmentType, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Default devuelve el catálogo sanitario de rodeo que viene de fábrica.
func Default() *Catalog {
	c, err := New([]TreatmentType{
		{
			ID:             "brucelose",
			Name:           "Brucelose (B19)",
			IntervalMonths: 6,
			MinAgeMonths:   3,
			MaxAgeMonths:   8,
			Phases:         []animals.Phase{animals.PhaseCalf, animals.PhaseHeifer},
		},
		{
			ID:             "febre_aftosa",
			Name:           "Febre Aftosa",
			IntervalMonths: 6,
		},
		{
			ID:             "raiva",
			Name:           "Raiva Bovina",
			IntervalMonths: 12,
		},
		{
			ID:             "clostridiose",
			Name:           "Clostridiose",
			IntervalMonths: 12,
			MinAgeMonths:   4,
		},
		{
			ID:             "vermifugo",
			Name:           "Vermífugo",
			IntervalMonths: 4,
		},
		{
			ID:   "leptospirose",
			Name: "Leptospirose",
			// refuerzo manejado por protocolo del veterinario, sin intervalo fijo
		},
	})
	if err != nil {
		// catálogo builtin inválido es un bug de programación
		panic(err)
	}
	return c
}
