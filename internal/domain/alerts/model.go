package alerts

import "time"

// Kind es la severidad de la notificación.
// @Enum info, warning, error, success
type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// Channel es el canal de entrega tagueado en el registro. El core solo
// produce registros; la entrega real (SMS/email/push) queda afuera.
type Channel string

const (
	ChannelInApp Channel = "in_app"
)

// Notification es el registro de alerta que consume la capa de presentación.
//
// Invariante (la aplica el core, no el storage): no puede haber dos
// notificaciones sin leer con mismo title+message para el mismo owner en el
// mismo día calendario (clave de dedup: title, message, día).
type Notification struct {
	ID          string
	OwnerUserID string

	Title   string
	Message string

	Kind    Kind
	Channel Channel

	Read bool

	CreatedAt time.Time
}
