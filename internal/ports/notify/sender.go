package notify

import "context"

// Message es una notificación lista para despachar.
// Recipient es la clave de destino del proveedor (p.ej. user key de Pushover).
type Message struct {
	Recipient string
	Title     string
	Body      string
}

// Sender despacha notificaciones hacia el proveedor configurado.
// El scheduler de recordatorios solo depende de este contrato.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
