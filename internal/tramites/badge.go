package tramites

import "mesadoc.org/internal/obs"

// Badge is the rendering hint for a procedure state.
type Badge struct {
	Label string
	Color string
}

var badges = map[Estado]Badge{
	EstadoEnviado:    {Label: "Enviado", Color: "blue"},
	EstadoAbierto:    {Label: "Abierto", Color: "cyan"},
	EstadoLeido:      {Label: "Leído", Color: "teal"},
	EstadoRespondido: {Label: "Respondido", Color: "green"},
	EstadoFirmado:    {Label: "Firmado", Color: "green"},
	EstadoAnulado:    {Label: "Anulado", Color: "red"},
}

// unknownBadge is the defensive fallback for states outside the closed set.
var unknownBadge = Badge{Label: "Desconocido", Color: "gray"}

// BadgeFor maps a state to its badge. A state the client does not know is
// rendered as "Desconocido" with a logged warning instead of failing; this
// is the one place the client does not blindly trust the server.
func BadgeFor(estado Estado) Badge {
	if b, ok := badges[estado]; ok {
		return b
	}
	obs.Warn("unknown tramite state", map[string]any{"estado": string(estado)})
	return unknownBadge
}
