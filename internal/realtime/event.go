package realtime

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// Inbound event names the client understands. Unknown names still flow
// through; payloads are treated loosely everywhere.
const (
	EventNuevaObservacion    = "nueva_observacion"
	EventObservacionResuelta = "observacion_resuelta"
)

// Event is one inbound push event with its loosely-typed domain payload.
type Event struct {
	Name    string          `json:"evento"`
	Payload json.RawMessage `json:"data"`
}

// idFields are payload keys accepted as an explicit identity for
// de-duplication, in priority order.
var idFields = []string{"id", "id_notificacion", "id_observacion"}

// DedupKey derives a stable identifier for an event. Total by construction:
// an explicit id-like payload field wins, anything else falls back to a hash
// of the raw payload, so redelivery of the same frame always maps to the
// same key and a malformed payload never panics.
func DedupKey(e Event) string {
	var payload map[string]any
	if err := json.Unmarshal(e.Payload, &payload); err == nil {
		for _, field := range idFields {
			v, ok := payload[field]
			if !ok {
				continue
			}
			switch id := v.(type) {
			case string:
				if id != "" {
					return e.Name + ":" + id
				}
			case float64:
				return e.Name + ":" + strconv.FormatFloat(id, 'f', -1, 64)
			}
		}
	}
	sum := sha1.Sum(append([]byte(e.Name+"|"), e.Payload...))
	return e.Name + ":" + hex.EncodeToString(sum[:])
}

// toastMessages maps known event names to their user-facing text.
var toastMessages = map[string]string{
	EventNuevaObservacion:    "Nueva observación registrada en un trámite",
	EventObservacionResuelta: "Una observación fue resuelta",
}

// MessageFor returns the toast text for an event, falling back to the raw
// event name for kinds this client does not know yet.
func MessageFor(e Event) string {
	if msg, ok := toastMessages[e.Name]; ok {
		return msg
	}
	return e.Name
}
