package notify

import "time"

// Type is the closed set of notification kinds emitted by the server.
type Type string

const (
	TypeDocumentReceived    Type = "document-received"
	TypeDocumentSigned      Type = "document-signed"
	TypeDocumentVoided      Type = "document-voided"
	TypeObservationCreated  Type = "observation-created"
	TypeObservationResolved Type = "observation-resolved"
	TypeSignatureRequired   Type = "signature-required"
	TypeDocumentResent      Type = "document-resent"
	TypeResponseReceived    Type = "response-received"
)

// Notification is a server-created aviso. The client only ever mutates the
// seen flag and its timestamp; entries are never deleted client-side.
type Notification struct {
	ID        string     `json:"id"`
	Type      Type       `json:"tipo"`
	Title     string     `json:"titulo"`
	Message   string     `json:"mensaje"`
	Seen      bool       `json:"leido"`
	SeenAt    *time.Time `json:"fecha_leido,omitempty"`
	CreatedAt time.Time  `json:"fecha_creacion"`
	TramiteID string     `json:"id_tramite,omitempty"`
}
