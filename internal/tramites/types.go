package tramites

import "time"

// Estado is the closed procedure lifecycle as enforced server-side. The
// client never computes transitions; it only renders the current value.
type Estado string

const (
	EstadoEnviado    Estado = "ENVIADO"
	EstadoAbierto    Estado = "ABIERTO"
	EstadoLeido      Estado = "LEIDO"
	EstadoRespondido Estado = "RESPONDIDO"
	EstadoFirmado    Estado = "FIRMADO"
	EstadoAnulado    Estado = "ANULADO"
)

// Participante identifies a sender or receiver of a procedure.
type Participante struct {
	ID    string `json:"id"`
	Names string `json:"nombres"`
	Email string `json:"email,omitempty"`
	Area  string `json:"area,omitempty"`
}

// Documento is the metadata of the attached document.
type Documento struct {
	ID       string `json:"id"`
	Name     string `json:"nombre"`
	MimeType string `json:"mime_type,omitempty"`
	Size     int64  `json:"tamano,omitempty"`
}

// Observacion is a flagged issue on a procedure requiring resolution.
type Observacion struct {
	ID         string     `json:"id"`
	Message    string     `json:"mensaje"`
	Resolved   bool       `json:"resuelta"`
	CreatedAt  time.Time  `json:"fecha_creacion"`
	ResolvedAt *time.Time `json:"fecha_resolucion,omitempty"`
}

// Respuesta is the worker's response record, when one exists.
type Respuesta struct {
	Message   string     `json:"mensaje"`
	CreatedAt time.Time  `json:"fecha_creacion"`
	Documento *Documento `json:"documento,omitempty"`
}

// Firma is the signature record, when one exists.
type Firma struct {
	SignedBy string    `json:"firmado_por"`
	SignedAt time.Time `json:"fecha_firma"`
}

// Reenvio links a resent procedure back to its origin.
type Reenvio struct {
	OrigenID string `json:"id_origen"`
	Reason   string `json:"motivo"`
	Version  int    `json:"version"`
}

// Tramite is the read model of a routed document instance. Owned by the
// server; the client holds read-only cached copies per view.
type Tramite struct {
	ID                string        `json:"id"`
	Codigo            string        `json:"codigo"`
	Asunto            string        `json:"asunto"`
	Estado            Estado        `json:"estado"`
	Remitente         Participante  `json:"remitente"`
	Destinatario      Participante  `json:"destinatario"`
	RequiereFirma     bool          `json:"requiere_firma"`
	RequiereRespuesta bool          `json:"requiere_respuesta"`
	Reenvio           *Reenvio      `json:"reenvio,omitempty"`
	Documento         Documento     `json:"documento"`
	Respuesta         *Respuesta    `json:"respuesta,omitempty"`
	Firma             *Firma        `json:"firma,omitempty"`
	Observaciones     []Observacion `json:"observaciones,omitempty"`
	CreatedAt         time.Time     `json:"fecha_creacion"`
}

// Page is a paginated procedure collection as returned by the server.
type Page struct {
	Data       []Tramite `json:"data"`
	Total      int       `json:"total"`
	PageNumber int       `json:"pagina"`
	Limit      int       `json:"limite"`
}
