// Package models hosts the canonical shapes for identity resolution. Heterogeneous
// provider payloads are mapped into Record at the adapter boundary so the rest of
// the service never sees upstream field naming.
package models

// Cadastral fields fixed to constant values on every record regardless of
// which provider supplied the data. This mirrors a deliberate downstream
// business rule, not data fidelity.
const (
	SituacaoDefault    = "REGULAR"
	StatusDefault      = "ATIVO"
	DeclaracaoDefault  = "NADA CONSTA"
	SyntheticDataAlert = "dados de contingencia: nenhuma fonte externa respondeu"
)

// Record is the canonical identity record produced by any provider or by the
// synthetic fallback. Invariant: CPF and Name are never empty, and the three
// cadastral fields always carry the fixed defaults.
type Record struct {
	CPF        string `json:"cpf"`
	Name       string `json:"nome"`
	BirthDate  string `json:"data_nascimento"`
	MotherName string `json:"nome_mae"`
	Situacao   string `json:"situacao"`
	Status     string `json:"status"`
	Declaracao string `json:"declaracao"`
	Source     string `json:"fonte"`
	Gender     string `json:"genero,omitempty"`
	Day        int    `json:"dia,omitempty"`
	Month      int    `json:"mes,omitempty"`
	Year       int    `json:"ano,omitempty"`
}

// NewRecord builds a Record with the fixed cadastral defaults applied.
// Adapters use this so the constants hold on every path.
func NewRecord(cpf, name, birthDate, motherName, source string) *Record {
	return &Record{
		CPF:        cpf,
		Name:       name,
		BirthDate:  birthDate,
		MotherName: motherName,
		Situacao:   SituacaoDefault,
		Status:     StatusDefault,
		Declaracao: DeclaracaoDefault,
		Source:     source,
	}
}

// Synthetic reports whether the record came from the contingency synthesizer
// rather than a genuine provider.
func (r *Record) Synthetic() bool {
	return r.Source == SourceSynthetic
}

// Provider source identifiers carried in Record.Source.
const (
	SourceAPICPF     = "apicpf"
	SourceConsultaBR = "consultabr"
	SourcePortal     = "portal"
	SourceSynthetic  = "synthetic"
)

// LookupRequest is the inbound payload for a resolution call.
type LookupRequest struct {
	CPF       string `json:"cpf" validate:"required"`
	BirthDate string `json:"data_nascimento" validate:"required"`
	Phone     string `json:"telefone" validate:"required"`
}

// LookupResponse is the success envelope.
type LookupResponse struct {
	Success          bool    `json:"success"`
	Data             *Record `json:"data"`
	Source           string  `json:"fonte"`
	Warning          string  `json:"aviso,omitempty"`
	ProcessingTimeMS int64   `json:"processing_time_ms"`
	RequestID        string  `json:"request_id"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success          bool   `json:"success"`
	Error            string `json:"error"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
	RequestID        string `json:"request_id"`
}
