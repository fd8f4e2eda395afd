// Package synthetic produces placeholder identity records for the terminal
// fallback path. It never fails: when every genuine provider is exhausted the
// caller still gets a well-formed record, explicitly marked as contingency
// data.
package synthetic

import (
	"strings"

	"consulta/internal/identity/models"
	"consulta/internal/identity/providers"
)

// Picker supplies the pseudo-random selection. *rand.Rand satisfies it; tests
// inject a fixed picker for deterministic output.
type Picker interface {
	Intn(n int) int
}

// namePool holds common Brazilian full names the generator draws from.
var namePool = []string{
	"Jose Carlos Silva",
	"Maria Aparecida Santos",
	"Joao Pedro Oliveira",
	"Ana Paula Souza",
	"Francisco Almeida Lima",
	"Antonia Ferreira Costa",
	"Paulo Roberto Pereira",
	"Francisca Rodrigues Alves",
	"Carlos Eduardo Nascimento",
	"Adriana Gomes Martins",
	"Luiz Fernando Araujo",
	"Juliana Barbosa Ribeiro",
	"Marcos Antonio Carvalho",
	"Fernanda Cristina Rocha",
	"Rafael Augusto Dias",
	"Patricia Helena Moreira",
}

// motherPrefix is recombined with the chosen name's surname tokens to derive
// a plausible mother's name.
const motherPrefix = "Maria"

// Generator synthesizes records from the fixed name pool.
type Generator struct {
	pick Picker
}

func New(pick Picker) *Generator {
	return &Generator{pick: pick}
}

// Generate builds a placeholder record for the query: a pseudo-randomly
// chosen name, a mother's name derived from its surname tokens, and the
// user-supplied birth date echoed unchanged.
func (g *Generator) Generate(q providers.Query) *models.Record {
	name := namePool[g.pick.Intn(len(namePool))]
	return models.NewRecord(
		q.CPF.String(),
		name,
		q.BirthDate,
		motherName(name),
		models.SourceSynthetic,
	)
}

func motherName(name string) string {
	tokens := strings.Split(name, " ")
	if len(tokens) < 2 {
		return motherPrefix + " " + name
	}
	return motherPrefix + " " + strings.Join(tokens[1:], " ")
}
