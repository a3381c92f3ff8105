// Package reports holds the derived, read-only projections: rubric and
// category breakdowns, income deltas, bank running balances, and the
// dashboard aggregates. Everything here is a pure function over the ledgers;
// empty inputs yield empty results, never errors.
package reports

import (
	"strings"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/expenses"
)

// RubricOther absorbs categories no rule matches.
const RubricOther = "otros"

// Rule maps category substrings to a rubric. Rules are evaluated in order;
// the first match wins.
type Rule struct {
	Patterns []string
	Rubric   string
}

// DefaultRules is the standard consortium rubric table: payroll, utilities,
// maintenance and the rest of the groupings an Argentine administration
// reports on.
var DefaultRules = []Rule{
	{Patterns: []string{"sueldo", "haberes", "jornal"}, Rubric: "sueldos"},
	{Patterns: []string{"cargas social", "afip", "suterh"}, Rubric: "cargas sociales"},
	{Patterns: []string{"luz", "elec", "edenor", "edesur", "servicios públicos"}, Rubric: "electricidad"},
	{Patterns: []string{"agua", "aysa"}, Rubric: "agua"},
	{Patterns: []string{"gas", "metrogas"}, Rubric: "gas"},
	{Patterns: []string{"ascensor", "elevador"}, Rubric: "ascensores"},
	{Patterns: []string{"mant", "abono"}, Rubric: "mantenimiento"},
	{Patterns: []string{"limp", "insumo"}, Rubric: "limpieza"},
	{Patterns: []string{"segur", "vigil"}, Rubric: "seguridad"},
	{Patterns: []string{"adm", "honorario", "gestión"}, Rubric: "administración"},
	{Patterns: []string{"banc", "comis", "impuesto deb"}, Rubric: "gastos bancarios"},
	{Patterns: []string{"seguro", "póliza", "incendio"}, Rubric: "seguros"},
	{Patterns: []string{"repara", "arregl", "plomer", "gasista"}, Rubric: "reparaciones"},
	{Patterns: []string{"jard", "piscina", "pileta"}, Rubric: "espacios comunes"},
	{Patterns: []string{"reserva", "fondo", "extraordinaria"}, Rubric: "fondo de reserva"},
	{Patterns: []string{"pint", "fachada"}, Rubric: "pintura"},
	{Patterns: []string{"fumig", "plaga", "desinfe"}, Rubric: "fumigación"},
	{Patterns: []string{"tel", "internet", "wifi", "cable"}, Rubric: "conectividad"},
	{Patterns: []string{"judic", "legal", "abogado", "mediac"}, Rubric: "legales"},
	{Patterns: []string{"matafuego", "extintor"}, Rubric: "matafuegos"},
	{Patterns: []string{"flete", "mudanza", "transp"}, Rubric: "fletes"},
}

// Classifier assigns expense categories to rubrics from an ordered rule
// table, so the grouping is data-driven and testable on its own.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a Classifier; with no rules it uses DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify resolves the rubric for a category key.
func (c *Classifier) Classify(category string) string {
	cat := strings.ToLower(strings.TrimSpace(category))
	if cat == "" {
		return RubricOther
	}
	for _, rule := range c.rules {
		for _, p := range rule.Patterns {
			if strings.Contains(cat, p) {
				return rule.Rubric
			}
		}
	}
	return RubricOther
}

// RubricBreakdown groups expenses into rubric totals.
func (c *Classifier) RubricBreakdown(list []consortium.Expense) map[string]expenses.CategoryTotal {
	out := make(map[string]expenses.CategoryTotal)
	for _, e := range list {
		rubric := c.Classify(e.Category)
		agg := out[rubric]
		agg.Total += e.Amount
		agg.Count++
		out[rubric] = agg
	}
	return out
}
