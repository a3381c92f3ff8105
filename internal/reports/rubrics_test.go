package reports

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)
	cases := []struct {
		category string
		want     string
	}{
		{"Sueldos porteria", "sueldos"},
		{"SUTERH aportes", "cargas sociales"},
		{"Edenor marzo", "electricidad"},
		{"AySA bimestre", "agua"},
		{"Metrogas", "gas"},
		{"Abono ascensores", "ascensores"},
		{"mantenimiento general", "mantenimiento"},
		{"insumos de limpieza", "limpieza"},
		{"honorarios administración", "administración"},
		{"comisiones bancarias", "gastos bancarios"},
		{"póliza incendio", "seguros"},
		{"arreglo de plomería", "reparaciones"},
		{"fondo de reserva", "fondo de reserva"},
		{"fumigación trimestral", "fumigación"},
		{"internet SUM", "conectividad"},
		{"matafuegos recarga", "matafuegos"},
		{"flete de escombros", "fletes"},
		{"algo sin regla", RubricOther},
		{"", RubricOther},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, c.Classify(tc.category), "category %q", tc.category)
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	c := NewClassifier(nil)
	// "seguro" appears in both the security and insurance rules; the
	// earlier rule (segur) takes it.
	require.Equal(t, "seguridad", c.Classify("seguro de caución"))
	// "vigilancia" only matches the security rule.
	require.Equal(t, "seguridad", c.Classify("vigilancia nocturna"))
}

func TestClassifyCustomRules(t *testing.T) {
	c := NewClassifier([]Rule{{Patterns: []string{"foo"}, Rubric: "bar"}})
	require.Equal(t, "bar", c.Classify("FOO service"))
	require.Equal(t, RubricOther, c.Classify("sueldos"))
}

func TestRubricBreakdown(t *testing.T) {
	c := NewClassifier(nil)
	list := []consortium.Expense{
		{Category: "sueldos", Amount: money.FromCents(100000)},
		{Category: "haberes marzo", Amount: money.FromCents(50000)},
		{Category: "edenor", Amount: money.FromCents(20000)},
		{Category: "misterioso", Amount: money.FromCents(5000)},
	}
	got := c.RubricBreakdown(list)
	require.Equal(t, money.Money(150000), got["sueldos"].Total)
	require.Equal(t, 2, got["sueldos"].Count)
	require.Equal(t, money.Money(20000), got["electricidad"].Total)
	require.Equal(t, money.Money(5000), got[RubricOther].Total)
	require.Len(t, got, 3)
}
