package paygrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileMarksOnlyMatchingMonth(t *testing.T) {
	cells, err := BuildGrid(testConfig())
	require.NoError(t, err)

	grid := Reconcile(cells, []Record{{PaymentType: MonthlyType, Month: 3, Year: 2026}})

	unpaidMonthly := 0
	for _, c := range grid.Cells {
		if c.IsSpecial() {
			assert.False(t, c.Paid)
			continue
		}
		if c.Key == MonthlyKey(3, 2026) {
			assert.True(t, c.Paid)
			continue
		}
		assert.False(t, c.Paid)
		unpaidMonthly++
	}
	assert.Equal(t, 23, unpaidMonthly)
}

func TestReconcileSpecialRecord(t *testing.T) {
	cells, err := BuildGrid(testConfig())
	require.NoError(t, err)

	grid := Reconcile(cells, []Record{{PaymentType: "inscripcion"}})
	assert.Equal(t, []Key{SpecialKey("inscripcion")}, grid.PaidKeys())

	cell, ok := grid.Cell(SpecialKey("inscripcion"))
	require.True(t, ok)
	assert.Equal(t, "Inscripción", cell.Label)
}

func TestReconcileIgnoresUnknownRecordsAndIsIdempotent(t *testing.T) {
	cells, err := BuildGrid(testConfig())
	require.NoError(t, err)
	records := []Record{
		{PaymentType: MonthlyType, Month: 1, Year: 2019},
		{PaymentType: "uniforme"},
		{PaymentType: MonthlyType, Month: 12, Year: 2027},
		{PaymentType: MonthlyType, Month: 12, Year: 2027},
	}

	first := Reconcile(cells, records)
	second := Reconcile(cells, records)
	assert.Equal(t, first, second)
	assert.Equal(t, []Key{MonthlyKey(12, 2027)}, first.PaidKeys())
	assert.Len(t, first.Cells, len(cells))
}

func TestViewsGroupSpecialsAndYears(t *testing.T) {
	cells, err := BuildGrid(testConfig())
	require.NoError(t, err)
	view := Reconcile(cells, []Record{{PaymentType: MonthlyType, Month: 2, Year: 2027}}).Views()

	require.Len(t, view.Specials, 2)
	require.Len(t, view.Years, 2)
	assert.Equal(t, 2026, view.Years[0].Year)
	assert.Equal(t, 2027, view.Years[1].Year)
	assert.Len(t, view.Years[1].Cells, 12)
	assert.True(t, view.Years[1].Cells[1].Paid)
	assert.Equal(t, "mensualidad:2:2027", view.Years[1].Cells[1].ID)
	assert.Equal(t, "Feb", view.Years[1].Cells[1].Label)
}

func TestStrip(t *testing.T) {
	cells, err := BuildGrid(testConfig())
	require.NoError(t, err)
	grid := Reconcile(cells, []Record{
		{PaymentType: MonthlyType, Month: 1, Year: 2026},
		{PaymentType: MonthlyType, Month: 3, Year: 2026},
	})
	assert.Equal(t, "X-X---------", grid.Strip(2026))
	assert.Equal(t, "------------", grid.Strip(2027))
}
