package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerDataset() Dataset {
	return Dataset{
		Title:   "Pagos diario",
		Headers: []string{"carnet", "nombre", "2026"},
		Rows: []map[string]string{
			{"carnet": "A-1", "nombre": "Ana López", "2026": "XX-X--------"},
			{"carnet": "A-2", "nombre": "Luis", "2026": "------------"},
		},
	}
}

func TestCSVRenderKeepsHeaderOrder(t *testing.T) {
	out, err := NewCSVExporter().Render(ledgerDataset())
	require.NoError(t, err)
	assert.Equal(t, "carnet,nombre,2026\nA-1,Ana López,XX-X--------\nA-2,Luis,------------\n", string(out))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(ledgerDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestDatasetWidth(t *testing.T) {
	assert.Equal(t, []int{6, 9, 12}, ledgerDataset().Width())
}

func TestKeyedColumnsShareLabels(t *testing.T) {
	data := Dataset{
		Headers: []string{"Carnet", "Carnet", "2026"},
		Keys:    []string{"carnet", "special:carnet", "year:2026"},
		Rows: []map[string]string{
			{"carnet": "A-1", "special:carnet": "X", "year:2026": "X-----------"},
		},
	}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Carnet,Carnet,2026\nA-1,X,X-----------\n", string(out))

	pdf, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestDuplicateKeysRejected(t *testing.T) {
	dup := Dataset{Headers: []string{"Plan", "Plan"}}
	assert.Error(t, dup.Validate())
	_, err := NewCSVExporter().Render(dup)
	assert.Error(t, err)

	short := Dataset{Headers: []string{"A", "B"}, Keys: []string{"a"}}
	assert.Error(t, short.Validate())
}
