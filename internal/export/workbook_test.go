package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/1cFE/1costingfe/pkg/analysis"
	"github.com/1cFE/1costingfe/pkg/model"
	"github.com/1cFE/1costingfe/pkg/plant"
)

func tokamak(t *testing.T) (*model.CostModel, *model.ForwardResult) {
	t.Helper()
	m, err := model.New(plant.Tokamak, plant.DT)
	require.NoError(t, err)
	res, err := m.Forward(plant.DefaultRequirements(1000), nil)
	require.NoError(t, err)
	return m, res
}

func TestWorkbookRoundTrip(t *testing.T) {
	m, res := tokamak(t)
	sens, err := analysis.Sensitivity(m, res, analysis.SensitivityOptions{})
	require.NoError(t, err)
	cmp, err := analysis.CompareAll(context.Background(), []plant.Pair{
		{Concept: plant.Tokamak, Fuel: plant.DT},
		{Concept: plant.LaserIFE, Fuel: plant.DT},
	}, plant.DefaultRequirements(1000))
	require.NoError(t, err)

	w := NewWorkbook()
	defer w.Close()
	require.NoError(t, w.AddForward(res))
	require.NoError(t, w.AddSensitivity(sens))
	require.NoError(t, w.AddComparison(cmp))

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetPower, SheetCosts, SheetParams, SheetSensitivity, SheetComparison}, f.GetSheetList())

	costs, err := f.GetRows(SheetCosts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Account", "Name", "M$"}, costs[0])
	assert.Len(t, costs, len(res.Costs.Accounts())+1)

	sensRows, err := f.GetRows(SheetSensitivity)
	require.NoError(t, err)
	assert.Len(t, sensRows, len(sens.Entries)+1)

	ranked, err := f.GetRows(SheetComparison)
	require.NoError(t, err)
	assert.Equal(t, "1", ranked[1][0])
}

func TestWorkbookErrors(t *testing.T) {
	w := NewWorkbook()
	defer w.Close()
	assert.Error(t, w.Write(&bytes.Buffer{}), "empty workbook")

	m, res := tokamak(t)
	require.NoError(t, w.AddForward(res))
	assert.Error(t, w.AddForward(res), "duplicate sheets")

	sw, err := analysis.Sweep(context.Background(), m, res, plant.ParamAvailability, []float64{0.7, 0.9})
	require.NoError(t, err)
	require.NoError(t, w.AddSweep(sw))
	assert.NoError(t, w.SaveAs(filepath.Join(t.TempDir(), "out.xlsx")))
}
