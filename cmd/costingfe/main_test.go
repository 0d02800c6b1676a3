package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestForwardJSON(t *testing.T) {
	out, err := execute(t, "forward", "--concept", "tokamak", "--fuel", "dt", "-o", "json")
	require.NoError(t, err)

	var res struct {
		Power struct {
			PNet float64 `json:"p_net"`
		} `json:"power"`
		Costs struct {
			LCOE float64 `json:"lcoe"`
		} `json:"costs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 1000.0, res.Power.PNet, 1e-6)
	assert.Greater(t, res.Costs.LCOE, 10.0)
}

func TestForwardTableAndWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forward.xlsx")
	out, err := execute(t, "forward", "--set", "eta_th=0.5", "--xlsx", path)
	require.NoError(t, err)
	assert.Contains(t, out, "p_fus")
	assert.Contains(t, out, "p_net")
	assert.Contains(t, out, "$/MWh")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestConceptsMarkdown(t *testing.T) {
	out, err := execute(t, "concepts", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| laser_ife |")
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "forward", "-o", "yaml")
	assert.Error(t, err, "unknown output format")

	_, err = execute(t, "forward", "--set", "eta_th=hot")
	assert.Error(t, err)

	_, err = execute(t, "backcast")
	assert.Error(t, err, "backcast needs a target")

	_, err = execute(t, "sweep", "--concept", "spheromak")
	assert.Error(t, err)
}
