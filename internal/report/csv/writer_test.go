package csv

import (
	stdcsv "encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esxi-report/internal/model"
)

func sampleSet() *model.ReportSet {
	set := model.NewReportSet([]model.ReportKind{model.KindHardware, model.KindConfiguration}, time.Now())
	set.Append(&model.HardwareRecord{Hostname: "esx01", Manufacturer: "Dell Inc.", MemoryGB: 512})
	set.Append(&model.HardwareRecord{Hostname: "esx03", Manufacturer: "HPE"})
	set.AddSkip(model.SkipRecord{Hostname: "esx02", ConnectionState: model.StateDisconnected})
	return set
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := stdcsv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter_Write(t *testing.T) {
	base := filepath.Join(t.TempDir(), "report")
	require.NoError(t, NewWriter().Write(sampleSet(), base))

	t.Run("hardware file carries header and rows", func(t *testing.T) {
		rows := readCSV(t, base+"_hardware.csv")
		require.Len(t, rows, 3)
		assert.Equal(t, model.HeaderFor(model.KindHardware), rows[0])
		assert.Equal(t, "esx01", rows[1][0])
		assert.Equal(t, "esx03", rows[2][0])
	})

	t.Run("empty collection still produces a header-only file", func(t *testing.T) {
		rows := readCSV(t, base+"_configuration.csv")
		require.Len(t, rows, 1)
		assert.Equal(t, model.HeaderFor(model.KindConfiguration), rows[0])
	})

	t.Run("skipped hosts get their own file", func(t *testing.T) {
		rows := readCSV(t, base+"_skipped.csv")
		require.Len(t, rows, 2)
		assert.Equal(t, model.SkipHeader(), rows[0])
		assert.Equal(t, []string{"esx02", "Disconnected"}, rows[1])
	})
}

func TestWriter_Write_NoSkipFileWithoutSkips(t *testing.T) {
	set := model.NewReportSet([]model.ReportKind{model.KindHardware}, time.Now())
	set.Append(&model.HardwareRecord{Hostname: "esx01"})

	base := filepath.Join(t.TempDir(), "report")
	require.NoError(t, NewWriter().Write(set, base))

	_, err := os.Stat(base + "_skipped.csv")
	assert.True(t, os.IsNotExist(err))
}

func TestWriter_Write_NilSet(t *testing.T) {
	assert.Error(t, NewWriter().Write(nil, "out"))
}

func TestWriter_Format(t *testing.T) {
	assert.Equal(t, "csv", NewWriter().Format())
}
