package dataset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
)

const diamondsCSV = `,carat,cut,color,clarity,depth,table,price,x,y,z
1,0.23,Ideal,E,SI2,61.5,55,326,3.95,3.98,2.43
2,0.21,Premium,E,SI1,59.8,61,326,3.89,3.84,2.31
3,0.23,Good,E,VS1,56.9,65,327,4.05,4.07,2.31
4,0.29,Premium,I,VS2,62.4,58,334,4.2,4.23,0
5,0.31,Good,J,SI2,63.3,58,n/a,4.34,4.35,
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	ds, err := Load(writeFile(t, "diamonds.csv", diamondsCSV), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "diamonds", ds.Name())
	assert.Equal(t, 5, ds.Len())

	keys := make([]string, 0, len(ds.Fields()))
	for _, f := range ds.Fields() {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"carat", "cut", "color", "clarity", "depth", "table", "price", "x", "y", "z", "volume"}, keys)

	view := ds.View()
	price, ok := view.Measure(0, "price")
	require.True(t, ok)
	assert.Equal(t, 326.0, price)

	color, ok := view.Dimension(3, "color")
	require.True(t, ok)
	assert.Equal(t, "I", color)

	_, ok = view.Measure(4, "price")
	assert.False(t, ok, "n/a price should be missing")
}

func TestNonFiniteCellsAreMissing(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("price,color\n100,D\n500,E\n300,E\n700,D\ninf,D\n-Infinity,E\n"), Options{})
	require.NoError(t, err)

	field, ok := engine.FieldOf(ds.View(), "price")
	require.True(t, ok)
	assert.Equal(t, engine.FieldMeasure, field.Kind)

	_, ok = ds.View().Measure(4, "price")
	assert.False(t, ok, "inf price should be missing")
	_, ok = ds.View().Measure(5, "price")
	assert.False(t, ok, "-Infinity price should be missing")

	res, err := engine.Execute(engine.ControlState{SelectedColumns: []string{"price"}}, ds.View())
	require.NoError(t, err)
	assert.Equal(t, 400.0, res.Summary.Mean)
	_, err = json.Marshal(res)
	assert.NoError(t, err)
}

func TestDerivedVolume(t *testing.T) {
	ds, err := Load(writeFile(t, "diamonds.csv", diamondsCSV), DefaultOptions())
	require.NoError(t, err)
	view := ds.View()

	v, ok := view.Measure(0, "volume")
	require.True(t, ok)
	assert.InDelta(t, 3.95*3.98*2.43, v, 1e-9)

	v, ok = view.Measure(3, "volume")
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = view.Measure(4, "volume")
	assert.False(t, ok, "a missing factor leaves the product missing")

	meta, ok := ds.Schema().Measure("volume")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, meta.DerivedFrom)
}

func TestDerivedColumnWithUnknownFactorIsSkipped(t *testing.T) {
	opts := Options{Derived: []Product{{Name: "area", Factors: [3]string{"x", "y", "w"}}}}
	ds, err := ParseCSV(strings.NewReader(diamondsCSV), opts)
	require.NoError(t, err)

	_, ok := engine.FieldOf(ds.View(), "area")
	assert.False(t, ok)
}

func TestLoadTSV(t *testing.T) {
	tsv := strings.ReplaceAll(diamondsCSV, ",", "\t")
	ds, err := Load(writeFile(t, "gems.tsv", tsv), Options{})
	require.NoError(t, err)

	assert.Equal(t, "TSV", ds.Schema().DiscoveredFrom)
	assert.Equal(t, []string{"cut", "color", "clarity"}, engine.DimensionKeys(ds.View()))
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"carat", "color", "price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{0.23, "E", 326}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{0.7, "D", 2757}))

	path := filepath.Join(t.TempDir(), "gems.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"carat", "price"}, engine.MeasureKeys(ds.View()))

	price, ok := ds.View().Measure(1, "price")
	require.True(t, ok)
	assert.Equal(t, 2757.0, price)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "gems.json", "{}"), Options{})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(writeFile(t, "header.csv", "carat,price\n"), Options{})
	assert.True(t, errors.Is(err, ErrNoRows))

	_, err = ParseCSV(strings.NewReader(""), Options{})
	assert.True(t, errors.Is(err, ErrNoRows))
}

func TestLeadingIndexColumns(t *testing.T) {
	assert.Equal(t, 1, leadingIndexColumns([]string{"", "carat"}))
	assert.Equal(t, 1, leadingIndexColumns([]string{"Unnamed: 0", "carat"}))
	assert.Equal(t, 0, leadingIndexColumns([]string{"carat", ""}))
}
