// Package diamonds is a dashboard over a tabular gemstone dataset.
//
// Usage:
//
//	import "github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
//
//	chart := engine.ComputeChart(engine.ControlState{
//	    PriceRange:      &[2]float64{326, 18823},
//	    ColorConstraint: "E",
//	    SelectedColumns: []string{"price", "carat"},
//	    ChartKind:       engine.KindHistogram,
//	}, ds.View())
//
// The engine filters the loaded records by the dashboard controls and returns
// render-ready output (chart config, table data, headline summary). The
// dataset package loads CSV, TSV and XLSX files, render turns engine output
// into PNG, CSV, XLSX and text, and server wires everything behind HTTP.
// All computation is local and the loaded dataset is never modified.
package diamonds

// Version is the release reported by the CLI and the health endpoint.
const Version = "0.1.0"
