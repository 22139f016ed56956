// Package viz renders terminal reports for filter runs.
//
// Styles are built from a [Theme] with lipgloss; charts of target against
// filtered value are drawn with asciigraph. Nothing here is interactive: every
// function returns a string that the caller prints.
package viz
