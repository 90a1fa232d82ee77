// Package viz renders simulation output in the terminal.
//
// It provides three layers:
//
//   - Heatmap: a colored ASCII rendering of a single field over the grid
//   - Trace: line charts of per-step series built on asciigraph
//   - live view: a bubbletea program that steps the engine and shows the
//     heatmap with a statistics sidebar
//
// Rendering is pure string building. Nothing here touches the terminal
// directly except through bubbletea.
package viz
