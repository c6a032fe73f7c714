// Package ui contains the Bubble Tea program that hosts the data-entry grid.
// The Model type only orchestrates messages; the grid owns the cells and
// the edit sessions, and the combo packages own the editing controls.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Keys, window sizes and catalog reloads go through a typed handler
//     registry. Everything else, including mouse events, timer expiries and
//     the end/cancel requests raised by editing controls, is passed to
//     grid.Update, which forwards it to the active control.
//
// Rendering:
//   - View stacks the title, the grid rows, a status line and the optional
//     footer, then splices the open dropdown of the active control over
//     that canvas at the position the control computed.
//   - The status line shows validation errors first, then catalog reload
//     errors, then the tooltip of the hovered cell.
//
// Backend interactions:
//   - A backend.Watcher reloads the catalog file when it changes. Update
//     waits for those events and swaps the new catalogs into the grid
//     columns; cells being edited keep the catalog they started with.
package ui
