// Package layout holds the pure placement math for floating windows.
//
// Nothing here keeps state. The window manager calls these functions after
// every membership or geometry change and pushes the results to the shell:
//   - Bubbles: stacked positions of minimized sessions
//   - DefaultGeometry: orientation-aware size of a newly opened window
//   - ClampSize: bounds applied during resize
//   - EdgeHandle: where the picker handle sits on the screen edge
package layout
