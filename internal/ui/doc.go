// Package ui implements the monarchctl control panel as a Bubble Tea program.
//
// The panel shows one button per device action and one tile per feedback
// rule. Buttons are pressed with the digit keys or by moving the selection
// and pressing enter; tiles recolor when the published status matches the
// rule's expected value. An optional pane tails the application log.
package ui
