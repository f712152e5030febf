// Package ui lays out knobs and power buttons and routes pointer input to
// them. The ebiten window lives in window.go; Panel itself has no graphics
// dependency.
package ui
