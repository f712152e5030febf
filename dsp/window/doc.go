// Package window generates the tapering windows used before spectral
// analysis.
package window
