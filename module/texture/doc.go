// Package texture implements a filtered noise wash. It has no input port and
// does not drift.
package texture
