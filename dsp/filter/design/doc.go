// Package design computes biquad coefficients from musical parameters
// (RBJ audio EQ cookbook).
package design
