// Package biquad implements second-order IIR sections.
package biquad
