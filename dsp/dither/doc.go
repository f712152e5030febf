// Package dither quantizes rendered audio to integer PCM.
package dither
