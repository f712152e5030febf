// Package analysis measures rendered audio offline.
package analysis
