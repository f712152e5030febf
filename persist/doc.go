// Package persist is the boundary between modules and stored rack state.
//
// Modules never write storage themselves. Controls call a Committer at the
// end of a gesture, and a stored Record is replayed onto a fresh module with
// Hydrate.
package persist
