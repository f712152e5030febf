// Package testutil holds signal generators and assertions shared by tests.
package testutil
