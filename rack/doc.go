// Package rack creates, holds and binds modules for one instrument session.
package rack
