// Package output connects a render graph to the host audio device.
//
// The device is opened lazily by Init, which hosts call once from a user
// gesture. Until then no destination is handed out.
package output
