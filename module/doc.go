// Package module defines the lifecycle contract shared by every sound
// module and a Base implementation concrete modules embed.
//
// A module owns its processing nodes and normalized parameters. Parameter
// writes on the interaction path never fail: values are clamped, NaN and
// unknown names are ignored, and the mapped value reaches the node through a
// short smoothing ramp. Dispose fades the output gate and tears the nodes down
// in reverse creation order once the fade has settled.
package module
