// Package scene describes vector animations independently of any file
// format.
//
// A [Document] is an ordered list of [Layer]s, top to bottom. Each layer is
// visible between its In and Out ticks and is made of [Shape]s: a geometry
// (an [Ellipse], [Rect] or [Line]) followed by the styles painted onto it
// (a [Fill] and/or a [Stroke]).
//
// Every shape attribute is a [Prop]: either a single static value or a list
// of timed keyframes. Values hold from one keyframe to the next.
//
// Documents encode to a neutral JSON schema with [encoding/json] and are
// translated to concrete formats by the render packages, for example
// render/lottie.
package scene
