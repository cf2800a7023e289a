// Package live pushes the settled outcome of a gated view to pages that
// rendered while authentication was still pending.
//
// When a page goes out showing the authorizing branch, the server
// registers the view with a Manager and embeds the returned view ID in
// the markup (Placeholder). The embedded browser client connects back
// over a WebSocket, names the view in a hello frame, and receives a
// swap frame with the final markup once the authentication future
// settles. Frames are binary: a 1-byte type, a 4-byte big-endian
// payload length, then the payload.
package live
