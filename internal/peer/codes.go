package peer

// CloseOriginRejected is the close code used when a WebSocket upgrade's
// Origin header fails the localhost/127.0.0.1 check (spec.md §6).
const CloseOriginRejected = 4001
