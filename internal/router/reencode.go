package router

import "encoding/json"

// reencodeWithRequestID sets/overwrites the "requestId" field on a raw JSON
// object frame, used only when the router itself minted a requestId the
// original frame lacked. Every other forward path preserves raw bytes
// untouched (spec.md §5's "forwards preserve byte-for-byte" rule); this is
// the single, narrow exception, scoped to the one field the router had to
// add.
func reencodeWithRequestID(raw []byte, requestID string) ([]byte, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	idBytes, err := json.Marshal(requestID)
	if err != nil {
		return nil, err
	}
	m["requestId"] = idBytes
	return json.Marshal(m)
}
