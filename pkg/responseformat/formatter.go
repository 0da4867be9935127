package responseformat

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Field  string `json:"field,omitempty"`
}

// WriteResponse writes data with the given status code. JSON is the default
// format; MessagePack is used when format=msgpack is specified.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, status int, data any) error {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if wantsMsgPack(req) {
		return f.writeMsgPack(w, status, data)
	}
	return f.writeJSON(w, status, data)
}

// WriteError writes an ErrorBody in the requested format
func (f *Formatter) WriteError(w http.ResponseWriter, req *http.Request, status int, msg, field string) error {
	return f.WriteResponse(w, req, status, ErrorBody{Error: msg, Status: status, Field: field})
}

// WriteRawJSON writes pre-encoded JSON, such as an archived chart, wrapped
// with its archive timestamp. MessagePack requests decode and re-encode it.
func (f *Formatter) WriteRawJSON(w http.ResponseWriter, req *http.Request, jsonBytes []byte, wrapper *JSONWrapper) error {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if wantsMsgPack(req) {
		var data any
		if err := json.Unmarshal(jsonBytes, &data); err != nil {
			return err
		}
		if wrapper != nil {
			data = map[string]any{
				"archived_at": wrapper.ArchivedAt,
				"chart":       data,
			}
		}
		return f.writeMsgPack(w, http.StatusOK, data)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if wrapper == nil {
		_, err := w.Write(jsonBytes)
		return err
	}

	ts, err := json.Marshal(wrapper.ArchivedAt)
	if err != nil {
		return err
	}
	for _, part := range [][]byte{[]byte(`{"archived_at":`), ts, []byte(`,"chart":`), jsonBytes, []byte("}")} {
		if _, err := w.Write(part); err != nil {
			return err
		}
	}
	return nil
}

func wantsMsgPack(req *http.Request) bool {
	return req.URL.Query().Get("format") == "msgpack"
}

func (f *Formatter) writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func (f *Formatter) writeMsgPack(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/x-msgpack")
	w.WriteHeader(status)
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}

// JSONWrapper carries metadata for raw archived JSON
type JSONWrapper struct {
	ArchivedAt string
}
