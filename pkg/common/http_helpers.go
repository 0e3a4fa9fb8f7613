package common

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/matst80/slask-grid/pkg/common/jsoncompat"
)

// JsonHandler wraps a handler with CORS preflight handling, session cookie
// bookkeeping and error logging. Handler errors are logged, not surfaced; the
// handler decides the status code itself.
func JsonHandler(fn func(w http.ResponseWriter, r *http.Request, sessionId int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(w, r)

		if err := fn(w, r, sessionId); err != nil {
			log.Printf("Error handling request: %v", err)
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}

// WriteJson marshals through the jsoncompat shim (sonic on the hot path) and
// writes the response with the given status.
func WriteJson(w http.ResponseWriter, status int, v any) error {
	data, err := jsoncompat.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

// ReadJson decodes a request body; the stdlib decoder streams, so the shim is
// not used here.
func ReadJson(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
