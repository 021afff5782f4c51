package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

func (s *Server) intakeAuditMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		entry := AuditEntry{
			Timestamp:    start,
			Method:       r.Method,
			Path:         r.URL.Path,
			EDIReference: ediReferenceFromPath(r.URL.Path),
		}

		if entry.EDIReference == "" && r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(body))

			var probe struct {
				EDIReference string `json:"ediReference"`
			}
			if err := json.Unmarshal(body, &probe); err == nil {
				entry.EDIReference = probe.EDIReference
			}
		}

		wrw := newStatusRecorder(w)
		next.ServeHTTP(wrw, r)

		if claims, ok := ClaimsFromContext(r.Context()); ok {
			entry.Subject = claims.Subject
		}
		entry.StatusCode = wrw.Status()
		entry.DurationMS = time.Since(start).Milliseconds()

		s.AuditManager.Record(r.Context(), entry)
	})
}

// ediReferenceFromPath pulls the reference out of /edi/status/{ref} and
// /edi/parcels/{ref}/... paths; intake paths carry it in the body instead.
func ediReferenceFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if (part == "status" || part == "parcels") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
