package server

import (
	"encoding/json"
	"log"
	"mime"
	"net/http"
	"strconv"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[ERROR] failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// contentDisposition encodes non-ASCII file names per RFC 2231
func contentDisposition(kind, filename string) string {
	v := mime.FormatMediaType(kind, map[string]string{"filename": filename})
	if v == "" {
		return kind
	}
	return v
}

func writePDF(w http.ResponseWriter, filename string, data []byte) {
	writeAttachment(w, "application/pdf", filename, data)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", contentDisposition("attachment", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[ERROR] writing %s to response: %v", filename, err)
	}
}
