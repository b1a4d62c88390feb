package http

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"eventrent-backend/internal/logger"
)

// media streams an uploaded item image.
func (h *handler) media(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	file, contentType, err := h.svc.Images.Open(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, file); err != nil {
		logger.WarnContext(r.Context(), "Failed to stream image", "key", key, "error", err)
	}
}
