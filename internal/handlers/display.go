package handlers

import (
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
)

// handleDisplayPage serves the read-only display board. The page connects
// back over /ws and renders every tally_update it receives.
func (h *Handlers) handleDisplayPage(w http.ResponseWriter, r *http.Request) {
	h.templates.Display.Execute(w, nil)
}

// handleDisplayQR renders a QR code pointing at the display board so a
// phone or TV stick can be pointed at the projector page in one scan.
func (h *Handlers) handleDisplayQR(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	displayURL := scheme + "://" + r.Host + "/display"

	size := 256
	if s := r.URL.Query().Get("size"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 64 || parsed > 1024 {
			respondError(w, BadRequest("Invalid size parameter"))
			return
		}
		size = parsed
	}

	png, err := qrcode.Encode(displayURL, qrcode.Medium, size)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
