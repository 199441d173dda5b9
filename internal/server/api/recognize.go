package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/gesture"
	"github.com/ayusman/tactus/internal/monitoring"
	"github.com/ayusman/tactus/internal/recognizer"
	"github.com/ayusman/tactus/internal/touch"
)

// RecognizeHandler classifies complete frame sequences posted by clients.
type RecognizeHandler struct {
	cfg config.Config
}

// NewRecognizeHandler creates a new RecognizeHandler using cfg for every request.
func NewRecognizeHandler(cfg config.Config) *RecognizeHandler {
	return &RecognizeHandler{cfg: cfg}
}

type recognizeRequest struct {
	Frames []touch.Frame `json:"frames"`
}

type recognizeResponse struct {
	ID         string          `json:"id"`
	Frames     int             `json:"frames"`
	Recognized bool            `json:"recognized"`
	Gesture    *gesture.Result `json:"gesture"`
}

// ServeHTTP handles POST /api/recognize.
func (h *RecognizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req recognizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Frames) == 0 {
		writeError(w, http.StatusBadRequest, "frames are required")
		return
	}

	rec, err := recognizer.NewDefault(h.cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create recognizer")
		return
	}

	res, err := rec.Recognize(req.Frames)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "recognition failed")
		return
	}

	id := uuid.NewString()
	monitoring.Logf("Recognize %s: %d frames -> %v", id, len(req.Frames), res)

	writeJSON(w, http.StatusOK, recognizeResponse{
		ID:         id,
		Frames:     len(req.Frames),
		Recognized: res != nil,
		Gesture:    res,
	})
}

// ClassifiersHandler lists the classifiers in the order they are consulted.
type ClassifiersHandler struct {
	names []string
}

// NewClassifiersHandler creates a new ClassifiersHandler for the default classifier set.
func NewClassifiersHandler(cfg config.Config) (*ClassifiersHandler, error) {
	rec, err := recognizer.NewDefault(cfg)
	if err != nil {
		return nil, err
	}
	return &ClassifiersHandler{names: rec.Classifiers()}, nil
}

type classifiersResponse struct {
	Classifiers []string `json:"classifiers"`
}

// ServeHTTP handles GET /api/classifiers.
func (h *ClassifiersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, classifiersResponse{Classifiers: h.names})
}
