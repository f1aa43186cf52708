package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/bryanwahyu/sentinel-review/internal/application/analysis"
	domai "github.com/bryanwahyu/sentinel-review/internal/domain/ai"
	"github.com/bryanwahyu/sentinel-review/internal/domain/review"
	"github.com/bryanwahyu/sentinel-review/internal/infra/storage"
	"github.com/bryanwahyu/sentinel-review/internal/middleware"
)

const maxUploadBytes = 32 << 20

type Router struct {
	svc   *appanalysis.Service
	media *storage.Store
}

// NewRouter mounts the review API. media may be nil, in which case the
// storage routes are not registered.
func NewRouter(svc *appanalysis.Service, media *storage.Store) http.Handler {
	r := &Router{svc: svc, media: media}
	mux := chi.NewRouter()

	mux.Get("/health", middleware.HealthHandler(r.checkers()))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api/v1", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/analyze/upload", r.wrap(r.handleAnalyzeUpload))
		rt.Post("/analyze/initial", r.wrap(r.handleAnalyzeInitial))
		rt.Post("/analyze/location", r.wrap(r.handleLocate))

		if media != nil {
			rt.Post("/storage/upload", r.wrap(r.handleStorageUpload))
			rt.Get("/storage/list", r.wrap(r.handleStorageList))
			rt.Get("/storage/file/*", r.wrap(r.handleStorageGet))
			rt.Delete("/storage/file/*", r.wrap(r.handleStorageDelete))
		}
	})

	return mux
}

func (r *Router) checkers() map[string]middleware.HealthChecker {
	checkers := map[string]middleware.HealthChecker{}
	if r.media != nil {
		checkers["storage"] = middleware.CheckerFunc(r.media.Healthy)
	}
	return checkers
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, review.ErrNoInput),
				errors.Is(err, review.ErrAmbiguousInput),
				errors.Is(err, review.ErrUnsupportedFile),
				errors.Is(err, review.ErrMalformedResponse):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, review.ErrUploadNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, domai.ErrUpstream):
				slog.Error("upstream analysis failed", "path", req.URL.Path, "error", err)
				http.Error(w, "analysis failed", http.StatusInternalServerError)
			default:
				slog.Error("request failed", "path", req.URL.Path, "error", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /api/v1/analyze
// Body: {"video_url": "...", "image_url": "...", "frame_rate": 1.0, "speed": "fast"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		VideoURL  string  `json:"video_url"`
		ImageURL  string  `json:"image_url"`
		FrameRate float64 `json:"frame_rate"`
		Speed     string  `json:"speed"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", review.ErrNoInput)
	}

	if body.FrameRate == 0 {
		body.FrameRate = 1.0
	}
	if err := middleware.ValidateFrameRate(body.FrameRate); err != nil {
		return fmt.Errorf("%w: %v", review.ErrNoInput, err)
	}
	if err := middleware.ValidateSpeed(body.Speed); err != nil {
		return fmt.Errorf("%w: %v", review.ErrNoInput, err)
	}
	if body.VideoURL != "" {
		if err := middleware.ValidateContentURL(body.VideoURL); err != nil {
			return fmt.Errorf("%w: %v", review.ErrNoInput, err)
		}
	}
	if body.ImageURL != "" {
		if err := middleware.ValidateContentURL(body.ImageURL); err != nil {
			return fmt.Errorf("%w: %v", review.ErrNoInput, err)
		}
	}

	result, err := r.svc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		VideoURL:  body.VideoURL,
		ImageURL:  body.ImageURL,
		FrameRate: body.FrameRate,
		Speed:     appanalysis.Speed(strings.ToLower(body.Speed)),
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	middleware.IncrementAnalyses()
	return writeJSON(w, http.StatusOK, result)
}

func readUploadedImage(req *http.Request) ([]byte, string, error) {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", fmt.Errorf("%w: invalid multipart form", review.ErrNoInput)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("%w: file field is required", review.ErrNoInput)
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := middleware.ValidateUploadContentType(contentType); err != nil {
		return nil, "", fmt.Errorf("%w: %v", review.ErrUnsupportedFile, err)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

// POST /api/v1/analyze/upload
// Multipart form with an image under "file"; single-step review with locations.
func (r *Router) handleAnalyzeUpload(w http.ResponseWriter, req *http.Request) error {
	data, contentType, err := readUploadedImage(req)
	if err != nil {
		return err
	}

	speed := appanalysis.Speed(strings.ToLower(req.FormValue("speed")))
	if err := middleware.ValidateSpeed(string(speed)); err != nil {
		return fmt.Errorf("%w: %v", review.ErrNoInput, err)
	}

	result, err := r.svc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		ImageData: data,
		ImageMIME: contentType,
		Speed:     speed,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	middleware.IncrementAnalyses()
	return writeJSON(w, http.StatusOK, result)
}

// POST /api/v1/analyze/initial
// Multipart form with an image under "file"; phase 1 of the two-step flow.
func (r *Router) handleAnalyzeInitial(w http.ResponseWriter, req *http.Request) error {
	data, contentType, err := readUploadedImage(req)
	if err != nil {
		return err
	}

	speed := appanalysis.Speed(strings.ToLower(req.FormValue("speed")))
	if err := middleware.ValidateSpeed(string(speed)); err != nil {
		return fmt.Errorf("%w: %v", review.ErrNoInput, err)
	}

	result, err := r.svc.AnalyzeInitial(req.Context(), data, contentType, speed)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	middleware.IncrementAnalyses()
	middleware.IncrementUploadsCached()
	return writeJSON(w, http.StatusOK, result)
}

// POST /api/v1/analyze/location
// Body: {"issue_id": "...", "issue_description": "...", "image_url": "..."}
func (r *Router) handleLocate(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		IssueID          string `json:"issue_id"`
		IssueDescription string `json:"issue_description"`
		ImageURL         string `json:"image_url"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid request body", review.ErrNoInput)
	}
	if err := middleware.ValidateIssueID(body.IssueID); err != nil {
		return fmt.Errorf("%w: %v", review.ErrUploadNotFound, err)
	}
	if body.IssueDescription == "" {
		return fmt.Errorf("%w: issue_description is required", review.ErrNoInput)
	}

	loc, err := r.svc.LocateIssue(req.Context(), body.IssueID, middleware.SanitizeString(body.IssueDescription), body.ImageURL)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, loc)
}

// POST /api/v1/storage/upload
// Multipart form with a media file under "file".
func (r *Router) handleStorageUpload(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return fmt.Errorf("%w: invalid multipart form", review.ErrNoInput)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: file field is required", review.ErrNoInput)
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return fmt.Errorf("%w: only image and video files are accepted", review.ErrUnsupportedFile)
	}

	item, err := r.media.UploadStream(req.Context(), header.Filename, file, header.Size, contentType)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, item)
}

// GET /api/v1/storage/list
func (r *Router) handleStorageList(w http.ResponseWriter, req *http.Request) error {
	items, err := r.media.List(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"files": items,
		"total": len(items),
	})
}

func objectKeyParam(req *http.Request) (string, error) {
	key := chi.URLParam(req, "*")
	if err := middleware.ValidateObjectPath(key); err != nil {
		return "", fmt.Errorf("%w: %v", review.ErrUploadNotFound, err)
	}
	return key, nil
}

// parseRange parses a single "bytes=start-end" header. A missing or
// unusable header yields (-1, -1) and a full-body response.
func parseRange(header string, size int64) (start, end int64, ok bool) {
	if !strings.HasPrefix(header, "bytes=") {
		return -1, -1, false
	}
	spec := strings.TrimPrefix(header, "bytes=")
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return -1, -1, false
	}

	if parts[0] == "" {
		// Suffix range: last N bytes
		n, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || n <= 0 {
			return -1, -1, false
		}
		if n > size {
			n = size
		}
		return size - n, size - 1, true
	}

	start, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || start < 0 {
		return -1, -1, false
	}
	if parts[1] == "" {
		return start, size - 1, true
	}
	end, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil || end < start {
		return -1, -1, false
	}
	if end >= size {
		end = size - 1
	}
	return start, end, true
}

// GET /api/v1/storage/file/{key}
// Streams the object, honoring a single Range header for media seeking.
func (r *Router) handleStorageGet(w http.ResponseWriter, req *http.Request) error {
	key, err := objectKeyParam(req)
	if err != nil {
		return err
	}

	info, err := r.media.Stat(req.Context(), key)
	if err != nil {
		if storage.IsNotFound(err) {
			return fmt.Errorf("%w: %s", review.ErrUploadNotFound, key)
		}
		return err
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	start, end, ranged := parseRange(req.Header.Get("Range"), info.Size)
	if ranged && start >= info.Size {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", info.Size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return nil
	}

	if !ranged {
		start, end = -1, -1
	}
	body, err := r.media.Stream(req.Context(), key, start, end)
	if err != nil {
		return err
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")
	if ranged {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, info.Size))
		w.Header().Set("Content-Length", strconv.FormatInt(end-start+1, 10))
		w.WriteHeader(http.StatusPartialContent)
	} else {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}

	if _, err := io.Copy(w, body); err != nil {
		// Client disconnects are routine during media playback.
		slog.Debug("storage stream interrupted", "key", key, "error", err)
	}
	return nil
}

// DELETE /api/v1/storage/file/{key}
func (r *Router) handleStorageDelete(w http.ResponseWriter, req *http.Request) error {
	key, err := objectKeyParam(req)
	if err != nil {
		return err
	}

	if err := r.media.Delete(req.Context(), key); err != nil {
		if storage.IsNotFound(err) {
			return fmt.Errorf("%w: %s", review.ErrUploadNotFound, key)
		}
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "file": key})
}
