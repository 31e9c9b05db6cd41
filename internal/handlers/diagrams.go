// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"mizan/internal/models"
	"mizan/internal/realtime"
	"mizan/internal/storage"
)

const (
	// maxUploadSize is the maximum allowed file upload size (20 MB).
	maxUploadSize = 20 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps decoded image dimensions to prevent memory
	// bombs. 10000x10000 decodes to roughly 400 MB of RGBA.
	maxImagePixels = 100_000_000
)

// allowedImageTypes defines MIME types accepted for diagram uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// assetRequest carries the writable metadata fields shared by diagrams
// and templates. The binary itself is attached by a separate upload.
type assetRequest struct {
	TitleEN       string `json:"title_en"`
	TitleAR       string `json:"title_ar"`
	DescriptionEN string `json:"description_en"`
	DescriptionAR string `json:"description_ar"`
	Category      string `json:"category"`
}

func (req *assetRequest) validate() string {
	if msg := validateBilingualTitle(req.TitleEN, req.TitleAR); msg != "" {
		return msg
	}
	if msg := validateContent(req.DescriptionEN, req.DescriptionAR); msg != "" {
		return msg
	}
	return validateGroupLabel(req.Category)
}

// DiagramsList returns all diagrams sorted by position.
func (a *Admin) DiagramsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.diagrams.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "diagrams")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// DiagramCreate inserts a new diagram record at the end of the order.
// The image is uploaded separately once the record exists.
func (a *Admin) DiagramCreate(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.diagrams.Create(r.Context(), &models.Diagram{
		TitleEN:       req.TitleEN,
		TitleAR:       req.TitleAR,
		DescriptionEN: req.DescriptionEN,
		DescriptionAR: req.DescriptionAR,
		Category:      req.Category,
	})
	if err != nil {
		writeStoreError(w, err, "diagram")
		return
	}

	a.notifyChange(r, realtime.TopicDiagrams)
	writeJSON(w, http.StatusCreated, created)
}

// DiagramUpdate modifies a diagram's metadata fields.
func (a *Admin) DiagramUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req assetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.diagrams.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "diagram")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "diagram not found")
		return
	}

	existing.TitleEN = req.TitleEN
	existing.TitleAR = req.TitleAR
	existing.DescriptionEN = req.DescriptionEN
	existing.DescriptionAR = req.DescriptionAR
	existing.Category = req.Category
	if err := a.diagrams.Update(r.Context(), existing); err != nil {
		writeStoreError(w, err, "diagram")
		return
	}

	a.notifyChange(r, realtime.TopicDiagrams)
	writeJSON(w, http.StatusOK, existing)
}

// DiagramUploadImage attaches an image to an existing diagram via
// multipart upload. A thumbnail is generated for large raster images.
// Replacing an image deletes the previous stored objects best-effort.
func (a *Admin) DiagramUploadImage(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, err := a.diagrams.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "diagram")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "diagram not found")
		return
	}

	fileBytes, filename, contentType, ok := readUpload(w, r, allowedImageTypes)
	if !ok {
		return
	}

	ctx := r.Context()
	key := storage.DiagramKey(id, filename)
	if err := a.storageClient.Upload(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("image upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	var thumbKey *string
	if thumbableTypes[contentType] {
		thumbData, err := generateThumbnail(bytes.NewReader(fileBytes), thumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		} else if thumbData != nil {
			tk := storage.DiagramThumbKey(id)
			if err := a.storageClient.Upload(ctx, tk, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				thumbKey = &tk
			}
		}
	}

	url := a.storageClient.FileURL(key)
	if err := a.diagrams.SetImage(ctx, id, url, key, filename, int64(len(fileBytes)), thumbKey); err != nil {
		writeStoreError(w, err, "diagram")
		return
	}

	// The old objects are unreferenced now; leftover files only waste
	// bucket space, so failures are logged and forgotten. A same-second
	// replacement can produce identical keys — never delete those.
	if existing.ImageS3Key != key {
		if thumbKey != nil && existing.ThumbS3Key != nil && *existing.ThumbS3Key == *thumbKey {
			existing.ThumbS3Key = nil
		}
		a.deleteDiagramAssets(r, existing)
	}

	a.notifyChange(r, realtime.TopicDiagrams)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        id,
		"image_url": url,
		"has_thumb": thumbKey != nil,
	})
}

// DiagramRegenerateThumb rebuilds the thumbnail from the stored
// original. Covers images whose generation failed at upload time and
// diagrams migrated from the previous console, which carry only a
// public URL.
func (a *Admin) DiagramRegenerateThumb(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, err := a.diagrams.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "diagram")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "diagram not found")
		return
	}

	key := existing.ImageS3Key
	if key == "" {
		// Migrated rows recorded only the public URL.
		key, _ = a.storageClient.ExtractS3Key(existing.ImageURL)
	}
	if key == "" {
		writeError(w, http.StatusConflict, "diagram has no image")
		return
	}

	ctx := r.Context()
	original, err := a.storageClient.Download(ctx, key)
	if err != nil {
		slog.Error("image download failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to read stored image")
		return
	}
	if !thumbableTypes[http.DetectContentType(original)] {
		writeError(w, http.StatusConflict, "image type does not support thumbnails")
		return
	}

	thumbData, err := generateThumbnail(bytes.NewReader(original), thumbMaxWidth)
	if err != nil {
		slog.Error("thumbnail generation failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to generate thumbnail")
		return
	}

	// A nil thumbData means the original is already thumbnail-sized;
	// any stale thumbnail reference is cleared below.
	var thumbKey *string
	if thumbData != nil {
		tk := storage.DiagramThumbKey(id)
		if err := a.storageClient.Upload(ctx, tk, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
			slog.Error("thumbnail upload failed", "error", err, "key", tk)
			writeError(w, http.StatusInternalServerError, "failed to store thumbnail")
			return
		}
		thumbKey = &tk
	}
	if err := a.diagrams.SetThumb(ctx, id, thumbKey); err != nil {
		writeStoreError(w, err, "diagram")
		return
	}

	if existing.ThumbS3Key != nil && (thumbKey == nil || *existing.ThumbS3Key != *thumbKey) {
		if err := a.storageClient.Delete(ctx, *existing.ThumbS3Key); err != nil {
			slog.Warn("thumbnail delete failed", "error", err, "key", *existing.ThumbS3Key)
		}
	}

	a.notifyChange(r, realtime.TopicDiagrams)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        id,
		"has_thumb": thumbKey != nil,
	})
}

// DiagramDelete removes a diagram and its stored image.
func (a *Admin) DiagramDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := a.diagrams.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "diagram")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "diagram not found")
		return
	}

	if err := a.diagrams.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "diagram")
		return
	}

	a.deleteDiagramAssets(r, existing)

	a.notifyChange(r, realtime.TopicDiagrams)
	w.WriteHeader(http.StatusNoContent)
}

// deleteDiagramAssets removes a diagram's stored objects, best-effort.
func (a *Admin) deleteDiagramAssets(r *http.Request, d *models.Diagram) {
	if a.storageClient == nil || !d.HasImage() {
		return
	}
	ctx := r.Context()
	if err := a.storageClient.Delete(ctx, d.ImageS3Key); err != nil {
		slog.Warn("image delete failed", "error", err, "key", d.ImageS3Key)
	}
	if d.ThumbS3Key != nil {
		if err := a.storageClient.Delete(ctx, *d.ThumbS3Key); err != nil {
			slog.Warn("thumbnail delete failed", "error", err, "key", *d.ThumbS3Key)
		}
	}
}

// DiagramMoveUp swaps the diagram with its predecessor.
func (a *Admin) DiagramMoveUp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.move(w, r, realtime.TopicDiagrams, "diagram", func() error {
		return a.diagrams.MoveUp(r.Context(), id)
	})
}

// DiagramMoveDown swaps the diagram with its successor.
func (a *Admin) DiagramMoveDown(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.move(w, r, realtime.TopicDiagrams, "diagram", func() error {
		return a.diagrams.MoveDown(r.Context(), id)
	})
}

// readUpload extracts the "file" part from a multipart request,
// enforces the size limit and sniffs the content type against the
// allowed set. Returns ok=false after writing an error response.
func readUpload(w http.ResponseWriter, r *http.Request, allowed map[string]bool) (data []byte, filename, contentType string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 20 MB")
		return nil, "", "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return nil, "", "", false
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 20 MB")
		return nil, "", "", false
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return nil, "", "", false
	}

	// Trust the bytes, not the declared Content-Type header.
	contentType = http.DetectContentType(fileBytes)
	if !allowed[contentType] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
		return nil, "", "", false
	}

	return fileBytes, header.Filename, contentType, true
}

// generateThumbnail creates a JPEG thumbnail from an image, constrained
// to maxWidth while preserving aspect ratio. Returns nil if the image
// is already smaller than maxWidth.
func generateThumbnail(src io.Reader, maxWidth int) ([]byte, error) {
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	seeker, ok := src.(io.Seeker)
	if !ok {
		return nil, fmt.Errorf("source does not support seeking")
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
