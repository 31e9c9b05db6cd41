// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"mizan/internal/models"
	"mizan/internal/realtime"
	"mizan/internal/storage"
)

// allowedPDFTypes restricts template uploads to PDF documents.
var allowedPDFTypes = map[string]bool{
	"application/pdf": true,
}

// TemplatesList returns all templates sorted by position.
func (a *Admin) TemplatesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.templates.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "templates")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// TemplateCreate inserts a new template record at the end of the order.
// The PDF is uploaded separately once the record exists.
func (a *Admin) TemplateCreate(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.templates.Create(r.Context(), &models.Template{
		TitleEN:       req.TitleEN,
		TitleAR:       req.TitleAR,
		DescriptionEN: req.DescriptionEN,
		DescriptionAR: req.DescriptionAR,
		Category:      req.Category,
	})
	if err != nil {
		writeStoreError(w, err, "template")
		return
	}

	a.notifyChange(r, realtime.TopicTemplates)
	writeJSON(w, http.StatusCreated, created)
}

// TemplateUpdate modifies a template's metadata fields.
func (a *Admin) TemplateUpdate(w http.ResponseWriter, r *http.Request) {
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

	existing, err := a.templates.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "template")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	existing.TitleEN = req.TitleEN
	existing.TitleAR = req.TitleAR
	existing.DescriptionEN = req.DescriptionEN
	existing.DescriptionAR = req.DescriptionAR
	existing.Category = req.Category
	if err := a.templates.Update(r.Context(), existing); err != nil {
		writeStoreError(w, err, "template")
		return
	}

	a.notifyChange(r, realtime.TopicTemplates)
	writeJSON(w, http.StatusOK, existing)
}

// TemplateUploadPDF attaches a PDF to an existing template via
// multipart upload. Replacing a PDF deletes the previous stored object
// best-effort.
func (a *Admin) TemplateUploadPDF(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, err := a.templates.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "template")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	fileBytes, filename, contentType, ok := readUpload(w, r, allowedPDFTypes)
	if !ok {
		return
	}

	ctx := r.Context()
	key := storage.TemplateKey(id)
	if err := a.storageClient.Upload(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("pdf upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "failed to store pdf")
		return
	}

	url := a.storageClient.FileURL(key)
	if err := a.templates.SetPDF(ctx, id, url, key, filename, int64(len(fileBytes))); err != nil {
		writeStoreError(w, err, "template")
		return
	}

	// A same-second replacement produces an identical key; skipping the
	// cleanup then keeps the fresh upload alive.
	if existing.PDFS3Key != key {
		a.deleteTemplateAsset(r, existing)
	}

	a.notifyChange(r, realtime.TopicTemplates)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"pdf_url": url,
	})
}

// TemplateDelete removes a template and its stored PDF.
func (a *Admin) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := a.templates.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "template")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	if err := a.templates.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "template")
		return
	}

	a.deleteTemplateAsset(r, existing)

	a.notifyChange(r, realtime.TopicTemplates)
	w.WriteHeader(http.StatusNoContent)
}

// deleteTemplateAsset removes a template's stored PDF, best-effort.
func (a *Admin) deleteTemplateAsset(r *http.Request, t *models.Template) {
	if a.storageClient == nil || !t.HasPDF() {
		return
	}
	if err := a.storageClient.Delete(r.Context(), t.PDFS3Key); err != nil {
		slog.Warn("pdf delete failed", "error", err, "key", t.PDFS3Key)
	}
}

// TemplateMoveUp swaps the template with its predecessor.
func (a *Admin) TemplateMoveUp(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.move(w, r, realtime.TopicTemplates, "template", func() error {
		return a.templates.MoveUp(r.Context(), id)
	})
}

// TemplateMoveDown swaps the template with its successor.
func (a *Admin) TemplateMoveDown(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.move(w, r, realtime.TopicTemplates, "template", func() error {
		return a.templates.MoveDown(r.Context(), id)
	})
}
