// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Mizan admin API. It organizes routes into public, auth and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mizan/internal/handlers"
	"mizan/internal/middleware"
	"mizan/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Public read-only API for the student-facing apps.
		r.Get("/categories", public.Categories)
		r.Get("/categories/{id}/subcategories", public.Subcategories)
		r.Get("/subcategories/{id}/html", public.SubcategoryHTML)
		r.Get("/glossary", public.Glossary)
		r.Get("/diagrams", public.Diagrams)
		r.Get("/templates", public.Templates)

		// Authentication.
		r.Post("/auth/login", auth.Login)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			// 2FA endpoints require a session but NOT completed 2FA.
			r.Post("/auth/2fa/setup", auth.TwoFASetup)
			r.Post("/auth/2fa/verify", auth.TwoFAVerify)
			r.Get("/auth/me", auth.Me)
			r.Post("/auth/logout", auth.Logout)
		})

		// Authenticated + 2FA-verified admin area.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Categories and their subcategories.
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Post("/", admin.CategoryCreate)
				r.Get("/watch", admin.WatchCategories)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
				r.Post("/{id}/move-up", admin.CategoryMoveUp)
				r.Post("/{id}/move-down", admin.CategoryMoveDown)
				r.Get("/{id}/watch", admin.WatchSubcategories)
				r.Get("/{id}/subcategories", admin.SubcategoriesList)
				r.Post("/{id}/subcategories", admin.SubcategoryCreate)
			})

			r.Route("/subcategories", func(r chi.Router) {
				r.Put("/{id}", admin.SubcategoryUpdate)
				r.Delete("/{id}", admin.SubcategoryDelete)
				r.Post("/{id}/move-up", admin.SubcategoryMoveUp)
				r.Post("/{id}/move-down", admin.SubcategoryMoveDown)
			})

			// Glossary.
			r.Route("/glossary", func(r chi.Router) {
				r.Get("/", admin.GlossaryList)
				r.Post("/", admin.GlossaryCreate)
				r.Get("/watch", admin.WatchGlossary)
				r.Put("/{id}", admin.GlossaryUpdate)
				r.Delete("/{id}", admin.GlossaryDelete)
				r.Post("/{id}/move-up", admin.GlossaryMoveUp)
				r.Post("/{id}/move-down", admin.GlossaryMoveDown)
			})

			// Diagrams.
			r.Route("/diagrams", func(r chi.Router) {
				r.Get("/", admin.DiagramsList)
				r.Post("/", admin.DiagramCreate)
				r.Get("/watch", admin.WatchDiagrams)
				r.Put("/{id}", admin.DiagramUpdate)
				r.Delete("/{id}", admin.DiagramDelete)
				r.Post("/{id}/move-up", admin.DiagramMoveUp)
				r.Post("/{id}/move-down", admin.DiagramMoveDown)
				r.Post("/{id}/image", admin.DiagramUploadImage)
				r.Post("/{id}/regenerate-thumb", admin.DiagramRegenerateThumb)
			})

			// Templates.
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", admin.TemplatesList)
				r.Post("/", admin.TemplateCreate)
				r.Get("/watch", admin.WatchTemplates)
				r.Put("/{id}", admin.TemplateUpdate)
				r.Delete("/{id}", admin.TemplateDelete)
				r.Post("/{id}/move-up", admin.TemplateMoveUp)
				r.Post("/{id}/move-down", admin.TemplateMoveDown)
				r.Post("/{id}/pdf", admin.TemplateUploadPDF)
			})

			// Editor preview.
			r.Post("/preview", admin.ContentPreview)

			// User management — admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.UsersList)
				r.Post("/", admin.UserCreate)
				r.Delete("/{id}", admin.UserDelete)
				r.Post("/{id}/reset-2fa", admin.UserResetTOTP)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
