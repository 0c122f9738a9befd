package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/auth"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/db"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/httpx"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/middleware"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/models"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/storage"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/transport"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Server carries the cross-cutting endpoints that do not belong to a single
// entity package: admin auth, health and the Cloudinary utility routes.
type Server struct {
	Cols   *db.Collections
	Val    *validation.Validator
	Log    *slog.Logger
	Tokens *auth.Manager
	Store  *storage.CloudinaryStorage
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	transport.WriteMessage(w, http.StatusOK, "server is ready", nil)
}

func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var admin models.Admin
	err := s.Cols.Admins.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		log.Warn("admin login: failed attempt", slog.String("email", email))
		transport.WriteError(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}
	if err != nil {
		log.Error("admin login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if err := auth.ComparePassword(admin.PasswordHash, req.Password); err != nil {
		log.Warn("admin login: failed attempt", slog.String("email", email))
		transport.WriteError(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	token, err := s.Tokens.NewToken(admin.ID)
	if err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "could not issue token", nil)
		return
	}

	log.Info("admin login: ok", slog.String("admin_id", admin.ID))
	transport.WriteData(w, http.StatusOK, map[string]interface{}{
		"id":    admin.ID,
		"name":  admin.Name,
		"email": admin.Email,
		"token": token,
	})
}

func (s *Server) AdminLogout(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	admin, _ := middleware.AdminFromContext(r.Context())
	log.Info("admin logout: ok", slog.String("admin_email", admin.Email))
	transport.WriteMessage(w, http.StatusOK, "logged out", nil)
}

// FindAdmin resolves a token subject to an admin account. Wired into the
// AdminAuth middleware as its lookup function.
func (s *Server) FindAdmin(ctx context.Context, id string) (middleware.AdminIdentity, error) {
	var admin models.Admin
	if err := s.Cols.Admins.FindOne(ctx, bson.M{"_id": id}).Decode(&admin); err != nil {
		return middleware.AdminIdentity{}, err
	}
	return middleware.AdminIdentity{ID: admin.ID, Name: admin.Name, Email: admin.Email}, nil
}

// CloudinarySignature signs parameters for direct browser uploads so the API
// secret never leaves the server.
func (s *Server) CloudinarySignature(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	folder := strings.TrimSpace(r.URL.Query().Get("folder"))
	if folder == "" {
		folder = storage.ImageFolder
	}

	timestamp := time.Now().Unix()
	signature, err := s.Store.SignUploadParams(folder, timestamp)
	if err != nil {
		log.Error("cloudinary signature: signing error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "could not sign upload params", nil)
		return
	}

	log.Info("cloudinary signature: ok", slog.String("folder", folder))
	transport.WriteData(w, http.StatusOK, map[string]interface{}{
		"timestamp": timestamp,
		"signature": signature,
		"cloudName": s.Store.CloudName(),
		"apiKey":    s.Store.APIKey(),
		"folder":    folder,
	})
}

// CloudinaryDestroy removes a blob by public id. The id is taken from the
// wildcard tail because Cloudinary public ids contain slashes.
func (s *Server) CloudinaryDestroy(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	publicID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/cloudinary/"), "/")
	if publicID == "" {
		log.Warn("cloudinary destroy: missing public id")
		transport.WriteError(w, http.StatusBadRequest, "missing public id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var err error
	if r.URL.Query().Get("resourceType") == "video" {
		err = s.Store.DestroyVideo(ctx, publicID)
	} else {
		err = s.Store.Destroy(ctx, publicID)
	}
	if err != nil {
		log.Warn("cloudinary destroy: failed", slog.String("public_id", publicID), slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "could not delete asset", nil)
		return
	}

	admin, _ := middleware.AdminFromContext(r.Context())
	log.Info("cloudinary destroy: ok", slog.String("public_id", publicID), slog.String("admin_email", admin.Email))
	transport.WriteMessage(w, http.StatusOK, "asset deleted", nil)
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}
