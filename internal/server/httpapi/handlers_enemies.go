package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/grudgekeeper/internal/server/models"
)

// enemyResponse is the wire shape of an enemy record. The internal owner
// identifier is never part of it.
type enemyResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	GrudgeLevel int    `json:"grudgeLevel"`
	Description string `json:"description,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

func toEnemyResponse(e *models.Enemy) enemyResponse {
	return enemyResponse{
		ID:          e.ID.Hex(),
		Name:        e.Name,
		GrudgeLevel: e.GrudgeLevel,
		Description: e.Description,
		Avatar:      e.Avatar,
	}
}

type createEnemyRequest struct {
	Name        string `json:"name"`
	GrudgeLevel *int   `json:"grudgeLevel"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

type updateEnemyRequest struct {
	Name        *string `json:"name"`
	GrudgeLevel *int    `json:"grudgeLevel"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
}

// handleEnemies is the single entry point for the enemy resource,
// multiplexed by HTTP method. requireAuth has already established the
// caller's identity by the time this runs.
func (s *Server) handleEnemies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEnemies(w, r)
	case http.MethodPost:
		s.createEnemy(w, r)
	case http.MethodPut:
		s.updateEnemy(w, r)
	case http.MethodDelete:
		s.deleteEnemy(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", r.Method))
	}
}

func (s *Server) listEnemies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := userIDFromContext(ctx)

	all, err := s.enemies.List(ctx, ownerID)
	if err != nil {
		s.logger.Error(ctx, "failed to fetch enemies", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch enemies")
		return
	}

	result := make([]enemyResponse, 0, len(all))
	for _, e := range all {
		result = append(result, toEnemyResponse(e))
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) createEnemy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := userIDFromContext(ctx)

	var req createEnemyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.enemies.Create(ctx, ownerID, req.Name, req.GrudgeLevel, req.Description, req.Avatar)
	if err != nil {
		s.logger.Error(ctx, "failed to create enemy", "error", err)
		writeServiceError(w, err)
		return
	}

	s.logger.Info(ctx, "enemy created", "id", created.ID.Hex())
	writeJSON(w, http.StatusCreated, toEnemyResponse(created))
}

func (s *Server) updateEnemy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := userIDFromContext(ctx)
	id := r.URL.Query().Get("id")

	var req updateEnemyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	patch := models.EnemyPatch{
		Name:        req.Name,
		GrudgeLevel: req.GrudgeLevel,
		Description: req.Description,
		Avatar:      req.Avatar,
	}

	updated, err := s.enemies.Update(ctx, ownerID, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEnemyResponse(updated))
}

func (s *Server) deleteEnemy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := userIDFromContext(ctx)
	id := r.URL.Query().Get("id")

	if err := s.enemies.Delete(ctx, ownerID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(ctx, "enemy deleted", "id", id)
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Enemy ID %s has been successfully deleted", id),
	})
}

// handleAvatarUpload hands out a presigned PUT URL plus the storage key the
// client should set as the enemy's avatar after uploading.
func (s *Server) handleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", r.Method))
		return
	}

	ctx := r.Context()

	key, url, err := s.avatars.PresignUpload(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to presign avatar upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"key":       key,
		"uploadUrl": url,
	})
}

// handleAvatarURL resolves a stored avatar key to a presigned GET URL so
// clients can display the image without storage credentials.
func (s *Server) handleAvatarURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", r.Method))
		return
	}

	ctx := r.Context()

	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := s.avatars.PresignDownload(ctx, key)
	if err != nil {
		s.logger.Error(ctx, "failed to presign avatar download", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
