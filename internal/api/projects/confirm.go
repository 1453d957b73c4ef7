// Package projects implements project provisioning and the swagger-URI read.
//
// Confirming a project assigns it a network identifier (4 random bytes as
// 8 hex characters) and records the documentation URI, then notifies every
// user of the project. The identifier is set once; there is no collision check
// against other projects and no in-band way to clear it.
package projects

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/network-onboarding/network-onboarding/internal/db/repositories"
	"github.com/network-onboarding/network-onboarding/internal/notify"
)

// Handlers handles project provisioning endpoints
type Handlers struct {
	db            *sqlx.DB
	projects      *repositories.ProjectRepository
	registrations *repositories.RegistrationRepository
	notifier      notify.Enqueuer
}

// NewHandlers creates a new projects Handlers instance
func NewHandlers(db *sqlx.DB, notifier notify.Enqueuer) *Handlers {
	return &Handlers{
		db:            db,
		projects:      repositories.NewProjectRepository(db),
		registrations: repositories.NewRegistrationRepository(db),
		notifier:      notifier,
	}
}

// ConfirmProjectRequest is the provisioning payload for POST /confirm-project.
type ConfirmProjectRequest struct {
	ProjectID  int64  `json:"projectid"`
	SwaggerURL string `json:"swagger_url"`
}

// generateNetworkID returns 4 random bytes as an 8-character lowercase hex string.
func generateNetworkID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// @Summary      Confirm project
// @Description  Assign a network identifier to a project, record its swagger URL, and notify every user of the project (best-effort).
// @Tags         Projects
// @Accept       json
// @Produce      plain
// @Param        body  body  ConfirmProjectRequest  true  "Project identifier and swagger URL"
// @Success      200  {string}  string  "Project confirmed, network ID created, and swagger URL updated."
// @Failure      400  {string}  string  "projectid or swagger_url missing"
// @Failure      500  {string}  string  "Project not found or transactional error"
// @Router       /confirm-project [post]
// ConfirmProjectHandler provisions a project with a network identifier
// POST /confirm-project
func (h *Handlers) ConfirmProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == 0 || req.SwaggerURL == "" {
			c.String(http.StatusBadRequest, "Invalid input: projectid and swagger_url are required.")
			return
		}

		ctx := c.Request.Context()

		tx, err := h.db.BeginTxx(ctx, nil)
		if err != nil {
			slog.Error("confirm-project: begin transaction failed", "error", err)
			c.String(http.StatusInternalServerError, "An error occurred while confirming the project. %v", err)
			return
		}

		pending, err := h.confirm(ctx, tx, &req)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("confirm-project: rollback failed", "error", rbErr)
			}
			slog.Error("confirm-project failed", "projectid", req.ProjectID, "error", err)
			c.String(http.StatusInternalServerError, "An error occurred while confirming the project. %v", err)
			return
		}

		if err := tx.Commit(); err != nil {
			slog.Error("confirm-project: commit failed", "projectid", req.ProjectID, "error", err)
			c.String(http.StatusInternalServerError, "An error occurred while confirming the project. %v", err)
			return
		}

		for _, msg := range pending {
			h.notifier.Enqueue(msg)
		}

		c.String(http.StatusOK, "Project confirmed, network ID created, and swagger URL updated.")
	}
}

// confirm performs the provisioning statements inside the caller's transaction
// and returns the network-created messages to enqueue after commit.
func (h *Handlers) confirm(ctx context.Context, tx *sqlx.Tx, req *ConfirmProjectRequest) ([]notify.Message, error) {
	project, err := h.projects.GetTx(ctx, tx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.New("Project not found.")
	}

	networkID, err := generateNetworkID()
	if err != nil {
		return nil, err
	}

	if err := h.projects.SetNetworkTx(ctx, tx, req.ProjectID, networkID, req.SwaggerURL); err != nil {
		return nil, err
	}

	regs, err := h.registrations.ListByProjectTx(ctx, tx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	pending := make([]notify.Message, 0, len(regs))
	for _, reg := range regs {
		pending = append(pending, notify.Message{
			Kind:      notify.KindNetworkCreated,
			To:        reg.Email,
			Username:  reg.Username,
			OrgName:   reg.OrgName,
			NetworkID: networkID,
		})
	}
	return pending, nil
}
