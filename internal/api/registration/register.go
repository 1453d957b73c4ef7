// Package registration implements the transactional project/org/user
// registration endpoint. A single request creates the project row and every
// membership row, or nothing at all: any mid-transaction failure (duplicate
// organization name in the payload, missing nested fields, duplicate username
// hitting the unique constraint) rolls the whole batch back.
package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/network-onboarding/network-onboarding/internal/auth"
	"github.com/network-onboarding/network-onboarding/internal/db/models"
	"github.com/network-onboarding/network-onboarding/internal/db/repositories"
	"github.com/network-onboarding/network-onboarding/internal/notify"
)

// Handlers handles the registration endpoint
type Handlers struct {
	db            *sqlx.DB
	projects      *repositories.ProjectRepository
	registrations *repositories.RegistrationRepository
	notifier      notify.Enqueuer
}

// NewHandlers creates a new registration Handlers instance
func NewHandlers(db *sqlx.DB, notifier notify.Enqueuer) *Handlers {
	return &Handlers{
		db:            db,
		projects:      repositories.NewProjectRepository(db),
		registrations: repositories.NewRegistrationRepository(db),
		notifier:      notifier,
	}
}

// UserInput is one user inside an organization in the registration payload.
type UserInput struct {
	UserType   string `json:"usertype"`
	Username   string `json:"username"`
	UserMailID string `json:"usermailId"`
	Password   string `json:"password"`
}

// OrgInput is one organization with its users in the registration payload.
type OrgInput struct {
	OrgName   string      `json:"orgname"`
	OrgPolicy string      `json:"orgpolicy"`
	Users     []UserInput `json:"users"`
}

// RegisterRequest is the registration payload: a project with one or more
// organizations, each with one or more users.
type RegisterRequest struct {
	ProjectName string     `json:"projectname"`
	GS1Org      string     `json:"gs1Org"`
	Orgs        []OrgInput `json:"orgs"`
}

// @Summary      Register project, organizations, and users
// @Description  Create a project with its organizations and users in a single transaction. Each created user receives a confirmation email (best-effort).
// @Tags         Registration
// @Accept       json
// @Produce      plain
// @Param        body  body  RegisterRequest  true  "Project, organizations, and users"
// @Success      201  {string}  string  "Registration successful"
// @Failure      400  {string}  string  "projectname or orgs missing"
// @Failure      500  {string}  string  "Transactional error, full rollback"
// @Router       /register [post]
// RegisterHandler creates the project and all membership rows transactionally
// POST /register
func (h *Handlers) RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProjectName == "" || len(req.Orgs) == 0 {
			c.String(http.StatusBadRequest, "Invalid input: projectname and a non-empty array of orgs are required.")
			return
		}

		ctx := c.Request.Context()

		tx, err := h.db.BeginTxx(ctx, nil)
		if err != nil {
			slog.Error("registration: begin transaction failed", "error", err)
			c.String(http.StatusInternalServerError, "An error occurred during registration. %v", err)
			return
		}

		pending, err := h.register(ctx, tx, &req)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("registration: rollback failed", "error", rbErr)
			}
			slog.Error("registration failed", "project", req.ProjectName, "error", err)
			c.String(http.StatusInternalServerError, "An error occurred during registration. %v", err)
			return
		}

		if err := tx.Commit(); err != nil {
			slog.Error("registration: commit failed", "project", req.ProjectName, "error", err)
			c.String(http.StatusInternalServerError, "An error occurred during registration. %v", err)
			return
		}

		// Notifications go out only after the rows are durable.
		for _, msg := range pending {
			h.notifier.Enqueue(msg)
		}

		c.String(http.StatusCreated, "Registration successful")
	}
}

// register performs all inserts inside the caller's transaction and returns
// the confirmation messages to enqueue after commit.
func (h *Handlers) register(ctx context.Context, tx *sqlx.Tx, req *RegisterRequest) ([]notify.Message, error) {
	gs1Org := toNullString(req.GS1Org)

	projectID, err := h.projects.CreateTx(ctx, tx, req.ProjectName, gs1Org)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.Orgs))
	for _, org := range req.Orgs {
		if _, dup := seen[org.OrgName]; dup {
			return nil, fmt.Errorf("Invalid input: Duplicate organization name found: %s", org.OrgName)
		}
		seen[org.OrgName] = struct{}{}
	}

	var pending []notify.Message

	for _, org := range req.Orgs {
		if org.OrgName == "" || org.OrgPolicy == "" || len(org.Users) == 0 {
			return nil, errors.New("Invalid input: Each org must have orgname, orgpolicy, and a non-empty array of users.")
		}

		orgID, err := h.registrations.NextOrgIDTx(ctx, tx)
		if err != nil {
			return nil, err
		}

		for _, user := range org.Users {
			if user.UserType == "" || user.Username == "" || user.UserMailID == "" || user.Password == "" {
				return nil, errors.New("Invalid input: Each user must have usertype, username, usermailId, and password.")
			}

			hashed, err := auth.HashPassword(user.Password)
			if err != nil {
				return nil, err
			}

			reg := &models.Registration{
				OrgID:     orgID,
				OrgName:   org.OrgName,
				UserType:  user.UserType,
				Username:  user.Username,
				Email:     user.UserMailID,
				Password:  hashed,
				OrgPolicy: org.OrgPolicy,
				ProjectID: projectID,
			}
			if err := h.registrations.InsertTx(ctx, tx, reg); err != nil {
				if repositories.IsUniqueViolation(err) {
					return nil, fmt.Errorf("Invalid input: Duplicate username found: %s", user.Username)
				}
				return nil, err
			}

			pending = append(pending, notify.Message{
				Kind:     notify.KindRegistration,
				To:       user.UserMailID,
				Username: user.Username,
				OrgName:  org.OrgName,
			})
		}
	}

	return pending, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
