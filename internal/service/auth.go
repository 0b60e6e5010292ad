package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/hrms/internal/auth"
	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/repo"
	"github.com/rs/zerolog"
)

// AuthService registers organisations and authenticates their users.
type AuthService struct {
	store  *repo.Store
	tokens *auth.TokenManager
	logger zerolog.Logger
}

func NewAuthService(store *repo.Store, tokens *auth.TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

type RegisterInput struct {
	OrgName   string
	AdminName string
	Email     string
	Password  string
}

// Session is returned by register and login.
type Session struct {
	Token        string              `json:"token"`
	User         models.UserSummary  `json:"user"`
	Organisation models.Organisation `json:"organisation"`
}

// Register creates the organisation, its first user and the registration
// audit entry in one transaction, then issues a token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var (
		org  *models.Organisation
		user *models.User
	)
	err = s.store.WithTx(ctx, func(tx *repo.Store) error {
		var err error
		if org, err = tx.Organisations().Create(ctx, in.OrgName); err != nil {
			return fmt.Errorf("create organisation: %w", err)
		}
		if user, err = tx.Users().Create(ctx, in.AdminName, in.Email, hash, org.ID); err != nil {
			return err
		}
		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: org.ID,
			UserID:         intPtr(user.ID),
			Action:         models.ActionUserRegistered,
			EntityType:     models.EntityOrganisation,
			EntityID:       intPtr(org.ID),
			Description:    fmt.Sprintf("User %s registered organisation %q", user.Name, org.Name),
			Meta:           map[string]string{"orgName": in.OrgName, "adminName": in.AdminName, "email": in.Email},
		})
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	committed(models.ActionUserRegistered)

	s.logger.Info().Int("org_id", org.ID).Int("user_id", user.ID).Msg("organisation registered")
	return s.session(user, org)
}

// Login checks the password and records the login.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	users := s.store.Users()
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	org, err := s.store.Organisations().GetByID(ctx, user.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("load organisation %d: %w", user.OrganisationID, err)
	}

	err = record(ctx, s.store, models.NewLogEntry{
		OrganisationID: org.ID,
		UserID:         intPtr(user.ID),
		Action:         models.ActionUserLoggedIn,
		EntityType:     models.EntityUser,
		EntityID:       intPtr(user.ID),
		Description:    fmt.Sprintf("User %s logged in", user.Name),
		Meta:           map[string]string{"email": user.Email},
	})
	if err != nil {
		return nil, err
	}
	committed(models.ActionUserLoggedIn)

	return s.session(user, org)
}

// Logout only records the event. The token stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, actor auth.Identity) error {
	user, err := s.store.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if user.OrganisationID != actor.OrgID {
		return ErrNotFound
	}

	err = record(ctx, s.store, models.NewLogEntry{
		OrganisationID: actor.OrgID,
		UserID:         intPtr(user.ID),
		Action:         models.ActionUserLoggedOut,
		EntityType:     models.EntityUser,
		EntityID:       intPtr(user.ID),
		Description:    fmt.Sprintf("User %s logged out", user.Name),
	})
	if err != nil {
		return err
	}
	committed(models.ActionUserLoggedOut)
	return nil
}

func (s *AuthService) session(user *models.User, org *models.Organisation) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, org.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: user.Summary(), Organisation: *org}, nil
}
