package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ansokolov/CourseFox/app/models"
	"github.com/ansokolov/CourseFox/app/repository"
	"github.com/ansokolov/CourseFox/internal/pkg/telegram"
	"github.com/ansokolov/CourseFox/internal/pkg/token"
)

// ErrNoSubscription means the identity was verified but the user has no
// active subscription. The Result returned alongside it still carries the
// resolved profile so the denial view can render it.
var ErrNoSubscription = errors.New("no active subscription")

// SubscriptionView is the subscription state exposed to clients.
// Status is normalized to "active" or "expired"; a missing row is expired.
type SubscriptionView struct {
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Profile is the user view returned by /auth and /me.
type Profile struct {
	ID           uint             `json:"id"`
	TelegramID   int64            `json:"telegram_id"`
	Role         string           `json:"role"`
	Username     string           `json:"username,omitempty"`
	FirstName    string           `json:"first_name,omitempty"`
	LastName     string           `json:"last_name,omitempty"`
	Subscription SubscriptionView `json:"subscription"`
}

// Result is a successful authentication: a session credential plus the
// profile it was minted for.
type Result struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

// Service implements the session issuance flow: verify the platform-signed
// payload, upsert the user record, check the subscription and mint a
// credential. Secrets are injected at construction and never logged.
type Service struct {
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	issuer   *token.Issuer
	botToken string
}

// NewService creates an authentication service.
func NewService(users repository.UserRepository, subs repository.SubscriptionRepository, issuer *token.Issuer, botToken string) *Service {
	return &Service{users: users, subs: subs, issuer: issuer, botToken: botToken}
}

// Authenticate verifies rawInitData and, for a subscribed user, mints a
// session credential. Verification failures surface the telegram package
// errors; ErrNoSubscription comes with a Result holding the profile.
func (s *Service) Authenticate(rawInitData string) (*Result, error) {
	data, err := telegram.VerifyInitData(rawInitData, s.botToken)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		TelegramID: data.User.ID,
		Username:   data.User.Username,
		FirstName:  data.User.FirstName,
		LastName:   data.User.LastName,
		Role:       models.ROLE_STUDENT,
	}
	if err := s.users.UpsertByTelegramID(user); err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	sub, err := s.currentSubscription(user.ID)
	if err != nil {
		return nil, err
	}

	profile := buildProfile(user, sub)
	if sub == nil || !sub.IsActive() {
		return &Result{Profile: profile}, ErrNoSubscription
	}

	raw, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue credential: %w", err)
	}

	return &Result{Token: raw, Profile: profile}, nil
}

// Profile resolves the current profile for a previously verified user id.
func (s *Service) Profile(userID uint) (*Profile, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	sub, err := s.currentSubscription(user.ID)
	if err != nil {
		return nil, err
	}

	return buildProfile(user, sub), nil
}

// currentSubscription reads the user's newest subscription row.
// A missing row is not an error; it renders as expired.
func (s *Service) currentSubscription(userID uint) (*models.Subscription, error) {
	sub, err := s.subs.GetCurrentByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve subscription: %w", err)
	}
	return sub, nil
}

func buildProfile(user *models.User, sub *models.Subscription) *Profile {
	view := SubscriptionView{Status: models.SubscriptionStatusExpired}
	if sub != nil {
		view.ExpiresAt = sub.ExpiresAt
		if sub.IsActive() {
			view.Status = models.SubscriptionStatusActive
		}
	}

	return &Profile{
		ID:           user.ID,
		TelegramID:   user.TelegramID,
		Role:         user.Role,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Subscription: view,
	}
}
