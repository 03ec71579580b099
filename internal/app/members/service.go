package members

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/apa-portal/member-portal/internal/app/apperr"
	"github.com/apa-portal/member-portal/internal/domain"
	clockport "github.com/apa-portal/member-portal/internal/ports/out/clock"
	"github.com/apa-portal/member-portal/internal/ports/out/memberrepo"
	"github.com/apa-portal/member-portal/internal/ports/out/sessionstore"
)

type Service struct {
	repo     memberrepo.Repository
	sessions sessionstore.Store
	clk      clockport.Clock

	newMemberID func() domain.MemberID

	// SearchLimit bounds search result size.
	SearchLimit int
	// HashCost is the bcrypt cost used for new password hashes.
	HashCost int
}

func NewService(repo memberrepo.Repository, sessions sessionstore.Store, clk clockport.Clock) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		clk:      clk,
		newMemberID: func() domain.MemberID {
			return domain.MemberID(uuid.NewString())
		},
		SearchLimit: 50,
		HashCost:    bcrypt.DefaultCost,
	}
}

func (s *Service) ListMembers(ctx context.Context, includeInactive bool) ([]domain.Member, error) {
	ms, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	return toDomainList(ms), nil
}

func (s *Service) SearchMembers(ctx context.Context, query string) ([]domain.Member, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < 3 {
		return nil, apperr.Validation("invalid search query", "q", "must be at least 3 characters")
	}
	ms, err := s.repo.SearchActiveByDisplayName(ctx, q, s.SearchLimit)
	if err != nil {
		return nil, err
	}
	return toDomainList(ms), nil
}

func (s *Service) GetMember(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return domain.Member{}, err
	}
	return toDomain(m), nil
}

func (s *Service) CreateMember(ctx context.Context, in CreateMemberInput) (domain.Member, error) {
	displayName := domain.NormalizeHumanName(in.DisplayName)
	if displayName == "" {
		return domain.Member{}, apperr.Validation("invalid displayName", "displayName", "must be non-empty")
	}
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return domain.Member{}, apperr.Validation("invalid email", "email", err.Error())
	}
	if in.PointsBalance < 0 {
		return domain.Member{}, apperr.Validation("invalid pointsBalance", "pointsBalance", "must be >= 0")
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return domain.Member{}, err
	}
	if err := s.ensureEmailUnique(ctx, email, ""); err != nil {
		return domain.Member{}, err
	}

	now := s.clk.Now()
	m := memberrepo.Member{
		ID:            s.newMemberID(),
		DisplayName:   displayName,
		Email:         email,
		PasswordHash:  hash,
		IsAdmin:       in.IsAdmin,
		IsActive:      true,
		PointsBalance: in.PointsBalance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, memberrepo.ErrEmailAlreadyInUse) {
			return domain.Member{}, emailInUse()
		}
		return domain.Member{}, err
	}
	return toDomain(m), nil
}

func (s *Service) UpdateMember(ctx context.Context, id domain.MemberID, in UpdateMemberInput) (domain.Member, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return domain.Member{}, err
	}
	wasActive := m.IsActive

	if in.DisplayName.IsSpecified() {
		if in.DisplayName.IsNull() {
			return domain.Member{}, apperr.Validation("invalid displayName", "displayName", "cannot be null")
		}
		displayName := domain.NormalizeHumanName(in.DisplayName.Value())
		if displayName == "" {
			return domain.Member{}, apperr.Validation("invalid displayName", "displayName", "must be non-empty")
		}
		m.DisplayName = displayName
	}

	if in.Email.IsSpecified() {
		if in.Email.IsNull() {
			return domain.Member{}, apperr.Validation("invalid email", "email", "cannot be null")
		}
		email := strings.TrimSpace(in.Email.Value())
		if err := validateEmail(email); err != nil {
			return domain.Member{}, apperr.Validation("invalid email", "email", err.Error())
		}
		if err := s.ensureEmailUnique(ctx, email, m.ID); err != nil {
			return domain.Member{}, err
		}
		m.Email = email
	}

	if in.Password.IsSpecified() {
		if in.Password.IsNull() {
			return domain.Member{}, apperr.Validation("invalid password", "password", "cannot be null")
		}
		hash, err := s.hashPassword(in.Password.Value())
		if err != nil {
			return domain.Member{}, err
		}
		m.PasswordHash = hash
	}

	if in.IsAdmin.IsSpecified() {
		if in.IsAdmin.IsNull() {
			return domain.Member{}, apperr.Validation("invalid isAdmin", "isAdmin", "cannot be null")
		}
		m.IsAdmin = in.IsAdmin.Value()
	}

	if in.IsActive.IsSpecified() {
		if in.IsActive.IsNull() {
			return domain.Member{}, apperr.Validation("invalid isActive", "isActive", "cannot be null")
		}
		m.IsActive = in.IsActive.Value()
	}

	if in.PointsBalance.IsSpecified() {
		if in.PointsBalance.IsNull() {
			return domain.Member{}, apperr.Validation("invalid pointsBalance", "pointsBalance", "cannot be null")
		}
		if in.PointsBalance.Value() < 0 {
			return domain.Member{}, apperr.Validation("invalid pointsBalance", "pointsBalance", "must be >= 0")
		}
		m.PointsBalance = in.PointsBalance.Value()
	}

	m.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, memberrepo.ErrEmailAlreadyInUse) {
			return domain.Member{}, emailInUse()
		}
		return domain.Member{}, err
	}
	if wasActive && !m.IsActive {
		if err := s.revokeSessions(ctx, m.ID); err != nil {
			return domain.Member{}, err
		}
	}
	return toDomain(m), nil
}

// DeactivateMember soft-deletes the member and revokes every session it holds.
func (s *Service) DeactivateMember(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return domain.Member{}, err
	}
	if m.IsActive {
		m.IsActive = false
		m.UpdatedAt = s.clk.Now()
		if err := s.repo.Update(ctx, m); err != nil {
			return domain.Member{}, err
		}
	}
	if err := s.revokeSessions(ctx, m.ID); err != nil {
		return domain.Member{}, err
	}
	return toDomain(m), nil
}

func (s *Service) get(ctx context.Context, id domain.MemberID) (memberrepo.Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return memberrepo.Member{}, apperr.NotFound("MEMBER_NOT_FOUND", "member not found")
		}
		return memberrepo.Member{}, err
	}
	return m, nil
}

func (s *Service) revokeSessions(ctx context.Context, id domain.MemberID) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.DeleteByMember(ctx, id)
}

func (s *Service) hashPassword(password string) (string, error) {
	if len([]rune(password)) < MinPasswordLength {
		return "", apperr.Validation("invalid password", "password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validation("invalid password", "password", "must be at most 72 bytes")
		}
		return "", err
	}
	return string(hash), nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return err
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}

func (s *Service) ensureEmailUnique(ctx context.Context, email string, exclude domain.MemberID) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return nil
		}
		return err
	}
	if exclude != "" && existing.ID == exclude {
		return nil
	}
	return emailInUse()
}

func emailInUse() *apperr.Error {
	return apperr.Conflict("EMAIL_ALREADY_IN_USE", "email address is already in use")
}

func toDomainList(ms []memberrepo.Member) []domain.Member {
	out := make([]domain.Member, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomain(m))
	}
	return out
}

func toDomain(m memberrepo.Member) domain.Member {
	return domain.Member{
		ID:            m.ID,
		DisplayName:   m.DisplayName,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		IsAdmin:       m.IsAdmin,
		IsActive:      m.IsActive,
		PointsBalance: m.PointsBalance,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
