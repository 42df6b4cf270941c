package user

import (
	"context"
	"errors"
	"strings"

	"fuelease-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Login(ctx context.Context, email, password string) (string, *User, error)
	SeedDemoAccounts(ctx context.Context, password string) (created int, err error)
}

type service struct {
	repo   Repository
	tokens *TokenIssuer
}

func NewService(repo Repository, tokens *TokenIssuer) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "Login"))
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Info("login for unknown email")
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("failed to load user", zap.Error(err))
		return "", nil, err
	}

	if !CheckPasswordHash(password, u.HashedPassword) {
		log.Info("password mismatch", zap.Int64("user_id", u.ID))
		return "", nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return "", nil, ErrInactiveUser
	}

	token, err := s.tokens.GenerateJWT(u)
	if err != nil {
		log.Error("failed to generate jwt", zap.Int64("user_id", u.ID), zap.Error(err))
		return "", nil, err
	}

	log.Info("login completed", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return token, u, nil
}

var demoAccounts = []NewUser{
	{FullName: "John Doe", Email: "customer@demo.com", PhoneNumber: "+233241234567", Role: RoleCustomer},
	{FullName: "Kwame Mensah", Email: "driver@demo.com", PhoneNumber: "+233245678901", Role: RoleDriver},
	{FullName: "Admin User", Email: "admin@demo.com", PhoneNumber: "+233249990000", Role: RoleAdmin},
}

// SeedDemoAccounts creates one account per role, skipping existing ones.
func (s *service) SeedDemoAccounts(ctx context.Context, password string) (int, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(password)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, acc := range demoAccounts {
		u := &User{
			FullName:       acc.FullName,
			Email:          acc.Email,
			PhoneNumber:    acc.PhoneNumber,
			HashedPassword: hashed,
			Role:           acc.Role,
			IsActive:       true,
		}

		ok, err := s.repo.CreateIfAbsent(ctx, u)
		if err != nil {
			return created, err
		}
		if !ok {
			log.Info("demo account exists, skipping", zap.String("email", acc.Email))
			continue
		}

		log.Info("created demo account", zap.String("email", acc.Email), zap.String("role", string(acc.Role)))
		created++
	}

	return created, nil
}
