package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appledger "github.com/pocketledger/backend/internal/application/ledger"
	"github.com/pocketledger/backend/internal/domain/identity"
	"github.com/pocketledger/backend/internal/domain/ledger"
	"github.com/pocketledger/backend/internal/domain/shared"
	"github.com/pocketledger/backend/internal/infrastructure/auth"
)

// defaultWalletName is the account every new user starts with
const defaultWalletName = "Carteira"

// defaultCategories seed a usable ledger at registration
var defaultCategories = []struct {
	Name string
	Type ledger.TransactionType
}{
	{"Alimentação", ledger.TransactionTypeExpense},
	{"Transporte", ledger.TransactionTypeExpense},
	{"Moradia", ledger.TransactionTypeExpense},
	{"Saúde", ledger.TransactionTypeExpense},
	{"Educação", ledger.TransactionTypeExpense},
	{"Lazer", ledger.TransactionTypeExpense},
	{"Vestuário", ledger.TransactionTypeExpense},
	{"Outras Despesas", ledger.TransactionTypeExpense},
	{"Salário", ledger.TransactionTypeIncome},
	{"Freelance", ledger.TransactionTypeIncome},
	{"Investimentos", ledger.TransactionTypeIncome},
	{"Outras Receitas", ledger.TransactionTypeIncome},
}

// AuthService handles registration and authentication
type AuthService struct {
	userRepo    identity.UserRepository
	refreshRepo identity.RefreshTokenRepository
	ledgerScope appledger.LedgerScope
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	refreshRepo identity.RefreshTokenRepository,
	ledgerScope appledger.LedgerScope,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		ledgerScope: ledgerScope,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// Register creates a user, seeds a wallet account with a default payment
// method and the default categories, and logs the user in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.seedLedger(ctx, user); err != nil {
		s.logger.Error("Failed to seed ledger for new user",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issueTokens(ctx, user)
}

// seedLedger creates the starting wallet and categories for a new user
func (s *AuthService) seedLedger(ctx context.Context, user *identity.User) error {
	return s.ledgerScope.Execute(ctx, func(repos appledger.LedgerRepositories) error {
		wallet, err := ledger.NewAccount(user.ID, defaultWalletName, ledger.AccountTypeCash)
		if err != nil {
			return err
		}
		if err := repos.Accounts().Create(ctx, wallet); err != nil {
			return err
		}

		method, err := ledger.NewPaymentMethod(user.ID, wallet.ID, "Pix", ledger.PaymentMethodTypePix, nil, nil, nil)
		if err != nil {
			return err
		}
		method.MarkDefault()
		if err := repos.PaymentMethods().Create(ctx, method); err != nil {
			return err
		}

		for _, c := range defaultCategories {
			category, err := ledger.NewCategory(user.ID, c.Name, c.Type)
			if err != nil {
				return err
			}
			if err := repos.Categories().Create(ctx, category); err != nil {
				return err
			}
		}
		return nil
	})
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new pair. Tokens rotate:
// the presented token is revoked and cannot be used again.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	stored, err := s.refreshRepo.FindByToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token is not recognized")
		}
		return nil, err
	}
	if !stored.IsValid(time.Now()) {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token has been revoked or expired")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored.Revoke()
	if err := s.refreshRepo.Update(ctx, stored); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token and blacklists the access
// token for its remaining lifetime. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims, req LogoutRequest) error {
	if claims != nil {
		if ttl := claims.GetRemainingTTL(); ttl > 0 {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
				return err
			}
		}
	}

	if req.RefreshToken == "" {
		return nil
	}
	stored, err := s.refreshRepo.FindByToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if stored.Revoked {
		return nil
	}
	stored.Revoke()
	return s.refreshRepo.Update(ctx, stored)
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// issueTokens generates a token pair and persists the refresh token
func (s *AuthService) issueTokens(ctx context.Context, user *identity.User) (*AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, err
	}

	stored := identity.NewRefreshToken(user.ID, pair.RefreshToken, pair.RefreshTokenExpiresAt)
	if err := s.refreshRepo.Create(ctx, stored); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:   toUserResponse(user),
		Tokens: pair,
	}, nil
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
