package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"facturacion-api/internal/config"
	"facturacion-api/internal/domain"
	"facturacion-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrCredencialesRequeridas = errors.New("username y password son requeridos")
	ErrCredencialesInvalidas  = errors.New("credenciales inválidas")
)

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// Claims carried by issued tokens.
type Claims struct {
	Username string `json:"unique_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService registers accounts and issues signed tokens.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
}

type authService struct {
	usuarioRepo repository.UsuarioRepository
	jwtConfig   config.JWTConfig
	now         func() time.Time
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(usuarioRepo repository.UsuarioRepository, jwtConfig config.JWTConfig) AuthService {
	return &authService{
		usuarioRepo: usuarioRepo,
		jwtConfig:   jwtConfig,
		now:         time.Now,
	}
}

// Register creates an account with role "user" and returns a fresh token.
// The username is trimmed before the uniqueness check and before storage.
func (s *authService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrCredencialesRequeridas
	}

	trimmed := strings.TrimSpace(username)

	exists, err := s.usuarioRepo.ExistsByUsername(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing usuario: %w", err)
	}
	if exists {
		return nil, repository.ErrUsernameExists
	}

	usuario := &domain.Usuario{
		Username:     trimmed,
		PasswordHash: HashPassword(password),
		Role:         "user",
	}

	if err := s.usuarioRepo.Create(ctx, usuario); err != nil {
		return nil, err
	}

	return s.buildToken(usuario)
}

// Login authenticates against the stored hash. The username is matched
// exactly, with no trimming.
func (s *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	usuario, err := s.usuarioRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			return nil, ErrCredencialesInvalidas
		}
		return nil, fmt.Errorf("failed to find usuario: %w", err)
	}

	if HashPassword(password) != usuario.PasswordHash {
		return nil, ErrCredencialesInvalidas
	}

	return s.buildToken(usuario)
}

func (s *authService) buildToken(usuario *domain.Usuario) (*AuthResult, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(time.Duration(s.jwtConfig.ExpMinutes) * time.Minute)

	claims := &Claims{
		Username: usuario.Username,
		Role:     usuario.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(usuario.ID, 10),
			Issuer:    s.jwtConfig.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtConfig.Audience},
			NotBefore: jwt.NewNumericDate(issuedAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtConfig.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		Username:  usuario.Username,
		Role:      usuario.Role,
	}, nil
}

// HashPassword produces the stored password digest. A deterministic one-way
// hash keeps login verification a pure string comparison.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}
