package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/decorhub/storefront/internal/identity"
	"github.com/decorhub/storefront/internal/notification"
	"github.com/decorhub/storefront/internal/otp"
	"github.com/decorhub/storefront/internal/validation"
)

var tracer = otel.Tracer("storefront/auth")

// Config tunes the auth flows.
type Config struct {
	SignupTokenTTL time.Duration
	LoginTokenTTL  time.Duration
	OTPLength      int
	// RequireLoginOTP makes the phone second factor mandatory on login.
	RequireLoginOTP bool
}

// Service orchestrates signup, OTP verification and login.
type Service struct {
	cfg     Config
	ids     *identity.Service
	tokens  *TokenIssuer
	otps    otp.Registry
	gateway *notification.Gateway
	logger  *slog.Logger
}

// NewService wires the flow controller.
func NewService(cfg Config, ids *identity.Service, tokens *TokenIssuer, otps otp.Registry, gateway *notification.Gateway, logger *slog.Logger) *Service {
	if cfg.OTPLength <= 0 {
		cfg.OTPLength = 6
	}
	return &Service{cfg: cfg, ids: ids, tokens: tokens, otps: otps, gateway: gateway, logger: logger}
}

// SignupInput is the signup request.
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Phone    string `json:"phone" validate:"required"`
}

// SignupResult is returned for every persisted account. OTPSent is false
// when the code could not be stored or delivered.
type SignupResult struct {
	Name    string
	Email   string
	ID      string
	OTPSent bool
	Token   string
}

// Signup creates the account, issues a short-lived token and sends an OTP to
// the phone. Delivery problems never undo the account.
func (s *Service) Signup(ctx context.Context, in SignupInput) (SignupResult, error) {
	ctx, span := tracer.Start(ctx, "auth.Signup")
	defer span.End()

	if err := validation.Struct(in, "All fields are required"); err != nil {
		return SignupResult{}, err
	}

	exists, err := s.ids.Exists(ctx, in.Email)
	if err != nil {
		return SignupResult{}, fail(span, fmt.Errorf("lookup user: %w", err))
	}
	if exists {
		return SignupResult{}, identity.ErrUserExists
	}

	user, err := s.ids.Register(ctx, identity.Registration{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Phone:    in.Phone,
	})
	if err != nil {
		if errors.Is(err, identity.ErrUserExists) || errors.Is(err, validation.ErrInvalid) {
			return SignupResult{}, err
		}
		return SignupResult{}, fail(span, fmt.Errorf("register user: %w", err))
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	token, err := s.tokens.Sign(Identity{Email: user.Email, ID: user.ID}, s.cfg.SignupTokenTTL)
	if err != nil {
		return SignupResult{}, fail(span, err)
	}

	result := SignupResult{
		Name:    user.Name,
		Email:   user.Email,
		ID:      user.ID,
		Token:   token,
		OTPSent: s.issueOTP(ctx, user.Phone),
	}

	s.logger.InfoContext(ctx, "auth.signup completed",
		slog.String("user_id", user.ID),
		slog.Bool("otp_sent", result.OTPSent),
	)
	return result, nil
}

func (s *Service) issueOTP(ctx context.Context, phone string) bool {
	code, err := otp.Generate(s.cfg.OTPLength)
	if err != nil {
		s.logger.ErrorContext(ctx, "otp generation failed", slog.Any("error", err))
		return false
	}
	if err := s.otps.Issue(ctx, phone, code); err != nil {
		s.logger.ErrorContext(ctx, "otp store failed", slog.String("phone", phone), slog.Any("error", err))
		return false
	}
	return s.gateway.SendOTP(ctx, phone, code).Delivered
}

// VerifyInput is the OTP verification request.
type VerifyInput struct {
	MobileNumber string `json:"mobileNumber" validate:"required"`
	OTP          string `json:"otp" validate:"required"`
}

// VerifyOTP checks and consumes the code for the phone.
func (s *Service) VerifyOTP(ctx context.Context, in VerifyInput) error {
	ctx, span := tracer.Start(ctx, "auth.VerifyOTP")
	defer span.End()

	if err := validation.Struct(in, "Mobile number and OTP are required."); err != nil {
		return err
	}
	return s.consumeOTP(ctx, span, in.MobileNumber, in.OTP)
}

// LoginInput is the login request. Phone and OTP are optional unless
// Config.RequireLoginOTP is set.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
	OTP      string `json:"otp"`
	Phone    string `json:"phone"`
}

// LoginResult carries the long-lived token.
type LoginResult struct {
	UserID string
	Token  string
}

// Login verifies the password and, when a phone is given (or required), the
// OTP stored for it.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	ctx, span := tracer.Start(ctx, "auth.Login")
	defer span.End()

	if err := validation.Struct(in, "Email and password are required"); err != nil {
		return LoginResult{}, err
	}

	user, err := s.ids.Authenticate(ctx, identity.Credentials{Email: in.Email, Password: in.Password})
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) || errors.Is(err, identity.ErrInvalidCredentials) {
			return LoginResult{}, err
		}
		return LoginResult{}, fail(span, fmt.Errorf("authenticate: %w", err))
	}

	phone := in.Phone
	if phone == "" && s.cfg.RequireLoginOTP {
		phone = user.Phone
	}
	if phone != "" {
		if err := s.consumeOTP(ctx, span, phone, in.OTP); err != nil {
			return LoginResult{}, err
		}
	}

	token, err := s.tokens.Sign(Identity{Email: user.Email, ID: user.ID}, s.cfg.LoginTokenTTL)
	if err != nil {
		return LoginResult{}, fail(span, err)
	}
	return LoginResult{UserID: user.ID, Token: token}, nil
}

func (s *Service) consumeOTP(ctx context.Context, span trace.Span, phone, code string) error {
	// codes and phones are compared exactly as supplied
	if phone == "" || code == "" {
		return otp.ErrInvalidCode
	}
	err := s.otps.Consume(ctx, phone, code)
	if err == nil || errors.Is(err, otp.ErrInvalidCode) {
		return err
	}
	return fail(span, err)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
