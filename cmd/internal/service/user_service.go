package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"sharpcut/cmd/internal/auth"
	"sharpcut/cmd/internal/domain/entity"
	"sharpcut/cmd/internal/utils"
	"sharpcut/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
}

// MailSender delivers best-effort notification mail. A nil sender disables
// delivery without disabling the flows that would use it.
type MailSender interface {
	Send(to, subject, body string) error
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=32"`
	Password string `json:"password" validate:"required,min=8,max=64,hasupper,haslower,hasdigit,hasspecial,nospaces"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type ConfirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type UpdateDetailsRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=80"`
	Phone string `json:"phone" validate:"max=32"`
}

type UserResponse struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	EmailConfirmed bool   `json:"email_confirmed"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Codec    *auth.TokenCodec
	Mailer   MailSender
	CodeTTL  time.Duration
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, codec *auth.TokenCodec, mailer MailSender, codeTTL time.Duration) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate, Codec: codec, Mailer: mailer, CodeTTL: codeTTL}
}

// Register creates a user with the `user` role and mails a confirmation
// code. Mail failure is logged, never surfaced: the account exists either
// way and the code can be re-requested once delivery recovers.
func (u *DefaultUserService) Register(req *RegisterRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}
	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	code, err := generateConfirmCode()
	if err != nil {
		log.Errorf("failed to generate confirmation code: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		Role:                 entity.RoleUser,
		EmailConfirmed:       false,
		PasswordHash:         string(hash),
		ConfirmCode:          code,
		ConfirmCodeExpiresAt: now + u.CodeTTL.Milliseconds(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}

	u.sendConfirmCode(user, code)
	return toUserResponse(user), nil
}

func (u *DefaultUserService) Login(req *LoginRequest) (*LoginResponse, apierror.ErrorResponse) {
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	// Unknown email and wrong password are indistinguishable to the caller.
	if user == nil {
		return nil, apierror.CredentialsMismatchError
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.CredentialsMismatchError
	}

	token, err := u.Codec.Issue(user.ID)
	if err != nil {
		log.Errorf("failed to issue token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return &LoginResponse{Token: token, User: toUserResponse(user)}, nil
}

func (u *DefaultUserService) ConfirmEmail(req *ConfirmEmailRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return apierror.InternalServerError
	}
	if user == nil {
		return apierror.UserNotFoundError
	}
	if user.EmailConfirmed {
		return apierror.UserAlreadyConfirmedError
	}
	if user.ConfirmCode == "" || user.ConfirmCode != req.Code {
		return apierror.ConfirmCodeMismatchError
	}
	if utils.NowUTC() > user.ConfirmCodeExpiresAt {
		return apierror.ConfirmCodeExpiredError
	}

	user.EmailConfirmed = true
	user.ConfirmCode = ""
	user.ConfirmCodeExpiresAt = 0
	user.UpdatedAt = utils.NowUTC()
	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to update user (%d) confirmed status: %v", user.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *DefaultUserService) Profile(user *entity.User) *UserResponse {
	return toUserResponse(user)
}

func (u *DefaultUserService) UpdateDetails(caller *entity.User, req *UpdateDetailsRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	caller.Name = req.Name
	caller.Phone = req.Phone
	caller.UpdatedAt = utils.NowUTC()
	if err := u.UserRepo.Save(caller); err != nil {
		log.Errorf("failed to update user (%d) details: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(caller), nil
}

func (u *DefaultUserService) sendConfirmCode(user *entity.User, code string) {
	if u.Mailer == nil {
		return
	}

	body := fmt.Sprintf("Hello %s,\n\nYour confirmation code is %s. It expires in %d minutes.\n\nSharpcut Barbershop", user.Name, code, int(u.CodeTTL.Minutes()))
	if err := u.Mailer.Send(user.Email, "Confirm your email - Sharpcut Barbershop", body); err != nil {
		log.Errorf("failed to send confirmation code to %s: %v", user.Email, err)
	}
}

func generateConfirmCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Role:           user.Role,
		EmailConfirmed: user.EmailConfirmed,
		CreatedAt:      utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:      utils.FormatEpoch(user.UpdatedAt),
	}
}
