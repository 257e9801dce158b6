package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-finance-tracker/internal/models"
	"github.com/sbilibin2017/gw-finance-tracker/internal/services"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockWallets := services.NewMockWalletCreator(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockWallets, mockJWT)

	tests := []struct {
		name         string
		email        string
		password     string
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		walletErr    error
		wantErr      error
	}{
		{
			name:         "successful registration",
			email:        "alice@example.com",
			password:     "pass123",
			existingUser: nil,
			wantErr:      nil,
		},
		{
			name:         "email already exists",
			email:        "bob@example.com",
			password:     "pass123",
			existingUser: &models.UserDB{UserID: uuid.New()},
			wantErr:      services.ErrEmailAlreadyExists,
		},
		{
			name:      "reader error",
			email:     "eve@example.com",
			password:  "pass123",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "writer error",
			email:     "carol@example.com",
			password:  "pass123",
			writerErr: errors.New("save error"),
			wantErr:   errors.New("save error"),
		},
		{
			name:      "wallet creation error",
			email:     "dave@example.com",
			password:  "pass123",
			walletErr: errors.New("wallet error"),
			wantErr:   errors.New("wallet error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByEmail(gomock.Any(), tt.email).
				Return(tt.existingUser, tt.readerErr)

			if tt.existingUser == nil && tt.readerErr == nil {
				userID := uuid.New()
				mockWriter.EXPECT().
					Save(gomock.Any(), tt.email, gomock.Any()).
					Return(userID, tt.writerErr)

				if tt.writerErr == nil {
					mockWallets.EXPECT().
						Create(gomock.Any(), userID).
						Return(tt.walletErr)
				}
			}

			err := svc.Register(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockWallets := services.NewMockWalletCreator(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockWallets, mockJWT)

	userID := uuid.New()
	mockReader.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(nil, nil)
	mockWriter.EXPECT().
		Save(gomock.Any(), "a@x.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, hash string) (uuid.UUID, error) {
			assert.NotEqual(t, "pw", hash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("pw")))
			return userID, nil
		})
	mockWallets.EXPECT().Create(gomock.Any(), userID).Return(nil)

	assert.NoError(t, svc.Register(context.Background(), "a@x.com", "pw"))
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockWallets := services.NewMockWalletCreator(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockWallets, mockJWT)

	password := "secret"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userID := uuid.New()

	tests := []struct {
		name      string
		email     string
		user      *models.UserDB
		readerErr error
		jwtErr    error
		wantErr   error
		expectJWT string
		loginPass string
	}{
		{
			name:      "successful login",
			email:     "alice@example.com",
			user:      &models.UserDB{UserID: userID, Email: "alice@example.com", PasswordHash: string(hashed)},
			expectJWT: "token123",
			loginPass: password,
		},
		{
			name:      "user does not exist",
			email:     "ghost@example.com",
			user:      nil,
			loginPass: password,
			wantErr:   services.ErrUserDoesNotExist,
		},
		{
			name:      "wrong password",
			email:     "alice@example.com",
			user:      &models.UserDB{UserID: userID, Email: "alice@example.com", PasswordHash: string(hashed)},
			loginPass: "wrong",
			wantErr:   services.ErrInvalidCredentials,
		},
		{
			name:      "reader error",
			email:     "alice@example.com",
			readerErr: errors.New("db error"),
			loginPass: password,
			wantErr:   errors.New("db error"),
		},
		{
			name:      "jwt error",
			email:     "alice@example.com",
			user:      &models.UserDB{UserID: userID, Email: "alice@example.com", PasswordHash: string(hashed)},
			loginPass: password,
			jwtErr:    errors.New("jwt failure"),
			wantErr:   errors.New("jwt failure"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().
				GetByEmail(gomock.Any(), tt.email).
				Return(tt.user, tt.readerErr)

			if tt.user != nil && tt.readerErr == nil && tt.loginPass == password {
				mockJWT.EXPECT().
					Generate(gomock.Any(), tt.user.UserID).
					Return(tt.expectJWT, tt.jwtErr)
			}

			token, err := svc.Login(context.Background(), tt.email, tt.loginPass)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectJWT, token)
			}
		})
	}
}
