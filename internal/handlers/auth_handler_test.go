package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "financeai/internal/errors"
	"financeai/internal/middleware"
	"financeai/internal/models"
	"financeai/internal/uuid"
)

// --- mock services ---

type mockUserService struct {
	createUserFn            func(email, password, firstName, lastName string) (*models.User, error)
	getUserByEmailFn        func(email string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	verifyPasswordFn        func(user *models.User, password string) bool
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
}

func (m *mockUserService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, firstName, lastName)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

func setupAuthRouter(handler *AuthHandler, userID string) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", handler.Refresh)
	r.GET("/profile", injectUserID(userID), handler.GetProfile)
	return r
}

func testUser(id string) *models.User {
	user := &models.User{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", IsActive: true}
	user.ID = id
	return user
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	userID := uuid.New()

	t.Run("returns 201 with token pair", func(t *testing.T) {
		var storedHash string
		userSvc := &mockUserService{
			createUserFn: func(email, _, firstName, lastName string) (*models.User, error) {
				user := testUser(userID)
				user.Email = email
				user.FirstName = firstName
				user.LastName = lastName
				return user, nil
			},
			storeRefreshTokenHashFn: func(_, tokenHash string) error {
				storedHash = tokenHash
				return nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc), userID)

		body := `{"email": "jane@example.com", "password": "password123", "first_name": "Jane", "last_name": "Doe"}`
		rec := doRequest(r, http.MethodPost, "/auth/register", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["access_token"] == nil || result["refresh_token"] == nil {
			t.Error("expected both tokens in response")
		}
		refreshToken, _ := result["refresh_token"].(string)
		if storedHash != middleware.HashToken(refreshToken) {
			t.Error("stored hash should match issued refresh token")
		}
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}), userID)

		body := `{"email": "jane@example.com", "password": "short"}`
		rec := doRequest(r, http.MethodPost, "/auth/register", body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(string, string, string, string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc), userID)

		body := `{"email": "jane@example.com", "password": "password123"}`
		rec := doRequest(r, http.MethodPost, "/auth/register", body)

		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	userID := uuid.New()

	t.Run("returns 200 on valid credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByEmailFn: func(string) (*models.User, error) { return testUser(userID), nil },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc), userID)

		body := `{"email": "jane@example.com", "password": "password123"}`
		rec := doRequest(r, http.MethodPost, "/auth/login", body)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 401 on wrong password", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByEmailFn: func(string) (*models.User, error) { return testUser(userID), nil },
			verifyPasswordFn: func(*models.User, string) bool { return false },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc), userID)

		body := `{"email": "jane@example.com", "password": "wrong"}`
		rec := doRequest(r, http.MethodPost, "/auth/login", body)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 401 on unknown email", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByEmailFn: func(string) (*models.User, error) { return nil, apperrors.ErrUserNotFound },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc), userID)

		body := `{"email": "nobody@example.com", "password": "password123"}`
		rec := doRequest(r, http.MethodPost, "/auth/login", body)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	userID := uuid.New()

	t.Run("rotates token pair", func(t *testing.T) {
		user := testUser(userID)
		refreshToken, err := middleware.GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		userSvc := &mockUserService{
			getRefreshTokenHashFn: func(uid string) (string, error) {
				if uid != userID {
					t.Errorf("expected user ID %s, got %s", userID, uid)
				}
				return middleware.HashToken(refreshToken), nil
			},
			getUserByIDFn: func(string) (*models.User, error) { return user, nil },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc), userID)

		body := fmt.Sprintf(`{"refresh_token": %q}`, refreshToken)
		rec := doRequest(r, http.MethodPost, "/auth/refresh", body)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects access token as refresh token", func(t *testing.T) {
		accessToken, err := middleware.GenerateAccessToken(testUser(userID))
		if err != nil {
			t.Fatalf("failed to generate access token: %v", err)
		}

		r := setupAuthRouter(NewAuthHandler(&mockUserService{}), userID)

		body := fmt.Sprintf(`{"refresh_token": %q}`, accessToken)
		rec := doRequest(r, http.MethodPost, "/auth/refresh", body)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects stale refresh token after rotation", func(t *testing.T) {
		user := testUser(userID)
		oldToken, err := middleware.GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		userSvc := &mockUserService{
			getRefreshTokenHashFn: func(string) (string, error) {
				return "hash-of-a-newer-token", nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc), userID)

		body := fmt.Sprintf(`{"refresh_token": %q}`, oldToken)
		rec := doRequest(r, http.MethodPost, "/auth/refresh", body)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("returns profile", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				if id != userID {
					t.Errorf("expected user ID %s, got %s", userID, id)
				}
				return testUser(userID), nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc), userID)

		rec := doRequest(r, http.MethodGet, "/profile", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		userObj, ok := result["user"].(map[string]interface{})
		if !ok || userObj["email"] != "jane@example.com" {
			t.Errorf("unexpected profile payload: %v", result)
		}
	})
}
