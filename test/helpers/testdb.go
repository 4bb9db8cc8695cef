package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"artexpertise_backend/internal/auth"
	"artexpertise_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateUser создает пользователя напрямую в БД, хешируя пароль
func CreateUser(t *testing.T, db *gorm.DB, user *models.User, rawPassword string) {
	t.Helper()

	hash, err := auth.HashPassword(rawPassword)
	require.NoError(t, err, "Не удалось хешировать пароль")
	user.PasswordHash = hash

	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя %s", user.Email)
}

// CreateAndLoginUser создает пользователя и логинит его через API
func CreateAndLoginUser(t *testing.T, ts *TestServer, name, email, password string, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Name:  name,
		Email: email,
		Role:  role,
	}
	CreateUser(t, ts.DB, user, password)

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+bodyStr)

	var loginResponse struct {
		Token string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &loginResponse))
	require.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")

	return loginResponse.Token, user
}

// CreateAndLoginClient создает клиента с уникальным email
func CreateAndLoginClient(t *testing.T, ts *TestServer) (string, *models.User) {
	email := fmt.Sprintf("client_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, "Test Client", email, "password123", models.UserRoleClient)
}

// CreateAndLoginManager создает менеджера с уникальным email
func CreateAndLoginManager(t *testing.T, ts *TestServer) (string, *models.User) {
	email := fmt.Sprintf("manager_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, "Test Manager", email, "password123", models.UserRoleManager)
}

// CreatePainting создает картину напрямую в БД
func CreatePainting(t *testing.T, db *gorm.DB, title string) *models.Painting {
	t.Helper()

	painting := &models.Painting{
		Title:  title,
		Artist: "Тестовый художник",
	}
	require.NoError(t, db.Create(painting).Error, "Не удалось создать картину")
	return painting
}
