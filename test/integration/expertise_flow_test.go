//go:build integration

package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"artexpertise_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expertiseBody struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Author        string `json:"author"`
	OverallResult *bool  `json:"overall_result"`
	Items         []struct {
		PaintingID string `json:"painting_id"`
		Comment    string `json:"comment"`
		Result     *bool  `json:"result"`
	} `json:"items"`
}

func parseExpertise(t *testing.T, body string) expertiseBody {
	t.Helper()
	var e expertiseBody
	require.NoError(t, json.Unmarshal([]byte(body), &e))
	return e
}

// TestExpertiseFullFlow - полный сценарий: корзина, формирование, вердикт
func TestExpertiseFullFlow(t *testing.T) {
	ts := GetTestServer(t)

	clientToken, _ := helpers.CreateAndLoginClient(t, ts)
	managerToken, _ := helpers.CreateAndLoginManager(t, ts)
	p1 := helpers.CreatePainting(t, ts.DB, "Утро в сосновом лесу")
	p2 := helpers.CreatePainting(t, ts.DB, "Рожь")

	// 1. Добавляем картины в черновик через каталог
	res, body := ts.SendRequest(t, "POST", "/api/v1/paintings/"+p1.ID+"/draft", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	draft := parseExpertise(t, body)
	assert.Equal(t, "draft", draft.Status)

	res, body = ts.SendRequest(t, "POST", "/api/v1/paintings/"+p2.ID+"/draft", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Len(t, parseExpertise(t, body).Items, 2)

	// Повторное добавление идемпотентно
	res, body = ts.SendRequest(t, "POST", "/api/v1/paintings/"+p1.ID+"/draft", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Len(t, parseExpertise(t, body).Items, 2)

	// 2. Без автора заявка не формируется
	res, body = ts.SendRequest(t, "PUT", "/api/v1/expertises/"+draft.ID+"/submit", clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	res, body = ts.SendRequest(t, "PATCH", "/api/v1/expertises/"+draft.ID, clientToken,
		map[string]interface{}{"author": "Иван Шишкин"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	// 3. Формируем
	res, body = ts.SendRequest(t, "PUT", "/api/v1/expertises/"+draft.ID+"/submit", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Equal(t, "submitted", parseExpertise(t, body).Status)

	// Сформированную заявку клиент менять не может
	res, body = ts.SendRequest(t, "PATCH", "/api/v1/expertises/"+draft.ID, clientToken,
		map[string]interface{}{"author": "Другой"})
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)

	// 4. Клиент разрешать заявку не может
	res, body = ts.SendRequest(t, "PUT", "/api/v1/expertises/"+draft.ID+"/resolve", clientToken,
		map[string]interface{}{"outcome": "approved"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

	// 5. Менеджер подтверждает подлинность
	res, body = ts.SendRequest(t, "PUT", "/api/v1/expertises/"+draft.ID+"/resolve", managerToken,
		map[string]interface{}{"outcome": "approved"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	resolved := parseExpertise(t, body)
	assert.Equal(t, "completed", resolved.Status)
	require.NotNil(t, resolved.OverallResult)
	assert.True(t, *resolved.OverallResult)
	for _, item := range resolved.Items {
		require.NotNil(t, item.Result)
		assert.True(t, *item.Result)
	}

	// 6. Повторный вердикт отклоняется
	res, body = ts.SendRequest(t, "PUT", "/api/v1/expertises/"+draft.ID+"/resolve", managerToken,
		map[string]interface{}{"outcome": "rejected"})
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)
}

func TestExpertiseList_ClientSeesOnlyOwn(t *testing.T) {
	ts := GetTestServer(t)

	aliceToken, _ := helpers.CreateAndLoginClient(t, ts)
	bobToken, _ := helpers.CreateAndLoginClient(t, ts)
	painting := helpers.CreatePainting(t, ts.DB, "Девятый вал")

	// Алиса формирует заявку
	res, body := ts.SendRequest(t, "POST", "/api/v1/paintings/"+painting.ID+"/draft", aliceToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	draft := parseExpertise(t, body)

	res, body = ts.SendRequest(t, "PATCH", "/api/v1/expertises/"+draft.ID, aliceToken,
		map[string]interface{}{"author": "Иван Айвазовский"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	res, body = ts.SendRequest(t, "PUT", "/api/v1/expertises/"+draft.ID+"/submit", aliceToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	// Бобу чужая заявка недоступна
	res, body = ts.SendRequest(t, "GET", "/api/v1/expertises/"+draft.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode, body)

	// И в списке Боба её нет
	res, body = ts.SendRequest(t, "GET", "/api/v1/expertises", bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.NotContains(t, body, draft.ID)
}

func TestCatalog_PublicAndManaged(t *testing.T) {
	ts := GetTestServer(t)

	clientToken, _ := helpers.CreateAndLoginClient(t, ts)
	managerToken, _ := helpers.CreateAndLoginManager(t, ts)

	// Менеджер создает картину
	title := fmt.Sprintf("Новая картина %d", time.Now().UnixNano())
	res, body := ts.SendRequest(t, "POST", "/api/v1/paintings", managerToken,
		map[string]interface{}{"title": title, "artist": "Архип Куинджи"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	// Клиенту управление каталогом запрещено
	res, body = ts.SendRequest(t, "POST", "/api/v1/paintings", clientToken,
		map[string]interface{}{"title": "Нелегальная"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

	// Каталог доступен без авторизации
	res, body = ts.SendRequest(t, "GET", "/api/v1/paintings", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, title)
}
