package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TestServer прогоняет запросы через роутер без сети.
// Сервер с сессией подставляет cookies и CSRF-заголовок в каждый запрос.
type TestServer struct {
	Router  *gin.Engine
	session map[string]string
}

func NewTestServer(router *gin.Engine) *TestServer {
	gin.SetMode(gin.TestMode)
	return &TestServer{Router: router}
}

// WithSession возвращает копию сервера, которая отправляет cookies из ответа на вход
// и дублирует значение cookie csrfCookie в заголовок csrfHeader
func (s *TestServer) WithSession(cookies []*http.Cookie, csrfCookie, csrfHeader string) *TestServer {
	session := make(map[string]string)
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if c.Value == "" || c.MaxAge < 0 {
			continue
		}
		pairs = append(pairs, c.Name+"="+c.Value)
		if c.Name == csrfCookie {
			session[csrfHeader] = c.Value
		}
	}
	session["Cookie"] = strings.Join(pairs, "; ")
	return &TestServer{Router: s.Router, session: session}
}

// MakeRequest выполняет запрос. headers дополняют заголовки сессии,
// пустое значение убирает заголовок сессии.
func (s *TestServer) MakeRequest(
	t *testing.T,
	method, path string,
	body any,
	headers map[string]string,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "не удалось сериализовать тело запроса")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range s.session {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		if v == "" {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

// ParseResponseBody декодирует JSON-тело ответа
func ParseResponseBody(t *testing.T, body *bytes.Buffer, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body.Bytes(), target), "тело ответа не JSON: %s", body.String())
}

// AssertResponse проверяет статус и, если передан target, декодирует тело
func AssertResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	require.Equal(t, expectedStatus, w.Code, "неожиданный статус: %s", w.Body.String())
	if target != nil && w.Body.Len() > 0 {
		ParseResponseBody(t, w.Body, target)
	}
}

// AssertErrorResponse проверяет статус и подстроку в поле error
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	t.Helper()

	var resp struct {
		Error string `json:"error"`
	}
	AssertResponse(t, w, expectedStatus, &resp)
	require.NotEmpty(t, resp.Error, "в ответе нет поля error")
	if expectedMessage != "" {
		require.Contains(t, resp.Error, expectedMessage)
	}
}
