package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/ds-assistant/internal/assistant"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/config"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm/mock"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/llm/mocks"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/middleware"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/normalizer"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/prompt"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/ratelimit"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestServer(t *testing.T, client llm.LLMClient, limiter ratelimit.Limiter) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	params := llm.DefaultGenerationParams()
	params.Retry = false

	service := assistant.NewService(
		client,
		prompt.NewBuilder(prompt.Config{}),
		normalizer.NewNormalizer(normalizer.Config{}),
		limiter,
		params,
		&logger,
	)

	return NewServer(NewHandler(service, "", &logger), config.DefaultAllowedOrigins)
}

func doRequest(handler http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Ask_MockBackend(t *testing.T) {
	server := newTestServer(t, mock.NewClient(0), nil)

	tests := []struct {
		name     string
		question string
		want     string
	}{
		{name: "Plot", question: "plot a sine wave", want: mock.Responses[mock.ResponsePlot]},
		{name: "DataFrame", question: "Create a DataFrame", want: mock.Responses[mock.ResponseDataFrame]},
		{name: "Merge", question: "join two tables", want: mock.Responses[mock.ResponseMerge]},
		{name: "Default", question: "compute a t-test", want: mock.Responses[mock.ResponseDefault]},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body, err := json.Marshal(AskRequest{Question: test.question})
			require.NoError(t, err)

			rec := doRequest(server, http.MethodPost, "/ask", string(body))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var response AskResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, test.want, response.Answer)
		})
	}
}

func TestHandler_Ask_BadRequest(t *testing.T) {
	server := newTestServer(t, mock.NewClient(0), nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "Empty question", body: `{"question": ""}`},
		{name: "Whitespace question", body: `{"question": "  \n\t "}`},
		{name: "Missing question", body: `{}`},
		{name: "Malformed body", body: `{"question": `},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := doRequest(server, http.MethodPost, "/ask", test.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var response middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
			assert.Equal(t, http.StatusBadRequest, response.Code)
		})
	}

	rec := doRequest(server, http.MethodPost, "/ask", `{"question": " "}`)
	var response middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "No question provided", response.Error)
}

func TestHandler_Ask_BackendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockLLMClient(ctrl)
	client.EXPECT().Model().Return("gemini-2.0-flash").AnyTimes()
	client.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(nil, errors.New("upstream exploded"))

	server := newTestServer(t, client, nil)

	rec := doRequest(server, http.MethodPost, "/ask", `{"question": "plot a sine wave"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var response middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "upstream exploded")
	assert.NotContains(t, rec.Body.String(), `"answer"`)
}

func TestHandler_Ask_RateLimited(t *testing.T) {
	limiter, err := ratelimit.NewLocalLimiter(0.001, 1)
	require.NoError(t, err)

	server := newTestServer(t, mock.NewClient(0), limiter)

	first := doRequest(server, http.MethodPost, "/ask", `{"question": "plot"}`)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(server, http.MethodPost, "/ask", `{"question": "plot"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestHandler_StatusRoutes(t *testing.T) {
	server := newTestServer(t, mock.NewClient(0), nil)

	tests := []struct {
		path string
		want string
	}{
		{path: "/extension/health", want: `{"status":"ok","model":"mock-model","ready":true}`},
		{path: "/test", want: `{"status":"active","model":"mock-model"}`},
		{path: "/", want: `{"message":"Data Science Assistant API","status":"running"}`},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			rec := doRequest(server, http.MethodGet, test.path, "")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, test.want, rec.Body.String())
		})
	}
}

func TestHandler_OpenAPI(t *testing.T) {
	server := newTestServer(t, mock.NewClient(0), nil)

	rec := doRequest(server, http.MethodGet, OpenAPIPath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/ask"`)
	assert.Contains(t, rec.Body.String(), DefaultTitle)
}

func TestServer_CORS(t *testing.T) {
	server := newTestServer(t, mock.NewClient(0), nil)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{origin: "chrome-extension://abcdefghijklmnop", allowed: true},
		{origin: "moz-extension://1234-5678", allowed: true},
		{origin: "http://localhost:8888", allowed: true},
		{origin: "http://127.0.0.1:8888", allowed: true},
		{origin: "https://evil.example.com", allowed: false},
	}

	for _, test := range tests {
		t.Run(test.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
			req.Header.Set("Origin", test.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			req.Header.Set("Access-Control-Request-Headers", "content-type")

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			if test.allowed {
				assert.Equal(t, test.origin, rec.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: assistant.ErrEmptyQuestion, want: http.StatusBadRequest},
		{err: assistant.ErrRateLimited, want: http.StatusTooManyRequests},
		{err: assistant.ErrBackendUnavailable, want: http.StatusInternalServerError},
		{err: errors.New("anything else"), want: http.StatusInternalServerError},
	}

	for _, test := range tests {
		if got := statusFor(test.err); got != test.want {
			t.Errorf("statusFor(%v): %d, want: %d", test.err, got, test.want)
		}
	}
}
