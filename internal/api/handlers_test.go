package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/config"
	apperrors "github.com/HarishchandraChaudhary/ai-email-sender/internal/errors"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/generator"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/mailer"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/middleware/requestid"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/platform/email"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/testutil"
)

var testServerConfig = config.ServerConfig{
	BodyLimit:    1 << 20,
	AllowOrigins: "*",
}

func newTestApp(gen generator.Generator, dispatcher mailer.Dispatcher, debug bool) *fiber.App {
	return Router(NewHandler(gen, dispatcher, HandlerConfig{
		Debug:         debug,
		GeneratorName: "test",
		TransportName: "test",
	}), testServerConfig)
}

func fakeMailer(sender *testutil.FakeEmailSender) mailer.Dispatcher {
	return mailer.NewService(sender, "no-reply@localhost", mailer.ConfirmationSimulated)
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) string {
	t.Helper()
	var out apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.Error
}

func TestGenerate_TemplateDraft(t *testing.T) {
	app := newTestApp(generator.NewTemplateGenerator(), fakeMailer(testutil.NewFakeEmailSender()), false)

	resp, raw := doJSON(t, app, http.MethodPost, "/generate", `{"prompt":"Summarize Q3 results"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var draft generator.Draft
	require.NoError(t, json.Unmarshal(raw, &draft))
	assert.True(t, strings.HasPrefix(draft.Subject, "Follow-up Regarding: Summarize Q3 results"))
	assert.Contains(t, draft.Body, "Summarize Q3 results")
}

func TestGenerate_MissingPrompt(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty prompt", `{"prompt":""}`},
		{"missing prompt", `{}`},
		{"unknown field only", `{"topic":"hello"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &testutil.FakeGenerator{}
			app := newTestApp(gen, fakeMailer(testutil.NewFakeEmailSender()), false)

			resp, raw := doJSON(t, app, http.MethodPost, "/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Prompt is required", decodeError(t, raw))
			assert.Zero(t, gen.Calls())
		})
	}
}

func TestGenerate_MalformedJSON(t *testing.T) {
	gen := &testutil.FakeGenerator{}
	app := newTestApp(gen, fakeMailer(testutil.NewFakeEmailSender()), false)

	resp, raw := doJSON(t, app, http.MethodPost, "/generate", `{"prompt":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request payload", decodeError(t, raw))
	assert.Zero(t, gen.Calls())
}

func TestGenerate_PassesPromptThrough(t *testing.T) {
	gen := &testutil.FakeGenerator{Draft: generator.Draft{Subject: "S", Body: "B"}}
	app := newTestApp(gen, fakeMailer(testutil.NewFakeEmailSender()), false)

	resp, raw := doJSON(t, app, http.MethodPost, "/generate", `{"prompt":"  spaced prompt  "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.JSONEq(t, `{"subject":"S","body":"B"}`, string(raw))
	assert.Equal(t, []string{"  spaced prompt  "}, gen.Prompts)
}

func TestGenerate_Failure(t *testing.T) {
	gen := &testutil.FakeGenerator{Err: errors.New("provider unavailable")}

	t.Run("generic message", func(t *testing.T) {
		app := newTestApp(gen, fakeMailer(testutil.NewFakeEmailSender()), false)
		resp, raw := doJSON(t, app, http.MethodPost, "/generate", `{"prompt":"hello"}`)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, apperrors.MsgGenerationFailed, decodeError(t, raw))
	})

	t.Run("debug exposes cause", func(t *testing.T) {
		app := newTestApp(gen, fakeMailer(testutil.NewFakeEmailSender()), true)
		resp, raw := doJSON(t, app, http.MethodPost, "/generate", `{"prompt":"hello"}`)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "provider unavailable", decodeError(t, raw))
	})
}

func TestSendEmail_Simulated(t *testing.T) {
	var out bytes.Buffer
	dispatcher := mailer.NewSimulated(email.NewLogSender(&out), "no-reply@localhost")
	app := newTestApp(generator.NewTemplateGenerator(), dispatcher, false)

	resp, raw := doJSON(t, app, http.MethodPost, "/send_email",
		`{"recipients":["a@x.com","b@x.com"],"subject":"Hi","body":"Hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.JSONEq(t, `{"message":"Email sending simulated successfully."}`, string(raw))
	assert.Contains(t, out.String(), "Recipients: a@x.com, b@x.com")
	assert.Contains(t, out.String(), "Subject: Hi")
}

func TestSendEmail_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no recipients", `{"subject":"Hi","body":"Hello"}`},
		{"empty recipients", `{"recipients":[],"subject":"Hi","body":"Hello"}`},
		{"no subject", `{"recipients":["a@x.com"],"body":"Hello"}`},
		{"empty subject", `{"recipients":["a@x.com"],"subject":"","body":"Hello"}`},
		{"no body", `{"recipients":["a@x.com"],"subject":"Hi"}`},
		{"empty body", `{"recipients":["a@x.com"],"subject":"Hi","body":""}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := testutil.NewFakeEmailSender()
			app := newTestApp(generator.NewTemplateGenerator(), fakeMailer(sender), false)

			resp, raw := doJSON(t, app, http.MethodPost, "/send_email", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "All fields are required", decodeError(t, raw))
			assert.Zero(t, sender.Count())
		})
	}
}

func TestSendEmail_DoesNotCheckAddresses(t *testing.T) {
	sender := testutil.NewFakeEmailSender()
	app := newTestApp(generator.NewTemplateGenerator(), fakeMailer(sender), false)

	resp, _ := doJSON(t, app, http.MethodPost, "/send_email",
		`{"recipients":["not-an-address","not-an-address"],"subject":"Hi","body":"Hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, sender.LastSent())
	assert.Equal(t, []string{"not-an-address", "not-an-address"}, sender.LastSent().To)
}

func TestSendEmail_Failure(t *testing.T) {
	sender := testutil.NewFakeEmailSender()
	sender.Err = errors.New("connection refused")
	dispatcher := fakeMailer(sender)

	t.Run("generic message", func(t *testing.T) {
		app := newTestApp(generator.NewTemplateGenerator(), dispatcher, false)
		resp, raw := doJSON(t, app, http.MethodPost, "/send_email",
			`{"recipients":["a@x.com"],"subject":"Hi","body":"Hello"}`)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, apperrors.MsgSendFailed, decodeError(t, raw))
	})

	t.Run("debug exposes cause", func(t *testing.T) {
		app := newTestApp(generator.NewTemplateGenerator(), dispatcher, true)
		resp, raw := doJSON(t, app, http.MethodPost, "/send_email",
			`{"recipients":["a@x.com"],"subject":"Hi","body":"Hello"}`)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "connection refused", decodeError(t, raw))
	})
}

func TestIndex_IgnoresQuery(t *testing.T) {
	app := newTestApp(generator.NewTemplateGenerator(), fakeMailer(testutil.NewFakeEmailSender()), false)

	var pages [][]byte
	for _, target := range []string{"/", "/?prompt=x", "/?a=1&b=2"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, target)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()
		pages = append(pages, raw)
	}

	assert.Equal(t, pages[0], pages[1])
	assert.Equal(t, pages[0], pages[2])
	assert.Contains(t, string(pages[0]), "/generate")
	assert.Contains(t, string(pages[0]), "/send_email")
}

func TestHealth_ReportsGeneratorStatus(t *testing.T) {
	svc := generator.NewService(nil, generator.ServiceConfig{MaxConcurrent: 3})
	app := newTestApp(svc, fakeMailer(testutil.NewFakeEmailSender()), false)

	resp, raw := doJSON(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out HealthResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "test", out.Services["generator"])
	assert.EqualValues(t, 3, out.Generator["max_concurrent"])
}

func TestHealth_TemplateHasNoStatus(t *testing.T) {
	app := newTestApp(generator.NewTemplateGenerator(), fakeMailer(testutil.NewFakeEmailSender()), false)

	resp, raw := doJSON(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), `"generator":{`)
}

func TestRouter_UnknownRoute(t *testing.T) {
	app := newTestApp(generator.NewTemplateGenerator(), fakeMailer(testutil.NewFakeEmailSender()), false)

	resp, raw := doJSON(t, app, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, decodeError(t, raw))
}

func TestRouter_WrongMethod(t *testing.T) {
	app := newTestApp(generator.NewTemplateGenerator(), fakeMailer(testutil.NewFakeEmailSender()), false)

	resp, raw := doJSON(t, app, http.MethodGet, "/generate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.NotEmpty(t, decodeError(t, raw))
}

func TestRouter_RequestIDHeader(t *testing.T) {
	app := newTestApp(generator.NewTemplateGenerator(), fakeMailer(testutil.NewFakeEmailSender()), false)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"prompt":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestid.HeaderRequestID, "req-42")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-42", resp.Header.Get(requestid.HeaderRequestID))
}
