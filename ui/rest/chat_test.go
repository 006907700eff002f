package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	domainChat "github.com/onlyWebstar/travel-bot/domains/chat"
	"github.com/onlyWebstar/travel-bot/ui/rest/middleware"
)

type fakeChatService struct {
	gotRequest domainChat.MessageRequest
}

func (f *fakeChatService) HandleMessage(ctx context.Context, request domainChat.MessageRequest) (domainChat.MessageResponse, error) {
	f.gotRequest = request
	return domainChat.MessageResponse{
		Intent: "flight_search",
		Reply:  "Here are your flights",
	}, nil
}

func TestChatHandleMessage_E2E(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.Recovery())

	service := &fakeChatService{}
	InitRestChat(app, service)

	body := []byte(`{"user_id":42,"first_name":"Ada","text":"flights from London to Paris"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d, body=%s", resp.StatusCode, string(b))
	}

	var envelope struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Results map[string]interface{} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}

	if envelope.Code != "SUCCESS" || envelope.Message != "Message handled" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	if v, ok := envelope.Results["intent"].(string); !ok || v != "flight_search" {
		t.Fatalf("expected intent 'flight_search', got %#v", envelope.Results["intent"])
	}
	if v, ok := envelope.Results["reply"].(string); !ok || v != "Here are your flights" {
		t.Fatalf("expected reply string, got %#v", envelope.Results["reply"])
	}

	if service.gotRequest.UserID != 42 {
		t.Fatalf("expected userID 42, got %d", service.gotRequest.UserID)
	}
	if service.gotRequest.Text != "flights from London to Paris" {
		t.Fatalf("unexpected text forwarded to service: %q", service.gotRequest.Text)
	}
}

func TestChatHandleMessage_ValidationError(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestChat(app, &fakeChatService{})

	// Missing text fails validation and the recovery middleware turns the
	// panic into a 400 envelope.
	body := []byte(`{"user_id":42}`)
	req := httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 400, got %d, body=%s", resp.StatusCode, string(b))
	}

	var envelope struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if envelope.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %q", envelope.Code)
	}
}
