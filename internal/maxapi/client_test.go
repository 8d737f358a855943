package maxapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("{}")),
	}, nil
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestMe_Success(t *testing.T) {
	var capturedRequest *http.Request

	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			capturedRequest = req
			return response(http.StatusOK, `{"user_id":1}`), nil
		},
	}

	client := NewWithClient("abc123", httpClient, "https://max.test")

	err := client.Me(context.Background())

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, capturedRequest.Method)
	assert.Equal(t, "https://max.test/me", capturedRequest.URL.String())
	assert.Equal(t, "abc123", capturedRequest.Header.Get("Authorization"))
}

func TestMe_Unauthorized(t *testing.T) {
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return response(http.StatusUnauthorized, `{"error":"invalid token"}`), nil
		},
	}

	client := NewWithClient("bad-token", httpClient, "https://max.test")

	err := client.Me(context.Background())

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMe_UnexpectedStatus(t *testing.T) {
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return response(http.StatusBadGateway, "upstream broken"), nil
		},
	}

	client := NewWithClient("abc123", httpClient, "https://max.test")

	err := client.Me(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	assert.Equal(t, "upstream broken", statusErr.Body)
	assert.Equal(t, "https://max.test/me", statusErr.URL)
}

func TestMe_NetworkError(t *testing.T) {
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
	}

	client := NewWithClient("abc123", httpClient, "https://max.test")

	err := client.Me(context.Background())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, transportErr.Error(), "connection refused")
}

func TestSendMessage_UserRecipient(t *testing.T) {
	var capturedRequest *http.Request
	var capturedBody []byte

	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			capturedRequest = req
			capturedBody, _ = io.ReadAll(req.Body)
			return response(http.StatusOK, "{}"), nil
		},
	}

	client := NewWithClient("abc123", httpClient, "https://max.test")

	err := client.SendMessage(context.Background(), "user_id", 42, "hi")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, capturedRequest.Method)
	assert.Equal(t, "https://max.test/messages?user_id=42&v="+APIVersion, capturedRequest.URL.String())
	assert.Equal(t, "abc123", capturedRequest.Header.Get("Authorization"))
	assert.Equal(t, "application/json", capturedRequest.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"text":"hi"}`, string(capturedBody))
}

func TestSendMessage_ChatRecipient(t *testing.T) {
	var capturedRequest *http.Request

	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			capturedRequest = req
			return response(http.StatusOK, "{}"), nil
		},
	}

	client := NewWithClient("abc123", httpClient, "https://max.test")

	err := client.SendMessage(context.Background(), "chat_id", 777, "release done")

	require.NoError(t, err)
	assert.Equal(t, "777", capturedRequest.URL.Query().Get("chat_id"))
	assert.Equal(t, APIVersion, capturedRequest.URL.Query().Get("v"))
}

func TestSendMessage_ErrorStatus(t *testing.T) {
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return response(http.StatusForbidden, `{"code":"proto.payload","message":"chatId: required"}`), nil
		},
	}

	client := NewWithClient("abc123", httpClient, "https://max.test")

	err := client.SendMessage(context.Background(), "user_id", 42, "hi")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
	assert.Contains(t, statusErr.Body, "chatId")
	assert.Contains(t, statusErr.URL, "user_id=42")
}

func TestSendMessage_NetworkError(t *testing.T) {
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: timeout")
		},
	}

	client := NewWithClient("abc123", httpClient, "https://max.test")

	err := client.SendMessage(context.Background(), "chat_id", 1, "hi")

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}
