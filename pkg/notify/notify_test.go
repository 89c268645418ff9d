package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/ikkim/shopadmin-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_DevModeSkipsDelivery(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: "587"}).(*smtpMailer)
	called := false
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	err := m.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestSMTPMailer_BuildsHeaders(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{
		Host: "smtp.example.com", Port: "587", Username: "user", Password: "pass", From: "shop@example.com",
	}).(*smtpMailer)

	var gotAddr, gotFrom string
	var gotBody []byte
	m.send = func(addr string, _ smtp.Auth, from string, _ []string, msg []byte) error {
		gotAddr, gotFrom, gotBody = addr, from, msg
		return nil
	}

	err := m.Send(context.Background(), Message{
		To: []string{"a@example.com"}, ReplyTo: "b@example.com", Subject: "Hello", HTML: "<p>x</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Contains(t, string(gotBody), "Reply-To: b@example.com\r\n")
	assert.Contains(t, string(gotBody), "Subject: Hello\r\n")
}

func TestSMTPMailer_PropagatesFailure(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "h", Port: "25", Username: "u", Password: "p"}).(*smtpMailer)
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send(context.Background(), Message{To: []string{"a@example.com"}})
	assert.Error(t, err)
}

func TestHTTPSMSSender_PostsJSON(t *testing.T) {
	var got smsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender := NewHTTPSMSSender(config.SMSConfig{APIURL: server.URL, APIKey: "key", Sender: "SHOP"})
	require.NoError(t, sender.Send(context.Background(), "+15550100", "hello"))
	assert.Equal(t, smsRequest{From: "SHOP", To: "+15550100", Text: "hello"}, got)
}

func TestHTTPSMSSender_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewHTTPSMSSender(config.SMSConfig{APIURL: server.URL, APIKey: "key"})
	assert.Error(t, sender.Send(context.Background(), "+15550100", "hello"))
}

func TestContactEmail_EscapesInput(t *testing.T) {
	msg, err := ContactEmail("inbox@example.com", ContactForm{
		Name: "Eve", Email: "eve@example.com", Message: "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.Equal(t, "eve@example.com", msg.ReplyTo)
	assert.False(t, strings.Contains(msg.HTML, "<script>"))
	assert.Equal(t, []string{"inbox@example.com"}, msg.To)
}
