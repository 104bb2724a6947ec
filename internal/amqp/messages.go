package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// LoginAttemptMessage is the audit record published for every login
// attempt. It never carries the submitted password.
type LoginAttemptMessage struct {
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	Success   bool      `json:"success"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLoginAttemptMessage(sessionID, username string, success bool, clientIP string) *LoginAttemptMessage {
	return &LoginAttemptMessage{
		SessionID: sessionID,
		Username:  username,
		Success:   success,
		ClientIP:  clientIP,
		Timestamp: time.Now().UTC(),
	}
}

func (m *LoginAttemptMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LoginAttemptMessageFromJSON decodes a message and rejects ones without a
// session ID or timestamp.
func LoginAttemptMessageFromJSON(data []byte) (*LoginAttemptMessage, error) {
	var msg LoginAttemptMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.SessionID == "" || msg.Timestamp.IsZero() {
		return nil, errors.New("incomplete login attempt message")
	}
	return &msg, nil
}
