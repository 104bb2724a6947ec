package services

import (
	"context"
	"log/slog"
	"sync"

	"momodash/internal/amqp"
	"momodash/internal/auth"
)

// AuditPublisher receives one event per login attempt.
type AuditPublisher interface {
	PublishLoginAttempt(ctx context.Context, msg *amqp.LoginAttemptMessage) error
}

// LoginService runs the gate and reports each attempt to the audit
// publisher, if any. Publishing happens off the request path and its
// failures never change the outcome of a login.
type LoginService struct {
	gate  *auth.Gate
	audit AuditPublisher
	wg    sync.WaitGroup
}

func NewLoginService(gate *auth.Gate, audit AuditPublisher) *LoginService {
	return &LoginService{gate: gate, audit: audit}
}

func (s *LoginService) Login(ctx context.Context, sess auth.Session, username, password, clientIP string) (auth.Session, auth.AuthResult) {
	next, res := s.gate.Login(sess, username, password)
	if res.Success {
		slog.InfoContext(ctx, "Login succeeded", "component", "auth", "session_id", next.ID)
	} else {
		slog.WarnContext(ctx, "Login failed", "component", "auth", "session_id", next.ID, "client_ip", clientIP)
	}

	if s.audit != nil {
		msg := amqp.NewLoginAttemptMessage(next.ID, username, res.Success, clientIP)
		pubCtx := context.WithoutCancel(ctx)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.audit.PublishLoginAttempt(pubCtx, msg); err != nil {
				slog.WarnContext(pubCtx, "Failed to publish login audit event", "component", "auth", "error", err)
			}
		}()
	}
	return next, res
}

// Wait blocks until in-flight audit events have been handed off.
func (s *LoginService) Wait() {
	s.wg.Wait()
}
