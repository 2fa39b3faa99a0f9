// Package notify delivers account verification codes.
package notify

import (
	"context"
	"log/slog"
)

// Verification is the message sent to a new account holder.
type Verification struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Code   string `json:"code"`
}

type Sender interface {
	SendVerification(ctx context.Context, v Verification) error
}

// LogSender writes the verification to the log. Suitable for local runs.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendVerification(ctx context.Context, v Verification) error {
	s.logger.InfoContext(ctx, "verification code issued",
		"user_id", v.UserID, "email", v.Email, "code", v.Code)
	return nil
}
