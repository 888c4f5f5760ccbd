// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
)

// LogMailer writes reset links to the log instead of sending email.
type LogMailer struct {
	logger  *slog.Logger
	baseURL string
}

// NewLogMailer constructs a [Mailer] that logs the reset link built on baseURL.
func NewLogMailer(logger *slog.Logger, baseURL string) *LogMailer {
	return &LogMailer{logger: logger, baseURL: baseURL}
}

// SendPasswordReset implements [Mailer].
func (mailer *LogMailer) SendPasswordReset(context context.Context, email, token string) error {
	mailer.logger.InfoContext(context, "password_reset_mail",
		slog.String("email", email),
		slog.String("link", mailer.baseURL+"/reset-password?token="+token),
	)
	return nil
}
