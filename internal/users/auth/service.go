// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements sign-in with Discord.

The flow is a linear pipeline: redirect to the consent screen, exchange the
returned code for an access token, fetch the profile, then issue our own
session token. Each external call has its own timeout and failure branch.
Nothing about the user is stored server-side; the session cookie is the account.
*/
package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/taibuivan/portfolio/internal/platform/apperr"
	"github.com/taibuivan/portfolio/internal/platform/sec"
)

// Service drives the Discord login and mints session tokens.
type Service struct {
	discord *DiscordClient
	tokens  *sec.TokenService
	logger  *slog.Logger
}

func NewService(discord *DiscordClient, tokens *sec.TokenService, logger *slog.Logger) *Service {
	return &Service{discord: discord, tokens: tokens, logger: logger}
}

// LoginURL returns the Discord consent URL carrying state.
func (service *Service) LoginURL(state string) (string, error) {
	if !service.discord.Configured() {
		return "", apperr.Misconfigured("Discord login is not configured: set DISCORD_CLIENT_ID and DISCORD_CLIENT_SECRET")
	}
	return service.discord.AuthCodeURL(state), nil
}

// CompleteLogin turns an authorization code into a signed session token.
//
// Provider failures are logged with their status and surfaced as generic
// external-service errors; provider bodies never reach the client.
func (service *Service) CompleteLogin(ctx context.Context, code string) (string, error) {
	if !service.discord.Configured() {
		return "", apperr.Misconfigured("Discord login is not configured: set DISCORD_CLIENT_ID and DISCORD_CLIENT_SECRET")
	}

	// 1. Code exchange
	token, err := service.discord.Exchange(ctx, code)
	if err != nil {
		service.logProviderFailure(ctx, "discord_token_exchange_failed", err)
		return "", apperr.ExternalService(
			"Could not obtain a token from Discord. Check that the client id, secret and redirect URI match the Developer Portal.",
			err,
		)
	}

	// 2. Profile fetch
	profile, err := service.discord.FetchProfile(ctx, token)
	if err != nil {
		service.logProviderFailure(ctx, "discord_profile_fetch_failed", err)
		return "", apperr.ExternalService("Signed in, but the Discord profile could not be loaded.", err)
	}

	// 3. Session token
	session, err := service.tokens.Issue(sec.Identity{
		ID:          profile.ID,
		DisplayName: sec.DisplayName(profile.GlobalName, profile.Username, profile.Discriminator),
		AvatarHash:  profile.Avatar,
	})
	if err != nil {
		return "", apperr.Internal(err)
	}

	service.logger.InfoContext(ctx, "discord_login_succeeded", slog.String("user_id", profile.ID))
	return session, nil
}

func (service *Service) logProviderFailure(ctx context.Context, event string, err error) {
	attrs := []any{slog.String("error", err.Error())}

	var retrieveError *oauth2.RetrieveError
	var statusError *StatusError
	switch {
	case errors.As(err, &retrieveError) && retrieveError.Response != nil:
		attrs = append(attrs,
			slog.Int("status", retrieveError.Response.StatusCode),
			slog.String("provider_error", retrieveError.ErrorCode),
		)
	case errors.As(err, &statusError):
		attrs = append(attrs, slog.Int("status", statusError.Status))
	}

	service.logger.ErrorContext(ctx, event, attrs...)
}
