package githubapi

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// AppCredentials identifies a GitHub App whose installation token is used
// to authenticate outbound API calls, for deployments running as an
// installed app rather than against a user's personal access token.
type AppCredentials struct {
	AppID          int64
	PrivateKeyPath string
}

// NewInstallationClient authenticates as a specific installation of a
// GitHub App and returns both the wrapped client and the raw installation
// token, which callers may need to authenticate a git clone of the same
// repository over HTTPS.
func NewInstallationClient(ctx context.Context, creds AppCredentials, installationID int64, logger *slog.Logger) (Client, string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("creating GitHub installation client", "installation_id", installationID)

	privateKey, err := os.ReadFile(creds.PrivateKeyPath)
	if err != nil {
		return nil, "", core.WrapError(core.KindInvalidInput, "read GitHub App private key", err)
	}

	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, creds.AppID, privateKey)
	if err != nil {
		return nil, "", core.WrapError(core.KindInvalidInput, "create GitHub App transport", err)
	}
	appClient := github.NewClient(&http.Client{Transport: appTransport})

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, "", core.WrapError(core.KindProviderUnavailable, "create installation token", err)
	}
	if token.GetToken() == "" {
		return nil, "", core.NewError(core.KindProviderUnavailable, "received an empty installation token")
	}
	logger.Info("created installation token", "installation_id", installationID, "expires_at", token.GetExpiresAt())

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.GetToken()})
	tc := oauth2.NewClient(ctx, ts)
	installationClient := github.NewClient(tc)

	return New(installationClient, logger), token.GetToken(), nil
}
