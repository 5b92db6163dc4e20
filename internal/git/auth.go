package git

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"
)

// Direction selects the remote-resolution order for auth.
type Direction int

const (
	// DirectionPush resolves explicit remote, then remote.pushDefault,
	// then the upstream's remote, then origin. It uses the push URL.
	DirectionPush Direction = iota
	// DirectionPull resolves explicit remote, then the upstream's remote,
	// then remote.pushDefault, then origin.
	DirectionPull
)

// tokenUser is the basic-auth username sentinel paired with a short-lived
// access token, the convention HTTPS forges expect.
const tokenUser = "x-access-token"

// BuildAuthHeader derives the remote URL for the given direction and
// returns a transient Authorization header value for one invocation. The
// token is never persisted or logged. Non-HTTP(S) remotes are refused:
// header auth cannot work over ssh and silently ignoring the token would
// hide a misconfiguration.
func (s *Service) BuildAuthHeader(ctx context.Context, dir, explicitRemote string, direction Direction, token string) (string, error) {
	remote := s.selectRemote(ctx, dir, explicitRemote, direction)

	remoteURL, err := s.remoteURL(ctx, dir, remote, direction == DirectionPush)
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(remoteURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", &AuthTransportError{URL: remoteURL}
	}

	cred := base64.StdEncoding.EncodeToString([]byte(tokenUser + ":" + token))
	return "Authorization: Basic " + cred, nil
}

// selectRemote walks the direction's fallback chain; each step swallows
// its own failure.
func (s *Service) selectRemote(ctx context.Context, dir, explicit string, direction Direction) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}

	var steps []func(context.Context, string) (string, error)
	if direction == DirectionPush {
		steps = []func(context.Context, string) (string, error){s.pushDefaultRemote, s.upstreamRemote}
	} else {
		steps = []func(context.Context, string) (string, error){s.upstreamRemote, s.pushDefaultRemote}
	}

	for _, step := range steps {
		if remote, err := step(ctx, dir); err == nil && remote != "" {
			return remote
		}
	}
	return "origin"
}

// authConfigArgs turns a header value into the one-shot -c argument pair
// injected before the subcommand.
func authConfigArgs(header string) []string {
	if header == "" {
		return nil
	}
	return []string{"-c", "http.extraHeader=" + header}
}
