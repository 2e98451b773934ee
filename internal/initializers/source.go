package initializers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"gopkg.in/yaml.v3"

	"planets-procgen/internal/shared/errors"
)

// maxBundleBytes caps remote and file bundles.
const maxBundleBytes = 1 << 20

// Load reads a bundle from a .yaml, .yml or .json file. Keys present in the
// file replace the corresponding defaults. The result is validated.
func Load(path string) (*Initializers, error) {
	logger := slog.With("component", "initializers", "operation", "load", "path", path)
	logger.Debug("Loading initializers from file")

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read initializers file", "error", err)
		return nil, fmt.Errorf("failed to read initializers: %w", err)
	}
	if len(raw) > maxBundleBytes {
		return nil, errors.InvalidConfigf("initializers file exceeds %d bytes", maxBundleBytes)
	}

	inits := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(inits); err != nil && err != io.EOF {
			return nil, errors.WrapInvalidConfig("failed to parse initializers yaml", err)
		}
	case ".json":
		if err := Decode(bytes.NewReader(raw), inits); err != nil {
			return nil, err
		}
	default:
		return nil, errors.InvalidConfigf("unsupported initializers format %q", filepath.Ext(path))
	}

	if err := inits.Validate(); err != nil {
		logger.Error("Initializers file failed validation", "error", err)
		return nil, err
	}

	logger.Info("Initializers loaded", "rarity", inits.PlanetRarity, "scale", inits.PerlinLengthScale)
	return inits, nil
}

// Decode reads a JSON bundle from r onto inits without validating it.
func Decode(r io.Reader, inits *Initializers) error {
	dec := json.NewDecoder(io.LimitReader(r, maxBundleBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(inits); err != nil {
		return errors.WrapInvalidConfig("failed to parse initializers json", err)
	}
	return nil
}

// RemoteConfig locates an external game-parameters endpoint. When ClientID is
// set the request is authorized with an OAuth2 client-credentials token.
type RemoteConfig struct {
	URL          string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	Timeout      time.Duration
}

// FetchRemote downloads and validates a JSON bundle.
func FetchRemote(ctx context.Context, cfg RemoteConfig) (*Initializers, error) {
	logger := slog.With("component", "initializers", "operation", "fetch_remote", "url", cfg.URL)
	logger.Debug("Fetching initializers from remote source")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	if cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		client = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, client))
		client.Timeout = timeout
		logger.Debug("Using client credentials", "client_id", cfg.ClientID, "token_url", cfg.TokenURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, errors.WrapInvalidConfig("invalid initializers url", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("Failed to fetch initializers", "error", err)
		return nil, errors.WrapExternal("failed to fetch initializers", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Unexpected status from initializers source", "status_code", resp.StatusCode)
		return nil, errors.WrapExternal("failed to fetch initializers",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	inits := Default()
	if err := Decode(resp.Body, inits); err != nil {
		return nil, err
	}
	if err := inits.Validate(); err != nil {
		logger.Error("Remote initializers failed validation", "error", err)
		return nil, err
	}

	logger.Info("Remote initializers loaded", "rarity", inits.PlanetRarity, "scale", inits.PerlinLengthScale)
	return inits, nil
}

// Resolve picks the bundle source: a local file when path is set, the remote
// endpoint when remote.URL is set, the built-in defaults otherwise.
func Resolve(ctx context.Context, path string, remote RemoteConfig) (*Initializers, error) {
	switch {
	case path != "" && remote.URL != "":
		return nil, errors.InvalidConfigf("initializers path and remote url are mutually exclusive")
	case path != "":
		return Load(path)
	case remote.URL != "":
		return FetchRemote(ctx, remote)
	default:
		return Default(), nil
	}
}
