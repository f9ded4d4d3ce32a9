// Package firebase resolves the Firebase Admin SDK credentials into
// Firestore and Cloud Storage handles. Resolution never fails hard: missing
// or broken configuration produces a Clients value whose readiness flags are
// false and whose init error is kept for diagnostics, so the rest of the
// service can route to its fallbacks.
package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbstorage "firebase.google.com/go/v4/storage"
	"google.golang.org/api/option"

	"cloud.google.com/go/firestore"

	"github.com/portfolio-site/portfolio-backend/config"
	"github.com/portfolio-site/portfolio-backend/internal/common"
)

// Clients bundles the primary-backend handles and their readiness state.
// Built once at startup and passed to the components that need it.
type Clients struct {
	Firestore *firestore.Client
	Storage   *fbstorage.Client

	ProjectID     string
	DefaultBucket string

	firestoreReady bool
	storageReady   bool
	initErr        error
}

// FirestoreReady reports whether the structured-data backend is usable.
func (c *Clients) FirestoreReady() bool { return c != nil && c.firestoreReady }

// StorageReady reports whether the object-storage backend is usable.
func (c *Clients) StorageReady() bool { return c != nil && c.storageReady }

// InitError returns the captured initialization failure, if any.
func (c *Clients) InitError() error {
	if c == nil {
		return nil
	}
	return c.initErr
}

// Close releases the Firestore connection.
func (c *Clients) Close() {
	if c != nil && c.Firestore != nil {
		_ = c.Firestore.Close()
	}
}

type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// Resolve attempts to construct the Firebase app from configuration. All
// failures are captured on the returned value instead of propagating.
func Resolve(ctx context.Context, cfg config.FirebaseConfig, log *common.Logger) *Clients {
	c := &Clients{
		ProjectID:     cfg.ProjectID,
		DefaultBucket: cfg.StorageBucket,
	}

	if cfg.ProjectID == "" || cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		c.initErr = fmt.Errorf("firebase credentials not configured")
		log.Warn().
			Bool("project_id", cfg.ProjectID != "").
			Bool("client_email", cfg.ClientEmail != "").
			Bool("private_key", cfg.PrivateKey != "").
			Bool("storage_bucket", cfg.StorageBucket != "").
			Msg("firebase credentials incomplete, running in local mode")
		return c
	}

	cred, err := json.Marshal(serviceAccount{
		Type:        "service_account",
		ProjectID:   cfg.ProjectID,
		ClientEmail: cfg.ClientEmail,
		PrivateKey:  NormalizePrivateKey(cfg.PrivateKey),
		TokenURI:    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		c.initErr = fmt.Errorf("encode service account: %w", err)
		return c
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, option.WithCredentialsJSON(cred))
	if err != nil {
		c.initErr = fmt.Errorf("initialize firebase app: %w", err)
		log.Error().Err(err).Msg("firebase initialization failed")
		return c
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		c.initErr = fmt.Errorf("firestore client: %w", err)
		log.Error().Err(err).Msg("firestore client unavailable")
	} else {
		c.Firestore = fs
		c.firestoreReady = true
	}

	st, err := app.Storage(ctx)
	if err != nil {
		if c.initErr == nil {
			c.initErr = fmt.Errorf("storage client: %w", err)
		}
		log.Error().Err(err).Msg("storage client unavailable")
	} else {
		c.Storage = st
		c.storageReady = true
	}

	if c.firestoreReady || c.storageReady {
		log.Info().
			Str("project_id", cfg.ProjectID).
			Bool("firestore", c.firestoreReady).
			Bool("storage", c.storageReady).
			Msg("firebase initialized")
	}

	return c
}

// NormalizePrivateKey converts literal "\n" escape sequences into real line
// breaks. Deployment dashboards often store the PEM key single-line escaped,
// which the credential parser rejects as-is.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
