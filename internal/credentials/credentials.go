// Package credentials loads the Google service-account key the resolver
// authenticates with.
package credentials

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joshsymonds/lexcura/internal/config"
	"github.com/joshsymonds/lexcura/pkg/pathutil"
)

// ErrCredentialsUnavailable wraps every failure to produce a usable key.
var ErrCredentialsUnavailable = errors.New("credentials unavailable")

// maxDocumentSize caps how much of a remote object is read.
const maxDocumentSize = 1 << 20

// Source yields service-account JSON.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// ServiceAccount is the subset of a Google key file that must be present.
type ServiceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id,omitempty"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id,omitempty"`
	TokenURI     string `json:"token_uri"`
}

// ObjectGetter is the slice of the S3 API used to fetch a key object.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads credentials from the sources named in CredentialsConfig.
type Loader struct {
	s3        ObjectGetter
	lookupEnv func(string) (string, bool)
	cfg       config.CredentialsConfig
}

// Option configures a Loader.
type Option func(*Loader)

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(l *Loader) {
		l.lookupEnv = fn
	}
}

// WithS3Client sets the client used for s3:// sources.
func WithS3Client(c ObjectGetter) Option {
	return func(l *Loader) {
		l.s3 = c
	}
}

// NewLoader creates a loader for cfg.
func NewLoader(cfg config.CredentialsConfig, opts ...Option) *Loader {
	l := &Loader{
		cfg:       cfg,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns validated service-account JSON from the first configured
// source: service_account mapping, inline json, file, s3_uri, then the
// environment variable.
func (l *Loader) Load(ctx context.Context) ([]byte, error) {
	raw, from, err := l.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCredentialsUnavailable, err)
	}

	doc, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCredentialsUnavailable, from, err)
	}
	return doc, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, string, error) {
	c := l.cfg
	switch {
	case len(c.ServiceAccount) > 0:
		data, err := json.Marshal(c.ServiceAccount)
		if err != nil {
			return nil, "service_account", fmt.Errorf("encoding service_account mapping: %w", err)
		}
		return data, "service_account", nil

	case strings.TrimSpace(c.JSON) != "":
		return []byte(c.JSON), "inline json", nil

	case c.File != "":
		path, err := pathutil.ValidateCredentialsPath(c.File)
		if err != nil {
			return nil, c.File, fmt.Errorf("invalid credentials path: %w", err)
		}
		data, err := os.ReadFile(path) //nolint:gosec // Path validated above
		if err != nil {
			return nil, c.File, fmt.Errorf("reading credentials file: %w", err)
		}
		return data, c.File, nil

	case c.S3URI != "":
		data, err := l.fromS3(ctx)
		return data, c.S3URI, err

	case c.Env != "":
		v, ok := l.lookupEnv(c.Env)
		if !ok || strings.TrimSpace(v) == "" {
			return nil, c.Env, fmt.Errorf("environment variable %s is not set", c.Env)
		}
		return []byte(v), c.Env, nil
	}

	return nil, "", errors.New("no credentials source configured")
}

func (l *Loader) fromS3(ctx context.Context) ([]byte, error) {
	bucket, key, err := config.ParseS3URI(l.cfg.S3URI)
	if err != nil {
		return nil, err
	}

	client := l.s3
	if client == nil {
		var opts []func(*awsconfig.LoadOptions) error
		if l.cfg.AWSRegion != "" {
			opts = append(opts, awsconfig.WithRegion(l.cfg.AWSRegion))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// Normalize checks that raw is a service-account document carrying every
// required field. Keys pasted through environment variables often carry
// literal "\n" sequences; those are turned back into newlines.
func Normalize(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty credentials document")
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing credentials JSON: %w", err)
	}

	var sa ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("parsing credentials JSON: %w", err)
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"type", sa.Type},
		{"project_id", sa.ProjectID},
		{"private_key", sa.PrivateKey},
		{"client_email", sa.ClientEmail},
		{"token_uri", sa.TokenURI},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}
	if sa.Type != "service_account" {
		return nil, fmt.Errorf("type is %q, want service_account", sa.Type)
	}

	if !strings.Contains(sa.PrivateKey, "\n") && strings.Contains(sa.PrivateKey, `\n`) {
		doc["private_key"] = strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")
		fixed, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("re-encoding credentials: %w", err)
		}
		return fixed, nil
	}
	return raw, nil
}

// Static is a Source returning fixed bytes without validation.
type Static []byte

// Load implements Source.
func (s Static) Load(context.Context) ([]byte, error) {
	return s, nil
}
