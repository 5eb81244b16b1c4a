// Package rulesource provides the places a rule set document can be fetched
// from: the bundled default, a local file, or an S3 object.
package rulesource

import (
	"context"
	"strings"

	"github.com/mealguard-dev/mealguard/internal/application/ports"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/config"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/system"
)

// Embedded is the source name of the bundled rule set.
const Embedded = "embedded"

// New selects a source from the configured location.
func New(ctx context.Context, cfg system.RulesConfig) (ports.RuleSetSource, error) {
	switch {
	case cfg.Source == "" || cfg.Source == Embedded:
		return NewEmbeddedSource(config.DefaultRuleSet()), nil
	case strings.HasPrefix(cfg.Source, "s3://"):
		bucket, key, err := ParseS3URL(cfg.Source)
		if err != nil {
			return nil, err
		}
		return NewS3Source(ctx, S3Options{
			Bucket:          bucket,
			Key:             key,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PollInterval:    cfg.PollInterval,
		})
	default:
		return NewFileSource(strings.TrimPrefix(cfg.Source, "file://")), nil
	}
}

// EmbeddedSource serves a fixed document.
type EmbeddedSource struct {
	data []byte
}

// NewEmbeddedSource creates a source over data.
func NewEmbeddedSource(data []byte) *EmbeddedSource {
	return &EmbeddedSource{data: data}
}

// Fetch returns a copy of the document.
func (s *EmbeddedSource) Fetch(context.Context) ([]byte, error) {
	return append([]byte(nil), s.data...), nil
}

// Describe names the source.
func (s *EmbeddedSource) Describe() string {
	return Embedded
}
