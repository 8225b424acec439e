package config

import (
	"context"

	"github.com/litigio/tramita/pkg/domain/interfaces"
	"github.com/litigio/tramita/pkg/storage/gcs"
	storagememory "github.com/litigio/tramita/pkg/storage/memory"
	"github.com/litigio/tramita/pkg/storage/s3"
	"github.com/litigio/tramita/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for the document archive backend
type Storage struct {
	backend string

	gcsBucket string

	s3Endpoint  string
	s3AccessKey string
	s3SecretKey string
	s3Bucket    string
	s3UseSSL    bool
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Archive storage backend type (gcs, s3, or memory)",
			Value:       "gcs",
			Sources:     cli.EnvVars("TRAMITA_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "GCS bucket name (required when using gcs backend)",
			Sources:     cli.EnvVars("TRAMITA_GCS_BUCKET"),
			Destination: &s.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "s3-endpoint",
			Usage:       "S3-compatible endpoint (required when using s3 backend)",
			Sources:     cli.EnvVars("TRAMITA_S3_ENDPOINT"),
			Destination: &s.s3Endpoint,
		},
		&cli.StringFlag{
			Name:        "s3-access-key",
			Usage:       "S3 access key",
			Sources:     cli.EnvVars("TRAMITA_S3_ACCESS_KEY"),
			Destination: &s.s3AccessKey,
		},
		&cli.StringFlag{
			Name:        "s3-secret-key",
			Usage:       "S3 secret key",
			Sources:     cli.EnvVars("TRAMITA_S3_SECRET_KEY"),
			Destination: &s.s3SecretKey,
		},
		&cli.StringFlag{
			Name:        "s3-bucket",
			Usage:       "S3 bucket name (required when using s3 backend)",
			Sources:     cli.EnvVars("TRAMITA_S3_BUCKET"),
			Destination: &s.s3Bucket,
		},
		&cli.BoolFlag{
			Name:        "s3-use-ssl",
			Usage:       "Use TLS for the S3 endpoint",
			Value:       true,
			Sources:     cli.EnvVars("TRAMITA_S3_USE_SSL"),
			Destination: &s.s3UseSSL,
		},
	}
}

// Configure initializes the archive storage backend. The caller is
// responsible for calling Close() on the returned storage.
func (s *Storage) Configure(ctx context.Context) (interfaces.ObjectStorage, error) {
	switch s.backend {
	case "gcs":
		if s.gcsBucket == "" {
			return nil, goerr.New("gcs-bucket is required when using gcs backend")
		}
		store, err := gcs.New(ctx, s.gcsBucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize GCS storage")
		}
		logging.Default().Info("Using GCS archive storage", "bucket", s.gcsBucket)
		return store, nil

	case "s3":
		if s.s3Endpoint == "" || s.s3Bucket == "" {
			return nil, goerr.New("s3-endpoint and s3-bucket are required when using s3 backend")
		}
		store, err := s3.New(s3.Config{
			Endpoint:  s.s3Endpoint,
			AccessKey: s.s3AccessKey,
			SecretKey: s.s3SecretKey,
			Bucket:    s.s3Bucket,
			UseSSL:    s.s3UseSSL,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize S3 storage")
		}
		logging.Default().Info("Using S3 archive storage",
			"endpoint", s.s3Endpoint,
			"bucket", s.s3Bucket,
		)
		return store, nil

	case "memory":
		logging.Default().Info("Using in-memory archive storage (development mode)")
		return storagememory.New(), nil

	default:
		return nil, goerr.New("invalid storage backend", goerr.V("backend", s.backend))
	}
}
