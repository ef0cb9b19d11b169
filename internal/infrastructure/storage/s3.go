package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/jhoicas/albaranes-api/internal/application/ports"
)

var _ ports.FileUploader = (*S3Uploader)(nil)

// S3Config destino S3 o compatible (MinIO, R2...).
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string // vacío = AWS
	AccessKey     string // vacío = cadena de credenciales por defecto
	SecretKey     string
	PublicBaseURL string // vacío = https://<bucket>.s3.<region>.amazonaws.com
	KeyPrefix     string
}

// objectPutter subconjunto del cliente S3 que usa el uploader.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader sube ficheros a un bucket y devuelve su URL pública.
type S3Uploader struct {
	cfg    S3Config
	client objectPutter
	now    func() time.Time
}

// NewS3Uploader carga la configuración de AWS y crea el cliente.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket no configurado")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: cargar configuración: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Uploader(cfg, client), nil
}

func newS3Uploader(cfg S3Config, client objectPutter) *S3Uploader {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "uploads"
	}
	return &S3Uploader{cfg: cfg, client: client, now: time.Now}
}

// Upload guarda el fichero bajo <prefix>/<yyyy>/<mm>/<uuid>-<nombre>.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	key := u.objectKey(filename)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}
	return u.publicURL(key), nil
}

func (u *S3Uploader) objectKey(filename string) string {
	now := u.now().UTC()
	name := strings.ReplaceAll(filename, "/", "_")
	return fmt.Sprintf("%s/%04d/%02d/%s-%s", u.cfg.KeyPrefix, now.Year(), int(now.Month()), uuid.New().String(), name)
}

func (u *S3Uploader) publicURL(key string) string {
	base := strings.TrimRight(u.cfg.PublicBaseURL, "/")
	if base == "" {
		switch {
		case u.cfg.Endpoint != "":
			base = strings.TrimRight(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket
		default:
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", u.cfg.Bucket, u.cfg.Region)
		}
	}
	return base + "/" + (&url.URL{Path: key}).EscapedPath()
}
