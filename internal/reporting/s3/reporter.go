package s3

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/olusolaa/helm-guard/internal/core/domain"
	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/errors"
	jsonreporter "github.com/olusolaa/helm-guard/internal/reporting/json"
)

const (
	ReporterTypeS3  = "s3"
	timestampFormat = "20060102T150405Z"
)

type Config struct {
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
	Region    string `mapstructure:"region" yaml:"region"`
}

// PutObjectAPI is the subset of the S3 client the reporter uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Reporter publishes the JSON report to an S3 bucket.
type Reporter struct {
	config Config
	client PutObjectAPI
	logger ports.Logger
}

// NewReporter resolves credentials through the default AWS chain.
func NewReporter(ctx context.Context, cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.Bucket == "" {
		return nil, errors.New(errors.CodeConfigValidation, "s3 reporter requires a bucket")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigValidation, "failed to load default AWS config")
	}
	return NewReporterWithClient(s3.NewFromConfig(awsCfg), cfg, logger), nil
}

func NewReporterWithClient(client PutObjectAPI, cfg Config, logger ports.Logger) *Reporter {
	return &Reporter{config: cfg, client: client, logger: logger}
}

func (r *Reporter) Type() string {
	return ReporterTypeS3
}

func (r *Reporter) Report(ctx context.Context, report *domain.Report) error {
	data, err := jsonreporter.Marshal(report)
	if err != nil {
		return err
	}

	key := ObjectKey(r.config.KeyPrefix, report)
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return classify(err, r.config.Bucket, key)
	}

	r.logger.Infof(ctx, "Report uploaded to s3://%s/%s", r.config.Bucket, key)
	return nil
}

// ObjectKey builds <prefix>/<namespace>/<timestamp>-<runId>.json.
func ObjectKey(prefix string, report *domain.Report) string {
	name := fmt.Sprintf("%s-%s.json", report.Timestamp.UTC().Format(timestampFormat), report.RunID)
	return path.Join(strings.Trim(prefix, "/"), report.Config.Namespace, name)
}

func classify(err error, bucket, key string) error {
	target := fmt.Sprintf("s3://%s/%s", bucket, key)

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return errors.WrapUserFacing(err, errors.CodeReportUploadError,
				fmt.Sprintf("not allowed to upload the report to %s", target),
				"Check the AWS credentials and the bucket policy.")
		case "NoSuchBucket":
			return errors.WrapUserFacing(err, errors.CodeReportUploadError,
				fmt.Sprintf("bucket %s does not exist", bucket),
				"Create the bucket or fix --s3-bucket.")
		}
		return errors.Wrap(err, errors.CodeReportUploadError, fmt.Sprintf("failed to upload report to %s", target)).
			WithDetails("aws_error_code=%s", apiErr.ErrorCode())
	}
	return errors.Wrap(err, errors.CodeReportUploadError, fmt.Sprintf("failed to upload report to %s", target))
}
