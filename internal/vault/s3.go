package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"notes-go/internal/config"
	"notes-go/internal/notes"
)

// versionMetaKey is the object metadata key holding the snapshot version.
// S3 lowercases user metadata keys, so it must stay lowercase.
const versionMetaKey = "version"

// S3Vault stores snapshots as objects in a bucket:
//
//	<prefix>/<hostID>/notes.db.age   (metadata: version=<n>)
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Vault creates a vault backed by the bucket named in cfg.
func NewS3Vault(cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	// S3-compatible servers often reject the default flexible checksums.
	checksums := aws.RequestChecksumCalculationWhenSupported
	if cfg.S3Endpoint != "" {
		checksums = aws.RequestChecksumCalculationWhenRequired
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = checksums
	})

	return &S3Vault{
		name:   cfg.Name,
		bucket: cfg.S3Bucket,
		prefix: cfg.S3Prefix,
		client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.RequestChecksumCalculation = checksums
		}),
	}, nil
}

// snapshotKey returns the object key for a host's snapshot.
func (v *S3Vault) snapshotKey(hostID string) string {
	return path.Join(v.prefix, hostID, "notes.db.age")
}

// PutSnapshot uploads the snapshot, replacing any previous one. If r does
// not yield exactly size bytes the upload is aborted and the previous
// snapshot is kept.
func (v *S3Vault) PutSnapshot(hostID string, r io.Reader, size int64, version int64) error {
	_, err := v.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:   aws.String(v.bucket),
		Key:      aws.String(v.snapshotKey(hostID)),
		Body:     &exactReader{r: r, want: size},
		Metadata: map[string]string{versionMetaKey: strconv.FormatInt(version, 10)},
	})
	if err != nil {
		return fmt.Errorf("uploading snapshot: %w", err)
	}
	return nil
}

// GetSnapshot downloads the host's snapshot and writes it to w.
func (v *S3Vault) GetSnapshot(hostID string, w io.Writer) error {
	out, err := v.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.snapshotKey(hostID)),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("snapshot not found for host: %s", hostID)
		}
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	return nil
}

// GetSnapshotVersion reads the version from the object's metadata.
// Returns 0 if no snapshot exists.
func (v *S3Vault) GetSnapshotVersion(hostID string) (int64, error) {
	out, err := v.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.snapshotKey(hostID)),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading snapshot metadata: %w", err)
	}

	raw, ok := out.Metadata[versionMetaKey]
	if !ok {
		return 0, nil
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup checks that the bucket exists and is reachable.
func (v *S3Vault) ValidateSetup() error {
	_, err := v.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(v.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 bucket %q not accessible: %w", v.bucket, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == 404
}

// exactReader fails with errSizeMismatch once r runs past want bytes or
// ends before reaching it. The uploader stops on that error before the
// object is written.
type exactReader struct {
	r    io.Reader
	want int64
	n    int64
}

var errSizeMismatch = errors.New("size mismatch")

func (e *exactReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	e.n += int64(n)
	if e.n > e.want {
		return n, fmt.Errorf("%w: expected %d bytes, got more", errSizeMismatch, e.want)
	}
	if errors.Is(err, io.EOF) && e.n != e.want {
		return n, fmt.Errorf("%w: expected %d bytes, got %d", errSizeMismatch, e.want, e.n)
	}
	return n, err
}

// Compile-time check that S3Vault implements notes.Vault interface
var _ notes.Vault = (*S3Vault)(nil)
