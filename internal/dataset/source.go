package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
	"k8s.io/klog/v2"
)

const gcsScheme = "gs://"

// Open returns a reader for location, which is either a local path or a
// gs://bucket/object URL. clientOpts configure the storage client and are
// ignored for local paths.
func Open(ctx context.Context, location string, clientOpts ...option.ClientOption) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, gcsScheme) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("opening dataset: %w", err)
		}
		return f, nil
	}

	bucket, object, err := ParseGCSURL(location)
	if err != nil {
		return nil, err
	}

	log := klog.FromContext(ctx)

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS storage client: %w", err)
	}

	log.Info("reading dataset from GCS", "url", location)

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("opening object from GCS %q: %w", location, err)
	}
	return &gcsReader{Reader: r, client: client}, nil
}

// ParseGCSURL splits gs://bucket/object into its bucket and object key.
func ParseGCSURL(location string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(location, gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not a gs:// URL", ErrInvalidLocation, location)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: %q must be gs://bucket/object", ErrInvalidLocation, location)
	}
	return bucket, object, nil
}

// gcsReader closes the storage client together with the object reader.
type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *gcsReader) Close() error {
	readErr := r.Reader.Close()
	clientErr := r.client.Close()
	if readErr != nil {
		return fmt.Errorf("closing GCS reader: %w", readErr)
	}
	if clientErr != nil {
		return fmt.Errorf("closing GCS storage client: %w", clientErr)
	}
	return nil
}
