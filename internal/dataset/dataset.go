// Package dataset loads numeric CSV datasets for training and serves
// mini-batches from them.
//
// Each record holds the feature columns followed by the target columns. A
// dataset can be read from a local file or from Google Cloud Storage:
//
//	ds, err := dataset.Load(ctx, "gs://my-bucket/xor.csv", dataset.Options{Header: true})
//	x, y, err := ds.Sample(rng, 32)
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/born-ml/miniflow/internal/tensor"
	"google.golang.org/api/option"
	"k8s.io/klog/v2"
)

// Options controls how records are split and parsed.
type Options struct {
	// Targets is the number of trailing target columns (default: 1).
	Targets int

	// Header skips the first record and keeps it as column names.
	Header bool

	// ClientOptions configure the GCS client for gs:// locations.
	ClientOptions []option.ClientOption
}

// Dataset is an in-memory table of feature rows and target rows.
type Dataset struct {
	columns  []string
	features [][]float64
	targets  [][]float64
}

// Load opens location (a local path or gs:// URL) and parses it as CSV.
func Load(ctx context.Context, location string, opts Options) (*Dataset, error) {
	log := klog.FromContext(ctx)

	rc, err := Open(ctx, location, opts.ClientOptions...)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ds, err := Parse(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", location, err)
	}
	log.Info("loaded dataset", "location", location, "samples", ds.Len(),
		"features", ds.NumFeatures(), "targets", ds.NumTargets())
	return ds, nil
}

// Parse reads CSV records from r.
func Parse(r io.Reader, opts Options) (*Dataset, error) {
	if opts.Targets == 0 {
		opts.Targets = 1
	}
	if opts.Targets < 0 {
		return nil, fmt.Errorf("%w: negative target count %d", ErrInvalidRecord, opts.Targets)
	}

	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	ds := &Dataset{}
	line := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
		line++

		if opts.Header && ds.columns == nil {
			ds.columns = record
			continue
		}
		if len(record) <= opts.Targets {
			return nil, fmt.Errorf("%w: record %d has %d fields, need more than %d",
				ErrInvalidRecord, line, len(record), opts.Targets)
		}

		values := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d field %d: %w", ErrInvalidRecord, line, i+1, err)
			}
			values[i] = v
		}
		split := len(values) - opts.Targets
		ds.features = append(ds.features, values[:split])
		ds.targets = append(ds.targets, values[split:])
	}

	if len(ds.features) == 0 {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.features) }

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int { return len(d.features[0]) }

// NumTargets returns the number of target columns.
func (d *Dataset) NumTargets() int { return len(d.targets[0]) }

// Columns returns the header names, or nil if the source had no header.
func (d *Dataset) Columns() []string { return d.columns }

// Features returns all feature rows as a [samples, features] matrix.
func (d *Dataset) Features() *tensor.Tensor { return tensor.MustFromRows(d.features) }

// Targets returns all target rows as a [samples, targets] matrix.
func (d *Dataset) Targets() *tensor.Tensor { return tensor.MustFromRows(d.targets) }

// Batch gathers the rows at indices into feature and target matrices.
func (d *Dataset) Batch(indices []int) (x, y *tensor.Tensor, err error) {
	if len(indices) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	xs := make([][]float64, len(indices))
	ys := make([][]float64, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= d.Len() {
			return nil, nil, fmt.Errorf("batch: index %d out of range [0, %d)", idx, d.Len())
		}
		xs[i] = d.features[idx]
		ys[i] = d.targets[idx]
	}
	if x, err = tensor.FromRows(xs); err != nil {
		return nil, nil, err
	}
	if y, err = tensor.FromRows(ys); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// Sample draws size distinct rows uniformly at random. A size that is not
// positive or exceeds Len returns every row in random order.
func (d *Dataset) Sample(rng *rand.Rand, size int) (x, y *tensor.Tensor, err error) {
	perm := rng.Perm(d.Len())
	if size > 0 && size < len(perm) {
		perm = perm[:size]
	}
	return d.Batch(perm)
}

// Batches shuffles the sample indices and splits them into consecutive
// batches of size; the last batch may be shorter. A size that is not positive
// yields a single batch.
func (d *Dataset) Batches(rng *rand.Rand, size int) [][]int {
	perm := rng.Perm(d.Len())
	if size <= 0 || size >= len(perm) {
		return [][]int{perm}
	}
	batches := make([][]int, 0, (len(perm)+size-1)/size)
	for start := 0; start < len(perm); start += size {
		end := min(start+size, len(perm))
		batches = append(batches, perm[start:end])
	}
	return batches
}
