// Package main provides the MiniFlow CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/miniflow/internal/config"
	"github.com/born-ml/miniflow/internal/dataset"
	"github.com/born-ml/miniflow/internal/train"
	"google.golang.org/api/option"
	"k8s.io/klog/v2"
)

const version = "v0.1.0-dev"

var (
	errUsage   = errors.New("usage: miniflow <train|version> [flags]")
	errNoModel = errors.New("must specify -model")
	errNoData  = errors.New("must specify -data or a data block with a location")
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "MiniFlow %s\n", version)
		return nil
	case "train":
		return runTrain(ctx, args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}
}

func runTrain(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	klog.InitFlags(fs)

	modelPath := fs.String("model", "", "path to the HCL model definition")
	dataPath := fs.String("data", "", "CSV dataset path or gs://bucket/object URL (overrides the model's data block)")
	anonymous := fs.Bool("gcs-anonymous", false, "read gs:// datasets without credentials")
	var opts train.Options
	fs.IntVar(&opts.Epochs, "epochs", 0, "number of epochs (overrides the model)")
	fs.IntVar(&opts.BatchSize, "batch", 0, "mini-batch size, 0 for the model's setting")
	fs.Float64Var(&opts.LearningRate, "lr", 0, "learning rate (overrides the model)")
	fs.Int64Var(&opts.Seed, "seed", 0, "random seed for batch sampling (overrides the model)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	defer klog.Flush()

	if *modelPath == "" {
		return errNoModel
	}
	m, err := config.Load(ctx, *modelPath)
	if err != nil {
		return err
	}

	location := m.Data.Location
	if *dataPath != "" {
		location = *dataPath
	}
	if location == "" {
		return errNoData
	}
	loadOpts := dataset.Options{Targets: m.Data.Targets, Header: m.Data.Header}
	if *anonymous {
		loadOpts.ClientOptions = append(loadOpts.ClientOptions, option.WithoutAuthentication())
	}
	ds, err := dataset.Load(ctx, location, loadOpts)
	if err != nil {
		return err
	}

	history, err := train.Run(ctx, m, ds, opts)
	if err != nil {
		return err
	}
	loss, predicted, err := train.Evaluate(m, ds)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "epochs: %d\n", len(history.Losses))
	fmt.Fprintf(stdout, "loss: %.6f\n", loss)
	if predicted != nil {
		fmt.Fprintf(stdout, "predictions: %v\n", predicted)
	}
	return nil
}
