package tofeature

import (
	"io"
	"strings"
	"time"

	"github.com/arthur-debert/modelconv/pkg/commands/internal"
	"github.com/arthur-debert/modelconv/pkg/convert"
	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/feature"
	"github.com/arthur-debert/modelconv/pkg/filesystem"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/types"
)

// ConvertMerged merges the inputs, in the order given, into one model and
// converts it. A single feature is written to output; several features get
// output with an "_<index>" suffix. Existing outputs are never overwritten.
func ConvertMerged(opts ToFeatureOptions, output string) (*types.ConversionResult, error) {
	logger := logging.GetLogger("commands.tofeature").With().Str("output", output).Logger()
	done := logging.LogOperationStart(logger, "merge")
	defer done()

	if output == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no output file given for the merged model")
	}
	files, err := internal.ExpandInputs(opts.FS, opts.Inputs, ModelExtension)
	if err != nil {
		return nil, err
	}
	result := &types.ConversionResult{Command: "to-feature", Inputs: files, Timestamp: time.Now()}

	model, err := opts.loader().Load(files...)
	if err != nil {
		return result, err
	}

	copts := opts.Convert
	copts.BareFileName = filesystem.BareFileName(output)
	copts.RunModes = opts.runModes(model)
	result.RunModes = copts.RunModes

	features, err := convert.ToFeatures(model, copts)
	if err != nil {
		return result, err
	}

	paths := make([]string, len(features))
	for i := range features {
		paths[i] = output
		if len(features) > 1 {
			paths[i] = filesystem.IndexedPath(output, i)
		}
		if filesystem.Exists(opts.FS, paths[i]) {
			return result, errors.Newf(errors.ErrOutputExists, "output %s already exists", paths[i]).
				WithDetail("path", paths[i])
		}
	}

	source := strings.Join(files, ",")
	for i, f := range features {
		if err := internal.WriteOutput(opts.FS, paths[i], func(w io.Writer) error { return feature.Write(w, f) }); err != nil {
			return result, err
		}
		result.Add(paths[i], source, f.ID.MvnID(), types.OutputWritten)
	}
	return result, nil
}
