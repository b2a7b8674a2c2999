package tofeature

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/modelconv/pkg/artifacts"
	"github.com/arthur-debert/modelconv/pkg/commands/internal"
	"github.com/arthur-debert/modelconv/pkg/convert"
	"github.com/arthur-debert/modelconv/pkg/feature"
	"github.com/arthur-debert/modelconv/pkg/filesystem"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/provisioning"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/spf13/afero"
)

// ModelExtension is the extension of provisioning model files picked up
// from input directories
const ModelExtension = ".txt"

// ToFeatureOptions holds options for converting provisioning models
type ToFeatureOptions struct {
	FS afero.Fs
	// Inputs are model files or directories of model files
	Inputs    []string
	OutputDir string
	// Resolver locates included models, may be nil
	Resolver artifacts.Resolver
	Convert  convert.Options
	// IncludeModelInfo records the source file on every artifact
	IncludeModelInfo bool
	// ApplyRunModeOptions narrows Convert.RunModes with the option groups
	// declared by the model's boot feature
	ApplyRunModeOptions bool
}

func (o ToFeatureOptions) loader() *provisioning.Loader {
	return &provisioning.Loader{FS: o.FS, Resolver: o.Resolver, IncludeModelInfo: o.IncludeModelInfo}
}

func (o ToFeatureOptions) runModes(model *provisioning.Model) []string {
	if !o.ApplyRunModeOptions {
		return o.Convert.RunModes
	}
	return provisioning.ActiveRunModes(model, strings.Join(o.Convert.RunModes, ","))
}

// ConvertToFeatures converts every input model on its own. Each provisioning
// feature becomes <file>_<feature>.json in the output directory; outputs
// newer than their input are left alone.
func ConvertToFeatures(opts ToFeatureOptions) (*types.ConversionResult, error) {
	logger := logging.GetLogger("commands.tofeature")

	files, err := internal.ExpandInputs(opts.FS, opts.Inputs, ModelExtension)
	if err != nil {
		return nil, err
	}
	result := &types.ConversionResult{Command: "to-feature", Inputs: files, Timestamp: time.Now()}
	loader := opts.loader()

	for _, file := range files {
		logger.Info().Str("file", file).Msg("Converting provisioning model")
		model, err := loader.Load(file)
		if err != nil {
			return result, err
		}

		copts := opts.Convert
		copts.BareFileName = filesystem.BareFileName(file)
		copts.RunModes = opts.runModes(model)
		result.RunModes = copts.RunModes

		features, err := convert.ToFeatures(model, copts)
		if err != nil {
			return result, err
		}

		for i, pf := range model.Features {
			f := features[i]
			out := filepath.Join(opts.OutputDir, convert.OutputFileName(copts.BareFileName, pf.Name))
			skip, status, err := internal.Skip(opts.FS, out, file)
			if err != nil {
				return result, err
			}
			if !skip {
				if err := internal.WriteOutput(opts.FS, out, func(w io.Writer) error { return feature.Write(w, f) }); err != nil {
					return result, err
				}
			}
			result.Add(out, file, f.ID.MvnID(), status)
		}
	}

	logger.Info().
		Int("written", result.Count(types.OutputWritten)+result.Count(types.OutputReplaced)).
		Int("upToDate", result.Count(types.OutputUpToDate)).
		Msg("Conversion finished")
	return result, nil
}
