package toprovisioning

import (
	"io"
	"path/filepath"
	"time"

	"github.com/arthur-debert/modelconv/pkg/artifacts"
	"github.com/arthur-debert/modelconv/pkg/commands/internal"
	"github.com/arthur-debert/modelconv/pkg/convert"
	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/feature"
	"github.com/arthur-debert/modelconv/pkg/filesystem"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/provisioning"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/spf13/afero"
)

// FeatureExtension is the extension of feature files picked up from input
// directories
const FeatureExtension = ".json"

// ToProvisioningOptions holds options for converting feature files
type ToProvisioningOptions struct {
	FS afero.Fs
	// Inputs are feature files or directories of feature files
	Inputs    []string
	OutputDir string
	// Additional feature files consulted first when resolving prototypes
	Additional []string
	// Resolver locates prototypes not found among Additional, may be nil
	Resolver artifacts.Resolver
}

// ConvertToProvisioning converts every input feature into <file>.txt in the
// output directory. Prototypes are assembled first. Outputs newer than their
// input are left alone.
func ConvertToProvisioning(opts ToProvisioningOptions) (*types.ConversionResult, error) {
	logger := logging.GetLogger("commands.toprovisioning")

	files, err := internal.ExpandInputs(opts.FS, opts.Inputs, FeatureExtension)
	if err != nil {
		return nil, err
	}
	result := &types.ConversionResult{Command: "to-provisioning", Inputs: files, Timestamp: time.Now()}

	provider, err := opts.provider()
	if err != nil {
		return result, err
	}

	for _, file := range files {
		out := filepath.Join(opts.OutputDir, filesystem.BareFileName(file)+".txt")
		skip, status, err := internal.Skip(opts.FS, out, file)
		if err != nil {
			return result, err
		}
		if skip {
			result.Add(out, file, "", status)
			continue
		}

		logger.Info().Str("file", file).Msg("Converting feature")
		f, err := readFeature(opts.FS, file)
		if err != nil {
			return result, err
		}
		assembled, err := feature.Assemble(f, provider)
		if err != nil {
			return result, err
		}
		model, err := convert.ToProvisioning(assembled, convert.ProvisioningOptions{SourceName: file})
		if err != nil {
			return result, err
		}
		if err := internal.WriteOutput(opts.FS, out, func(w io.Writer) error { return provisioning.Write(w, model) }); err != nil {
			return result, err
		}
		result.Add(out, file, f.ID.MvnID(), status)
	}
	return result, nil
}

func (o ToProvisioningOptions) provider() (feature.Provider, error) {
	var additional []*feature.Feature
	for _, path := range o.Additional {
		f, err := readFeature(o.FS, path)
		if err != nil {
			return nil, err
		}
		additional = append(additional, f)
	}
	chain := feature.ChainProvider{feature.NewMapProvider(additional...)}
	if o.Resolver != nil {
		chain = append(chain, &feature.RepositoryProvider{Resolver: o.Resolver, FS: o.FS})
	}
	return chain, nil
}

func readFeature(fs afero.Fs, path string) (*feature.Feature, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound, "cannot open feature %s", path)
	}
	defer func() { _ = file.Close() }()
	return feature.Read(file, path)
}
