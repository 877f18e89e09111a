package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lacquerai/casegen/internal/dataset"
	"github.com/lacquerai/casegen/internal/execcontext"
	"github.com/lacquerai/casegen/internal/profile"
	"github.com/lacquerai/casegen/internal/publish"
	"github.com/lacquerai/casegen/internal/sampler"
	"github.com/lacquerai/casegen/internal/style"
	"github.com/lacquerai/casegen/internal/synth"
)

// DefaultOutputPath is where the dashboard expects the dataset.
const DefaultOutputPath = "datasets/data.csv"

// GenerateResult describes a completed generate run.
type GenerateResult struct {
	RunID      string              `json:"run_id" yaml:"run_id"`
	Path       string              `json:"path" yaml:"path"`
	Rows       int                 `json:"rows" yaml:"rows"`
	Seed       uint64              `json:"seed" yaml:"seed"`
	Profile    string              `json:"profile" yaml:"profile"`
	Years      []profile.YearCount `json:"years" yaml:"years"`
	DurationMs int64               `json:"duration_ms" yaml:"duration_ms"`
	Upload     *publish.Result     `json:"upload,omitempty" yaml:"upload,omitempty"`
}

type uploader interface {
	Upload(ctx context.Context, path, contentType string) (publish.Result, error)
}

// newUploader is replaced in tests.
var newUploader = func(ctx context.Context, cfg publish.Config) (uploader, error) {
	return publish.New(ctx, cfg)
}

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the synthetic case dataset",
	Long: `Generate a synthetic CSV dataset of case records.

Rows are produced year by year from a generation profile: region, sex, age
group, mode of transmission and risk category are drawn with the profile's
weights, and each row gets a uniformly random diagnosis date within its
year. The file is written atomically, so a failed run leaves any previous
dataset in place.`,
	Example: `
  casegen generate                              # 3000 rows into datasets/data.csv
  casegen generate --seed 42                    # reproducible run
  casegen generate --profile profile.yaml --out /tmp/cases.csv
  casegen generate --s3-bucket my-datasets      # also upload to S3
  casegen generate --output json                # machine-readable result`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := execcontext.New(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		return runGenerate(rc)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.String("out", DefaultOutputPath, "output CSV path")
	flags.String("profile", "", "generation profile YAML (default: built-in profile)")
	flags.Uint64("seed", 0, "random seed (default: time based)")
	flags.String("s3-bucket", "", "upload the dataset to this S3 bucket")
	flags.String("s3-key", "", "object key (default: base name of --out)")
	flags.String("s3-prefix", "", "object key prefix")
	flags.String("s3-region", "", "S3 region (default us-east-1)")
	flags.String("s3-endpoint", "", "custom S3 endpoint, e.g. MinIO")
	flags.Bool("s3-path-style", false, "use path-style S3 addressing")

	for _, name := range []string{"out", "profile", "seed", "s3-bucket", "s3-key", "s3-prefix", "s3-region", "s3-endpoint", "s3-path-style"} {
		_ = viper.BindPFlag("generate."+name, flags.Lookup(name))
	}
}

func runGenerate(rc execcontext.RunContext) error {
	start := time.Now()
	runID := uuid.NewString()
	logger := rc.Logger().With().Str("run_id", runID).Logger()

	profilePath := viper.GetString("generate.profile")
	p, err := profile.Load(profilePath)
	if err != nil {
		printProfileProblems(rc.StdErr, err)
		return err
	}

	seed := uint64(time.Now().UnixNano())
	if viper.IsSet("generate.seed") {
		seed = viper.GetUint64("generate.seed")
	}

	out := viper.GetString("generate.out")
	if out == "" {
		out = DefaultOutputPath
	}
	total := p.TotalCount()
	text := !machineOutput()

	if text {
		rc.Printf("Generating %d rows...\n", total)
	}

	var spin style.Spinner
	if text && !viper.GetBool("quiet") {
		spin = style.NewSpinner(rc.StdErr)
		spin.Start()
	}
	stopSpinner := func() {
		if spin != nil {
			spin.Stop()
			spin = nil
		}
	}
	defer stopSpinner()

	g, err := synth.NewGenerator(p,
		synth.WithLogger(logger.With().Uint64("seed", seed).Logger()),
		synth.WithProgress(func(year, count, done, total int) {
			if spin != nil {
				spin.SetSuffix(fmt.Sprintf(" %d: %d rows (%d/%d)", year, count, done, total))
			}
		}),
	)
	if err != nil {
		return err
	}

	records, err := g.Generate(sampler.NewRand(seed))
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if err := dataset.WriteFile(out, records); err != nil {
		return err
	}
	stopSpinner()
	logger.Info().Str("path", out).Int("rows", len(records)).Msg("Dataset written")

	result := GenerateResult{
		RunID:   runID,
		Path:    out,
		Rows:    len(records),
		Seed:    seed,
		Profile: p.Name,
		Years:   p.Years,
	}

	if cfg := s3Config(); cfg.Bucket != "" {
		up, err := newUploader(rc.Context, cfg)
		if err != nil {
			return err
		}
		res, err := up.Upload(rc.Context, out, dataset.ContentType)
		if err != nil {
			return err
		}
		result.Upload = &res
		if text && !viper.GetBool("quiet") {
			style.Success(rc.StdErr, fmt.Sprintf("Uploaded %s (%d bytes)", res.URI, res.Size))
		}
	}
	result.DurationMs = time.Since(start).Milliseconds()

	return render(rc.StdOut, result, func(w io.Writer) {
		fmt.Fprintf(w, "Done! Created '%s' with %d rows.\n", result.Path, result.Rows)
	})
}

func s3Config() publish.Config {
	return publish.ConfigFromEnv(publish.Config{
		Bucket:    viper.GetString("generate.s3-bucket"),
		Key:       viper.GetString("generate.s3-key"),
		Prefix:    viper.GetString("generate.s3-prefix"),
		Region:    viper.GetString("generate.s3-region"),
		Endpoint:  viper.GetString("generate.s3-endpoint"),
		PathStyle: viper.GetBool("generate.s3-path-style"),
	})
}

// printProfileProblems renders validation problems when err carries them.
func printProfileProblems(w io.Writer, err error) {
	var multi *profile.MultiError
	if !errors.As(err, &multi) {
		return
	}
	problems := make([][2]string, 0, len(multi.Errors))
	for _, e := range multi.Errors {
		var fe *profile.FieldError
		if errors.As(e, &fe) {
			problems = append(problems, [2]string{fe.Field, fe.Message})
		} else {
			problems = append(problems, [2]string{"profile", e.Error()})
		}
	}
	fmt.Fprintln(w, style.RenderProblems("Invalid profile", problems))
}
