package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nerrad567/ecobuild-core/internal/backend"
	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/results"
	"github.com/nerrad567/ecobuild-core/internal/session"
	"github.com/nerrad567/ecobuild-core/internal/wizard"
)

type analyzeOptions struct {
	file     string
	location bool
	server   string
	username string
	password string
	update   string
	noColor  bool
}

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a building description from a YAML file",
		Long: `Score a building description from a YAML file.

The file holds the same fields the wizard collects, for example:

  projectName: Harbour View
  locationRegion: Puerto Rico
  housingType: Studio Apartment
  floors: "6-10"
  roomsMin: 1
  roomsMax: 6
  materialType: Cross-Laminated Timber
  energyEfficiency: [Solar Panels, Heat Pumps]
  ...

With --server and credentials the result is also saved to that backend. If
the save fails the analysis is still printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "building YAML file (required)")
	cmd.Flags().BoolVar(&opts.location, "location", false, "also describe the building's region")
	cmd.Flags().StringVar(&opts.server, "server", "", "backend URL to save the result to")
	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "backend username")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "backend password (env ECOBUILD_PASSWORD)")
	cmd.Flags().StringVar(&opts.update, "update", "", "replace the stored building with this ID instead of saving a new one")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	_ = cmd.MarkFlagRequired("file") //nolint:errcheck // flag defined above

	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions) error {
	cfg, log, err := loadConfig(root)
	if err != nil {
		return err
	}

	data, err := readBuildingFile(opts.file)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	colored := !opts.noColor && isTerminal(out)
	analyzer := newAnalyzer(cfg, log)

	// The wizard drives the same submit path the API uses, starting from the
	// file's draft on the review step.
	w := wizard.FromSaved(building.SavedBuilding{ID: opts.update, BuildingData: data})
	if err := w.GoTo(int(wizard.StepReview)); err != nil {
		return err
	}

	if opts.location {
		if err := w.RefreshLocation(ctx, analyzer); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "location analysis failed: %v\n", err)
		} else {
			renderLocation(out, data.LocationRegion, w.Location(), colored)
		}
	}

	result, submitErr := w.Submit(ctx, analyzer)
	renderView(out, data.DisplayName(), w.View(), colored)
	if submitErr != nil {
		return submitErr
	}

	if opts.server == "" {
		return nil
	}

	password := opts.password
	if password == "" {
		password = os.Getenv("ECOBUILD_PASSWORD")
	}
	if opts.username == "" || password == "" {
		return errors.New("--username and --password are required with --server")
	}

	client := backend.New(opts.server)
	holder := session.NewHolder()
	sess, err := client.Login(ctx, opts.username, password)
	if err != nil {
		// The analysis already succeeded, so an unreachable or refusing
		// backend is reported the same way as a failed save.
		outcome := results.Outcome{ID: results.PlaceholderID(), Degraded: true, Message: results.SaveFailedMessage}
		log.Warn("sign-in failed, result not saved",
			"server", opts.server,
			"placeholder_id", outcome.ID,
			"error", err,
		)
		fmt.Fprintln(out)
		renderOutcome(out, outcome, colored)
		return nil
	}
	holder.Set(*sess)
	defer func() {
		if current := holder.Current(); current != nil {
			if logoutErr := client.Logout(ctx, *current); logoutErr != nil {
				log.Warn("logout failed", "error", logoutErr)
			}
		}
		holder.Clear()
	}()

	persister := results.NewPersister(client, log)
	var outcome results.Outcome
	if id := w.BuildingID(); id != "" {
		outcome = persister.Update(ctx, holder.Current(), id, w.Data(), result)
	} else {
		outcome = persister.Save(ctx, holder.Current(), w.Data(), result)
	}
	if outcome.Persisted {
		w.SetBuildingID(outcome.ID)
	}

	fmt.Fprintln(out)
	renderOutcome(out, outcome, colored)
	return nil
}

// readBuildingFile loads and validates a building description.
func readBuildingFile(path string) (building.BuildingData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return building.BuildingData{}, fmt.Errorf("reading building file: %w", err)
	}

	var data building.BuildingData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return building.BuildingData{}, fmt.Errorf("parsing building file: %w", err)
	}
	if err := data.Validate(); err != nil {
		return building.BuildingData{}, fmt.Errorf("invalid building file: %w", err)
	}
	return data, nil
}
