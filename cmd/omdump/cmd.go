package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/omview/internal/envconfig"
	"github.com/born-ml/omview/internal/logutil"
	"github.com/born-ml/omview/internal/metadata"
	"github.com/born-ml/omview/om"
)

const version = "v0.1.0-dev"

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI builds the omdump command tree.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "omdump",
		Short:         "Inspect DaVinci OM model files",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), envconfig.LogLevel()))
		},
		Run: func(cmd *cobra.Command, _ []string) {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "omdump version %s\n", version)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
	rootCmd.PersistentFlags().String("metadata", "", "Operator catalog JSON (overrides OM_METADATA)")

	inspectCmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Summarize one or more models",
		Args:  cobra.MinimumNArgs(1),
		RunE:  InspectHandler,
	}

	graphCmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Print the nodes of a model's graphs",
		Args:  cobra.ExactArgs(1),
		RunE:  GraphHandler,
	}
	graphCmd.Flags().String("graph", "", "Only print the named graph")
	graphCmd.Flags().Bool("attrs", false, "Print node attributes")
	graphCmd.Flags().Int("values", 0, "Preview up to N values of float constants")

	partitionsCmd := &cobra.Command{
		Use:   "partitions FILE",
		Short: "Print the partition table of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  PartitionsHandler,
	}

	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["OM_METADATA"], envVars["OM_MAX_FILE_SIZE"], envVars["OM_DEBUG"]}

	for _, cmd := range []*cobra.Command{graphCmd, partitionsCmd} {
		appendEnvDocs(cmd, envs)
	}
	appendEnvDocs(inspectCmd, append(envs, envVars["OM_PARALLEL"]))

	rootCmd.AddCommand(inspectCmd, graphCmd, partitionsCmd)

	return rootCmd
}

// loadOptions resolves the operator catalog from --metadata, then OM_METADATA.
func loadOptions(cmd *cobra.Command) om.LoadOptions {
	path, _ := cmd.Flags().GetString("metadata")
	if path == "" {
		path = envconfig.Metadata()
	}
	return om.LoadOptions{
		Metadata: metadata.Open(path),
		MaxSize:  int64(envconfig.MaxFileSize()), //nolint:gosec // G115: limit fits in int64.
	}
}
