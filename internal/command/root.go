package command

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botgate",
	Short: "Botgate - multi-tenant chatbot gateway",
	Long: `Botgate is a multi-tenant gateway in front of Google's Gemini models.
Each tenant ("bot") carries its own allowed origins, tone, and topic policy;
a single relay endpoint enforces per-tenant access control and rate limits
before forwarding conversations upstream.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logrus.SetLevel(logrus.TraceLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.AddCommand(newServeCommand())
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
