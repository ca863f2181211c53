package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "configctl",
	Short: "CLI for the VM catalog configuration server",
	Long: `configctl manages the reference data of the VM catalog configuration
server: sizes, OS languages, OS families, locations, endpoints, approval
policies, OS templates and catalogs.

The server URL resolves from --server, then the CONFIGAPI_SERVER environment
variable, then a .configctl.yaml config file in the home directory.`,
}

func init() {
	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "Configuration server URL")
	rootCmd.PersistentFlags().String("user", "", "Value for the X-Remote-User header")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))

	viper.SetEnvPrefix("CONFIGAPI")
	viper.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigName(".configctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(home)
		_ = viper.ReadInConfig()
	}

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(healthCmd)
}
