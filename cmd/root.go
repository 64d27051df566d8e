package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the blocklift version, set by the build
var Version = "dev"

var (
	cfgFile   string
	globalDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blocklift",
	Short: "Blocklift at your service.",
	Long:  "Download, verify and launch minecraft versions",

	Example: `
  blocklift versions
  blocklift install 1.20.1
  blocklift launch 1.20.1 --username Steve
  blocklift launch 1.20.1-fabric --loader fabric --loader-version 0.14.21`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	globalDir = filepath.Join(home, ".blocklift")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.blocklift/config.toml)")
	rootCmd.PersistentFlags().String("global-dir", globalDir, "directory holding versions, libraries & assets")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "disable spinners & prompts")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable color output")

	viper.BindPFlag("globalDir", rootCmd.PersistentFlags().Lookup("global-dir"))
	viper.BindPFlag("nonInteractive", rootCmd.PersistentFlags().Lookup("non-interactive"))
	viper.SetDefault("downloadConcurrency", 8)
	viper.SetDefault("manifestCacheTTL", "30m")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(globalDir)
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("blocklift")
	viper.AutomaticEnv()

	// a missing config file is fine
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
