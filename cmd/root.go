/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mikesmitty/toasty-boy/pkg/node"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "toasty-boy",
	Short: "Radiator valve controller daemon",
	Long: `Drives a thermostatic radiator valve from a room temperature sensor,
holding a target temperature with minimal valve movement and noise.
Publishes telemetry and accepts mode switches over MQTT.`,
	Run: node.Root(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.toasty-boy.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("i2cbus", "", "name of the i2c bus")
	rootCmd.PersistentFlags().String("spibus", "", "name of the spi bus")
	rootCmd.PersistentFlags().String("sensor", "sht4x", "room sensor backend (sht4x, max31865, fake)")
	rootCmd.PersistentFlags().Float64("fake-temp", 19.0, "temperature reported by the fake sensor backend")
	rootCmd.PersistentFlags().Duration("tick-interval", 1*time.Minute, "control loop tick interval")
	rootCmd.PersistentFlags().Duration("sensor-interval", 6*time.Second, "room sensor polling interval")
	rootCmd.PersistentFlags().Duration("watchdog-timeout", 5*time.Minute, "failsafe valve move timeout without sensor readings")
	rootCmd.PersistentFlags().Uint16("failsafe-percent", 0, "valve position to take when the sensor goes silent")
	rootCmd.PersistentFlags().Int("target-temp", 19, "target room temperature in whole degrees C")
	rootCmd.PersistentFlags().Int("frost-temp", 5, "frost protection target in whole degrees C")
	rootCmd.PersistentFlags().Uint16("min-pc-open", 15, "minimum useful valve opening percentage")
	rootCmd.PersistentFlags().Uint16("max-pc-open", 100, "maximum valve opening percentage")
	rootCmd.PersistentFlags().Bool("eco", true, "favour energy saving over comfort")
	rootCmd.PersistentFlags().Bool("glacial", false, "restrict valve movement to 1% per tick")
	rootCmd.PersistentFlags().Bool("light-sensor", false, "use a tsl2591 light sensor to detect darkness")
	rootCmd.PersistentFlags().Uint64("dark-threshold", 50, "infrared level below which the room counts as dark")
	rootCmd.PersistentFlags().Uint64("light-threshold", 100, "infrared level above which the room counts as lit")
	rootCmd.PersistentFlags().Int("dark-hold-samples", 10, "consecutive samples required to flip the darkness state")
	rootCmd.PersistentFlags().String("valve-open-pin", "", "gpio pin driving the valve open")
	rootCmd.PersistentFlags().String("valve-close-pin", "", "gpio pin driving the valve closed")
	rootCmd.PersistentFlags().Duration("valve-travel-time", 30*time.Second, "full end-to-end valve travel time")
	rootCmd.PersistentFlags().Uint16("valve-id", 1, "valve id reported to the boiler hub")
	rootCmd.PersistentFlags().String("mqtt-broker", "", "mqtt broker url")
	rootCmd.PersistentFlags().Int("mqtt-sample-interval", 10, "publish every nth sensor reading")
	rootCmd.PersistentFlags().String("boiler-hub-topic", "", "mqtt topic prefix for boiler hub call-for-heat signals")

	viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".toasty-boy" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".toasty-boy")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
