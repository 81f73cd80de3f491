// Package cmd implements the CLI application to manage a kitchen: its
// ingredients, its meals, and the portions served from them.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/ktchn"
	"github.com/etnz/ktchn/kv"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&ingredientsCmd{}, "ingredients")
	c.Register(&ingredientAddCmd{}, "ingredients")
	c.Register(&ingredientSetCmd{}, "ingredients")
	c.Register(&ingredientRmCmd{}, "ingredients")
	c.Register(&ingredientImportCmd{}, "ingredients")

	c.Register(&mealsCmd{}, "meals")
	c.Register(&mealCmd{}, "meals")
	c.Register(&mealAddCmd{}, "meals")
	c.Register(&mealSetCmd{}, "meals")
	c.Register(&mealRmCmd{}, "meals")
	c.Register(&linkAddCmd{}, "meals")
	c.Register(&linkSetCmd{}, "meals")
	c.Register(&linkRmCmd{}, "meals")
	c.Register(&portionCmd{}, "meals")

	c.Register(&rekeyCmd{}, "storage")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	storeFlag = flag.String("store", "", "Kind of store: dir, sqlite or memory. Overrides the configuration.")
	pathFlag  = flag.String("path", "", "Path of the store folder or database file. Overrides the configuration.")
	rawFlag   = flag.Bool("raw", false, "Print markdown as is, instead of rendering it for the terminal.")
)

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// configFile is where settings changed by the CLI are written when no
// configuration file was found.
var configFile = "ktchn.yaml"

// Configuration keys.
const (
	keyStore          = "store"
	keyPath           = "path"
	keyIngredientsKey = "ingredients_key"
	keyMealsKey       = "meals_key"
	keyLogLevel       = "log_level"
	keyRaw            = "raw"
)

// LoadConfig reads the optional .env file, then the optional ktchn.yaml
// configuration, and binds the KTCHN_* environment variables.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot load .env: %w", err)
	}

	viper.SetConfigName("ktchn")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/ktchn")
	viper.SetEnvPrefix("KTCHN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("cannot read configuration: %w", err)
		}
	}
	return nil
}

// settings are the resolved configuration of a command run.
type settings struct {
	store          kv.Kind
	path           string
	ingredientsKey string
	mealsKey       string
	logLevel       logrus.Level
}

func currentSettings() (settings, error) {
	var s settings
	kind, err := kv.ParseKind(firstNonEmpty(*storeFlag, viper.GetString(keyStore), string(kv.KindDir)))
	if err != nil {
		return s, err
	}
	level, err := logrus.ParseLevel(firstNonEmpty(viper.GetString(keyLogLevel), "warning"))
	if err != nil {
		return s, fmt.Errorf("invalid %s: %w", keyLogLevel, err)
	}
	s.store = kind
	s.path = firstNonEmpty(*pathFlag, viper.GetString(keyPath), defaultPath(kind))
	s.ingredientsKey = firstNonEmpty(viper.GetString(keyIngredientsKey), ktchn.IngredientsKey)
	s.mealsKey = firstNonEmpty(viper.GetString(keyMealsKey), ktchn.MealsKey)
	s.logLevel = level
	return s, nil
}

func defaultPath(kind kv.Kind) string {
	if kind == kv.KindSQLite {
		return "ktchn.db"
	}
	return ".ktchn"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func newLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}

// withKitchen opens the configured kitchen, runs fn on it, and waits for
// its checkpoints before returning. A failed checkpoint fails the command.
func withKitchen(fn func(k *ktchn.Kitchen) subcommands.ExitStatus) subcommands.ExitStatus {
	s, err := currentSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	log := newLogger(s.logLevel)

	store, err := kv.Open(s.store, s.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s store %q: %v\n", s.store, s.path, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	k, err := ktchn.Open(store,
		ktchn.WithIngredientsKey(s.ingredientsKey),
		ktchn.WithMealsKey(s.mealsKey),
		ktchn.WithLogger(log.WithField("store", s.store)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading kitchen: %v\n", err)
		return subcommands.ExitFailure
	}

	status := fn(k)
	if err := k.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving kitchen: %v\n", err)
		return subcommands.ExitFailure
	}
	return status
}

// saveSetting records a setting in the configuration file in use, or in
// configFile if there is none.
func saveSetting(key, value string) error {
	viper.Set(key, value)
	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}
	return viper.WriteConfigAs(configFile)
}
