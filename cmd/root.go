package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-extractor/internal/document"
	"github.com/spigell/resume-extractor/internal/pipeline"
	"github.com/spigell/resume-extractor/internal/server"
)

const (
	app = "resume-extractor"

	StructurerLocal  = "local"
	StructurerRemote = "remote"
	StructurerGemini = "gemini"
)

type Config struct {
	Structurer    string        `mapstructure:"structurer"`
	MaxFileSize   int64         `mapstructure:"max-file-size"`
	MinTextLength int           `mapstructure:"min-text-length"`
	Remote        *RemoteConfig `mapstructure:"remote"`
	AI            *AIConfig     `mapstructure:"ai"`
	Export        *ExportConfig `mapstructure:"export"`
	Server        *ServerConfig `mapstructure:"server"`
}

type RemoteConfig struct {
	URL       string        `mapstructure:"url"`
	TokenFile string        `mapstructure:"token-file"`
	Token     string        `mapstructure:"token" json:"-"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ExportConfig struct {
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ServerConfig struct {
	Listen    string `mapstructure:"listen"`
	BodyLimit string `mapstructure:"body-limit"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-extractor pulls names, contacts, skills and history out of PDF, DOCX and TXT resumes",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetDefault("structurer", StructurerLocal)
	viper.SetDefault("max-file-size", document.DefaultMaxSize)
	viper.SetDefault("min-text-length", pipeline.DefaultMinTextLength)
	viper.SetDefault("remote.timeout", 60*time.Second)
	viper.SetDefault("server.listen", server.DefaultListen)
	viper.SetDefault("server.body-limit", server.DefaultBodyLimit)

	if err := viper.BindEnv("remote.token", "EXTRACT_CV_TOKEN"); err != nil {
		log.Fatalf("binding EXTRACT_CV_TOKEN environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-extractor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("structurer", "s", "", "how to structure extracted text: local, remote or gemini")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("structurer", rootCmd.PersistentFlags().Lookup("structurer"))
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	// Every key has a default, so the config file is optional.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Remote == nil {
		config.Remote = &RemoteConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Export == nil {
		config.Export = &ExportConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return config, nil
}
