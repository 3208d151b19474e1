package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-extractor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the structuring endpoint over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on. Default is "+server.DefaultListen)
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := bootstrap()

	runner, err := newRunner(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the pipeline", zap.Error(err), zap.String("structurer", config.Structurer))
	}

	srv := server.New(server.Config{
		Listen:    config.Server.Listen,
		BodyLimit: config.Server.BodyLimit,
	}, runner, logger)

	logger.Info("serving", zap.String("listen", config.Server.Listen), zap.String("structurer", config.Structurer))

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}
