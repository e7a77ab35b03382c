package cmd

import (
	"lighting-patcher/core/loader"
	"lighting-patcher/core/logger"
	"lighting-patcher/core/middleware/auth"
	"lighting-patcher/core/middleware/rayid"
	"lighting-patcher/feature/integrity"
	"lighting-patcher/feature/lighting"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd exposes the patcher over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lighting patcher API",
	Long:  `Starts the HTTP server and loads every enabled feature.`,
	RunE:  runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()
	zap.ReplaceGlobals(a.log)

	svc, err := a.service(ctx)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(a.log, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

	checker, err := a.integrityService()
	if err != nil {
		return err
	}

	mgr := loader.NewManager()
	mgr.Register(lighting.NewFeature(svc))
	mgr.Register(integrity.NewFeature(checker))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return err
	}
	a.log.Info("Features loaded", zap.Strings("features", loaded))

	errc := make(chan error, 1)
	go func() {
		a.log.Info("Starting server",
			zap.String("port", a.cfg.Server.Port),
			zap.Bool("protected", a.cfg.Server.IsProtected()),
		)
		errc <- app.Listen(a.cfg.Server.Addr())
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server...")
	return app.Shutdown()
}
