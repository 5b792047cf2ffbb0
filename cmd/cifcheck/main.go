// @title           cifcheck API
// @version         1.0
// @description     Spanish CIF validation and enterprise registry API.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API Key authentication

// @host      localhost:8080
// @BasePath  /api/v1

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	apiserver "cifcheck/internal/api"
	configapp "cifcheck/internal/config/application"
	enterpriseapp "cifcheck/internal/enterprise/application"
	enterpriseinfra "cifcheck/internal/enterprise/infrastructure"
	"cifcheck/internal/infrastructure/database"
	"cifcheck/internal/infrastructure/logger"
	"cifcheck/internal/infrastructure/metrics"
)

var errInvalidCIF = errors.New("one or more CIFs are invalid")

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:   "cifcheck",
		Usage:  "validate Spanish CIF codes and manage enterprise records",
		Writer: stdout,
		// Exit codes are applied by main so the app can run inside tests.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "path to a .env file"},
			&cli.StringFlag{Name: "log-level", Usage: "DEBUG, INFO, WARN or ERROR"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json"},
			&cli.StringFlag{Name: "log-output", Usage: "stdout, stderr or a file path"},
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check one or more CIFs",
				ArgsUsage: "<cif>...",
				Action:    validateAction,
			},
			{
				Name:      "complete",
				Usage:     "append the control character to a letter and 7 digit block",
				ArgsUsage: "<prefix>",
				Action:    completeAction,
			},
			{
				Name:      "load",
				Usage:     "load an enterprise record document and print it",
				ArgsUsage: "<file>",
				Action:    loadAction,
			},
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-key", Usage: "API key required in X-API-Key"},
					&cli.StringFlag{Name: "port", Usage: "listen port"},
					&cli.StringFlag{Name: "db", Usage: "SQLite database path"},
					&cli.BoolFlag{Name: "dev", Usage: "verbose request logging"},
				},
				Action: serveAction,
			},
		},
	}
}

// setup loads the .env file and builds the runtime config and logger.
func setup(c *cli.Context) (*configapp.RuntimeConfig, *logger.Logger) {
	bootLogger := logger.DefaultLogger()
	configapp.LoadEnvFile(bootLogger, c.String("env-file"))

	cfg := configapp.LoadRuntimeConfig(configapp.Flags{
		APIKey:    c.String("api-key"),
		APIPort:   c.String("port"),
		LogLevel:  c.String("log-level"),
		LogFormat: c.String("log-format"),
		LogOutput: c.String("log-output"),
		DBPath:    c.String("db"),
		DevMode:   c.Bool("dev"),
	})

	appLogger := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	logger.SetDefaultLogger(appLogger)
	return cfg, appLogger
}

func validateAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: cifcheck validate <cif>...", 2)
	}
	_, appLogger := setup(c)
	defer appLogger.Close()

	service := enterpriseapp.NewService(appLogger, enterpriseapp.NewLoader(), nil, nil)

	allValid := true
	for _, candidate := range c.Args().Slice() {
		valid := service.Check(c.Context, candidate)
		allValid = allValid && valid
		status := "invalid"
		if valid {
			status = "valid"
		}
		fmt.Fprintf(c.App.Writer, "%s: %s\n", candidate, status)
	}

	if !allValid {
		return cli.Exit(errInvalidCIF.Error(), 1)
	}
	return nil
}

func completeAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: cifcheck complete <prefix>", 2)
	}
	_, appLogger := setup(c)
	defer appLogger.Close()

	service := enterpriseapp.NewService(appLogger, enterpriseapp.NewLoader(), nil, nil)
	cif, err := service.Complete(c.Context, c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot complete %q: %v", c.Args().First(), err), 1)
	}

	fmt.Fprintln(c.App.Writer, cif.String())
	return nil
}

func loadAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: cifcheck load <file>", 2)
	}
	_, appLogger := setup(c)
	defer appLogger.Close()

	service := enterpriseapp.NewService(appLogger, enterpriseapp.NewLoader(), nil, nil)
	rec, err := service.Load(c.Context, c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]string{
		"cif":             rec.CIF.String(),
		"phone":           rec.Phone,
		"enterprise_name": rec.Name,
	})
}

func serveAction(c *cli.Context) error {
	cfg, appLogger := setup(c)
	defer appLogger.Close()

	appLogger.Info("Starting cifcheck", "version", "1.0")

	sigCtx, cancel := signal.NotifyContext(c.Context, os.Interrupt)
	defer cancel()

	appLogger.Debug("Opening database", "path", cfg.DBPath)
	db, err := database.Open(sigCtx, cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to open database", "path", cfg.DBPath, "err", err)
		return err
	}
	defer db.Close()

	m := metrics.New()
	service := enterpriseapp.NewService(appLogger, enterpriseapp.NewLoader(), enterpriseinfra.NewRepository(db), m)

	apiServer, err := apiserver.NewServer(appLogger, cfg, service, m.Handler())
	if err != nil {
		appLogger.Error("Failed to create API server", "err", err)
		return fmt.Errorf("failed to create API server: %w", err)
	}

	serverErrChan := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	appLogger.Info("cifcheck started, waiting for shutdown signal", "port", cfg.APIPort)

	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("API server shutdown error: %w", err)
		}
		appLogger.Info("Graceful shutdown completed")
		return nil
	case err := <-serverErrChan:
		appLogger.Error("Server error received", "err", err)
		return err
	}
}

func run(args []string, stdout io.Writer) error {
	return newApp(stdout).Run(args)
}

// reportError writes err to w and returns the process exit code for it.
// Actions close their logger on return, so the message cannot go through it.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(w, "cifcheck: %v\n", err)

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

func main() {
	if code := reportError(os.Stderr, run(os.Args, os.Stdout)); code != 0 {
		os.Exit(code)
	}
}
