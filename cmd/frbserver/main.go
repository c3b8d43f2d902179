/*
Frbserver starts an FRBS registry server and begins listening for new
connections.

Usage:

	frbserver [flags]
	frbserver [flags] --issue-token CLIENT

Once started, the registry server will listen for HTTP requests and respond to
them using REST protocol. Clients upload rule bases in the FRB text format,
which are compiled and stored; stored rule bases can be fetched as JSON or
exported as FRB, TOML, or YAML. By default, it will listen on :8080. This can
be changed with the --listen/-l flag (or config via environment var or config
file).

Settings are read from the config file given with --config first, then from
environment variables, then from flags; each overrides the one before it.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but a secret must be
given if running in production.

The flags are:

	-v, --version
		Give the current version of the registry server and then exit.

	-c, --config FILE
		Read settings from the given TOML file.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		FRBS_LISTEN_ADDRESS, and if that is not given, will default to :8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable FRBS_TOKEN_SECRET. If no secret is specified, a random secret
		will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable FRBS_DATABASE, and if that is not
		given, an in-memory database is used.

	--issue-token CLIENT
		Instead of starting the server, print a token that authenticates CLIENT
		with a server using the same secret, then exit.

	-d, --debug
		Log at debug level.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dekarrin/frbs/internal/version"
	"github.com/dekarrin/frbs/server"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvListen = "FRBS_LISTEN_ADDRESS"
	EnvSecret = "FRBS_TOKEN_SECRET"
	EnvDB     = "FRBS_DATABASE"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitConfigError
	ExitServerError
)

var (
	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of the FRBS registry server and then exit.")
	flagConfig     = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagListen     = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret     = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB         = pflag.String("db", "", "Use the given DB connection string.")
	flagIssueToken = pflag.String("issue-token", "", "Print a token for the given client name and exit.")
	flagDebug      = pflag.BoolP("debug", "d", false, "Log at debug level.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (FRBS v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}

	logCfg := zap.NewProductionConfig()
	if *flagDebug {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not create logger: %s\n", err)
		os.Exit(ExitConfigError)
	}
	defer logger.Sync()

	cfg, err := loadConfig(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitConfigError)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("could not start server", zap.Error(err))
		os.Exit(ExitConfigError)
	}
	logger.Debug("server initialized")

	if pflag.Lookup("issue-token").Changed {
		defer srv.Close()
		tok, err := srv.IssueToken(*flagIssueToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not issue token: %s\n", err)
			os.Exit(ExitConfigError)
		}
		fmt.Println(tok)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting FRBS registry server", zap.String("version", version.ServerCurrent))
	if err := srv.ServeForever(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(ExitServerError)
	}
}

// loadConfig builds the server config from the config file, environment, and
// flags, in that order of precedence from lowest to highest.
func loadConfig(logger *zap.Logger) (server.Config, error) {
	var cfg server.Config
	var err error

	if *flagConfig != "" {
		cfg, err = server.LoadConfigFile(*flagConfig)
		if err != nil {
			return cfg, err
		}
	}

	if listenAddr := lookupSetting("listen", flagListen, EnvListen); listenAddr != "" {
		cfg.ListenAddress = listenAddr
	}

	if dbConnStr := lookupSetting("db", flagDB, EnvDB); dbConnStr != "" {
		cfg.DB, err = server.ParseDBConnString(dbConnStr)
		if err != nil {
			return cfg, fmt.Errorf("database: %w", err)
		}
	}

	if tokSecStr := lookupSetting("secret", flagSecret, EnvSecret); tokSecStr != "" {
		cfg.TokenSecret = []byte(tokSecStr)
	}

	if len(cfg.TokenSecret) > 0 {
		for len(cfg.TokenSecret) < server.MinSecretSize {
			doubled := make([]byte, len(cfg.TokenSecret)*2)
			copy(doubled, cfg.TokenSecret)
			copy(doubled[len(cfg.TokenSecret):], cfg.TokenSecret)
			cfg.TokenSecret = doubled
		}
		if len(cfg.TokenSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			return cfg, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(cfg.TokenSecret), server.MaxSecretSize)
		}
	} else {
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			return cfg, fmt.Errorf("could not generate token secret: %w", err)
		}
		logger.Warn("using generated token secret; all tokens issued will become invalid at shutdown")
	}

	return cfg, nil
}

// lookupSetting gives the value of the named flag if it was set, otherwise the
// value of the environment variable env.
func lookupSetting(flagName string, flagVal *string, env string) string {
	if pflag.Lookup(flagName).Changed {
		return *flagVal
	}
	return os.Getenv(env)
}
