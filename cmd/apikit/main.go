// apikit is a small CLI around the shared API client: it issues requests
// against the configured backend and manages the stored login token.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appfoundry/apikit/internal/apiclient"
	"github.com/appfoundry/apikit/internal/config"
	"github.com/appfoundry/apikit/internal/credentials"
	"github.com/appfoundry/apikit/internal/logger"
	"github.com/appfoundry/apikit/internal/version"
)

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *credentials.FileStore
	client *apiclient.Client
}

func newApp() (*app, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}

	level := logger.ParseLogLevel(cfg.LogLevel)
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := logger.InitLogger(level, cfg.Environment)

	if cfg.EnableAnalytics {
		log.Debug("analytics enabled")
	}

	tokenPath, err := credentials.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("cannot determine token location: %w", err)
	}
	store := credentials.NewFileStore(tokenPath)

	client, err := apiclient.New(
		apiclient.Config{
			BaseURL: cfg.APIBaseURL,
			Timeout: cfg.RequestTimeout,
		},
		apiclient.WithCredentials(store),
		apiclient.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: log, store: store, client: client}, nil
}

// set once by the root command's PersistentPreRunE
var a *app

func main() {
	rootCmd := &cobra.Command{
		Use:           "apikit",
		Short:         "Issue requests against the configured API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp()
			return err
		},
	}

	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	rootCmd.AddCommand(
		newHealthCmd(),
		newRequestCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.Get(cmd.Context(), "/health")
			return printResult(cmd, res, err)
		},
	}
}

func newRequestCmd() *cobra.Command {
	var (
		data    string
		queries []string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Issue an arbitrary API request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &apiclient.Request{
				Method: strings.ToUpper(args[0]),
				Path:   args[1],
			}

			if data != "" {
				req.Body = data
			}

			if len(queries) > 0 {
				req.Query = url.Values{}
				for _, q := range queries {
					k, v, found := strings.Cut(q, "=")
					if !found {
						return fmt.Errorf("query %q must be key=value", q)
					}
					req.Query.Add(k, v)
				}
			}

			if len(headers) > 0 {
				req.Headers = make(map[string]string, len(headers))
				for _, h := range headers {
					k, v, found := strings.Cut(h, ":")
					if !found {
						return fmt.Errorf("header %q must be key:value", h)
					}
					req.Headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
				}
			}

			res, err := a.client.Do(cmd.Context(), req)
			return printResult(cmd, res, err)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header as key:value (repeatable)")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Log in and store the access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client.Post(cmd.Context(), "/auth/login", map[string]string{
				"email":    args[0],
				"password": password,
			})
			if err != nil {
				return printResult(cmd, nil, err)
			}

			var tokenResponse struct {
				AccessToken string `json:"access_token"`
				ExpiresIn   int    `json:"expires_in"`
			}
			if err := json.Unmarshal(res.Body, &tokenResponse); err != nil {
				return fmt.Errorf("could not decode login response: %w", err)
			}
			if tokenResponse.AccessToken == "" {
				return fmt.Errorf("login response did not include an access token")
			}

			if err := a.store.Save(tokenResponse.AccessToken); err != nil {
				return fmt.Errorf("could not store access token: %w", err)
			}

			cmd.Printf("logged in, token valid for %d seconds\n", tokenResponse.ExpiresIn)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return fmt.Errorf("could not clear access token: %w", err)
			}
			cmd.Println("logged out")
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show the status of the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := a.store.Token()
			cmd.Printf("token status: %s\n", credentials.Inspect(token))
			return nil
		},
	}
}

// printResult writes the response (or the error classification) to stdout.
// Server errors still carry a response body worth showing.
func printResult(cmd *cobra.Command, res *apiclient.Response, err error) error {
	if err == nil {
		cmd.Printf("status: %d\n%s\n", res.StatusCode, string(res.Body))
		return nil
	}

	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) && reqErr.Kind == apiclient.KindServer {
		cmd.Printf("status: %d\n%s\n", reqErr.StatusCode, string(reqErr.Response.Body))
	}

	return err
}
