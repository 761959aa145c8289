package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	slogctx "github.com/veqryn/slog-context"
	"github.com/viant/payroll"
	"github.com/viant/payroll/client"
	"github.com/viant/scy"
	"github.com/viant/scy/cred"
)

// Run parses args and executes the requested command, writing results to stdout
func Run(args []string) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}
	level := slog.LevelWarn
	if options.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slogctx.NewHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}), nil)))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return run(ctx, options, os.Stdout)
}

func run(ctx context.Context, options *Options, w io.Writer) error {
	if options.ConfigURL != "" {
		loaded, err := payroll.LoadOptions(ctx, options.ConfigURL)
		if err != nil {
			return err
		}
		options.ClientOptions.Merge(loaded)
	}
	options.OnSessionTerminated = func(ctx context.Context, err error) {
		slogctx.Warn(ctx, "session terminated, login again", "error", err)
	}
	aClient, err := payroll.NewClient(ctx, &options.ClientOptions)
	if err != nil {
		return err
	}
	switch options.Args.Command {
	case "login":
		return login(ctx, aClient, options, w)
	case "logout":
		if err = aClient.Logout(ctx); err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, "logged out")
		return err
	case "status":
		return status(aClient, w)
	case "get":
		if options.Args.Path == "" {
			return fmt.Errorf("path is required for get")
		}
		output, err := client.Get[json.RawMessage](ctx, aClient, options.Args.Path, nil)
		if err != nil {
			return err
		}
		return write(w, output)
	case "delete":
		if options.Args.Path == "" {
			return fmt.Errorf("path is required for delete")
		}
		output, err := client.Delete[json.RawMessage](ctx, aClient, options.Args.Path)
		if err != nil {
			return err
		}
		return write(w, output)
	}
	return fmt.Errorf("unsupported command: %v", options.Args.Command)
}

func login(ctx context.Context, aClient *client.Client, options *Options, w io.Writer) error {
	if options.Secret != "" {
		basic, err := loadCredentials(ctx, options.Secret)
		if err != nil {
			return err
		}
		options.Email, options.Password = basic.Username, basic.Password
	}
	if options.Email == "" || options.Password == "" {
		return fmt.Errorf("email and password are required for login")
	}
	profile, err := aClient.Login(ctx, options.Email, options.Password)
	if err != nil {
		return err
	}
	if profile == nil || profile.AccessToken == "" {
		if options.Code == "" {
			_, err = fmt.Fprintf(w, "verification code sent to %v, rerun login with --code\n", options.Email)
			return err
		}
		if profile, err = aClient.VerifyCode(ctx, options.Email, options.Code); err != nil {
			return err
		}
	}
	if profile != nil && profile.User != nil {
		_, err = fmt.Fprintf(w, "logged in as %v\n", profile.User.Email)
		return err
	}
	_, err = fmt.Fprintln(w, "logged in")
	return err
}

// loadCredentials loads a scy encrypted basic credential from "URL|key"
func loadCredentials(ctx context.Context, secretURL string) (*cred.Basic, error) {
	URL, key, _ := strings.Cut(secretURL, "|")
	resource := scy.NewResource(&cred.Basic{}, URL, key)
	secret, err := scy.New().Load(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load secret %v: %w", URL, err)
	}
	switch actual := secret.Target.(type) {
	case *cred.Basic:
		return actual, nil
	case cred.Basic:
		return &actual, nil
	}
	return nil, fmt.Errorf("unsupported secret type %T at %v", secret.Target, URL)
}

func status(aClient *client.Client, w io.Writer) error {
	session := aClient.Session()
	if !session.IsAuthenticated() {
		_, err := fmt.Fprintln(w, "not logged in")
		return err
	}
	expiry := session.Expiry()
	if expiry.IsZero() {
		_, err := fmt.Fprintln(w, "logged in")
		return err
	}
	state := "valid"
	if time.Now().After(expiry) {
		state = "expired, refreshed on next request"
	}
	_, err := fmt.Fprintf(w, "logged in, access token %v until %v\n", state, expiry.Format(time.RFC3339))
	return err
}

func write(w io.Writer, output *client.Response[json.RawMessage]) error {
	if len(output.Data) == 0 {
		_, err := fmt.Fprintln(w, output.Message)
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output.Data)
}
