package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-auth-client/authclient"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/loginflow"
	"github.com/jrsteele09/go-auth-client/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func run() error {
	_ = godotenv.Load()
	c := config.New()

	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	args := os.Args[1:]
	if len(args) == 0 {
		displayAppname(c.GetAppName())
		usage()
		return nil
	}

	ctx := context.Background()

	repo, err := buildRepo(ctx, c)
	if err != nil {
		return err
	}
	store, err := session.NewStore(repo, session.WithLogger(logger))
	if err != nil {
		return err
	}
	client, err := authclient.NewClient(c.GetServerURL(), store, authclient.WithLogger(logger))
	if err != nil {
		return err
	}

	// Load-on-start: a malformed or missing slot simply means no session.
	store.Load(ctx)

	switch args[0] {
	case "register":
		return registerCmd(ctx, client, args[1:])
	case "login":
		return loginCmd(ctx, client, store, logger, args[1:])
	case "whoami":
		return whoamiCmd(ctx, client, store)
	case "enable-2fa":
		return enable2FACmd(ctx, client)
	case "logout":
		return store.Logout(ctx)
	case "health":
		return client.Health(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Println("Usage: authcli <register|login|whoami|enable-2fa|logout|health> [flags]")
	fmt.Println("Environment: AUTH_SERVER, SESSION_FILE, REDIS_ADDR, LOG_LEVEL (or a .env file)")
}

// buildRepo picks the session slot backend: Redis when configured, a local
// file otherwise.
func buildRepo(ctx context.Context, c config.Config) (session.Repo, error) {
	if addr := c.GetRedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: c.GetRedisPassword(),
			DB:       c.GetRedisDB(),
		})
		return session.NewRedisRepo(ctx, client, c.GetSessionKey())
	}
	return session.NewFileRepo(c.GetSessionFile())
}

func registerCmd(ctx context.Context, client *authclient.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (min 8 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		*email = readLine("Email: ")
	}
	if *password == "" {
		*password = readLine("Password: ")
	}

	if err := loginflow.ValidateRegistration(*email, *password); err != nil {
		return err
	}

	user, err := client.Register(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s (id %d)\n", user.Email, user.ID)
	return nil
}

func loginCmd(ctx context.Context, client *authclient.Client, store *session.Store, logger zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		*email = readLine("Email: ")
	}
	if *password == "" {
		*password = readLine("Password: ")
	}

	flow, err := loginflow.New(client, store, loginflow.WithLogger(logger))
	if err != nil {
		return err
	}

	if err := flow.SubmitCredentials(ctx, *email, *password); err != nil {
		return err
	}

	if flow.State() == loginflow.AwaitingSecondFactor {
		code := readLine("2FA code: ")
		if err := flow.SubmitSecondFactor(ctx, code); err != nil {
			return err
		}
	}

	fmt.Println("Logged in.")
	if pair := store.Current(); pair != nil {
		if exp, ok := pair.ExpiresAt(); ok {
			fmt.Printf("Access token expires at %s\n", exp.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

func whoamiCmd(ctx context.Context, client *authclient.Client, store *session.Store) error {
	user, err := authclient.RestoreUser(ctx, client, store)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func enable2FACmd(ctx context.Context, client *authclient.Client) error {
	enrollment, err := client.EnableTwoFactor(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Secret:", enrollment.Secret)
	fmt.Println("Enrollment URI:", enrollment.EnrollmentURI)
	fmt.Println("Scan the URI with an authenticator app, then log in again with the 6-digit code.")
	return nil
}

func readLine(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
