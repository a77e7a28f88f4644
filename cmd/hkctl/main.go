package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/celerix-dev/celerix-hk/internal/attendant"
	"github.com/celerix-dev/celerix-hk/internal/config"
	"github.com/celerix-dev/celerix-hk/internal/initdata"
	"github.com/celerix-dev/celerix-hk/internal/logger"
	"github.com/celerix-dev/celerix-hk/internal/metrics"
	"github.com/celerix-dev/celerix-hk/pkg/schema"
	"github.com/celerix-dev/celerix-hk/pkg/sdk"
)

const editDateLayout = "2006-01-02 15:04:05"

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "hkctl",
		Usage: "Housekeeping backend client",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "backend base URL (direct mode); overrides HK_API_BASE_URL"},
			&cli.StringFlag{Name: "origin", Usage: "app origin for proxy mode; overrides HK_ORIGIN"},
			&cli.StringFlag{Name: "init-data", Usage: "raw launch data; overrides TG_INIT_DATA"},
			&cli.StringFlag{Name: "log-level", Usage: "overrides LOG_LEVEL"},
			&cli.StringFlag{Name: "metrics-file", Usage: "write request metrics here in textfile collector format"},
		},
		Commands: []*cli.Command{
			profileCommand(),
			statusCommand(),
			searchCommand(),
			updateCommand(),
			whoamiCommand(),
			mockInitCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show the signed-in user's profile and menu entitlements",
		Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, done, err := newService(c)
			if err != nil {
				return err
			}
			defer done()

			p, err := svc.LoadProfile(ctx)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(p)
			}
			printProfile(p)
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show room counts per housekeeping status",
		Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, done, err := newService(c)
			if err != nil {
				return err
			}
			defer done()

			rows, err := svc.RefreshStatus(ctx)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(rows)
			}
			printStatus(rows)
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "List rooms between two room numbers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Required: true, Usage: "first room number"},
			&cli.StringFlag{Name: "end", Required: true, Usage: "last room number"},
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, done, err := newService(c)
			if err != nil {
				return err
			}
			defer done()

			rooms, err := svc.Search(ctx, c.String("start"), c.String("end"))
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(rooms)
			}
			printRooms(rooms)
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Change the housekeeping status of a room",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "room", Required: true},
			&cli.StringFlag{Name: "status", Required: true, Usage: "new housekeeping status code"},
			&cli.StringFlag{Name: "user", Usage: "editing user; defaults to the session username"},
			&cli.StringFlag{Name: "date", Usage: "edit timestamp (" + editDateLayout + "); defaults to now"},
			&cli.StringFlag{Name: "note"},
			&cli.IntFlag{Name: "source", Value: 1, Usage: "log source code"},
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, done, err := newService(c)
			if err != nil {
				return err
			}
			defer done()

			cmd := schema.RoomUpdateCommand{
				Room:      c.String("room"),
				StatusHK:  c.String("status"),
				EditUser:  c.String("user"),
				EditDate:  c.String("date"),
				LogNote:   c.String("note"),
				LogSource: int(c.Int("source")),
			}
			if cmd.EditUser == "" {
				if u := svc.Session.CurrentUser(); u != nil {
					cmd.EditUser = u.Username
				}
			}
			if cmd.EditDate == "" {
				cmd.EditDate = time.Now().Format(editDateLayout)
			}

			results, err := svc.UpdateRoom(ctx, cmd)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(results)
			}
			printUpdateResults(results)
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the user in the current launch data",
		Action: func(ctx context.Context, c *cli.Command) error {
			svc, done, err := newService(c)
			if err != nil {
				return err
			}
			defer done()

			u := svc.Session.CurrentUser()
			if !svc.Session.IsAuthenticated() || u == nil {
				fmt.Println("not authenticated")
				return nil
			}
			printKV([][2]string{
				{"ID", fmt.Sprint(u.ID)},
				{"Name", u.DisplayName()},
				{"Username", u.Username},
				{"Language", u.LanguageCode},
			})
			return nil
		},
	}
}

func mockInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "mock-init",
		Usage: "Print signed launch data for development outside Telegram",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bot-token", Usage: "bot token used to sign; defaults to TG_BOT_TOKEN"},
			&cli.IntFlag{Name: "id", Value: 1, Usage: "Telegram user id"},
			&cli.StringFlag{Name: "first-name", Value: "Dev"},
			&cli.StringFlag{Name: "last-name"},
			&cli.StringFlag{Name: "username", Value: "dev"},
			&cli.StringFlag{Name: "lang", Value: "en"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.Load()
			token := c.String("bot-token")
			if token == "" {
				token = cfg.BotToken
			}
			raw, err := initdata.Mock(token, schema.WebAppUser{
				ID:           int64(c.Int("id")),
				FirstName:    c.String("first-name"),
				LastName:     c.String("last-name"),
				Username:     c.String("username"),
				LanguageCode: c.String("lang"),
			}, time.Now())
			if err != nil {
				return err
			}
			fmt.Println(raw)
			return nil
		},
	}
}

// newService wires config, logging, identity and the client for one command.
// The returned func writes the metrics file, if any, and flushes the logger.
func newService(c *cli.Command) (*attendant.Service, func(), error) {
	cfg := config.Load()
	if v := c.String("base-url"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := c.String("origin"); v != "" {
		cfg.Origin = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}

	l, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "hkctl")
	if err != nil {
		return nil, nil, err
	}

	var identity sdk.IdentityProvider = initdata.FromEnv("TG_INIT_DATA")
	if v := c.String("init-data"); strings.TrimSpace(v) != "" {
		identity = initdata.Static(v)
	}

	reg := prometheus.NewRegistry()
	client := sdk.NewClient(sdk.Options{
		BaseURL:  cfg.APIBaseURL,
		Origin:   cfg.Origin,
		Timeout:  cfg.HTTPTimeout,
		Identity: identity,
		Logger:   l,
		Observer: metrics.NewClientMetrics("hk", reg),
	})
	l.Debug("Client configured", zap.String("base_url", client.BaseURL()), zap.String("mode", string(client.Mode())))

	metricsFile := c.String("metrics-file")
	done := func() {
		if metricsFile != "" {
			if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
				l.Warn("Failed to write metrics file", zap.String("path", metricsFile), zap.Error(err))
			}
		}
		_ = l.Sync()
	}
	return attendant.NewService(client, identity, l), done, nil
}
