package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"starduel/internal/audio"
	"starduel/internal/client"
	"starduel/internal/config"
	"starduel/internal/game"
	"starduel/internal/protocol"
	"starduel/internal/server"
	"starduel/internal/term"
)

const dialTimeout = 3 * time.Second

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "starduel"
	app.Usage = "Two-player space shooter with a score relay"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "env-file", Value: ".env", Usage: "Optional dotenv file with STARDUEL_* settings"},
	}

	app.Commands = []cli.Command{
		{
			Name:  "relay",
			Usage: "Run the score relay server",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "addr", Value: config.DefaultRelayAddr, Usage: "Address the relay listens on"},
			},
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				return relayAction(cfg)
			},
		},
		{
			Name:  "play",
			Usage: "Play in the terminal",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "player", Value: "0", Usage: "Player slot: 0 or 1 (\"#1\" also works)"},
				cli.StringFlag{Name: "relay", Value: config.DefaultRelayURL, Usage: "Relay websocket URL"},
				cli.StringFlag{Name: "codec", Value: config.DefaultCodec, Usage: "Wire codec: json or msgpack"},
				cli.StringFlag{Name: "log-file", Value: config.DefaultLogFile, Usage: "Log destination while the screen is in use"},
				cli.BoolFlag{Name: "no-audio", Usage: "Disable sound effects"},
				cli.BoolFlag{Name: "offline", Usage: "Do not connect to the relay"},
			},
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				return playAction(cfg, c.Bool("offline"))
			},
		},
	}

	return app
}

// loadConfig layers flags that were set explicitly over the environment
// and defaults.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.GlobalString("env-file"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("addr") {
		cfg.RelayAddr = c.String("addr")
	}
	if c.IsSet("relay") {
		cfg.RelayURL = c.String("relay")
	}
	if c.IsSet("codec") {
		cfg.Codec = c.String("codec")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.IsSet("player") {
		p, err := config.ParsePlayer(c.String("player"))
		if err != nil {
			return cfg, err
		}
		cfg.Player = p
	}
	if c.Bool("no-audio") {
		cfg.Audio = false
	}

	return cfg, cfg.Validate()
}

func relayAction(cfg config.Config) error {
	srv := server.NewServer()
	defer srv.Close()

	log.Println("Starting starduel score relay...")
	return srv.Start(cfg.RelayAddr)
}

func playAction(cfg config.Config, offline bool) error {
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, "opening log file %s", cfg.LogFile)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)

	codec, err := protocol.CodecByName(cfg.Codec)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sender game.ScoreSender = game.NopSender{}
	var updates <-chan protocol.ScoreUpdate
	if offline {
		log.Println("Playing offline")
	} else {
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		relay, err := client.Dial(dialCtx, cfg.RelayURL, codec)
		cancel()
		if err != nil {
			log.Printf("Relay unavailable, playing offline: %v", err)
		} else {
			defer relay.Close()
			sender = relay
			updates = relay.Updates()
			go func() {
				<-relay.Done()
				log.Println("Relay connection closed, scores are no longer shared")
			}()
		}
	}

	var sound game.Sound = game.NopSound{}
	if cfg.Audio {
		player := audio.NewPlayer()
		if err := player.Initialize(); err != nil {
			log.Printf("Audio disabled: %v", err)
		} else {
			defer player.Close()
			sound = player
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "creating terminal screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "initializing terminal screen")
	}
	defer screen.Fini()
	screen.HideCursor()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	renderer := term.NewRenderer(screen, cfg.Width, cfg.Height, rng)

	session := game.NewSession(game.SessionOptions{
		Tuning: game.Tuning{
			Width:         cfg.Width,
			Height:        cfg.Height,
			Speed:         cfg.Speed,
			TurnSpeed:     cfg.TurnSpeed,
			SpawnInterval: cfg.SpawnInterval,
			FrameInterval: cfg.FrameInterval,
		},
		Player:   cfg.Player,
		Renderer: renderer,
		Sound:    sound,
		Sender:   sender,
		Rand:     rng,
	})

	keyboard := term.NewKeyboard(screen, term.HoldWindow)
	go keyboard.Run(ctx)

	inbox := make(chan game.Event, 64)
	go forwardEvents(ctx, inbox, keyboard.Events(), updates)

	driver := game.NewDriver(session, game.DriverOptions{
		Inbox: inbox,
		AfterFrame: func(*game.Session) {
			renderer.Draw()
			screen.Show()
		},
	})
	go func() {
		<-keyboard.Quit()
		driver.Stop()
	}()

	err = driver.Run(ctx)
	scores := session.Scores()
	log.Printf("Game over: player 0 scored %d, player 1 scored %d", scores[0], scores[1])
	if errors.Cause(err) == context.Canceled {
		return nil
	}
	return err
}

// forwardEvents merges key events and relay updates into the loop inbox.
func forwardEvents(ctx context.Context, inbox chan<- game.Event, keys <-chan game.Event, updates <-chan protocol.ScoreUpdate) {
	for {
		var ev game.Event
		select {
		case <-ctx.Done():
			return
		case k := <-keys:
			ev = k
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			ev = game.RemoteScoreEvent{Update: u}
		}

		select {
		case inbox <- ev:
		case <-ctx.Done():
			return
		}
	}
}
