package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"football-duel-service/internal/app"
	"football-duel-service/internal/config"
	"football-duel-service/internal/domain"
	"football-duel-service/internal/infra/memory"
	pginfra "football-duel-service/internal/infra/postgres"
	redisinfra "football-duel-service/internal/infra/redis"
	transport "football-duel-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the duel engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	inviteTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestionSets())
	if pool != nil {
		loader = pginfra.NewQuestionLoader(pool)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionSource
	if redisClient != nil {
		questions = redisinfra.NewQuestionSource(redisClient, loader, questionTTL)
	} else {
		questions = memory.NewQuestionSource(loader, questionTTL)
	}

	var invites app.InviteDirectory
	if redisClient != nil {
		invites = redisinfra.NewInviteDirectory(redisClient, inviteTTL)
	} else {
		invites = memory.NewInviteDirectory()
	}

	var users app.UserStore
	if pool != nil {
		users = pginfra.NewUserStore(pool)
	} else {
		users = memory.NewUserStore()
	}

	registry := transport.NewRegistry()
	engine := app.NewEngine(invites, users, questions, registry, cfg.Game.Policy())
	wsHandler := transport.NewWSHandler(engine, registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting duel engine on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestionSets seeds the built-in game modes when postgres is not
// configured; production loads sets from the question_sets table instead.
func sampleQuestionSets() map[string][]domain.Question {
	return map[string][]domain.Question{
		"mystery-player": {
			{ID: "mp1", Type: "mystery-player", Prompt: "Number 10 at Napoli from 1984, World Cup winner in 1986", Answer: "Maradona", Options: []string{"Maradona", "Careca", "Zola", "Platini"}},
			{ID: "mp2", Type: "mystery-player", Prompt: "Top scorer of the 2014 World Cup with six goals", Answer: "James Rodriguez", Options: []string{"James Rodriguez", "Thomas Muller", "Lionel Messi", "Neymar"}},
			{ID: "mp3", Type: "mystery-player", Prompt: "Keeper who scored over 100 career goals", Answer: "Rogerio Ceni", Options: []string{"Rogerio Ceni", "Jose Luis Chilavert", "Rene Higuita", "Manuel Neuer"}},
			{ID: "mp4", Type: "mystery-player", Prompt: "Three-time Ballon d'Or winner who never won the World Cup, retired 2006", Answer: "Zidane", Options: []string{"Zidane", "Figo", "Shevchenko", "Nedved"}, Hints: []string{"French"}},
		},
		"letter-hunt": {
			{ID: "lh1", Type: "letter-hunt", Prompt: "Unscramble: L E P E", Answer: "Pele"},
			{ID: "lh2", Type: "letter-hunt", Prompt: "Unscramble: A K A K", Answer: "Kaka"},
			{ID: "lh3", Type: "letter-hunt", Prompt: "Unscramble: I S E M S", Answer: "Messi"},
		},
		"career-path": {
			{ID: "cp1", Type: "career-path", Prompt: "Sporting CP -> Manchester United -> Real Madrid -> Juventus", Answer: "Ronaldo", Options: []string{"Ronaldo", "Figo", "Nani", "Di Maria"}},
			{ID: "cp2", Type: "career-path", Prompt: "Barcelona B -> Barcelona -> PSG -> Inter Miami", Answer: "Messi", Options: []string{"Messi", "Neymar", "Suarez", "Iniesta"}},
		},
		"club-connection": {
			{ID: "cc1", Type: "club-connection", Prompt: "Played for both AC Milan and Chelsea", Answer: "Shevchenko", Options: []string{"Shevchenko", "Kaka", "Lampard", "Pirlo"}},
		},
		"value-guess": {
			{ID: "vg1", Type: "value-guess", Prompt: "Transfer fee (millions) PSG paid Barcelona for Neymar in 2017", Answer: "222", Options: []string{"222", "180", "160", "250"}},
		},
	}
}
