package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"boardsync/board"
	"boardsync/domain"
	"boardsync/gateway"
	"boardsync/live"
	"boardsync/store"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	gatewayURL := os.Getenv("GATEWAY_URL")
	email := os.Getenv("BOARD_EMAIL")
	password := os.Getenv("BOARD_PASSWORD")
	if gatewayURL == "" || email == "" || password == "" {
		log.Fatal("missing gateway config")
	}

	logger := log.New()
	client, err := gateway.New(gatewayURL, logger)
	if err != nil {
		log.Fatalf("gateway: %v", err)
	}

	session := store.NewSession(client)
	projects := store.NewProjects(client, logger)
	tasks := store.NewTasks(client, logger)
	members := store.NewMembers(client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Login(ctx, email, password); err != nil {
		log.Fatalf("login: %v", err)
	}
	me, err := session.Me(ctx)
	if err != nil {
		log.Fatalf("me: %v", err)
	}
	list, err := projects.List(ctx)
	if err != nil {
		log.Fatalf("projects: %v", err)
	}
	if len(list) == 0 {
		log.Fatal("no projects visible to this user")
	}

	slug := os.Getenv("BOARD_PROJECT")
	if slug == "" {
		slug = domain.Slug(list[0].Name)
	}
	project, err := projects.GetBySlug(ctx, slug)
	if err != nil {
		log.Fatalf("project %s: %v", slug, err)
	}
	if _, err := tasks.List(ctx, project.ID); err != nil {
		log.Fatalf("tasks: %v", err)
	}
	if _, err := members.List(ctx, project.ID); err != nil {
		log.Fatalf("members: %v", err)
	}

	var source live.Source
	if redisConn := os.Getenv("REDIS_CONNECTION_STRING"); redisConn != "" {
		source = &live.RedisSource{Client: redis.NewClient(redisOptions(redisConn)), Logger: logger}
	} else {
		source = &live.SSESource{BaseURL: client.BaseURL(), Client: client.HTTPClient(), Logger: logger}
	}
	listener := live.NewListener(tasks, projects, members, source, logger)
	listener.SetProject(ctx, project.ID)
	defer listener.Close()

	engine := board.New(tasks, logger)
	logger.WithFields(log.Fields{"user": me.Email, "project": project.Name}).Info("watching board")

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cols := engine.Columns()
			logger.WithFields(log.Fields{
				"todo":        len(cols.Todo),
				"in_progress": len(cols.InProgress),
				"done":        len(cols.Done),
			}).Info("board state")
		}
	}
}

// redisOptions accepts a redis URL or the comma-separated host,key=value form
// some managed caches hand out.
func redisOptions(connStr string) *redis.Options {
	opts, err := redis.ParseURL(connStr)
	if err == nil {
		return opts
	}
	parts := strings.Split(connStr, ",")
	opts = &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts
}
