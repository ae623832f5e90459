// Package main demonstrates the authcore client lifecycle end to end.
//
// It wires the in-process identity provider to either a Redis-backed
// key-value store (miniredis when no address is given, so no external Redis
// is required) or plain in-memory storage, then walks the full flow:
// validate + sanitize input, sign up, sign out, sign in again, and finally
// print the audit trail and a metrics dump in Prometheus text format.
//
// Run:
//
//	go run ./cmd/authcore-demo
//	go run ./cmd/authcore-demo -redis-addr localhost:6379
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authcore "github.com/mobilisk/authcore"
	"github.com/mobilisk/authcore/metrics/export/prometheus"
	"github.com/mobilisk/authcore/provider/memory"
	"github.com/mobilisk/authcore/storage"
	memstore "github.com/mobilisk/authcore/storage/memory"
	"github.com/mobilisk/authcore/storage/redisstore"
)

func main() {
	var (
		redisAddr = flag.String("redis-addr", "", "redis address; if empty, miniredis is used")
		useMemory = flag.Bool("memory-storage", false, "use in-memory storage instead of redis")
	)
	flag.Parse()

	ctx := context.Background()

	// ---------- storage ----------
	var (
		store   storage.Storage
		cleanup func()
	)
	switch {
	case *useMemory:
		store = memstore.New()
		cleanup = func() {}
		fmt.Println("using in-memory storage")
	case *redisAddr == "":
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatal("miniredis:", err)
		}
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		rs, err := redisstore.New(rdb, redisstore.WithTTL(24*time.Hour))
		if err != nil {
			log.Fatal("redisstore:", err)
		}
		store = rs
		cleanup = func() {
			_ = rdb.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", mr.Addr())
	default:
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		rs, err := redisstore.New(rdb, redisstore.WithTTL(24*time.Hour))
		if err != nil {
			log.Fatal("redisstore:", err)
		}
		store = rs
		cleanup = func() { _ = rdb.Close() }
		fmt.Printf("using redis at %s\n", *redisAddr)
	}
	defer cleanup()

	// ---------- identity provider ----------
	idp, err := memory.New(memory.Config{
		SigningKey:     []byte("demo-signing-key"),
		Storage:        store,
		AccessTokenTTL: time.Hour,
	})
	if err != nil {
		log.Fatal("provider:", err)
	}

	// ---------- build client ----------
	auditSink := authcore.NewJSONWriterSink(os.Stdout)
	client, err := authcore.New().
		WithProvider(idp).
		WithAuditSink(auditSink).
		WithAuditEnabled(true).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		log.Fatal("build:", err)
	}
	defer client.Close()

	states := client.Watch()
	go func() {
		for state := range states {
			fmt.Printf("state: authenticated=%v loading=%v\n", state.Authenticated(), state.Loading)
		}
	}()

	if err := client.Start(ctx); err != nil {
		log.Fatal("start:", err)
	}
	waitSettled(client)

	// ---------- register ----------
	rawEmail := "  Ada.Lovelace@example.com  "
	email := authcore.SanitizeInput(rawEmail)
	password := "Correct-Horse-9"
	fullName := "Ada Lovelace"

	if result := authcore.ValidateRegisterForm(authcore.Credentials{
		Email:    email,
		Password: password,
		FullName: fullName,
	}); !result.IsValid {
		log.Fatalf("register form invalid: %v", result.Errors)
	}

	if err := client.SignUp(ctx, email, password, fullName); err != nil {
		log.Fatal("sign up:", err)
	}
	fmt.Printf("signed up as %s (%s)\n", client.State().User.DisplayName(), client.State().User.Email)

	// ---------- sign out, sign back in ----------
	if err := client.SignOut(ctx); err != nil {
		log.Fatal("sign out:", err)
	}

	if err := client.SignIn(ctx, email, password); err != nil {
		log.Fatal("sign in:", err)
	}

	// Wrong password path: the returned error carries only the redacted message.
	if err := client.SignIn(ctx, email, "wrong-password"); err != nil {
		fmt.Printf("expected failure: %v\n", err)
	}

	// ---------- metrics ----------
	exporter := prometheus.NewPrometheusExporter(client)
	fmt.Println(exporter.Render())
}

func waitSettled(client *authcore.Client) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !client.State().Loading {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	log.Fatal("client never finished initial session resolution")
}
