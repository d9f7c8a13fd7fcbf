// Command webhooksend signs payment notifications and posts them to a ledger.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GlebRadaev/ledger/internal/domain"
	"github.com/GlebRadaev/ledger/internal/sender"
	"github.com/GlebRadaev/ledger/pkg/clients"
	"github.com/GlebRadaev/ledger/pkg/signature"
)

type options struct {
	url         string
	secret      string
	accountID   int
	userID      int
	amount      int64
	txID        string
	copies      int
	concurrency int
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("webhooksend", flag.ContinueOnError)
	fs.StringVar(&opts.url, "url", "http://localhost:8080/webhooks/payment", "webhook endpoint")
	fs.StringVar(&opts.secret, "s", os.Getenv("WEBHOOK_SECRET"), "shared signing secret")
	fs.IntVar(&opts.accountID, "account", 1, "account id")
	fs.IntVar(&opts.userID, "user", 1, "user id")
	fs.Int64Var(&opts.amount, "amount", 100, "amount to credit")
	fs.StringVar(&opts.txID, "tx", "", "transaction id, random uuid when empty")
	fs.IntVar(&opts.copies, "n", 1, "number of identical deliveries")
	fs.IntVar(&opts.concurrency, "c", 1, "concurrent deliveries")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.txID == "" {
		opts.txID = uuid.NewString()
	}
	if opts.copies < 1 {
		opts.copies = 1
	}
	return opts, nil
}

func notifications(opts *options) []domain.Notification {
	n := domain.Notification{
		TransactionID: opts.txID,
		AccountID:     opts.accountID,
		UserID:        opts.userID,
		Amount:        opts.amount,
		Signature:     signature.Sign(opts.txID, opts.accountID, opts.userID, opts.amount, opts.secret),
	}
	out := make([]domain.Notification, opts.copies)
	for i := range out {
		out[i] = n
	}
	return out
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if opts.secret == "" {
		log.Fatal().Msg("signing secret is required: pass -s or set WEBHOOK_SECRET")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := sender.New(opts.url, clients.NewHTTPClient(), opts.concurrency)
	results := s.SendAll(ctx, notifications(opts))

	failed := 0
	for i, res := range results {
		event := log.Info()
		if !res.Delivered() {
			event = log.Warn()
			failed++
		}
		event.Int("delivery", i+1).
			Str("transaction_id", res.TransactionID).
			Int("status", res.StatusCode).
			Int("attempts", res.Attempts).
			Str("body", res.Body).
			Err(res.Err).
			Msg("delivery finished")
	}

	log.Info().Int("delivered", len(results)-failed).Int("failed", failed).Msg("done")
	if failed > 0 {
		cancel()
		os.Exit(1)
	}
}
