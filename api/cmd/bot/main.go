package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docugenius/api/internal/config"
	"docugenius/api/internal/engines"
	"docugenius/api/internal/health"
	"docugenius/api/internal/httpserver"
	"docugenius/api/internal/llm"
	"docugenius/api/internal/logging"
	"docugenius/api/internal/metrics"
	"docugenius/api/internal/structure"
	"docugenius/api/internal/telegram"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("config", zap.Error(err))
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal("config", zap.String("error", "TELEGRAM_BOT_TOKEN is empty"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal("telegram", zap.Error(err))
	}
	bot.Debug = false

	engs := engines.Build(cfg)
	reg := prometheus.NewRegistry()

	r := &telegram.Router{
		Bot:        bot,
		Engines:    engs,
		EngManager: llm.NewManager(engines.Default(engs)),
		Assembler:  structure.NewAssembler(),
		Metrics:    metrics.NewAsk(reg),
		Log:        log,
		Timeout:    cfg.LLMTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", health.Healthz)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	addr := "0.0.0.0:" + cfg.Port

	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		if err := startWebhookMode(ctx, addr, mux, bot, r, webhookURL, log); err != nil {
			log.Fatal("webhook", zap.Error(err))
		}
		return
	}
	startPollingMode(ctx, addr, mux, bot, r, log)
}

// ---------------- Modes -----------------

func startWebhookMode(ctx context.Context, addr string, mux *http.ServeMux, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string, log *zap.Logger) error {
	// secret webhook path
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		return err
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		return err
	}

	mux.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		upd, err := bot.HandleUpdate(req)
		if err != nil {
			log.Warn("webhook update", zap.Error(err))
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		go r.HandleUpdate(*upd)
		w.WriteHeader(http.StatusOK)
	})

	log.Info("webhook listening", zap.String("addr", addr), zap.String("path", path))
	return httpserver.Serve(ctx, addr, mux, log)
}

func startPollingMode(ctx context.Context, addr string, mux *http.ServeMux, bot *tgbotapi.BotAPI, r *telegram.Router, log *zap.Logger) {
	// health server, not needed for polling itself
	go func() {
		if err := httpserver.Serve(ctx, addr, mux, log); err != nil {
			log.Error("health server", zap.Error(err))
		}
	}()

	runPolling(ctx, bot, log, func(upd tgbotapi.Update) {
		go r.HandleUpdate(upd)
	})
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return 2 * time.Second
		}
	}
	return 1 * time.Second
}

type updatesGetter interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

func runPolling(ctx context.Context, bot updatesGetter, log *zap.Logger, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		if ctx.Err() != nil {
			log.Info("polling: context cancelled")
			return
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelayFromError(err), baseDelay), maxDelay)
			log.Warn("polling error", zap.Error(err), zap.Duration("retry_in", d))
			sleep(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			sleep(ctx, 200*time.Millisecond)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// ---------------- Helpers -----------------

func shortHash(s string) string {
	// FNV-1a; stable per token, not a secret by itself
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}
