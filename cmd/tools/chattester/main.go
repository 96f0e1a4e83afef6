package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/config"
	"github.com/zhouzirui/z-stylist/backend/internal/logger"
	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	chatmodel "github.com/zhouzirui/z-stylist/backend/internal/model/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/realtime"
	"github.com/zhouzirui/z-stylist/backend/internal/service/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/service/reply"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] failed to load .env, using process environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	messages := flag.String("messages", "", "user messages separated by '|'")
	mode := flag.String("mode", "Default", "chat mode: Default, Wedding, Eid or Office")
	image := flag.String("image", "", "image data URL to search with")
	scan := flag.Bool("scan", false, "run a barcode scan after the messages")
	driver := flag.String("storage", "memory", "storage driver (memory, file, sqlite, postgres, mysql, redis)")
	fast := flag.Bool("fast", false, "skip the simulated latencies")
	useModel := flag.Bool("model", false, "answer with the Ark model when configured")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	if strings.TrimSpace(*messages) == "" && *image == "" && !*scan {
		flag.Usage()
		log.Fatal("nothing to do: pass -messages, -image or -scan")
	}

	chatMode, err := chatmodel.ParseMode(*mode)
	if err != nil {
		log.Fatalf("invalid -mode: %v", err)
	}

	zlog, err := logger.New("production")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	storeCfg := cfg.Storage
	storeCfg.Driver = *driver
	store, err := storage.Open(storeCfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer store.Close()

	timing := cfg.Chat.Timing()
	if *fast {
		timing = chat.Timing{TokenInterval: time.Millisecond}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	products := catalog.NewMemoryStore(catalog.Seed())
	var generator reply.Generator = reply.NewMock(products)
	if *useModel {
		generator = modelGenerator(ctx, cfg.AI, generator, zlog)
	}

	hub := realtime.NewHub(zlog, 1024)
	client := hub.Subscribe()
	printed := make(chan struct{})
	go printEvents(client, printed)

	svc := chat.NewService(store, generator,
		chat.WithTiming(timing),
		chat.WithLogger(zlog),
		chat.WithPublisher(hub),
	)
	svc.Initialize(ctx)
	svc.SetMode(chatMode)

	for _, text := range strings.Split(*messages, "|") {
		if strings.TrimSpace(text) == "" {
			continue
		}
		svc.SendMessage(ctx, text)
		svc.Wait()
	}
	if *image != "" {
		svc.SendImageMessage(ctx, *image)
		svc.Wait()
	}
	if *scan {
		svc.ScanBarcode(ctx)
		svc.Wait()
	}

	svc.Close()
	hub.Unsubscribe(client)
	<-printed

	snap := svc.State()
	thread, _ := svc.Thread(snap.CurrentChatID)
	fmt.Fprintf(os.Stdout, "\nthread %s %q, %d messages, %d threads stored\n",
		thread.ID, thread.Title, len(thread.Messages), len(snap.ChatHistory))
}

func modelGenerator(ctx context.Context, cfg config.AIConfig, fallback reply.Generator, zlog *zap.Logger) reply.Generator {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		log.Printf("[WARN] model unavailable, using canned replies: %v", err)
		return fallback
	}
	gen, err := reply.NewModelGenerator(ctx, chatModel, fallback, zlog)
	if err != nil {
		log.Printf("[WARN] model generator unavailable, using canned replies: %v", err)
		return fallback
	}
	return gen
}

// printEvents renders the session feed the way a chat window would.
func printEvents(client *realtime.Client, done chan<- struct{}) {
	defer close(done)
	for event := range client.Outbound {
		switch event.Type {
		case chatmodel.EventMessageAppended:
			msg := event.Message
			if msg.Role == chatmodel.RoleUser {
				fmt.Printf("\nyou> %s\n", msg.Content)
				continue
			}
			fmt.Print("stylist> ")
			if msg.Complete() {
				fmt.Println(msg.Content)
			}
		case chatmodel.EventMessageDelta:
			fmt.Print(event.Delta)
		case chatmodel.EventMessageCompleted:
			for _, p := range event.Message.Products {
				fmt.Printf("\n  - %s %s: Rs. %d", p.Brand, p.Name, p.Price)
			}
			if len(event.Message.Chips) > 0 {
				fmt.Printf("\n  [%s]", strings.Join(event.Message.Chips, "] ["))
			}
			fmt.Println()
		case chatmodel.EventModeChanged:
			fmt.Printf("(mode: %s)\n", event.Mode)
		}
	}
}
