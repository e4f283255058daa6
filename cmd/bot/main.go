package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"tradewright/internal/calc"
	"tradewright/internal/engine"
	"tradewright/internal/events"
	"tradewright/internal/guide"
	"tradewright/internal/persistence/indexdb"
	persistlog "tradewright/internal/persistence/log"
	"tradewright/internal/protocol"
	"tradewright/internal/squad"
	"tradewright/internal/transport/gateway"
	"tradewright/internal/tuning"
)

func main() {
	var (
		gatewayURL   = flag.String("gateway", "ws://localhost:8080/v1/ws", "chat gateway ws url")
		clientName   = flag.String("name", "tradewright", "client name sent in HELLO")
		configDir    = flag.String("configs", "./configs", "config directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		squadsPath   = flag.String("squads", "", "squadron config file (default: <data>/squadrons.json)")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite audit index")
		strictFrames = flag.Bool("strict_frames", false, "schema-validate inbound gateway frames")
		schemaPath   = flag.String("frame_schema", "./schemas/message.schema.json", "inbound frame schema path")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	guides, err := guide.Load(*configDir)
	if err != nil {
		logger.Fatalf("load guides: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	gw := gateway.New(*gatewayURL, *clientName, strings.TrimSpace(os.Getenv("GATEWAY_TOKEN")), logger)
	if *strictFrames {
		schema, err := jsonschema.Compile(*schemaPath)
		if err != nil {
			logger.Fatalf("compile frame schema: %v", err)
		}
		gw.SetFrameSchema(schema)
	}
	if err := gw.Dial(ctx); err != nil {
		logger.Fatalf("gateway: %v", err)
	}

	transcript := persistlog.NewTranscriptLogger(*dataDir)
	defer transcript.Close()
	auditFile := persistlog.NewAuditLogger(*dataDir)
	defer auditFile.Close()

	var index *indexdb.SQLiteIndex
	if !*disableDB {
		index, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open audit index: %v", err)
		}
		defer index.Close()
	}

	sender := &recordingSender{gw: gw, transcript: transcript, log: logger}

	eng := engine.New(tune, guides, sender, logger)
	eng.SetSelfID(gw.SelfID())
	eng.SetAuditLogger(multiAuditLogger{a: auditFile, b: index})

	sqPath := strings.TrimSpace(*squadsPath)
	if sqPath == "" {
		sqPath = filepath.Join(*dataDir, "squadrons.json")
	}
	squads, err := squad.Load(sqPath)
	if err != nil {
		logger.Fatalf("load squadrons: %v", err)
	}
	manager := squad.NewManager(squads, loggingChannelAdmin{log: logger}, logger)
	tracker := events.NewTracker(sender, squads, manager, tune.ActorID,
		time.Duration(tune.EventDebounceStartSeconds)*time.Second,
		time.Duration(tune.EventDebounceEndSeconds)*time.Second,
		logger)
	eng.AddListener(tracker.HandleMessage)

	calcHandler := calc.NewHandler(sender, tune.CommandPrefix, tune.ActorID, logger)
	eng.AddListener(calcHandler.HandleMessage)

	gw.OnMessage(func(m protocol.Message) {
		if err := transcript.WriteEntry(persistlog.TranscriptEntry{At: time.Now(), Inbound: &m}); err != nil {
			logger.Printf("transcript: %v", err)
		}
		eng.Inbox() <- m
	})

	go func() {
		if err := eng.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("engine stopped: %v", err)
		}
	}()

	logger.Printf("running gateway=%s self=%d", *gatewayURL, gw.SelfID())
	if err := gw.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatalf("gateway closed: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

// recordingSender mirrors every outbound command into the transcript.
type recordingSender struct {
	gw         *gateway.Client
	transcript *persistlog.TranscriptLogger
	log        *log.Logger
}

func (s *recordingSender) Send(channelID int64, text string) error {
	err := s.transcript.WriteEntry(persistlog.TranscriptEntry{
		At:       time.Now(),
		Outbound: &persistlog.OutboundText{ChannelID: channelID, Text: text},
	})
	if err != nil {
		s.log.Printf("transcript: %v", err)
	}
	return s.gw.Send(channelID, text)
}

type multiAuditLogger struct {
	a engine.AuditLogger
	b *indexdb.SQLiteIndex
}

func (m multiAuditLogger) WriteAudit(e engine.AuditEntry) error {
	if m.a != nil {
		_ = m.a.WriteAudit(e)
	}
	if m.b != nil {
		_ = m.b.WriteAudit(e)
	}
	return nil
}

// loggingChannelAdmin stands in for the messaging collaborator's permission
// surface; visibility changes are logged, not applied, until a real admin
// transport is wired.
type loggingChannelAdmin struct {
	log *log.Logger
}

func (a loggingChannelAdmin) SetChannelHidden(channelID int64, hidden bool) error {
	a.log.Printf("channel %d hidden=%v (requested)", channelID, hidden)
	return nil
}
