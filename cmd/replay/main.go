package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"tradewright/internal/engine"
	"tradewright/internal/guide"
	persistlog "tradewright/internal/persistence/log"
	"tradewright/internal/tuning"
)

// replay feeds a captured transcript back through the engine so its decisions
// can be audited offline: which events classified, which commands it would
// have sent, and where the virtual inventory ended up.
func main() {
	var (
		path       = flag.String("transcript", "", "transcript .jsonl.zst to replay")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[replay] ", log.LstdFlags)

	if *path == "" {
		logger.Fatalf("-transcript is required")
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = *configDir + "/tuning.yaml"
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		tune = tuning.Defaults()
	}
	guides, err := guide.Load(*configDir)
	if err != nil {
		logger.Fatalf("load guides: %v", err)
	}

	entries, err := persistlog.ReadTranscript(*path)
	if err != nil {
		logger.Fatalf("read transcript: %v", err)
	}

	out := &printSender{}
	eng := engine.New(tune, guides, out, logger)

	inbound := 0
	for _, e := range entries {
		if e.Inbound == nil {
			continue
		}
		inbound++
		eng.HandleMessage(*e.Inbound, e.At)
	}

	fmt.Printf("replayed %d frames (%d inbound), %d sessions still open, %d commands emitted\n",
		len(entries), inbound, eng.SessionCount(), out.n)
}

type printSender struct{ n int }

func (p *printSender) Send(channelID int64, text string) error {
	p.n++
	fmt.Printf("-> channel=%d %s\n", channelID, text)
	return nil
}
