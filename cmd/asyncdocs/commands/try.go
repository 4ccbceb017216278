package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/erraggy/asyncdocs/internal/cliutil"
	"github.com/erraggy/asyncdocs/internal/maputil"
	"github.com/erraggy/asyncdocs/internal/naming"
	"github.com/erraggy/asyncdocs/normalizer"
	"github.com/erraggy/asyncdocs/preview"
	"github.com/erraggy/asyncdocs/wsclient"
)

// TryFlags contains flags for the try command
type TryFlags struct {
	CommonFlags
	Operation string
	Channel   string
	Direction string
	Server    string
	URL       string
	Payload   string
	Message   int
	Protocols stringList
	Wait      time.Duration
}

// SetupTryFlags creates and configures a FlagSet for the try command.
func SetupTryFlags() (*flag.FlagSet, *TryFlags) {
	fs := flag.NewFlagSet("try", flag.ContinueOnError)
	flags := &TryFlags{}
	flags.register(fs)

	fs.StringVar(&flags.Operation, "operation", "", "operation id or operationId")
	fs.StringVar(&flags.Channel, "channel", "", "channel name, used when --operation is not set")
	fs.StringVar(&flags.Direction, "direction", "", "publish or subscribe, used with --channel")
	fs.StringVar(&flags.Server, "server", "", "server name to connect to (default: first WebSocket server of the operation)")
	fs.StringVar(&flags.URL, "url", "", "WebSocket URL to connect to instead of a document server")
	fs.StringVar(&flags.Payload, "payload", "", "message to send (default: the operation's example or draft payload)")
	fs.IntVar(&flags.Message, "message", 0, "index of the operation message whose draft is sent")
	fs.Var(&flags.Protocols, "protocol", "WebSocket subprotocol to request (repeatable)")
	fs.DurationVar(&flags.Wait, "wait", 5*time.Second, "how long to print incoming messages after sending")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: asyncdocs try [flags] <file|url>\n\n")
		cliutil.Writef(output, "Connect to an operation's WebSocket server, send an example message, and print the traffic.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  asyncdocs try --operation sendMessage chat.yaml\n")
		cliutil.Writef(output, "  asyncdocs try --channel 'room/{roomId}' --direction publish --url ws://localhost:8080/ws chat.yaml\n")
		cliutil.Writef(output, "  asyncdocs try --operation sendMessage --payload '{\"text\":\"hi\"}' --wait 30s chat.yaml\n")
	}

	return fs, flags
}

// HandleTry executes the try command
func HandleTry(args []string) error {
	fs, flags := SetupTryFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("try command requires exactly one file path or URL")
	}
	if flags.Operation == "" && flags.Channel == "" {
		return fmt.Errorf("try command requires --operation or --channel")
	}

	ctx, stop := signalContext()
	defer stop()

	schemas, cfg, err := loadSchemas(ctx, &flags.CommonFlags, fs.Args())
	if err != nil {
		return fmt.Errorf("try: %w", err)
	}
	keys := maputil.SortedKeys(schemas)
	if len(keys) == 0 {
		return fmt.Errorf("try: no document loaded from %s", fs.Arg(0))
	}
	doc := schemas[keys[0]]

	op := preview.FindOperation(doc, flags.Operation, flags.Channel, flags.Direction)
	if op == nil {
		return fmt.Errorf("try: no operation matches --operation %q --channel %q --direction %q",
			flags.Operation, flags.Channel, flags.Direction)
	}
	target, err := targetURL(doc, op, flags.Server, flags.URL)
	if err != nil {
		return fmt.Errorf("try: %w", err)
	}
	payload, err := tryPayload(op, flags.Message, flags.Payload)
	if err != nil {
		return fmt.Errorf("try: %w", err)
	}

	log := flags.logger()
	client, err := wsclient.New(
		wsclient.WithHandshakeTimeout(cfg.HTTPTimeout),
		wsclient.WithLogger(log),
	)
	if err != nil {
		return err
	}
	p := &messagePrinter{w: os.Stdout, format: flags.Format}
	client.OnMessage(p.print)

	if !flags.Quiet {
		cliutil.Writef(os.Stderr, "Connecting to %s\n", target)
	}
	if err := client.Connect(ctx, target, flags.Protocols...); err != nil {
		return err
	}
	defer client.Disconnect()

	if err := client.Send(payload); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-time.After(flags.Wait):
	}
	return nil
}

// targetURL picks the URL to dial: the explicit url, else the named
// server, else the first server of op with a WebSocket URL.
func targetURL(doc *normalizer.ProcessedDocument, op *normalizer.OperationInfo, server, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	for _, name := range op.Servers {
		if server != "" && name != server {
			continue
		}
		s := doc.Server(name)
		if s == nil {
			continue
		}
		if u, ok := wsclient.WebSocketURL(*s); ok {
			return u, nil
		}
		if server != "" {
			return "", fmt.Errorf("server %q (%s) is not a WebSocket server", name, s.URL)
		}
	}
	if server != "" {
		return "", fmt.Errorf("operation has no server %q", server)
	}
	return "", fmt.Errorf("operation has no WebSocket server; pass --url")
}

// tryPayload returns explicit when set, else the JSON of the example or
// draft of message index.
func tryPayload(op *normalizer.OperationInfo, index int, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if index < 0 || index >= len(op.Messages) {
		return "", fmt.Errorf("message index %d out of range; operation has %d messages", index, len(op.Messages))
	}
	draft := preview.Draft(&op.Messages[index])
	if s, ok := draft.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return "", fmt.Errorf("encoding draft payload: %w", err)
	}
	return string(data), nil
}

// messagePrinter writes messages from the send path and the read loop.
type messagePrinter struct {
	mu     sync.Mutex
	w      io.Writer
	format string
}

func (p *messagePrinter) print(m wsclient.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.format == FormatJSON {
		data, err := json.Marshal(m)
		if err == nil {
			cliutil.Writef(p.w, "%s\n", data)
			return
		}
	}
	body := m.Raw
	if body == "" {
		if data, err := json.Marshal(m.Data); err == nil {
			body = string(data)
		}
	}
	cliutil.Writef(p.w, "[%s] %s %s\n", naming.ToTitleCase(string(m.Direction)), m.Timestamp.Format(time.TimeOnly), body)
}
