// Command consensus runs a multi-agent deliberation over a document and
// prints the consensus report.
//
// Usage:
//
//	consensus -config config.yaml -input paper.txt [-question "..."] [-mode deep]
//
// The input file holds the extracted document text ("-" reads stdin); text
// extraction from PDFs or other formats is a separate concern. API keys come
// from the config file; only providers with keys join the deliberation.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/consensus-go/deliberate"
	"github.com/dshills/consensus-go/store"
)

// defaultQuestion seeds the analysis when the caller gives none.
const defaultQuestion = "Summarize the key contributions, methodology, and limitations of this material."

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("consensus", flag.ContinueOnError)
	configFile := fs.String("config", "config.yaml", "path to config YAML file")
	inputFile := fs.String("input", "-", "path to the document text (\"-\" reads stdin)")
	question := fs.String("question", defaultQuestion, "analysis question")
	mode := fs.String("mode", "", "deliberation mode: plain or deep (overrides config)")
	verbose := fs.Bool("verbose", false, "print full artifact texts per stage")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	config, err := loadConfig(*configFile)
	if err != nil {
		return err
	}

	content, err := readInput(*inputFile)
	if err != nil {
		return err
	}
	input := composeInput(*question, content)
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("no input: provide a document or a question")
	}

	members, closers, err := buildMembers(config.Providers)
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return fmt.Errorf("no providers enabled: add API keys to %s", *configFile)
	}

	sessionMode := deliberate.ModePlain
	modeName := config.Mode
	if *mode != "" {
		modeName = *mode
	}
	switch modeName {
	case "", "plain":
	case "deep":
		sessionMode = deliberate.ModeDeep
	default:
		return fmt.Errorf("unknown mode %q (want plain or deep)", modeName)
	}

	opts := []deliberate.Option{
		deliberate.WithEmitter(NewConsoleEmitter(os.Stdout, *verbose)),
	}
	if d := config.callTimeout(); d >= 0 {
		opts = append(opts, deliberate.WithCallTimeout(d))
	}
	if *metricsAddr != "" {
		registry := prometheus.NewRegistry()
		opts = append(opts, deliberate.WithMetrics(deliberate.NewPrometheusMetrics(registry)))
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
	}

	sess, err := deliberate.NewSession(members, sessionMode, opts...)
	if err != nil {
		return err
	}

	report, runErr := sess.Run(context.Background(), input)

	if archiveErr := archive(config.Archive, sess, input); archiveErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to archive transcript: %v\n", archiveErr)
	}

	if runErr != nil {
		return runErr
	}

	fmt.Printf("\n== Consensus Report (synthesized by %s) ==\n\n%s\n", report.Synthesizer, report.Text)
	return nil
}

// readInput loads the document text from a file, or stdin for "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// composeInput joins the question and document content into the opaque
// input blob every stage prompt embeds.
func composeInput(question, content string) string {
	question = strings.TrimSpace(question)
	content = strings.TrimSpace(content)
	if content == "" {
		return question
	}
	return fmt.Sprintf("[Request]\n%s\n\n[Content]\n%s\n", question, content)
}

// archive saves the finished session's transcript when an archive backend
// is configured.
func archive(cfg ArchiveConfig, sess *deliberate.Session, input string) error {
	var (
		st  store.Store
		err error
	)
	switch cfg.Driver {
	case "":
		return nil
	case "sqlite":
		st, err = store.NewSQLiteStore(cfg.DSN)
	case "mysql":
		st, err = store.NewMySQLStore(cfg.DSN)
	default:
		return fmt.Errorf("unknown archive driver %q (want sqlite or mysql)", cfg.Driver)
	}
	if err != nil {
		return err
	}
	defer st.Close()

	return st.SaveTranscript(context.Background(), buildTranscript(sess, input))
}
