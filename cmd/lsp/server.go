package main

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nanov/jsasta/internal/diagnostics"
	"github.com/nanov/jsasta/internal/pipeline"
	"github.com/nanov/jsasta/internal/rpc"
)

// Server is the jsasta Language Server (spec.md §4.J): an I/O thread
// driving the message loop and a single persistent worker performing type
// inference off that thread.
type Server struct {
	log *slog.Logger
	out io.Writer

	writeMu sync.Mutex // guards every outbound frame (spec.md §5)

	docsMu    sync.RWMutex
	documents map[string]*document
	docOrder  []string // insertion order, for round-robin worker draining

	workMu      sync.Mutex
	workCond    *sync.Cond
	nextDrain   int // round-robin cursor into docOrder (SPEC_FULL.md §9(c))
	shutdownReq bool
	stopWorker  bool
}

func newServer(out io.Writer, log *slog.Logger) *Server {
	s := &Server{
		out:       out,
		log:       log,
		documents: make(map[string]*document),
	}
	s.workCond = sync.NewCond(&s.workMu)
	return s
}

// Run drives the I/O thread: read one framed message at a time from stdin
// with an approximate 100ms poll (spec.md §5), and starts the worker.
func (s *Server) Run(stdin *os.File) {
	go s.workerLoop()

	r := bufio.NewReader(stdin)
	for {
		stdin.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		msg, err := rpc.ReadMessage(r)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return
			}
			s.log.Error("reading message", "error", err)
			continue
		}
		s.dispatch(msg)
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func (s *Server) dispatch(msg []byte) {
	env, err := parseEnvelope(msg)
	if err != nil {
		s.log.Warn("malformed message dropped", "error", err)
		return
	}

	if env.hasID {
		s.handleRequest(env)
		return
	}
	s.handleNotification(env)
}

func (s *Server) handleRequest(env envelope) {
	switch env.method {
	case "initialize":
		s.handleInitialize(env)
	case "shutdown":
		s.handleShutdown(env)
	case "textDocument/hover":
		s.handleHover(env)
	case "textDocument/completion":
		s.handleCompletion(env)
	case "textDocument/definition":
		s.handleDefinition(env)
	case "textDocument/references":
		s.handleReferences(env)
	default:
		s.respondError(env.idRaw, -32601, "method not found: "+env.method)
	}
}

func (s *Server) handleNotification(env envelope) {
	switch env.method {
	case "initialized":
		// Nothing to do.
	case "textDocument/didOpen":
		s.handleDidOpen(env)
	case "textDocument/didChange":
		s.handleDidChange(env)
	case "textDocument/didClose":
		s.handleDidClose(env)
	case "textDocument/didSave":
		// Save is a lifecycle event only; analysis already runs on every change.
	case "exit":
		if s.shutdownReq {
			os.Exit(0)
		}
		os.Exit(1)
	default:
		s.log.Debug("ignoring unknown notification", "method", env.method)
	}
}

// queueWork replaces doc's pending AnalysisWork and wakes the worker
// (spec.md §4.J step 3; cancellation-by-replacement per spec.md §5).
func (s *Server) queueWork(doc *document, ctx *pipeline.PipelineContext) {
	s.workMu.Lock()
	doc.pending = ctx
	s.workMu.Unlock()
	s.workCond.Signal()
}

// workerLoop is the single persistent analysis worker (spec.md §4.J, §5):
// it sleeps until signaled, then drains queued work round-robin across
// documents, one unit at a time, until none remain.
func (s *Server) workerLoop() {
	for {
		s.workMu.Lock()
		for !s.stopWorker && s.pickQueuedLocked() == nil {
			s.workCond.Wait()
		}
		if s.stopWorker {
			s.workMu.Unlock()
			return
		}
		doc, ctx := s.takeQueuedLocked()
		s.workMu.Unlock()

		if doc == nil {
			continue
		}
		s.runAnalysis(doc, ctx)
	}
}

// pickQueuedLocked reports whether any document has queued work, without
// claiming it. Must be called with workMu held.
func (s *Server) pickQueuedLocked() *document {
	s.docsMu.RLock()
	defer s.docsMu.RUnlock()
	for _, uri := range s.docOrder {
		if d := s.documents[uri]; d != nil && d.pending != nil {
			return d
		}
	}
	return nil
}

// takeQueuedLocked claims exactly one document's queued work, starting
// from the round-robin cursor so no single noisy document starves the
// others. Must be called with workMu held.
func (s *Server) takeQueuedLocked() (*document, *pipeline.PipelineContext) {
	s.docsMu.RLock()
	order := append([]string(nil), s.docOrder...)
	docs := make(map[string]*document, len(order))
	for _, uri := range order {
		docs[uri] = s.documents[uri]
	}
	s.docsMu.RUnlock()

	n := len(order)
	for i := 0; i < n; i++ {
		idx := (s.nextDrain + i) % n
		d := docs[order[idx]]
		if d != nil && d.pending != nil {
			ctx := d.pending
			d.pending = nil
			s.nextDrain = (idx + 1) % n
			return d, ctx
		}
	}
	return nil, nil
}

// runAnalysis performs full type inference and CodeIndex construction off
// the I/O thread, then publishes diagnostics and the completed work.
func (s *Server) runAnalysis(doc *document, ctx *pipeline.PipelineContext) {
	pipeline.New(pipeline.AnalyzeProcessor{}, pipeline.IndexProcessor{}).Run(ctx)
	s.publishDiagnostics(doc.uri, ctx.Diagnostics.Collected())
	doc.completed.Store(ctx)
}

func (s *Server) publishDiagnostics(uri string, diags []diagnostics.Diagnostic) {
	s.notify("textDocument/publishDiagnostics", func(b *rpc.Builder) {
		b.BeginObject()
		b.Key("uri").String_(uri)
		b.Key("diagnostics")
		diagnostics.WriteArrayJSON(b, diags)
		b.EndObject()
	})
}

func (s *Server) addDocument(d *document) {
	s.docsMu.Lock()
	defer s.docsMu.Unlock()
	if _, exists := s.documents[d.uri]; !exists {
		s.docOrder = append(s.docOrder, d.uri)
	}
	s.documents[d.uri] = d
}

func (s *Server) removeDocument(uri string) {
	s.docsMu.Lock()
	defer s.docsMu.Unlock()
	delete(s.documents, uri)
	for i, u := range s.docOrder {
		if u == uri {
			s.docOrder = append(s.docOrder[:i], s.docOrder[i+1:]...)
			break
		}
	}
}

func (s *Server) getDocument(uri string) (*document, bool) {
	s.docsMu.RLock()
	defer s.docsMu.RUnlock()
	d, ok := s.documents[uri]
	return d, ok
}

func newWorkID() string { return uuid.NewString() }
