package main

import (
	"github.com/nanov/jsasta/internal/codeindex"
	"github.com/nanov/jsasta/internal/pipeline"
	"github.com/nanov/jsasta/internal/rpc"
	"github.com/nanov/jsasta/internal/source"
)

// --- Lifecycle (spec.md §4.J) ---

func (s *Server) handleInitialize(env envelope) {
	s.respondResult(env.idRaw, func(b *rpc.Builder) {
		b.BeginObject()
		b.Key("capabilities").BeginObject()
		b.Key("textDocumentSync").Int(1) // 1 = Full
		b.Key("hoverProvider").Bool(true)
		b.Key("definitionProvider").Bool(true)
		b.Key("referencesProvider").Bool(true)
		b.Key("completionProvider").BeginObject()
		b.Key("triggerCharacters").BeginArray().String_(".").EndArray()
		b.EndObject()
		b.EndObject()
		b.EndObject()
	})
}

func (s *Server) handleShutdown(env envelope) {
	s.shutdownReq = true
	s.respondNull(env.idRaw)
}

// --- Document synchronization (spec.md §4.J "Edit pipeline") ---

type textDocumentItem struct {
	uri, languageID, text string
	version               int
}

func parseTextDocumentItem(raw []byte) (textDocumentItem, error) {
	var it textDocumentItem
	err := rpc.ParseObject(raw, func(key string, value []byte) int {
		var err error
		switch key {
		case "uri":
			it.uri, err = rpc.DecodeString(value)
		case "languageId":
			it.languageID, err = rpc.DecodeString(value)
		case "version":
			it.version, err = rpc.DecodeInt(value)
		case "text":
			it.text, err = rpc.DecodeString(value)
		default:
			return -1
		}
		if err != nil {
			return -2
		}
		return 0
	})
	return it, err
}

func parseURIAndVersion(raw []byte) (uri string, version int, err error) {
	err = rpc.ParseObject(raw, func(key string, value []byte) int {
		var e error
		switch key {
		case "uri":
			uri, e = rpc.DecodeString(value)
		case "version":
			version, e = rpc.DecodeInt(value)
		default:
			return -1
		}
		if e != nil {
			return -2
		}
		return 0
	})
	return
}

type contentChange struct {
	hasRange   bool
	start, end source.Position
	text       string
}

func parseContentChanges(raw []byte) ([]contentChange, error) {
	var out []contentChange
	err := rpc.ParseArray(raw, func(_ int, value []byte) int {
		var cc contentChange
		perr := rpc.ParseObject(value, func(key string, v []byte) int {
			var e error
			switch key {
			case "text":
				cc.text, e = rpc.DecodeString(v)
			case "range":
				if rpc.IsNull(v) {
					return -1
				}
				cc.hasRange = true
				e = rpc.ParseObject(v, func(rk string, rv []byte) int {
					pos, pe := parsePosition(rv)
					if pe != nil {
						return -2
					}
					switch rk {
					case "start":
						cc.start = pos
					case "end":
						cc.end = pos
					default:
						return -1
					}
					return 0
				})
			default:
				return -1
			}
			if e != nil {
				return -2
			}
			return 0
		})
		if perr != nil {
			return -2
		}
		out = append(out, cc)
		return 0
	})
	return out, err
}

func parsePosition(raw []byte) (source.Position, error) {
	var pos source.Position
	err := rpc.ParseObject(raw, func(key string, value []byte) int {
		var e error
		switch key {
		case "line":
			pos.Line, e = rpc.DecodeInt(value)
		case "character":
			pos.Character, e = rpc.DecodeInt(value)
		default:
			return -1
		}
		if e != nil {
			return -2
		}
		return 0
	})
	return pos, err
}

type positionParams struct {
	uri string
	pos source.Position
}

func parsePositionParams(raw []byte) (positionParams, error) {
	var pp positionParams
	err := rpc.ParseObject(raw, func(key string, value []byte) int {
		var e error
		switch key {
		case "textDocument":
			e = rpc.ParseObject(value, func(k string, v []byte) int {
				if k != "uri" {
					return -1
				}
				pp.uri, e = rpc.DecodeString(v)
				if e != nil {
					return -2
				}
				return 0
			})
		case "position":
			pp.pos, e = parsePosition(value)
		default:
			return -1
		}
		if e != nil {
			return -2
		}
		return 0
	})
	return pp, err
}

func (s *Server) handleDidOpen(env envelope) {
	it, err := parseDidOpenParams(env.paramsRaw)
	if err != nil {
		s.log.Warn("dropping malformed didOpen", "error", err)
		return
	}
	doc := newDocument(it.uri, it.languageID, it.text, it.version)
	s.addDocument(doc)
	s.reparse(doc)
}

func parseDidOpenParams(raw []byte) (textDocumentItem, error) {
	var it textDocumentItem
	err := rpc.ParseObject(raw, func(key string, value []byte) int {
		if key != "textDocument" {
			return -1
		}
		var e error
		it, e = parseTextDocumentItem(value)
		if e != nil {
			return -2
		}
		return 0
	})
	return it, err
}

func (s *Server) handleDidChange(env envelope) {
	var uri string
	var version int
	var changes []contentChange
	err := rpc.ParseObject(env.paramsRaw, func(key string, value []byte) int {
		var e error
		switch key {
		case "textDocument":
			uri, version, e = parseURIAndVersion(value)
		case "contentChanges":
			changes, e = parseContentChanges(value)
		default:
			return -1
		}
		if e != nil {
			return -2
		}
		return 0
	})
	if err != nil {
		s.log.Warn("dropping malformed didChange", "error", err)
		return
	}
	doc, ok := s.getDocument(uri)
	if !ok {
		return
	}
	doc.version = version
	for _, c := range changes {
		if !c.hasRange {
			doc.buffer.Replace(c.text)
			continue
		}
		r := source.Range{Start: c.start, End: c.end}
		if err := doc.buffer.ApplyEdit(r, c.text); err != nil {
			s.log.Warn("edit out of range, ignoring", "uri", uri, "error", err)
		}
	}
	s.reparse(doc)
}

func (s *Server) handleDidClose(env envelope) {
	uri, err := parseURIOnly(env.paramsRaw)
	if err != nil {
		s.log.Warn("dropping malformed didClose", "error", err)
		return
	}
	s.removeDocument(uri)
}

func parseURIOnly(raw []byte) (string, error) {
	var uri string
	err := rpc.ParseObject(raw, func(key string, value []byte) int {
		if key != "textDocument" {
			return -1
		}
		var e error
		e = rpc.ParseObject(value, func(k string, v []byte) int {
			if k != "uri" {
				return -1
			}
			uri, e = rpc.DecodeString(v)
			if e != nil {
				return -2
			}
			return 0
		})
		if e != nil {
			return -2
		}
		return 0
	})
	return uri, err
}

// reparse implements spec.md §4.J step 2-3: parse synchronously on the I/O
// thread without inference, refresh the CodeIndex from the untyped tree,
// then queue full inference on the worker.
func (s *Server) reparse(doc *document) {
	ctx := pipeline.NewContext(doc.uri, doc.buffer.String(), newWorkID())
	pipeline.New(pipeline.ParseProcessor{}).Run(ctx)

	if ctx.AstRoot != nil {
		doc.index = buildUntypedIndex(ctx)
	}
	s.queueWork(doc, ctx)
}

// buildUntypedIndex builds a CodeIndex over ctx's freshly parsed (not yet
// type-inferred) tree, so go-to-definition/references work immediately on
// every edit even before the worker has had a chance to run (spec.md §4.J
// step 2). The parse-only ctx is left untouched otherwise; the worker
// builds its own Index after full inference.
func buildUntypedIndex(ctx *pipeline.PipelineContext) *codeindex.Index {
	return codeindex.Build(ctx.AstRoot)
}
