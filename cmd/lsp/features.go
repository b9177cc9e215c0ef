package main

import (
	"github.com/nanov/jsasta/internal/codeindex"
	"github.com/nanov/jsasta/internal/rpc"
)

// --- Feature handlers (spec.md §4.J "Feature handlers") ---

func (s *Server) handleHover(env envelope) {
	// "infrastructure points for later work — return null... today"
	// (spec.md §4.J). Parsing is still attempted so malformed params are
	// logged rather than silently accepted.
	if _, err := parsePositionParams(env.paramsRaw); err != nil {
		s.log.Warn("malformed hover params", "error", err)
	}
	s.respondNull(env.idRaw)
}

func (s *Server) handleCompletion(env envelope) {
	if _, err := parsePositionParams(env.paramsRaw); err != nil {
		s.log.Warn("malformed completion params", "error", err)
	}
	s.respondResult(env.idRaw, func(b *rpc.Builder) {
		b.BeginObject()
		b.Key("isIncomplete").Bool(false)
		b.Key("items").BeginArray().EndArray()
		b.EndObject()
	})
}

func (s *Server) handleDefinition(env envelope) {
	pp, err := parsePositionParams(env.paramsRaw)
	if err != nil {
		s.log.Warn("malformed definition params", "error", err)
		s.respondNull(env.idRaw)
		return
	}
	doc, ok := s.getDocument(pp.uri)
	if !ok {
		s.respondNull(env.idRaw)
		return
	}
	doc.takeCompleted()
	if doc.index == nil {
		s.respondNull(env.idRaw)
		return
	}

	res, found := doc.index.FindAt(pp.uri, pp.pos.Line+1, pp.pos.Character+1)
	if !found {
		s.respondNull(env.idRaw)
		return
	}
	rng, found := doc.index.Definition(res.Info.Decl)
	if !found {
		s.respondNull(env.idRaw)
		return
	}

	s.respondResult(env.idRaw, func(b *rpc.Builder) {
		writeLocation(b, pp.uri, rng)
	})
}

func (s *Server) handleReferences(env envelope) {
	pp, includeDecl, err := parseReferenceParams(env.paramsRaw)
	if err != nil {
		s.log.Warn("malformed references params", "error", err)
		s.respondResult(env.idRaw, func(b *rpc.Builder) { b.BeginArray().EndArray() })
		return
	}
	doc, ok := s.getDocument(pp.uri)
	if !ok {
		s.respondResult(env.idRaw, func(b *rpc.Builder) { b.BeginArray().EndArray() })
		return
	}
	doc.takeCompleted()
	if doc.index == nil {
		s.respondResult(env.idRaw, func(b *rpc.Builder) { b.BeginArray().EndArray() })
		return
	}

	res, found := doc.index.FindAt(pp.uri, pp.pos.Line+1, pp.pos.Character+1)
	if !found {
		s.respondResult(env.idRaw, func(b *rpc.Builder) { b.BeginArray().EndArray() })
		return
	}

	ranges := doc.index.References(res.Info.Decl)
	if includeDecl {
		if declRange, ok := doc.index.Definition(res.Info.Decl); ok {
			ranges = append(ranges, declRange)
		}
	}

	s.respondResult(env.idRaw, func(b *rpc.Builder) {
		b.BeginArray()
		for _, rng := range ranges {
			writeLocation(b, pp.uri, rng)
		}
		b.EndArray()
	})
}

func writeLocation(b *rpc.Builder, uri string, rng codeindex.Range) {
	b.BeginObject()
	b.Key("uri").String_(uri)
	b.Key("range").BeginObject()
	b.Key("start").BeginObject().Key("line").Int(rng.LSPLine()).Key("character").Int(rng.LSPColumn()).EndObject()
	b.Key("end").BeginObject().Key("line").Int(rng.LSPLine()).Key("character").Int(rng.LSPEndColumn()).EndObject()
	b.EndObject()
	b.EndObject()
}

func parseReferenceParams(raw []byte) (positionParams, bool, error) {
	pp, err := parsePositionParams(raw)
	if err != nil {
		return pp, false, err
	}
	includeDecl := false
	_ = rpc.ParseObject(raw, func(key string, value []byte) int {
		if key != "context" {
			return -1
		}
		_ = rpc.ParseObject(value, func(k string, v []byte) int {
			if k != "includeDeclaration" {
				return -1
			}
			includeDecl, _ = rpc.DecodeBool(v)
			return 0
		})
		return 0
	})
	return pp, includeDecl, nil
}
