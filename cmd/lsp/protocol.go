package main

import (
	"github.com/nanov/jsasta/internal/rpc"
)

// envelope is the outcome of peeling the JSON-RPC envelope off one incoming
// message (spec.md §4.I: the incremental parser is used for ingestion).
// idRaw is nil for notifications; otherwise it is the raw, still-encoded id
// value (a JSON number or string) so responses can echo it back verbatim
// without picking a Go type for it.
type envelope struct {
	idRaw      []byte
	hasID      bool
	method     string
	paramsRaw  []byte
	hasParams  bool
}

func parseEnvelope(data []byte) (envelope, error) {
	var env envelope
	err := rpc.ParseObject(data, func(key string, value []byte) int {
		switch key {
		case "id":
			env.idRaw = append([]byte(nil), value...)
			env.hasID = !rpc.IsNull(value)
		case "method":
			s, err := rpc.DecodeString(value)
			if err != nil {
				return -2
			}
			env.method = s
		case "params":
			env.paramsRaw = append([]byte(nil), value...)
			env.hasParams = true
		}
		return -1 // skip everything else (jsonrpc version, etc.)
	})
	if err != nil {
		return envelope{}, err
	}
	return env, nil
}

// writeMessage frames and writes payload to the server's locked sink.
func (s *Server) writeMessage(payload []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := rpc.WriteMessage(s.out, payload); err != nil {
		s.log.Error("writing message", "error", err)
	}
}

// respondResult sends a successful response, echoing idRaw verbatim.
func (s *Server) respondResult(idRaw []byte, writeResult func(b *rpc.Builder)) {
	b := rpc.NewBuilder(256)
	b.BeginObject()
	b.Key("jsonrpc").String_("2.0")
	b.Key("id").Raw(idRaw)
	b.Key("result")
	writeResult(b)
	b.EndObject()
	s.writeMessage(b.Bytes())
}

// respondNull sends a successful response whose result is JSON null.
func (s *Server) respondNull(idRaw []byte) {
	s.respondResult(idRaw, func(b *rpc.Builder) { b.Null() })
}

// respondError sends a JSON-RPC error response for code/message
// (spec.md §7: -32601 unknown method, -32603 other failures).
func (s *Server) respondError(idRaw []byte, code int, message string) {
	b := rpc.NewBuilder(128)
	b.BeginObject()
	b.Key("jsonrpc").String_("2.0")
	b.Key("id").Raw(idRaw)
	b.Key("error").BeginObject().Key("code").Int(code).Key("message").String_(message).EndObject()
	b.EndObject()
	s.writeMessage(b.Bytes())
}

// notify sends a server-to-client notification.
func (s *Server) notify(method string, writeParams func(b *rpc.Builder)) {
	b := rpc.NewBuilder(256)
	b.BeginObject()
	b.Key("jsonrpc").String_("2.0")
	b.Key("method").String_(method)
	b.Key("params")
	writeParams(b)
	b.EndObject()
	s.writeMessage(b.Bytes())
}
