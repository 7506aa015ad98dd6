package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"modelgw/internal/engine"
)

// writeResult maps a classified dispatch outcome onto the wire. The three
// result shapes are the only ones the dispatcher produces.
func writeResult(w http.ResponseWriter, r *http.Request, res engine.Result) {
	switch v := res.(type) {
	case engine.ErrorResult:
		// Backend status code reported verbatim.
		writeJSONError(w, v.Code, v.Message)
	case engine.CompleteResult:
		writeJSON(w, v.Response)
	case engine.StreamResult:
		streamEvents(w, r, v.Stream)
	default:
		writeJSONError(w, http.StatusInternalServerError, "unclassified result")
	}
}

// resultStatus derives the HTTP status a result was reported with, for
// request logging.
func resultStatus(res engine.Result) int {
	if er, ok := res.(engine.ErrorResult); ok {
		return er.Code
	}
	return http.StatusOK
}

// marshalChunk encodes one chunk payload. Indirect so tests can fail it.
var marshalChunk = json.Marshal

// streamEvents relays chunks to the caller as server-sent events, one event
// per chunk in the order the engine produced them, flushing each so a slow
// generation is observable as it happens. Nothing is buffered beyond the
// chunk in flight. A mid-stream failure, whether from the engine or from
// encoding, is surfaced as a terminal "error" event and counted; a
// disconnected caller just stops the pull loop.
func streamEvents(w http.ResponseWriter, r *http.Request, s engine.Stream) {
	defer s.Close()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}
	for {
		if r.Context().Err() != nil {
			return
		}
		chunk, err := s.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprint(w, "data: [DONE]\n\n")
				flush()
				return
			}
			// Caller abandoned the stream; the aborted backend read is not
			// a gateway error.
			if r.Context().Err() != nil {
				return
			}
			writeStreamError(w, flush, err)
			return
		}
		payload, merr := marshalChunk(chunk)
		if merr != nil {
			// An unencodable chunk would silently truncate the sequence;
			// fail the stream instead.
			writeStreamError(w, flush, merr)
			return
		}
		if _, werr := fmt.Fprintf(w, "data: %s\n\n", payload); werr != nil {
			return
		}
		flush()
	}
}

// writeStreamError emits the terminal error event of a failed stream and
// counts it.
func writeStreamError(w io.Writer, flush func(), err error) {
	if zlog != nil {
		zlog.Error().Err(err).Msg("stream failed mid-generation")
	}
	if sink != nil {
		sink.IncErrors()
	}
	payload, _ := json.Marshal(map[string]any{
		"error": err.Error(),
		"code":  http.StatusInternalServerError,
	})
	fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
	flush()
}
