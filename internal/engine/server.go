package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"modelgw/pkg/types"
)

// ServerConfig holds the parameters to reach one OpenAI-compatible backend
// process serving a single model.
type ServerConfig struct {
	Name           string
	BaseURL        string
	APIKey         string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	// TensorParallelSize the backend was launched with; recorded in the
	// engine metadata, not enforced here.
	TensorParallelSize int
}

const (
	defaultConnectTimeout = 5 * time.Second
)

// Server is an Engine backed by an OpenAI-compatible HTTP server (vLLM,
// llama.cpp server, and friends). One Server talks to one backend process
// serving one model.
type Server struct {
	name           string
	baseURL        string
	apiKey         string
	reqTimeout     time.Duration
	tensorParallel int
	httpClient     *http.Client
}

// NewServer constructs a server-backed engine and probes it once so that a
// dead backend fails construction rather than the first request.
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("engine %q: empty base url", cfg.Name)
	}
	connect := cfg.ConnectTimeout
	if connect <= 0 {
		connect = defaultConnectTimeout
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connect,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout stays 0 on the client: generations are long-running and
	// deadlines are carried by the request context instead.
	s := &Server{
		name:           cfg.Name,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		reqTimeout:     cfg.RequestTimeout,
		tensorParallel: cfg.TensorParallelSize,
		httpClient:     &http.Client{Transport: tr, Timeout: 0},
	}
	probeCtx, cancel := context.WithTimeout(ctx, connect)
	defer cancel()
	if _, err := s.Describe(probeCtx); err != nil {
		return nil, fmt.Errorf("engine %q: probe failed: %w", cfg.Name, err)
	}
	return s, nil
}

// modelList mirrors the subset of GET /v1/models we consume.
type modelList struct {
	Data []struct {
		ID          string `json:"id"`
		MaxModelLen int    `json:"max_model_len"`
	} `json:"data"`
}

// Describe fetches the backend's model listing and reports the served model.
func (s *Server) Describe(ctx context.Context) (types.ModelConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", nil)
	if err != nil {
		return types.ModelConfig{}, err
	}
	s.authorize(req)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return types.ModelConfig{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.ModelConfig{}, fmt.Errorf("models listing: %s", resp.Status)
	}
	var list modelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return types.ModelConfig{}, fmt.Errorf("models listing: %w", err)
	}
	if len(list.Data) == 0 {
		return types.ModelConfig{}, errors.New("models listing: backend serves no models")
	}
	return types.ModelConfig{
		ServedName:         list.Data[0].ID,
		MaxModelLen:        list.Data[0].MaxModelLen,
		TensorParallelSize: s.tensorParallel,
	}, nil
}

// backendError covers the two error document shapes OpenAI-compatible
// servers emit: a bare object or one nested under "error".
type backendError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Err     *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Generate runs one completion against the backend. Structured backend
// failures come back as an ErrorResult carrying the backend's own status
// code and message.
func (s *Server) Generate(ctx context.Context, req types.ChatRequest) (Result, error) {
	if s.reqTimeout > 0 && !req.Stream {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.reqTimeout)
		defer cancel()
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	s.authorize(httpReq)
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return parseErrorResult(resp), nil
	}
	if req.Stream {
		return StreamResult{Stream: newSSEStream(resp.Body)}, nil
	}
	defer resp.Body.Close()
	var doc types.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	return CompleteResult{Response: doc}, nil
}

// Close releases idle connections held by the engine's HTTP client.
func (s *Server) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *Server) authorize(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
}

// parseErrorResult turns a non-2xx backend response into an ErrorResult,
// preferring the code and message embedded in the body over the HTTP status.
func parseErrorResult(resp *http.Response) ErrorResult {
	out := ErrorResult{Code: resp.StatusCode, Message: resp.Status}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var be backendError
	if err := json.Unmarshal(raw, &be); err != nil {
		if len(bytes.TrimSpace(raw)) > 0 {
			out.Message = string(bytes.TrimSpace(raw))
		}
		return out
	}
	msg, code := be.Message, be.Code
	if be.Err != nil {
		msg, code = be.Err.Message, be.Err.Code
	}
	if msg != "" {
		out.Message = msg
	}
	if code != 0 {
		out.Code = code
	}
	return out
}

// sseStream adapts a server-sent-events response body into a Stream. Chunks
// are decoded one "data:" line at a time; nothing is buffered beyond the
// line being parsed.
type sseStream struct {
	body io.ReadCloser
	r    *bufio.Reader
	done bool
}

func newSSEStream(body io.ReadCloser) *sseStream {
	return &sseStream{body: body, r: bufio.NewReader(body)}
}

// Recv returns the next chunk, io.EOF after the terminating "[DONE]" event,
// or the read/parse error that ended the stream early.
func (s *sseStream) Recv() (types.ChatChunk, error) {
	if s.done {
		return types.ChatChunk{}, io.EOF
	}
	for {
		line, err := s.r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSpace(line)
			switch {
			case line == "" || strings.HasPrefix(line, ":"):
				// heartbeat / comment
			case strings.HasPrefix(strings.ToLower(line), "data:"):
				data := strings.TrimSpace(line[len("data:"):])
				if data == "[DONE]" {
					s.done = true
					return types.ChatChunk{}, io.EOF
				}
				var chunk types.ChatChunk
				if perr := json.Unmarshal([]byte(data), &chunk); perr != nil {
					s.done = true
					return types.ChatChunk{}, fmt.Errorf("decode stream chunk: %w", perr)
				}
				return chunk, nil
			}
		}
		if err != nil {
			s.done = true
			if errors.Is(err, io.EOF) {
				return types.ChatChunk{}, io.EOF
			}
			return types.ChatChunk{}, err
		}
	}
}

func (s *sseStream) Close() error {
	s.done = true
	return s.body.Close()
}
